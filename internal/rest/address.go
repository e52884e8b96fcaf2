package rest

import (
	"context"
	"net/http"
	"time"

	"shopBackend/domain"
	"shopBackend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AddressService interface {
	RegisterAddress(ctx context.Context, user *domain.User, form *domain.AddressForm) (bool, error)
}

// UserAddressService is the user side of address management
type UserAddressService interface {
	GetUserFromIdentity(ctx context.Context, identity domain.Identity) (domain.User, error)
	GetAllAddressesForUser(ctx context.Context, user *domain.User) ([]domain.AddressDetail, error)
	UpdateUserAddress(ctx context.Context, user *domain.User, addressID uuid.UUID, form *domain.AddressForm) (bool, error)
}

type AddressHandler struct {
	addressService AddressService
	userService    UserAddressService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewAddressHandler(addressService AddressService, userService UserAddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
		userService:    userService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type AddressRequest struct {
	Title      string `json:"title" validate:"max=100"`
	StreetName string `json:"street_name" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	City       string `json:"city" validate:"required"`
}

func (r AddressRequest) form() *domain.AddressForm {
	return &domain.AddressForm{
		Title:      r.Title,
		StreetName: r.StreetName,
		PostalCode: r.PostalCode,
		City:       r.City,
	}
}

func (h *AddressHandler) RegisterAddress(c echo.Context) error {
	var req AddressRequest

	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Invalid address data"})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate address", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Invalid address data"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := resolveUser(ctx, c, h.userService)
	if err != nil {
		return err
	}

	ok, err := h.addressService.RegisterAddress(ctx, &user, req.form())
	if err != nil {
		logger.Error("Failed to register address", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Failed to register address"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Failed to register address"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Address registered successfully",
	})
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := resolveUser(ctx, c, h.userService)
	if err != nil {
		return err
	}

	addresses, err := h.userService.GetAllAddressesForUser(ctx, &user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Addresses retrieved successfully",
		"addresses": addresses,
	})
}

// UpdateAddress replaces the address with the given id. The response carries
// no id; clients re-list to learn the new one.
func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Invalid address id"})
	}

	var req AddressRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Invalid address data"})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate address", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Invalid address data"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := resolveUser(ctx, c, h.userService)
	if err != nil {
		return err
	}

	ok, err := h.userService.UpdateUserAddress(ctx, &user, addressID, req.form())
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Failed to update address"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Address updated",
	})
}
