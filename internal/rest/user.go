package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shopBackend/domain"
	"shopBackend/internal/middleware"
	"shopBackend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, user *domain.User, password string) (bool, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, identity domain.Identity) error
	GetUserFromIdentity(ctx context.Context, identity domain.Identity) (domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User, profile domain.UserProfile) (bool, error)
	GetAllCreditCardsForUser(ctx context.Context, user *domain.User) ([]domain.CreditCardDetail, error)
	AddCreditCard(ctx context.Context, user *domain.User, form *domain.CreditCardForm) (bool, error)
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
	Password    string `json:"password" validate:"required,min=6"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type EditProfileRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
}

type CreditCardRequest struct {
	CardholderName string `json:"cardholder_name" validate:"required"`
	CardNumber     string `json:"card_number" validate:"required,credit_card"`
	ExpiryMonth    int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear     int    `json:"expiry_year" validate:"required,min=2000"`
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// currentUser resolves the caller set by the auth middleware.
func (h *UserHandler) currentUser(ctx context.Context, c echo.Context) (domain.User, error) {
	return resolveUser(ctx, c, h.userService)
}

type identityResolver interface {
	GetUserFromIdentity(ctx context.Context, identity domain.Identity) (domain.User, error)
}

func resolveUser(ctx context.Context, c echo.Context, users identityResolver) (domain.User, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.User{}, domain.ErrInvalidToken
	}
	return users.GetUserFromIdentity(ctx, identity)
}

func (h *UserHandler) Register(c echo.Context) error {
	var reqUser UserRegisterRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Warn("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Registration failed"})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Warn("Failed to validate user register", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user := &domain.User{
		Name:        reqUser.Name,
		Email:       reqUser.Email,
		PhoneNumber: reqUser.PhoneNumber,
	}
	ok, err := h.userService.Register(ctx, user, reqUser.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return err
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Registration failed"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Registration successful",
		"user":    user,
	})
}

func (h *UserHandler) Login(c echo.Context) error {
	var reqUser UserLoginRequest

	if err := c.Bind(&reqUser); err != nil {
		logger.Warn("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&reqUser); err != nil {
		logger.Warn("Failed to validate user login", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, err := h.userService.Login(ctx, reqUser.Email, reqUser.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ResponseError{Message: "Invalid email or password"})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
	})
}

// Logout revokes the token the request was authenticated with
func (h *UserHandler) Logout(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.Logout(ctx, identity); err != nil {
		logger.Error("Failed to logout user", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

func (h *UserHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "User retrieved successfully",
		"user":    user,
	})
}

func (h *UserHandler) EditProfile(c echo.Context) error {
	var req EditProfileRequest

	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate profile update", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}

	ok, err := h.userService.UpdateProfile(ctx, &user, domain.UserProfile{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "Email already in use"})
		}
		return err
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Couldnt update profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
	})
}

func (h *UserHandler) ListCreditCards(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}

	cards, err := h.userService.GetAllCreditCardsForUser(ctx, &user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Credit cards retrieved successfully",
		"credit_cards": cards,
	})
}

func (h *UserHandler) AddCreditCard(c echo.Context) error {
	var req CreditCardRequest

	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Invalid credit card data"})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate credit card", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Invalid credit card data"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}

	ok, err := h.userService.AddCreditCard(ctx, &user, &domain.CreditCardForm{
		CardholderName: req.CardholderName,
		CardNumber:     req.CardNumber,
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return err
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Failed to add credit card"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Credit card added",
	})
}
