package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopBackend/domain"
	"shopBackend/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetProductsByTag(ctx context.Context, tag string, take int) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProductRequest struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Price       float64        `json:"price" validate:"gte=0"`
	Tags        []string       `json:"tags" validate:"dive,required"`
	Attributes  map[string]any `json:"attributes"`
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetAllProducts(ctx)
	if err != nil {
		logger.Error("Failed to find all products", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product id"})
		}
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

// GetProductsByTag serves /products/tag/:tag?take=N
func (h *ProductHandler) GetProductsByTag(c echo.Context) error {
	take := 0
	if raw := c.QueryParam("take"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "take must be a non-negative integer"})
		}
		take = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.GetProductsByTag(ctx, c.Param("tag"), take)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate product request", "error", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newProduct, err := h.productService.CreateProduct(ctx, &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Tags:        req.Tags,
		Attributes:  req.Attributes,
	})
	if err != nil {
		logger.Error("Failed to create product", "error", err)
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(newProduct))
}
