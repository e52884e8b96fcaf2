package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopBackend/domain"
	"shopBackend/pkg/logger"

	"github.com/google/uuid"
)

const defaultTake = 10

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByTag(ctx context.Context, tag string, take int) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}

type productService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *productService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all product", "error", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		logger.Error("invalid product id", "id", id)
		return domain.Product{}, fmt.Errorf("%w: invalid product id", domain.ErrInvalidInput)
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", "error", err)
		return domain.Product{}, err
	}

	return product, nil
}

// GetProductsByTag returns at most take products carrying tag. A take of
// zero or less falls back to the default page size.
func (s *productService) GetProductsByTag(ctx context.Context, tag string, take int) ([]domain.Product, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil, fmt.Errorf("%w: tag is required", domain.ErrInvalidInput)
	}

	if take <= 0 {
		take = defaultTake
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product by tag")
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindByTag(ctx, tag, take)
	if err != nil {
		logger.Error("failed to find product by tag", "tag", tag, "error", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product == nil {
		return nil, fmt.Errorf("%w: product is required", domain.ErrInvalidInput)
	}

	// Validation
	if strings.TrimSpace(product.Name) == "" {
		logger.Error("Invalid product data: product name is required")
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}

	if product.Price < 0 {
		logger.Error("Invalid product data: price cannot be negative")
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}

	product.ID = uuid.NewString()
	product.Tags = normalizeTags(product.Tags)
	product.CreatedAt = time.Now().UTC()

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", "error", err)
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

// normalizeTags trims, lowercases and de-duplicates tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
