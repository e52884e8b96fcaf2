package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopBackend/domain"

	"gorm.io/gorm"
)

// Repository is the shared data access for one entity type. Every query
// runs on the transaction stored in ctx when there is one.
type Repository[T any] struct {
	DB *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{
		DB: db,
	}
}

func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return connFromContext(ctx, r.DB)
}

func (r *Repository[T]) scoped(ctx context.Context, filter domain.Filter) *gorm.DB {
	q := r.conn(ctx).Model(new(T))
	if len(filter) > 0 {
		q = q.Where(map[string]interface{}(filter))
	}
	return q
}

func (r *Repository[T]) Get(ctx context.Context, filter domain.Filter) (T, error) {
	var entity T

	if err := ctx.Err(); err != nil {
		return entity, fmt.Errorf("context error: %w", err)
	}

	err := r.scoped(ctx, filter).Order("created_at ASC").First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity, domain.ErrNotFound
		}
		return entity, translate(err)
	}

	return entity, nil
}

// GetAll returns the matching rows in insertion order.
func (r *Repository[T]) GetAll(ctx context.Context, filter domain.Filter) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entities []T
	if err := r.scoped(ctx, filter).Order("created_at ASC").Find(&entities).Error; err != nil {
		return nil, translate(err)
	}

	return entities, nil
}

func (r *Repository[T]) Any(ctx context.Context, filter domain.Filter) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := r.scoped(ctx, filter).Count(&count).Error; err != nil {
		return false, translate(err)
	}

	return count > 0, nil
}

func (r *Repository[T]) Add(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.conn(ctx).Create(entity).Error; err != nil {
		return translate(err)
	}

	return nil
}

func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.conn(ctx).Save(entity).Error; err != nil {
		return translate(err)
	}

	return nil
}

func (r *Repository[T]) RemoveRange(ctx context.Context, entities []T) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(entities) == 0 {
		return nil
	}

	if err := r.conn(ctx).Delete(&entities).Error; err != nil {
		return translate(err)
	}

	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	default:
		return err
	}
}
