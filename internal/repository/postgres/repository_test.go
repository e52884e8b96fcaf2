package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shopBackend/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), domain.ErrConflict)
	assert.ErrorIs(t, translate(fmt.Errorf("insert user: %w", gorm.ErrDuplicatedKey)), domain.ErrConflict)
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), domain.ErrNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}

func TestConnFromContextPrefersTransaction(t *testing.T) {
	base := &gorm.DB{Config: &gorm.Config{}}
	tx := &gorm.DB{Config: &gorm.Config{}}

	ctx := context.WithValue(context.Background(), txKey{}, tx)
	assert.Same(t, tx, connFromContext(ctx, base))
}

func TestRepositoryHonoursCancelledContext(t *testing.T) {
	repo := NewRepository[domain.User](nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, domain.Filter{"email": "ada@shop.test"})
	assert.ErrorIs(t, err, context.Canceled)

	err = repo.Add(ctx, &domain.User{})
	assert.ErrorIs(t, err, context.Canceled)

	ok, err := repo.Any(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
