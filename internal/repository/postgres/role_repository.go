package postgres

import (
	"context"
	"errors"

	"shopBackend/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	*Repository[domain.Role]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		Repository: NewRepository[domain.Role](db),
	}
}

// EnsureRole returns the role with the given name, creating it first when
// it does not exist. Safe to call concurrently: the unique index on name
// decides the winner and everyone reads back the same row.
func (r *RoleRepository) EnsureRole(ctx context.Context, name string) (domain.Role, error) {
	role, err := r.Get(ctx, domain.Filter{"name": name})
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Role{}, err
	}

	role = domain.Role{
		ID:   uuid.New(),
		Name: name,
	}

	err = r.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&role).Error
	if err != nil {
		return domain.Role{}, translate(err)
	}

	return r.Get(ctx, domain.Filter{"name": name})
}
