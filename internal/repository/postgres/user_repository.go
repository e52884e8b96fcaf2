package postgres

import (
	"shopBackend/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	*Repository[domain.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		Repository: NewRepository[domain.User](db),
	}
}
