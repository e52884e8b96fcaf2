package postgres

import (
	"shopBackend/domain"

	"gorm.io/gorm"
)

type AddressRepository struct {
	*Repository[domain.Address]
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{
		Repository: NewRepository[domain.Address](db),
	}
}

type UserAddressRepository struct {
	*Repository[domain.UserAddress]
}

func NewUserAddressRepository(db *gorm.DB) *UserAddressRepository {
	return &UserAddressRepository{
		Repository: NewRepository[domain.UserAddress](db),
	}
}
