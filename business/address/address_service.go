package address

import (
	"context"
	"fmt"

	"shopBackend/domain"
	"shopBackend/pkg/logger"

	"github.com/google/uuid"
)

// AddressRepository contract interface
type AddressRepository interface {
	Add(ctx context.Context, address *domain.Address) error
}

// UserAddressRepository contract interface
type UserAddressRepository interface {
	Add(ctx context.Context, link *domain.UserAddress) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type addressService struct {
	addressRepo     AddressRepository
	userAddressRepo UserAddressRepository
	tx              Transactor
}

func NewAddressService(addressRepo AddressRepository, userAddressRepo UserAddressRepository, tx Transactor) *addressService {
	return &addressService{
		addressRepo:     addressRepo,
		userAddressRepo: userAddressRepo,
		tx:              tx,
	}
}

// RegisterAddress creates an address and links it to the user.
func (s *addressService) RegisterAddress(ctx context.Context, user *domain.User, form *domain.AddressForm) (bool, error) {
	if user == nil || form == nil {
		return false, nil
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when registering address")
		return false, fmt.Errorf("context error: %w", err)
	}

	address := domain.Address{
		ID:         uuid.New(),
		Title:      form.Title,
		StreetName: form.StreetName,
		PostalCode: form.PostalCode,
		City:       form.City,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.addressRepo.Add(ctx, &address); err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}

		return s.userAddressRepo.Add(ctx, &domain.UserAddress{
			UserID:    user.ID,
			AddressID: address.ID,
		})
	})
	if err != nil {
		logger.Error("Failed to register address", "error", err)
		return false, err
	}

	logger.Info("address registered", "user_id", user.ID, "address_id", address.ID)

	return true, nil
}
