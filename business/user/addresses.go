package user

import (
	"context"
	"errors"
	"fmt"

	"shopBackend/domain"
	"shopBackend/pkg/logger"

	"github.com/google/uuid"
)

// GetAllAddressesForUser lists the user's addresses in link order.
func (s *userService) GetAllAddressesForUser(ctx context.Context, user *domain.User) ([]domain.AddressDetail, error) {
	details := make([]domain.AddressDetail, 0)
	if user == nil {
		return details, nil
	}

	links, err := s.userAddresses.GetAll(ctx, domain.Filter{"user_id": user.ID})
	if err != nil {
		logger.Error("Failed to list user addresses", "error", err)
		return nil, err
	}

	for _, link := range links {
		address, err := s.addresses.Get(ctx, domain.Filter{"id": link.AddressID})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Dangling user address link", "user_id", user.ID, "address_id", link.AddressID)
				continue
			}
			return nil, err
		}
		details = append(details, domain.NewAddressDetail(address))
	}

	return details, nil
}

// UpdateUserAddress replaces an address instead of editing it: the old link
// is removed and a fresh address with a new id is linked in its place. It
// reports false when the user has no link to addressID.
func (s *userService) UpdateUserAddress(ctx context.Context, user *domain.User, addressID uuid.UUID, form *domain.AddressForm) (bool, error) {
	if user == nil || form == nil {
		return false, nil
	}

	replaced := false
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		links, err := s.userAddresses.GetAll(ctx, domain.Filter{"user_id": user.ID, "address_id": addressID})
		if err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}

		if err := s.userAddresses.RemoveRange(ctx, links); err != nil {
			return fmt.Errorf("failed to remove address link: %w", err)
		}

		address := domain.Address{
			ID:         uuid.New(),
			Title:      form.Title,
			StreetName: form.StreetName,
			PostalCode: form.PostalCode,
			City:       form.City,
		}
		if err := s.addresses.Add(ctx, &address); err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}

		link := domain.UserAddress{
			UserID:    user.ID,
			AddressID: address.ID,
		}
		if err := s.userAddresses.Add(ctx, &link); err != nil {
			return fmt.Errorf("failed to link address: %w", err)
		}

		replaced = true
		return nil
	})
	if err != nil {
		logger.Error("Failed to replace user address", "error", err)
		return false, err
	}

	if !replaced {
		logger.Warn("No address link to replace", "user_id", user.ID, "address_id", addressID)
	}

	return replaced, nil
}
