package user

import (
	"context"
	"fmt"
	"time"

	"shopBackend/domain"
	"shopBackend/pkg/logger"
	"shopBackend/pkg/utils"

	"github.com/google/uuid"
)

func (s *userService) GetAllCreditCardsForUser(ctx context.Context, user *domain.User) ([]domain.CreditCardDetail, error) {
	details := make([]domain.CreditCardDetail, 0)
	if user == nil {
		return details, nil
	}

	cards, err := s.creditCards.GetAll(ctx, domain.Filter{"user_id": user.ID})
	if err != nil {
		logger.Error("Failed to list credit cards", "error", err)
		return nil, err
	}

	for _, card := range cards {
		details = append(details, domain.CreditCardDetail{
			ID:             card.ID,
			CardholderName: card.CardholderName,
			MaskedNumber:   utils.MaskCardNumber(card.Last4),
			ExpiryMonth:    card.ExpiryMonth,
			ExpiryYear:     card.ExpiryYear,
		})
	}

	return details, nil
}

// AddCreditCard stores a card for the user. Only the last four digits are
// kept in clear text.
func (s *userService) AddCreditCard(ctx context.Context, user *domain.User, form *domain.CreditCardForm) (bool, error) {
	if user == nil || form == nil {
		return false, nil
	}

	now := time.Now()
	if form.ExpiryYear < now.Year() || (form.ExpiryYear == now.Year() && form.ExpiryMonth < int(now.Month())) {
		return false, fmt.Errorf("%w: card has expired", domain.ErrInvalidInput)
	}

	encrypted, err := s.cipher.Encrypt(form.CardNumber)
	if err != nil {
		logger.Error("Failed to encrypt card number", "error", err)
		return false, fmt.Errorf("failed to encrypt card number: %w", err)
	}

	card := domain.CreditCard{
		ID:                  uuid.New(),
		UserID:              user.ID,
		CardholderName:      form.CardholderName,
		EncryptedCardNumber: encrypted,
		Last4:               utils.LastFour(form.CardNumber),
		ExpiryMonth:         form.ExpiryMonth,
		ExpiryYear:          form.ExpiryYear,
	}
	if err := s.creditCards.Add(ctx, &card); err != nil {
		logger.Error("Failed to store credit card", "error", err)
		return false, err
	}

	return true, nil
}
