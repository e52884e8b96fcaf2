package postgres

import (
	"shopBackend/domain"

	"gorm.io/gorm"
)

type CreditCardRepository struct {
	*Repository[domain.CreditCard]
}

func NewCreditCardRepository(db *gorm.DB) *CreditCardRepository {
	return &CreditCardRepository{
		Repository: NewRepository[domain.CreditCard](db),
	}
}
