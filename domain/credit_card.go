package domain

import (
	"time"

	"github.com/google/uuid"
)

type CreditCard struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;column:user_id;index;not null" json:"user_id"`
	CardholderName      string    `gorm:"column:cardholder_name;not null" json:"cardholder_name"`
	EncryptedCardNumber string    `gorm:"column:encrypted_card_number;not null" json:"-"`
	Last4               string    `gorm:"column:last4;size:4" json:"last4"`
	ExpiryMonth         int       `gorm:"column:expiry_month" json:"expiry_month"`
	ExpiryYear          int       `gorm:"column:expiry_year" json:"expiry_year"`
	CreatedAt           time.Time `json:"created_at"`
}

func (CreditCard) TableName() string {
	return "credit_cards"
}

type CreditCardForm struct {
	CardholderName string
	CardNumber     string
	ExpiryMonth    int
	ExpiryYear     int
}

type CreditCardDetail struct {
	ID             uuid.UUID `json:"id"`
	CardholderName string    `json:"cardholder_name"`
	MaskedNumber   string    `json:"masked_number"`
	ExpiryMonth    int       `json:"expiry_month"`
	ExpiryYear     int       `json:"expiry_year"`
}
