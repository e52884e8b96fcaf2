package domain

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"column:title" json:"title"`
	StreetName string    `gorm:"column:street_name;not null" json:"street_name"`
	PostalCode string    `gorm:"column:postal_code;not null" json:"postal_code"`
	City       string    `gorm:"column:city;not null" json:"city"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Address) TableName() string {
	return "addresses"
}

// UserAddress links a user to an address. The pair is the whole identity.
type UserAddress struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	AddressID uuid.UUID `gorm:"type:uuid;primaryKey;column:address_id" json:"address_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserAddress) TableName() string {
	return "user_addresses"
}

// AddressForm carries the user supplied address fields.
type AddressForm struct {
	Title      string
	StreetName string
	PostalCode string
	City       string
}

type AddressDetail struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	StreetName string    `json:"street_name"`
	PostalCode string    `json:"postal_code"`
	City       string    `json:"city"`
}

func NewAddressDetail(a Address) AddressDetail {
	return AddressDetail{
		ID:         a.ID,
		Title:      a.Title,
		StreetName: a.StreetName,
		PostalCode: a.PostalCode,
		City:       a.City,
	}
}
