package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PhoneNumber  string    `gorm:"column:phone_number" json:"phone_number"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	RoleID       uuid.UUID `gorm:"type:uuid;column:role_id;index" json:"role_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile is the editable part of a user record.
type UserProfile struct {
	Name        string
	Email       string
	PhoneNumber string
}
