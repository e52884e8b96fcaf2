package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}
