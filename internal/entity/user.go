package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"type:varchar(100)"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:text"`
	Role         UserRole  `gorm:"type:varchar(20);default:'customer';not null"`

	// Admin verification requires both IsRegistered and the admin role.
	IsRegistered bool `gorm:"default:true"`
	IsActive     bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Sessions  []Session `gorm:"foreignKey:UserID"`
	MFASecret *MFASecret
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
