package entity

import (
	"time"

	"github.com/google/uuid"
)

type VerificationType string

const (
	PasswordReset VerificationType = "password_reset"
)

// VerificationToken stores one-time tokens that leave the system via email.
// Unlike bearer tokens these are kept hashed at rest.
type VerificationToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string           `gorm:"type:text;not null;index"`
	Type      VerificationType `gorm:"type:varchar(30);not null"`

	ExpiresAt time.Time
	UsedAt    *time.Time

	CreatedAt time.Time
}
