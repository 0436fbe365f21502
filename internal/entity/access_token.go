package entity

import (
	"time"

	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenKindWeb   TokenKind = "web"
	TokenKindApp   TokenKind = "app"
	TokenKindAdmin TokenKind = "admin"
)

// AccessToken holds the single active credential per user. The unique index
// on UserID makes issuing a new token overwrite the previous one, which
// implicitly revokes it. Kind discriminates how Token is verified: web and
// app tokens are opaque strings matched by value, admin tokens store the
// ciphertext of an encrypted payload and are never matched as bearers.
type AccessToken struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Kind  TokenKind `gorm:"type:varchar(10);not null"`
	Token string    `gorm:"type:text;not null;index"`

	DeviceToken *string `gorm:"type:text"`
	DeviceType  *string `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
