package entity

import (
	"time"

	"github.com/google/uuid"
)

type DeviceType string

const (
	DeviceTypeWeb    DeviceType = "web"
	DeviceTypeMobile DeviceType = "mobile"
	DeviceTypeTablet DeviceType = "tablet"
)

// Session correlates a browser or app instance across requests. The session
// identifier is part of the wire protocol (X-Session-ID header, session_id
// cookie), so the primary key is the opaque string itself rather than a uuid.
// UserID toggles between nil and a user id across login/logout; the row, and
// with it the guest cart, survives that transition.
type Session struct {
	SessionID string     `gorm:"type:varchar(64);primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	User      *User      `gorm:"constraint:OnDelete:SET NULL"`

	DeviceType DeviceType `gorm:"type:varchar(10);default:'web';not null"`
	UserAgent  *string    `gorm:"type:text"`
	IPAddress  *string    `gorm:"type:varchar(45)"`

	LastActivity time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
}

func (s *Session) IsGuest() bool {
	return s.UserID == nil
}
