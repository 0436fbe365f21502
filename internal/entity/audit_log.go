package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditLoginSuccess     AuditAction = "login_success"
	AuditLoginFailed      AuditAction = "login_failed"
	AuditLogout           AuditAction = "logout"
	AuditAdminLogin       AuditAction = "admin_login"
	AuditAdminLoginFailed AuditAction = "admin_login_failed"
	AuditPasswordReset    AuditAction = "password_reset"
	AuditCouponRedeemed   AuditAction = "coupon_redeemed"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	UserID *uuid.UUID `gorm:"type:uuid;index"`
	User   *User      `gorm:"constraint:OnDelete:SET NULL"`

	SessionID *string     `gorm:"type:varchar(64)"`
	IPAddress *string     `gorm:"type:varchar(45)"`
	Action    AuditAction `gorm:"type:varchar(40);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
