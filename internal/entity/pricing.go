package entity

import (
	"time"

	"github.com/google/uuid"
)

type PricingType string

const (
	PricingTypePercentage PricingType = "percentage"
	PricingTypeFixed      PricingType = "fixed"
)

// PricingRule is the validity-and-adjustment shape shared by product
// discounts and order coupons. Monetary columns are decimal(10,2); the
// percentage Value is interpreted on a 0-100 scale.
type PricingRule struct {
	Type  PricingType `gorm:"type:varchar(12);not null"`
	Value float64     `gorm:"type:decimal(10,2);not null"`

	MinPurchaseAmount *float64 `gorm:"type:decimal(10,2)"`
	MaxDiscountAmount *float64 `gorm:"type:decimal(10,2)"`

	StartDate *time.Time
	EndDate   *time.Time

	UsageLimit *int
	UsageCount int `gorm:"default:0;not null"`

	IsActive bool `gorm:"default:true;not null"`
}

// Discount is product-scoped and applied automatically during pricing.
type Discount struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Product   Product   `gorm:"constraint:OnDelete:CASCADE"`

	Name string      `gorm:"type:varchar(150);not null"`
	Rule PricingRule `gorm:"embedded"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CouponCode is order-scoped and applied by entering a code at checkout.
// UsageLimitPerUser is persisted for the admin UI but not enforced: no
// per-user redemption ledger exists.
type CouponCode struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code string    `gorm:"type:varchar(64);uniqueIndex;not null"`

	Rule              PricingRule `gorm:"embedded"`
	UsageLimitPerUser *int

	CreatedAt time.Time
	UpdatedAt time.Time
}
