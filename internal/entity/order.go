package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartItem belongs to a session, not a user, so guest carts survive both
// login and logout as long as the session row does.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_session_product"`
	Session   Session   `gorm:"constraint:OnDelete:CASCADE"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_session_product"`
	Product   Product   `gorm:"constraint:OnDelete:CASCADE"`

	Quantity int `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderStatus string

const (
	OrderStatusPlaced OrderStatus = "placed"
)

type Order struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string     `gorm:"type:varchar(64);not null;index"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	User      *User      `gorm:"constraint:OnDelete:SET NULL"`

	CouponCodeID *uuid.UUID  `gorm:"type:uuid"`
	CouponCode   *CouponCode `gorm:"constraint:OnDelete:SET NULL"`

	Subtotal       float64 `gorm:"type:decimal(10,2);not null"`
	DiscountTotal  float64 `gorm:"type:decimal(10,2);not null"`
	CouponDiscount float64 `gorm:"type:decimal(10,2);not null"`
	Total          float64 `gorm:"type:decimal(10,2);not null"`

	Status OrderStatus `gorm:"type:varchar(20);default:'placed';not null"`

	CreatedAt time.Time

	Items []OrderItem
}

// OrderItem snapshots product name and prices at checkout time.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`

	Name           string  `gorm:"type:varchar(255);not null"`
	UnitPrice      float64 `gorm:"type:decimal(10,2);not null"`
	DiscountAmount float64 `gorm:"type:decimal(10,2);not null"`
	FinalUnitPrice float64 `gorm:"type:decimal(10,2);not null"`
	Quantity       int     `gorm:"not null"`

	CreatedAt time.Time
}
