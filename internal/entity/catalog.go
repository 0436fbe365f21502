package entity

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	IsActive bool      `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Products []Product
}

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Category   Category  `gorm:"constraint:OnDelete:RESTRICT"`

	Name        string  `gorm:"type:varchar(255);not null"`
	Description *string `gorm:"type:text"`
	Price       float64 `gorm:"type:decimal(10,2);not null"`
	IsActive    bool    `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
