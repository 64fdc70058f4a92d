package models

import (
	"time"

	"github.com/google/uuid"
)

type Estimate struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	EstimateNumber string    `gorm:"uniqueIndex;not null"`
	CustomerID     uuid.UUID `gorm:"type:uuid;index;not null"`
	EstimateDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	ExpiryDate     *time.Time
	Currency       string `gorm:"type:varchar(3);default:'USD'"`

	Subtotal float64 `gorm:"type:decimal(12,2);not null"`
	Discount float64 `gorm:"type:decimal(12,2);default:0.0"`
	Tax      float64 `gorm:"type:decimal(5,2);default:0.0"` // percent
	Total    float64 `gorm:"type:decimal(12,2);not null"`

	Status             string     `gorm:"type:varchar(20);default:'draft'"` // draft, sent, accepted, declined, converted
	ConvertedInvoiceID *uuid.UUID `gorm:"type:uuid"`
	Notes              string

	Items []EstimateItem `gorm:"foreignKey:EstimateID"`
}

type EstimateItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	EstimateID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Description string    `gorm:"not null"`
	Quantity    float64   `gorm:"type:decimal(10,2);default:1.0"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null"`
	TotalPrice  float64   `gorm:"type:decimal(12,2);not null"`
}
