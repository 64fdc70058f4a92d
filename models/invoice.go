package models

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	InvoiceDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	DueDate       *time.Time
	PONumber      string
	Currency      string `gorm:"type:varchar(3);default:'USD'"`

	Subtotal float64 `gorm:"type:decimal(12,2);not null"`
	Discount float64 `gorm:"type:decimal(12,2);default:0.0"`
	Tax      float64 `gorm:"type:decimal(5,2);default:0.0"` // percent
	Total    float64 `gorm:"type:decimal(12,2);not null"`

	PaymentStatus string  `gorm:"type:varchar(20);default:'unpaid'"` // paid, unpaid, partial
	PaidAmount    float64 `gorm:"type:decimal(12,2);default:0.0"`
	PaymentMethod string
	Notes         string
	SentAt        *time.Time

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

type InvoiceItem struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	ServiceTemplateID *uuid.UUID `gorm:"type:uuid;index"` // nil when the resolver could not match
	Description       string     `gorm:"not null"`
	Quantity          float64    `gorm:"type:decimal(10,2);default:1.0"`
	UnitPrice         float64    `gorm:"type:decimal(10,2);not null"`
	TotalPrice        float64    `gorm:"type:decimal(12,2);not null"`
}
