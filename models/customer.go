package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name         string `gorm:"not null;uniqueIndex:idx_user_customer_name,priority:2"`
	Email        string
	Phone        string
	Address      string
	Notes        string
	InvoiceCount int     `gorm:"default:0"`
	TotalBilled  float64 `gorm:"type:decimal(12,2);default:0.0"`
	LastInvoiced *time.Time
	IsActive     bool `gorm:"default:true"`

	Invoices  []Invoice  `gorm:"foreignKey:CustomerID"`
	Estimates []Estimate `gorm:"foreignKey:CustomerID"`

	gorm.Model
}
