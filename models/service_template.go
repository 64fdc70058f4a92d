package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceTemplate is a reusable line-item definition learned from past invoices.
// Keywords and Category are derived at creation time; UsageCount and UpdatedAt
// advance only when the template wins a match, never on creation.
type ServiceTemplate struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string `gorm:"not null"`
	Description string
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null;default:0.0"`
	Quantity    float64 `gorm:"type:decimal(10,2);default:1.0"`
	Keywords    string  `gorm:"type:text"` // comma-separated search terms
	Category    string  `gorm:"default:'general'"`
	IsPreferred bool    `gorm:"default:false"`
	UsageCount  int     `gorm:"default:0"`
	IsActive    bool    `gorm:"default:true"`

	InvoiceItems []InvoiceItem `gorm:"foreignKey:ServiceTemplateID"`

	gorm.Model
}
