package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"invoicepro-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"`
	Name     string    `gorm:"not null"`
	Phone    string

	BusinessName    string `gorm:"not null"`
	BusinessAddress string
	DefaultCurrency string  `gorm:"type:varchar(3);default:'USD'"`
	TaxRate         float64 `gorm:"type:decimal(5,2);default:0.0"`
	InvoicePrefix   string  `gorm:"type:varchar(10);default:'INV'"`

	InvoiceDefaults    JSONB `gorm:"type:jsonb;default:'{}'"` // notes, payment terms, footer
	EmailNotifications bool  `gorm:"default:true"`
	SMSNotifications   bool  `gorm:"default:false"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	Customers        []Customer        `gorm:"foreignKey:UserID"`
	ServiceTemplates []ServiceTemplate `gorm:"foreignKey:UserID"`
	Invoices         []Invoice         `gorm:"foreignKey:UserID"`
	Estimates        []Estimate        `gorm:"foreignKey:UserID"`

	gorm.Model
}

// Initialize UUID before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = uuid.New()
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// Custom JSONB type for invoice defaults
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
