// models/email_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	InvoiceID    *uuid.UUID `gorm:"type:uuid;index"`
	Type         string     `gorm:"type:varchar(20)"` // invoice, reminder
	Recipient    string     `gorm:"not null"`
	Subject      string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string     `gorm:"type:text"`
	Channel      string     `gorm:"type:varchar(20)"` // email, sms
	SentAt       time.Time
	gorm.Model
}

func (e *EmailLog) BeforeCreate(tx *gorm.DB) (err error) {
	e.ID = uuid.New()
	return
}
