// services/template_store.go
package services

import (
	"time"

	"invoicepro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTemplateStore is the database-backed TemplateStore.
type gormTemplateStore struct {
	db *gorm.DB
}

func NewTemplateStore(db *gorm.DB) TemplateStore {
	return &gormTemplateStore{db: db}
}

func (s *gormTemplateStore) ListByUser(userID uuid.UUID) ([]models.ServiceTemplate, error) {
	var templates []models.ServiceTemplate
	err := s.db.
		Where("user_id = ? AND is_active = true", userID).
		Order("is_preferred DESC, usage_count DESC, created_at ASC").
		Find(&templates).Error
	return templates, err
}

func (s *gormTemplateStore) IncrementUsage(templateID uuid.UUID) error {
	return s.db.Model(&models.ServiceTemplate{}).
		Where("id = ?", templateID).
		Updates(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + ?", 1),
			"updated_at":  time.Now(),
		}).Error
}

func (s *gormTemplateStore) Create(template *models.ServiceTemplate) error {
	return s.db.Create(template).Error
}
