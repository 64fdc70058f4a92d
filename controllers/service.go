// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/services"
	"invoicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a service template
type CreateServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice" binding:"min=0"`
	Quantity    float64 `json:"quantity" binding:"min=0"`
	Category    string  `json:"category"`
	IsPreferred bool    `json:"isPreferred"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service template
type UpdateServiceInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unitPrice"`
	Quantity    *float64 `json:"quantity"`
	Category    *string  `json:"category"`
	IsPreferred *bool    `json:"isPreferred"`
	IsActive    *bool    `json:"isActive"`
}

// ResolveServiceInput is the free-text lookup for the service matcher
type ResolveServiceInput struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Service     string  `json:"service"`
}

// CreateService creates a new service template for the user
func CreateService(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	// Derive search keywords and category the same way the resolver does for
	// templates it creates itself, so curated templates match voice phrasings.
	category := input.Category
	if category == "" {
		category = services.InferCategory(input.Name + " " + input.Description)
	}

	template := models.ServiceTemplate{
		UserID:      userUUID,
		Name:        input.Name,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		Quantity:    quantity,
		Keywords:    services.DeriveKeywords(input.Name, input.Description),
		Category:    category,
		IsPreferred: input.IsPreferred,
		IsActive:    true,
	}

	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, template)
}

// GetServices retrieves all service templates for the user
func GetServices(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var templates []models.ServiceTemplate
	if err := config.DB.Where("user_id = ?", userUUID).
		Order("is_preferred DESC, usage_count DESC").
		Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetService retrieves a specific service template by ID
func GetService(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	serviceID := c.Param("id")
	serviceUUID, err := uuid.Parse(serviceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var template models.ServiceTemplate
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, serviceUUID).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateService updates an existing service template
func UpdateService(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	serviceID := c.Param("id")
	serviceUUID, err := uuid.Parse(serviceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Retrieve existing template
	var template models.ServiceTemplate
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, serviceUUID).
		First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.Description != nil {
		template.Description = *input.Description
	}
	// Renaming or redescribing changes what the template should match on
	if input.Name != nil || input.Description != nil {
		template.Keywords = services.DeriveKeywords(template.Name, template.Description)
	}
	if input.UnitPrice != nil {
		template.UnitPrice = *input.UnitPrice
	}
	if input.Quantity != nil {
		template.Quantity = *input.Quantity
	}
	if input.Category != nil {
		template.Category = *input.Category
	}
	if input.IsPreferred != nil {
		template.IsPreferred = *input.IsPreferred
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, template)
}

// DeleteService soft deletes a service template
func DeleteService(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	serviceID := c.Param("id")
	serviceUUID, err := uuid.Parse(serviceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, serviceUUID).
		Delete(&models.ServiceTemplate{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// ResolveService runs the service matcher against the user's saved templates.
// A zero-confidence result is a valid response, not an error; the client
// falls back to the raw description and amount.
func ResolveService(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var input ResolveServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	matcher := services.NewServiceMatcher(services.NewTemplateStore(config.DB))
	result := matcher.Resolve(userUUID, services.MatchRequest{
		Description: input.Description,
		Amount:      input.Amount,
		Service:     input.Service,
	})

	c.JSON(http.StatusOK, result)
}
