// controllers/estimate.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstimateItemInput defines the structure for an estimate line item
type EstimateItemInput struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"min=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"min=0"`
}

// CreateEstimateInput defines the expected JSON structure for creating an estimate
type CreateEstimateInput struct {
	CustomerID   uuid.UUID           `json:"customerId" binding:"required"`
	EstimateDate *time.Time          `json:"estimateDate"`
	ExpiryDate   *time.Time          `json:"expiryDate"`
	Currency     string              `json:"currency"`
	Items        []EstimateItemInput `json:"items" binding:"required,min=1"`
	Discount     float64             `json:"discount" binding:"min=0"`
	Tax          float64             `json:"tax" binding:"min=0"`
	Notes        string              `json:"notes"`
}

// UpdateEstimateInput defines the expected JSON structure for updating an estimate
type UpdateEstimateInput struct {
	EstimateDate *time.Time           `json:"estimateDate"`
	ExpiryDate   *time.Time           `json:"expiryDate"`
	Items        *[]EstimateItemInput `json:"items"`
	Discount     *float64             `json:"discount"`
	Tax          *float64             `json:"tax"`
	Status       *string              `json:"status" binding:"omitempty,oneof=draft sent accepted declined"`
	Notes        *string              `json:"notes"`
}

func buildEstimateItems(inputs []EstimateItemInput) ([]models.EstimateItem, float64) {
	var subtotal float64
	var items []models.EstimateItem

	for _, item := range inputs {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		itemTotal := item.UnitPrice * quantity
		subtotal += itemTotal

		items = append(items, models.EstimateItem{
			ID:          uuid.New(),
			Description: item.Description,
			Quantity:    quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  itemTotal,
		})
	}

	return items, subtotal
}

// CreateEstimate creates a new estimate for the user
func CreateEstimate(c *gin.Context) {
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

	var input CreateEstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate customer exists for this user
	var customer models.Customer
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	items, subtotal := buildEstimateItems(input.Items)
	total := subtotal - input.Discount + (subtotal * input.Tax / 100)

	estimateDate := time.Now()
	if input.EstimateDate != nil {
		estimateDate = *input.EstimateDate
	}

	currency := input.Currency
	if currency == "" {
		currency = user.DefaultCurrency
	}
	if currency == "" {
		currency = "USD"
	}

	estimate := models.Estimate{
		ID:           uuid.New(),
		UserID:       userUUID,
		CustomerID:   input.CustomerID,
		EstimateDate: estimateDate,
		ExpiryDate:   input.ExpiryDate,
		Currency:     currency,
		Subtotal:     subtotal,
		Discount:     input.Discount,
		Tax:          input.Tax,
		Total:        total,
		Status:       "draft",
		Notes:        input.Notes,
		Items:        items,
	}

	estimate.EstimateNumber = "EST-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

	if err := config.DB.Create(&estimate).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create estimate")
		return
	}

	c.JSON(http.StatusCreated, estimate)
}

// GetEstimates retrieves all estimates for the user
func GetEstimates(c *gin.Context) {
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

	var estimates []models.Estimate
	if err := config.DB.Preload("Items").
		Where("user_id = ?", userUUID).
		Find(&estimates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve estimates")
		return
	}

	c.JSON(http.StatusOK, estimates)
}

// GetEstimate retrieves a specific estimate by ID
func GetEstimate(c *gin.Context) {
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

	estimateID := c.Param("id")
	estimateUUID, err := uuid.Parse(estimateID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimate ID format")
		return
	}

	var estimate models.Estimate
	if err := config.DB.Preload("Items").
		Where("user_id = ? AND id = ?", userUUID, estimateUUID).
		First(&estimate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Estimate not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// UpdateEstimate updates an existing estimate
func UpdateEstimate(c *gin.Context) {
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

	estimateID := c.Param("id")
	estimateUUID, err := uuid.Parse(estimateID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimate ID format")
		return
	}

	var input UpdateEstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var estimate models.Estimate
	if err := tx.Preload("Items").
		Where("user_id = ? AND id = ?", userUUID, estimateUUID).
		First(&estimate).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Estimate not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if estimate.Status == "converted" {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Converted estimates cannot be edited")
		return
	}

	if input.EstimateDate != nil {
		estimate.EstimateDate = *input.EstimateDate
	}
	if input.ExpiryDate != nil {
		estimate.ExpiryDate = input.ExpiryDate
	}

	if input.Items != nil {
		if err := tx.Where("estimate_id = ?", estimate.ID).Delete(&models.EstimateItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}

		newItems, subtotal := buildEstimateItems(*input.Items)
		for i := range newItems {
			newItems[i].EstimateID = estimate.ID
		}
		estimate.Items = newItems
		estimate.Subtotal = subtotal
	}

	if input.Discount != nil {
		estimate.Discount = *input.Discount
	}
	if input.Tax != nil {
		estimate.Tax = *input.Tax
	}
	if input.Items != nil || input.Discount != nil || input.Tax != nil {
		estimate.Total = estimate.Subtotal - estimate.Discount + (estimate.Subtotal * estimate.Tax / 100)
	}
	if input.Status != nil {
		estimate.Status = *input.Status
	}
	if input.Notes != nil {
		estimate.Notes = *input.Notes
	}

	if err := tx.Save(&estimate).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update estimate")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, estimate)
}

// DeleteEstimate deletes an estimate
func DeleteEstimate(c *gin.Context) {
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

	estimateID := c.Param("id")
	estimateUUID, err := uuid.Parse(estimateID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimate ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var estimate models.Estimate
	if err := tx.Where("user_id = ? AND id = ?", userUUID, estimateUUID).
		First(&estimate).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Estimate not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("estimate_id = ?", estimate.ID).Delete(&models.EstimateItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete estimate items")
		return
	}

	if err := tx.Delete(&estimate).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete estimate")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Estimate deleted successfully"})
}

// ConvertEstimate turns an accepted estimate into a draft invoice
func ConvertEstimate(c *gin.Context) {
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

	estimateID := c.Param("id")
	estimateUUID, err := uuid.Parse(estimateID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimate ID format")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var estimate models.Estimate
	if err := tx.Preload("Items").
		Where("user_id = ? AND id = ?", userUUID, estimateUUID).
		First(&estimate).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Estimate not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if estimate.Status == "converted" {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Estimate already converted")
		return
	}

	var user models.User
	if err := tx.First(&user, "id = ?", userUUID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var invoiceItems []models.InvoiceItem
	for _, item := range estimate.Items {
		invoiceItems = append(invoiceItems, models.InvoiceItem{
			ID:          uuid.New(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	invoice := models.Invoice{
		ID:            uuid.New(),
		UserID:        userUUID,
		CustomerID:    estimate.CustomerID,
		InvoiceDate:   time.Now(),
		Currency:      estimate.Currency,
		Subtotal:      estimate.Subtotal,
		Discount:      estimate.Discount,
		Tax:           estimate.Tax,
		Total:         estimate.Total,
		PaymentStatus: "unpaid",
		Notes:         estimate.Notes,
		Items:         invoiceItems,
	}

	prefix := user.InvoicePrefix
	if prefix == "" {
		prefix = "INV"
	}
	invoice.InvoiceNumber = prefix + "-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	estimate.Status = "converted"
	estimate.ConvertedInvoiceID = &invoice.ID
	if err := tx.Save(&estimate).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update estimate")
		return
	}

	// Update customer stats
	if err := tx.Model(&models.Customer{}).Where("id = ?", estimate.CustomerID).
		Updates(map[string]interface{}{
			"invoice_count": gorm.Expr("invoice_count + ?", 1),
			"total_billed":  gorm.Expr("total_billed + ?", invoice.Total),
			"last_invoiced": invoice.InvoiceDate,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, invoice)
}
