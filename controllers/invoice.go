// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/services"
	"invoicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceItemInput defines the structure for an invoice line item. Service
// and Description feed the template matcher; an explicit UnitPrice always
// wins over the matched template's price.
type InvoiceItemInput struct {
	Service     string   `json:"service"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity" binding:"min=0"`
	UnitPrice   *float64 `json:"unitPrice"`
}

// CreateInvoiceInput defines the expected JSON structure for creating an invoice
type CreateInvoiceInput struct {
	CustomerID    uuid.UUID          `json:"customerId" binding:"required"`
	InvoiceDate   *time.Time         `json:"invoiceDate"`
	DueDate       *time.Time         `json:"dueDate"`
	PONumber      string             `json:"poNumber"`
	Currency      string             `json:"currency"`
	Items         []InvoiceItemInput `json:"items" binding:"required,min=1"`
	Discount      float64            `json:"discount" binding:"min=0"`
	Tax           float64            `json:"tax" binding:"min=0"`
	PaymentStatus string             `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid partial"`
	PaidAmount    float64            `json:"paidAmount" binding:"min=0"`
	PaymentMethod string             `json:"paymentMethod"`
	Notes         string             `json:"notes"`
}

// UpdateInvoiceInput defines the expected JSON structure for updating an invoice
type UpdateInvoiceInput struct {
	CustomerID    *uuid.UUID          `json:"customerId"`
	InvoiceDate   *time.Time          `json:"invoiceDate"`
	DueDate       *time.Time          `json:"dueDate"`
	PONumber      *string             `json:"poNumber"`
	Items         *[]InvoiceItemInput `json:"items"`
	Discount      *float64            `json:"discount"`
	Tax           *float64            `json:"tax"`
	PaymentStatus *string             `json:"paymentStatus" binding:"omitempty,oneof=paid unpaid partial"`
	PaidAmount    *float64            `json:"paidAmount" binding:"omitempty,min=0"`
	PaymentMethod *string             `json:"paymentMethod"`
	Notes         *string             `json:"notes"`
}

// buildInvoiceItems resolves each line item through the service matcher and
// returns the items plus their subtotal. A zero-confidence match falls back
// to the raw description and price.
func buildInvoiceItems(userUUID uuid.UUID, inputs []InvoiceItemInput) ([]models.InvoiceItem, float64) {
	matcher := services.NewServiceMatcher(services.NewTemplateStore(config.DB))

	var subtotal float64
	var items []models.InvoiceItem

	for _, item := range inputs {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}

		var amount float64
		if item.UnitPrice != nil {
			amount = *item.UnitPrice
		}

		description := item.Description
		if description == "" {
			description = item.Service
		}

		unitPrice := amount
		var templateID *uuid.UUID

		result := matcher.Resolve(userUUID, services.MatchRequest{
			Description: item.Description,
			Amount:      amount,
			Service:     item.Service,
		})
		if result.Template != nil {
			id := result.Template.ID
			templateID = &id
			if item.UnitPrice == nil {
				unitPrice = result.Template.UnitPrice
			}
			if description == "" {
				description = result.Template.Name
			}
		}

		itemTotal := unitPrice * quantity
		subtotal += itemTotal

		items = append(items, models.InvoiceItem{
			ID:                uuid.New(),
			ServiceTemplateID: templateID,
			Description:       description,
			Quantity:          quantity,
			UnitPrice:         unitPrice,
			TotalPrice:        itemTotal,
		})
	}

	return items, subtotal
}

// CreateInvoice creates a new invoice for the user
func CreateInvoice(c *gin.Context) {
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

	var input CreateInvoiceInput
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

	invoiceItems, subtotal := buildInvoiceItems(userUUID, input.Items)

	// Calculate total
	total := subtotal - input.Discount + (subtotal * input.Tax / 100)

	// Set default invoice date to now if not provided
	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	currency := input.Currency
	if currency == "" {
		currency = user.DefaultCurrency
	}
	if currency == "" {
		currency = "USD"
	}

	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "unpaid"
	}

	// Create new invoice
	invoice := models.Invoice{
		ID:            uuid.New(),
		UserID:        userUUID,
		CustomerID:    input.CustomerID,
		InvoiceDate:   invoiceDate,
		DueDate:       input.DueDate,
		PONumber:      input.PONumber,
		Currency:      currency,
		Subtotal:      subtotal,
		Discount:      input.Discount,
		Tax:           input.Tax,
		Total:         total,
		PaymentStatus: paymentStatus,
		PaidAmount:    input.PaidAmount,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		Items:         invoiceItems,
	}

	prefix := user.InvoicePrefix
	if prefix == "" {
		prefix = "INV"
	}
	invoice.InvoiceNumber = prefix + "-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Save invoice
	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	// Update customer stats
	if err := tx.Model(&models.Customer{}).Where("id = ?", input.CustomerID).
		Updates(map[string]interface{}{
			"invoice_count": gorm.Expr("invoice_count + ?", 1),
			"total_billed":  gorm.Expr("total_billed + ?", total),
			"last_invoiced": invoiceDate,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices retrieves all invoices for the user
func GetInvoices(c *gin.Context) {
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

	var invoices []models.Invoice
	if err := config.DB.Preload("Items").
		Where("user_id = ?", userUUID).
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
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

	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").
		Where("user_id = ? AND id = ?", userUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice updates an existing invoice
func UpdateInvoice(c *gin.Context) {
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

	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Retrieve existing invoice
	var invoice models.Invoice
	if err := tx.Preload("Items").
		Where("user_id = ? AND id = ?", userUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.CustomerID != nil {
		// Validate customer exists for this user
		var customer models.Customer
		if err := tx.Where("user_id = ? AND id = ?", userUUID, *input.CustomerID).
			First(&customer).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		invoice.CustomerID = *input.CustomerID
	}

	if input.InvoiceDate != nil {
		invoice.InvoiceDate = *input.InvoiceDate
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.PONumber != nil {
		invoice.PONumber = *input.PONumber
	}

	// If items are being updated, recalculate the invoice
	if input.Items != nil {
		// Delete existing items
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to clear existing items")
			return
		}

		newItems, subtotal := buildInvoiceItems(userUUID, *input.Items)
		for i := range newItems {
			newItems[i].InvoiceID = invoice.ID
		}
		invoice.Items = newItems
		invoice.Subtotal = subtotal
	}

	if input.Discount != nil {
		invoice.Discount = *input.Discount
	}

	if input.Tax != nil {
		invoice.Tax = *input.Tax
	}

	// Recalculate total if needed
	if input.Items != nil || input.Discount != nil || input.Tax != nil {
		invoice.Total = invoice.Subtotal - invoice.Discount + (invoice.Subtotal * invoice.Tax / 100)
	}

	if input.PaymentStatus != nil {
		invoice.PaymentStatus = *input.PaymentStatus
	}

	if input.PaidAmount != nil {
		invoice.PaidAmount = *input.PaidAmount
	}

	if input.PaymentMethod != nil {
		invoice.PaymentMethod = *input.PaymentMethod
	}

	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	// Save updated invoice
	if err := tx.Save(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice deletes an invoice and reverts customer stats
func DeleteInvoice(c *gin.Context) {
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

	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Retrieve invoice to get customer and total
	var invoice models.Invoice
	if err := tx.Where("user_id = ? AND id = ?", userUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Delete invoice items
	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice items")
		return
	}

	// Delete invoice
	if err := tx.Delete(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	// Update customer stats (decrement)
	if err := tx.Model(&models.Customer{}).Where("id = ?", invoice.CustomerID).
		Updates(map[string]interface{}{
			"invoice_count": gorm.Expr("invoice_count - ?", 1),
			"total_billed":  gorm.Expr("total_billed - ?", invoice.Total),
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// SendInvoice emails the invoice to its customer and stamps SentAt
func SendInvoice(c *gin.Context) {
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

	invoiceID := c.Param("id")
	invoiceUUID, err := uuid.Parse(invoiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").
		Where("user_id = ? AND id = ?", userUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
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

	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", invoice.CustomerID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	notifier := services.NewNotificationService(config.DB)
	if err := notifier.SendInvoiceEmail(user, customer, invoice); err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to send invoice: "+err.Error())
		return
	}

	now := time.Now()
	config.DB.Model(&invoice).Update("sent_at", &now)

	c.JSON(http.StatusOK, gin.H{"message": "Invoice sent successfully"})
}
