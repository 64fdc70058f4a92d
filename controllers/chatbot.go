// controllers/chatbot.go
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

// ChatbotActionInput is a structured action emitted by the chat assistant
type ChatbotActionInput struct {
	Action string                 `json:"action" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// HandleChatbotAction dispatches a chatbot action to the matching operation.
// Unknown actions are a client error.
func HandleChatbotAction(c *gin.Context) {
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

	var input ChatbotActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	switch input.Action {
	case "create_invoice":
		chatbotCreateInvoice(c, userUUID, input.Params)
	case "create_customer":
		chatbotCreateCustomer(c, userUUID, input.Params)
	case "list_unpaid_invoices":
		chatbotListUnpaidInvoices(c, userUUID)
	case "get_revenue_summary":
		chatbotRevenueSummary(c, userUUID)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown action: "+input.Action)
	}
}

func paramString(params map[string]interface{}, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func paramFloat(params map[string]interface{}, key string) float64 {
	if v, ok := params[key].(float64); ok {
		return v
	}
	return 0
}

// chatbotCreateInvoice builds a one-line invoice from loosely structured
// chat parameters: customer name, amount, description. The customer is
// looked up by name and created on the fly when missing; the line item goes
// through the service matcher.
func chatbotCreateInvoice(c *gin.Context, userUUID uuid.UUID, params map[string]interface{}) {
	customerName := paramString(params, "customer")
	if customerName == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "create_invoice requires a customer name")
		return
	}
	amount := paramFloat(params, "amount")
	description := paramString(params, "description")
	service := paramString(params, "service")

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Find or create the customer by name
	var customer models.Customer
	err := config.DB.Where("user_id = ? AND name ILIKE ?", userUUID, customerName).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{
			ID:       uuid.New(),
			UserID:   userUUID,
			Name:     customerName,
			IsActive: true,
		}
		if err := config.DB.Create(&customer).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
			return
		}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Resolve the line item; a zero-confidence result falls back to the raw
	// description and amount.
	matcher := services.NewServiceMatcher(services.NewTemplateStore(config.DB))
	result := matcher.Resolve(userUUID, services.MatchRequest{
		Description: description,
		Amount:      amount,
		Service:     service,
	})

	itemDescription := description
	if itemDescription == "" {
		itemDescription = service
	}
	unitPrice := amount
	var templateID *uuid.UUID
	if result.Template != nil {
		id := result.Template.ID
		templateID = &id
		if itemDescription == "" {
			itemDescription = result.Template.Name
		}
		if unitPrice == 0 {
			unitPrice = result.Template.UnitPrice
		}
	}
	if itemDescription == "" {
		itemDescription = "Services rendered"
	}

	currency := paramString(params, "currency")
	if currency == "" {
		currency = user.DefaultCurrency
	}
	if currency == "" {
		currency = "USD"
	}

	invoiceDate := time.Now()
	invoice := models.Invoice{
		ID:            uuid.New(),
		UserID:        userUUID,
		CustomerID:    customer.ID,
		InvoiceDate:   invoiceDate,
		Currency:      currency,
		Subtotal:      unitPrice,
		Total:         unitPrice,
		PaymentStatus: "unpaid",
		Items: []models.InvoiceItem{{
			ID:                uuid.New(),
			ServiceTemplateID: templateID,
			Description:       itemDescription,
			Quantity:          1,
			UnitPrice:         unitPrice,
			TotalPrice:        unitPrice,
		}},
	}

	prefix := user.InvoicePrefix
	if prefix == "" {
		prefix = "INV"
	}
	invoice.InvoiceNumber = prefix + "-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6)

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"invoice_count": gorm.Expr("invoice_count + ?", 1),
			"total_billed":  gorm.Expr("total_billed + ?", invoice.Total),
			"last_invoiced": invoiceDate,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invoice " + invoice.InvoiceNumber + " created for " + customer.Name,
		"invoice": invoice,
	})
}

func chatbotCreateCustomer(c *gin.Context, userUUID uuid.UUID, params map[string]interface{}) {
	name := paramString(params, "name")
	if name == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "create_customer requires a name")
		return
	}

	var existing models.Customer
	if err := config.DB.Where("user_id = ? AND name = ?", userUUID, name).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		ID:       uuid.New(),
		UserID:   userUUID,
		Name:     name,
		Email:    paramString(params, "email"),
		Phone:    paramString(params, "phone"),
		IsActive: true,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer " + customer.Name + " created",
		"customer": customer,
	})
}

func chatbotListUnpaidInvoices(c *gin.Context, userUUID uuid.UUID) {
	var invoices []models.Invoice
	if err := config.DB.
		Where("user_id = ? AND payment_status IN ?", userUUID, []string{"unpaid", "partial"}).
		Order("invoice_date ASC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	var outstanding float64
	for _, inv := range invoices {
		outstanding += inv.Total - inv.PaidAmount
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(invoices),
		"outstanding": outstanding,
		"invoices":    invoices,
	})
}

func chatbotRevenueSummary(c *gin.Context, userUUID uuid.UUID) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	firstOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	var monthRevenue, yearRevenue float64
	config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND invoice_date >= ?", userUUID, firstOfMonth).
		Select("COALESCE(SUM(total), 0)").Scan(&monthRevenue)
	config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND invoice_date >= ?", userUUID, firstOfYear).
		Select("COALESCE(SUM(total), 0)").Scan(&yearRevenue)

	c.JSON(http.StatusOK, gin.H{
		"monthRevenue": monthRevenue,
		"yearRevenue":  yearRevenue,
	})
}
