package controllers

import (
	"net/http"
	"strings"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	BusinessName    *string `json:"businessName"`
	BusinessAddress *string `json:"businessAddress"`
}

type UpdateInvoiceSettingsInput struct {
	DefaultCurrency *string       `json:"defaultCurrency"`
	TaxRate         *float64      `json:"taxRate"`
	InvoicePrefix   *string       `json:"invoicePrefix"`
	InvoiceDefaults *models.JSONB `json:"invoiceDefaults"`
}

type UpdateNotificationsInput struct {
	EmailNotifications *bool `json:"emailNotifications"`
	SMSNotifications   *bool `json:"smsNotifications"`
}

func GetProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":               user.Name,
		"email":              user.Email,
		"phone":              user.Phone,
		"businessName":       user.BusinessName,
		"businessAddress":    user.BusinessAddress,
		"defaultCurrency":    user.DefaultCurrency,
		"taxRate":            user.TaxRate,
		"invoicePrefix":      user.InvoicePrefix,
		"invoiceDefaults":    user.InvoiceDefaults,
		"emailNotifications": user.EmailNotifications,
		"smsNotifications":   user.SMSNotifications,
	})
}

func UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		user.Phone = *input.Phone
	}
	if input.BusinessName != nil {
		user.BusinessName = *input.BusinessName
	}
	if input.BusinessAddress != nil {
		user.BusinessAddress = *input.BusinessAddress
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func UpdateInvoiceSettings(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateInvoiceSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.DefaultCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.DefaultCurrency))
		if !utils.ValidateCurrency(currency) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid currency code")
			return
		}
		user.DefaultCurrency = currency
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 100 {
			utils.RespondWithError(c, http.StatusBadRequest, "Tax rate must be between 0 and 100")
			return
		}
		user.TaxRate = *input.TaxRate
	}
	if input.InvoicePrefix != nil {
		user.InvoicePrefix = strings.ToUpper(strings.TrimSpace(*input.InvoicePrefix))
	}
	if input.InvoiceDefaults != nil {
		user.InvoiceDefaults = *input.InvoiceDefaults
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice settings updated successfully"})
}

func UpdateNotifications(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateNotificationsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.EmailNotifications != nil {
		user.EmailNotifications = *input.EmailNotifications
	}
	if input.SMSNotifications != nil {
		user.SMSNotifications = *input.SMSNotifications
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated successfully"})
}
