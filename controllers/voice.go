// controllers/voice.go
package controllers

import (
	"net/http"
	"strings"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/services"
	"invoicepro-backend/utils"

	"github.com/gin-gonic/gin"
)

// ParseVoiceInput carries one finalized speech segment plus the draft the
// client has accumulated so far. The server never stores the draft.
type ParseVoiceInput struct {
	Transcript string                     `json:"transcript" binding:"required"`
	Draft      services.VoiceInvoiceDraft `json:"draft"`
}

// ParseVoice merges the fields extracted from the transcript into the draft
// and returns it. Unmatched patterns leave fields untouched; this endpoint
// never fails on noisy input.
func ParseVoice(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input ParseVoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	defaultCurrency := "USD"
	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err == nil {
		if strings.TrimSpace(user.DefaultCurrency) != "" {
			defaultCurrency = user.DefaultCurrency
		}
	}

	draft := services.ParseVoiceCommand(input.Transcript, input.Draft, defaultCurrency)

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}
