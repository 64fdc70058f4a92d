// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    float64           `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	TopServices           []ServiceSummary  `json:"topServices"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type ServiceSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type CustomerSummary struct {
	Name     string  `json:"name"`
	Invoices int     `json:"invoices"`
	Billed   float64 `json:"billed"`
}

type QuickStatistics struct {
	TotalCustomers  int     `json:"totalCustomers"`
	TotalInvoices   int     `json:"totalInvoices"`
	AvgInvoiceValue float64 `json:"avgInvoiceValue"`
	CollectionRate  float64 `json:"collectionRate"` // paid / billed, percent
}

// GetReportAnalytics returns the complete analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
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

	// Get current time
	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	// Calculate date ranges
	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	// Get revenue reports
	currentMonthRevenue, err := rc.getRevenue(userUUID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}

	lastMonthRevenue, err := rc.getRevenue(userUUID,
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(userUUID,
		rc.getQuarterStart(now),
		rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}

	lastQuarterRevenue, err := rc.getRevenue(userUUID,
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(userUUID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}

	lastYearRevenue, err := rc.getRevenue(userUUID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	// Calculate growth percentages
	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           rc.calculateGrowth(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         rc.calculateGrowth(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            rc.calculateGrowth(currentYearRevenue, lastYearRevenue),
	}

	// Top services by matched template
	var topServices []ServiceSummary
	config.DB.Raw(`
        SELECT st.name, COUNT(ii.id) AS count, COALESCE(SUM(ii.total_price), 0) AS revenue
        FROM invoice_items ii
        JOIN service_templates st ON st.id = ii.service_template_id
        JOIN invoices i ON i.id = ii.invoice_id
        WHERE i.user_id = ?
        GROUP BY st.name
        ORDER BY revenue DESC
        LIMIT 5
    `, userUUID).Scan(&topServices)
	summary.TopServices = topServices

	// Top customers by lifetime billing
	var topCustomers []CustomerSummary
	config.DB.Raw(`
        SELECT name, invoice_count AS invoices, total_billed AS billed
        FROM customers
        WHERE user_id = ? AND deleted_at IS NULL
        ORDER BY total_billed DESC
        LIMIT 5
    `, userUUID).Scan(&topCustomers)
	summary.TopCustomers = topCustomers

	// Quick stats
	var totalCustomers, totalInvoices int64
	config.DB.Model(&models.Customer{}).Where("user_id = ? AND deleted_at IS NULL", userUUID).Count(&totalCustomers)
	config.DB.Model(&models.Invoice{}).Where("user_id = ?", userUUID).Count(&totalInvoices)

	var totalBilled, totalPaid float64
	config.DB.Model(&models.Invoice{}).Where("user_id = ?", userUUID).
		Select("COALESCE(SUM(total), 0)").Scan(&totalBilled)
	config.DB.Model(&models.Invoice{}).Where("user_id = ?", userUUID).
		Select("COALESCE(SUM(paid_amount), 0)").Scan(&totalPaid)

	quick := QuickStatistics{
		TotalCustomers: int(totalCustomers),
		TotalInvoices:  int(totalInvoices),
	}
	if totalInvoices > 0 {
		quick.AvgInvoiceValue = totalBilled / float64(totalInvoices)
	}
	if totalBilled > 0 {
		quick.CollectionRate = totalPaid / totalBilled * 100
	}
	summary.QuickStats = quick

	c.JSON(http.StatusOK, summary)
}

func (rc *ReportController) getRevenue(userID uuid.UUID, start, end time.Time) (float64, error) {
	var revenue float64
	err := config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND invoice_date BETWEEN ? AND ?", userID, start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (rc *ReportController) calculateGrowth(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

func (rc *ReportController) getQuarterStart(t time.Time) time.Time {
	quarter := (int(t.Month()) - 1) / 3
	return time.Date(t.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, t.Location())
}

func (rc *ReportController) getQuarterEnd(t time.Time) time.Time {
	return rc.getQuarterStart(t).AddDate(0, 3, -1)
}
