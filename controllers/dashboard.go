package controllers

import (
	"fmt"
	"net/http"
	"time"

	"invoicepro-backend/config"
	"invoicepro-backend/models"
	"invoicepro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardOverview struct {
	TotalCustomers  int             `json:"totalCustomers"`
	MonthlyRevenue  float64         `json:"monthlyRevenue"`
	TotalInvoices   int             `json:"totalInvoices"`
	UnpaidTotal     float64         `json:"unpaidTotal"`
	OverdueInvoices int             `json:"overdueInvoices"`
	RecentInvoices  []RecentInvoice `json:"recentInvoices"`
}

type RecentInvoice struct {
	InvoiceNumber string  `json:"invoiceNumber"`
	Customer      string  `json:"customer"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
	IssuedDate    string  `json:"issuedDate"` // e.g. "Today", "Yesterday", "3 days ago"
}

func GetDashboardOverview(c *gin.Context) {
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

	// Total Customers
	var totalCustomers int64
	config.DB.Model(&models.Customer{}).Where("user_id = ? AND deleted_at IS NULL", userUUID).Count(&totalCustomers)

	// This Month's Revenue
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue float64
	config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND invoice_date >= ?", userUUID, firstOfMonth).
		Select("COALESCE(SUM(total), 0)").Scan(&monthlyRevenue)

	// Total Invoices
	var totalInvoices int64
	config.DB.Model(&models.Invoice{}).Where("user_id = ?", userUUID).Count(&totalInvoices)

	// Outstanding balance across unpaid/partial invoices
	var unpaidTotal float64
	config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND payment_status IN ?", userUUID, []string{"unpaid", "partial"}).
		Select("COALESCE(SUM(total - paid_amount), 0)").Scan(&unpaidTotal)

	// Overdue count
	var overdueCount int64
	config.DB.Model(&models.Invoice{}).
		Where("user_id = ? AND payment_status IN ? AND due_date IS NOT NULL AND due_date < ?",
			userUUID, []string{"unpaid", "partial"}, now).
		Count(&overdueCount)

	// Last 5 invoices with customer names
	type recentRow struct {
		InvoiceNumber string
		CustomerName  string
		Total         float64
		PaymentStatus string
		InvoiceDate   time.Time
	}
	var rows []recentRow
	config.DB.Raw(`
        SELECT i.invoice_number, c.name AS customer_name, i.total, i.payment_status, i.invoice_date
        FROM invoices i
        JOIN customers c ON c.id = i.customer_id
        WHERE i.user_id = ?
        ORDER BY i.invoice_date DESC
        LIMIT 5
    `, userUUID).Scan(&rows)

	recent := make([]RecentInvoice, 0, len(rows))
	for _, row := range rows {
		recent = append(recent, RecentInvoice{
			InvoiceNumber: row.InvoiceNumber,
			Customer:      row.CustomerName,
			Total:         row.Total,
			Status:        row.PaymentStatus,
			IssuedDate:    humanizeDaysAgo(utils.DaysBetween(row.InvoiceDate, now)),
		})
	}

	c.JSON(http.StatusOK, DashboardOverview{
		TotalCustomers:  int(totalCustomers),
		MonthlyRevenue:  monthlyRevenue,
		TotalInvoices:   int(totalInvoices),
		UnpaidTotal:     unpaidTotal,
		OverdueInvoices: int(overdueCount),
		RecentInvoices:  recent,
	})
}

func humanizeDaysAgo(days int) string {
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
