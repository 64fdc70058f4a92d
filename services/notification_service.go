// services/notification_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"invoicepro-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type NotificationService struct {
	db     *gorm.DB
	twilio *twilio.RestClient
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		db: db,
		twilio: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *NotificationService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendOverdueReminders()
	})

	c.Start()
	log.Println("Overdue reminder scheduler started")
}

// SendOverdueReminders walks every active user's unpaid invoices past their
// due date and notifies the customer on the user's enabled channels.
func (s *NotificationService) SendOverdueReminders() {
	log.Println("Starting overdue reminder processing...")

	var users []models.User
	if err := s.db.Find(&users, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return
	}

	for _, user := range users {
		s.ProcessUserReminders(user)
	}

	log.Println("Overdue reminder processing completed")
}

func (s *NotificationService) ProcessUserReminders(user models.User) {
	var invoices []models.Invoice
	if err := s.db.
		Where("user_id = ? AND payment_status IN ? AND due_date IS NOT NULL AND due_date < ?",
			user.ID, []string{"unpaid", "partial"}, time.Now()).
		Find(&invoices).Error; err != nil {
		log.Printf("User %s: Failed to get overdue invoices: %v", user.ID, err)
		return
	}

	for _, invoice := range invoices {
		var customer models.Customer
		if err := s.db.First(&customer, "id = ?", invoice.CustomerID).Error; err != nil {
			log.Printf("Invoice %s: customer lookup failed: %v", invoice.InvoiceNumber, err)
			continue
		}

		if user.EmailNotifications && customer.Email != "" {
			s.sendReminderEmail(user, customer, invoice)
		}
		if user.SMSNotifications && customer.Phone != "" {
			s.sendReminderSMS(user, customer, invoice)
		}
	}
}

func (s *NotificationService) sendReminderEmail(user models.User, customer models.Customer, invoice models.Invoice) {
	subject := fmt.Sprintf("Payment reminder: invoice %s from %s", invoice.InvoiceNumber, user.BusinessName)
	body := fmt.Sprintf(
		"Hi %s,\n\nThis is a friendly reminder that invoice %s for %s %.2f was due on %s.\n\nThank you,\n%s",
		customer.Name, invoice.InvoiceNumber, invoice.Currency, invoice.Total-invoice.PaidAmount,
		invoice.DueDate.Format("2 Jan 2006"), user.BusinessName)

	err := s.SendEmail(customer.Email, subject, body)
	s.logDelivery(user, customer, &invoice, "reminder", "email", customer.Email, subject, err)
}

func (s *NotificationService) sendReminderSMS(user models.User, customer models.Customer, invoice models.Invoice) {
	message := fmt.Sprintf("Hi %s, invoice %s (%s %.2f) from %s is overdue. Please arrange payment.",
		customer.Name, invoice.InvoiceNumber, invoice.Currency, invoice.Total-invoice.PaidAmount, user.BusinessName)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(customer.Phone)
	params.SetBody(message)
	params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))

	resp, err := s.twilio.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Failed to send SMS to %s: %v", customer.Phone, err)
	} else if resp.Sid != nil {
		log.Printf("SMS sent to %s, SID: %s", customer.Phone, *resp.Sid)
	}

	s.logDelivery(user, customer, &invoice, "reminder", "sms", customer.Phone, "", err)
}

// SendInvoiceEmail emails the invoice summary to the customer and records the
// attempt. Returns the delivery error so the controller can surface it.
func (s *NotificationService) SendInvoiceEmail(user models.User, customer models.Customer, invoice models.Invoice) error {
	if customer.Email == "" {
		return fmt.Errorf("customer %s has no email address", customer.Name)
	}

	subject := fmt.Sprintf("Invoice %s from %s", invoice.InvoiceNumber, user.BusinessName)

	var lines []string
	lines = append(lines, fmt.Sprintf("Hi %s,", customer.Name))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Please find invoice %s below.", invoice.InvoiceNumber))
	lines = append(lines, "")
	for _, item := range invoice.Items {
		lines = append(lines, fmt.Sprintf("  %s  x%.0f  %s %.2f", item.Description, item.Quantity, invoice.Currency, item.TotalPrice))
	}
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Total: %s %.2f", invoice.Currency, invoice.Total))
	if invoice.DueDate != nil {
		lines = append(lines, fmt.Sprintf("Due: %s", invoice.DueDate.Format("2 Jan 2006")))
	}
	lines = append(lines, "", "Thank you,", user.BusinessName)

	err := s.SendEmail(customer.Email, subject, strings.Join(lines, "\n"))
	s.logDelivery(user, customer, &invoice, "invoice", "email", customer.Email, subject, err)
	return err
}

// SendEmail sends a plain-text email through SendGrid.
func (s *NotificationService) SendEmail(to, subject, body string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}
	from := os.Getenv("SENDGRID_FROM_EMAIL")
	if from == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}

	fromEmail := mail.NewEmail("InvoicePro", from)
	toEmail := mail.NewEmail("", to)
	htmlContent := fmt.Sprintf("<pre>%s</pre>", body)
	message := mail.NewSingleEmail(fromEmail, subject, toEmail, body, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d, body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed: status=%d", response.StatusCode)
	}

	log.Printf("[sendgrid] mail sent: status=%d to=%s subject=%s", response.StatusCode, to, subject)
	return nil
}

func (s *NotificationService) logDelivery(user models.User, customer models.Customer, invoice *models.Invoice, msgType, channel, recipient, subject string, sendErr error) {
	status := "sent"
	errorMsg := ""
	if sendErr != nil {
		status = "failed"
		errorMsg = sendErr.Error()
	}

	entry := models.EmailLog{
		UserID:       user.ID,
		CustomerID:   customer.ID,
		Type:         msgType,
		Recipient:    recipient,
		Subject:      subject,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if invoice != nil {
		entry.InvoiceID = &invoice.ID
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to log %s delivery for customer %s: %v", channel, customer.ID, err)
	}
}
