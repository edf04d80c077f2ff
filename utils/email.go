// utils/email.go
package utils

import (
	"fmt"
	"log"

	"techapps/models"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Email sent to %s", toEmail)
	return nil
}

// SendPaymentReceipt emails a receipt for a recorded payment
func (es *EmailService) SendPaymentReceipt(payment models.Payment) error {
	subject := "Payment Receipt - Tech Apps"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>We received your payment of <strong>$%.2f</strong>.<br>Transaction ID: <strong>%s</strong><br><br>Thank you for supporting Tech Apps!",
		receiptName(payment),
		payment.Price,
		payment.TransactionID,
	)

	return es.SendEmail(payment.Email, subject, htmlContent)
}

func receiptName(payment models.Payment) string {
	if payment.Name != "" {
		return payment.Name
	}
	return "Customer"
}
