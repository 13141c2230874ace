package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendEmail sends an HTML email using SMTP
func SendEmail(to, subject, body string) error {
	config := emailConfigFromEnv()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendBookingConfirmation sends a booking confirmation email
func SendBookingConfirmation(to, name, bookingID, listingTitle, checkIn, checkOut string) error {
	subject := fmt.Sprintf("Booking Confirmation - %s", listingTitle)
	body := fmt.Sprintf(`
		<h2>Dear %s,</h2>
		<p>Thank you for your booking!</p>
		<h3>Booking Details</h3>
		<ul>
			<li>Booking ID: %s</li>
			<li>Property: %s</li>
			<li>Check-in: %s</li>
			<li>Check-out: %s</li>
		</ul>
		<p>We look forward to hosting you!</p>
		<p>Best regards,<br>The TravelNest Team</p>
	`, name, bookingID, listingTitle, checkIn, checkOut)

	return SendEmail(to, subject, body)
}

// SendPaymentConfirmation sends a payment confirmation email
func SendPaymentConfirmation(to, name, bookingID, listingTitle, checkIn, checkOut string) error {
	subject := fmt.Sprintf("Payment Confirmed - %s", listingTitle)
	body := fmt.Sprintf(`
		<h2>Dear %s,</h2>
		<p>Your payment has been received and your booking is confirmed.</p>
		<h3>Booking Details</h3>
		<ul>
			<li>Booking ID: %s</li>
			<li>Property: %s</li>
			<li>Check-in: %s</li>
			<li>Check-out: %s</li>
		</ul>
		<p>You can download your receipt from your bookings page.</p>
		<p>Best regards,<br>The TravelNest Team</p>
	`, name, bookingID, listingTitle, checkIn, checkOut)

	return SendEmail(to, subject, body)
}
