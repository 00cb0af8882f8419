package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches transactional mail. The plaintext OTP and reset token
// only ever travel through here; they are never written to the store or logs.
type Mailer interface {
	SendEmailOTP(to, code string) error
	SendPasswordReset(to, resetURL string) error
}

// EmailService sends mail over SMTP.
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(host string, port int, username, password, from string) *EmailService {
	return &EmailService{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *EmailService) SendEmailOTP(to, code string) error {
	body := fmt.Sprintf(
		"Your BeSide verification code is %s.\n\nIt expires in 10 minutes. If you did not request this code, you can ignore this email.",
		code,
	)
	return s.send(to, "Your BeSide verification code", body)
}

func (s *EmailService) SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf(
		"We received a request to reset your BeSide password.\n\nOpen this link to choose a new one (valid for 30 minutes):\n%s\n\nIf you did not request a reset, you can ignore this email.",
		resetURL,
	)
	return s.send(to, "Reset your BeSide password", body)
}

func (s *EmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
