package services

import (
	"fmt"
	"html"
	"io"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendStatement(email, clientName, filename string, pdf []byte) error
	SendDigest(email, subject, body string) error
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer mailSender
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendStatement(email, clientName, filename string, pdf []byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your account statement")

	body := fmt.Sprintf(`
		<h3>Dear %s,</h3>
		<p>Please find your account statement attached.</p>
		<p>Thank you for staying with us.</p>
	`, html.EscapeString(clientName))
	m.SetBody("text/html", body)
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send statement email: %w", err)
	}
	return nil
}

func (s *emailService) SendDigest(email, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	return nil
}
