// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// NotificationService sends transactional email (order confirmations)
type NotificationService interface {
	SendEmail(email, subject, message string) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{emailProvider: emailProvider}
}

// SendEmail sends an email to the specified address
func (s *NotificationServiceImpl) SendEmail(email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return s.emailProvider.SendEmail(email, subject, message)
}

// SMTPEmailProvider sends mail through a plain SMTP relay
type SMTPEmailProvider struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPEmailProvider(host string, port int, username, password, from string) EmailProvider {
	return &SMTPEmailProvider{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

func (p *SMTPEmailProvider) SendEmail(email, subject, message string) error {
	addr := fmt.Sprintf("%s:%d", p.Host, p.Port)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", p.From, email, subject, message))

	var auth smtp.Auth
	if p.Username != "" {
		auth = smtp.PlainAuth("", p.Username, p.Password, p.Host)
	}
	return smtp.SendMail(addr, auth, p.From, []string{email}, msg)
}

// MockEmailProvider logs instead of sending; used in development and tests
type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(email, subject, message string) error {
	log.Printf("MOCK EMAIL to %s: %s", email, subject)
	return nil
}
