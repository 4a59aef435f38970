// Package mail delivers contact-form notifications to the site operator over
// authenticated SMTP. Delivery is synchronous and single-attempt; the caller
// decides how to surface a failure.
package mail

import (
	"fmt"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Message is a contact-form submission to forward to the operator.
type Message struct {
	Name  string
	Email string
	Phone string
	Body  string
}

// Sender delivers a contact message.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender sends messages through an authenticated SMTP relay.
type SMTPSender struct {
	dialer    *gomail.Dialer
	from      string
	recipient string
}

// NewSMTPSender builds a sender from the mail settings in cfg. The caller
// must have checked cfg.MailConfigured().
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:      cfg.SMTPUsername,
		recipient: cfg.ContactRecipient,
	}
}

// Send formats the submission as a plain-text email and delivers it. Each
// message carries a generated reference id so the operator can correlate
// replies with the server log.
func (s *SMTPSender) Send(msg Message) error {
	ref := uuid.NewString()

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.recipient)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", fmt.Sprintf("Blog contact form: message from %s", msg.Name))
	m.SetBody("text/plain", body(msg, ref))

	if err := s.dialer.DialAndSend(m); err != nil {
		return models.NewMailError(err)
	}
	return nil
}

func body(msg Message, ref string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	fmt.Fprintf(&b, "Phone: %s\n", msg.Phone)
	fmt.Fprintf(&b, "\n%s\n", msg.Body)
	fmt.Fprintf(&b, "\nReference: %s\n", ref)
	return b.String()
}
