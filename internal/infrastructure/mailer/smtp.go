// Package mailer delivers one-time verification codes over SMTP.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// Options holds SMTP configuration.
type Options struct {
	Server   string
	Port     int
	Email    string
	Password string
	FromName string
}

// SMTPMailer sends mail through a plain-auth SMTP server.
type SMTPMailer struct {
	opts Options
}

// NewSMTPMailer creates a mailer with the given SMTP options.
func NewSMTPMailer(opts Options) *SMTPMailer {
	return &SMTPMailer{opts: opts}
}

// SendOTP emails a verification code to the recipient.
func (m *SMTPMailer) SendOTP(to, code string) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("%s <%s>", m.opts.FromName, m.opts.Email)
	mail.To = []string{to}
	mail.Subject = "Your verification code"

	body := fmt.Sprintf(`Your verification code is: %s

This code will expire in 10 minutes.

If you don't recognize this account, please ignore this email.`, code)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.opts.Server, m.opts.Port)
	err := mail.Send(addr, smtp.PlainAuth("", m.opts.Email, m.opts.Password, m.opts.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		// Local relays (mailhog and friends) reject AUTH entirely.
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("could not send verification email: %w", err)
	}

	log.Printf("[Mailer] Verification code sent to %s", to)
	return nil
}
