package common

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"discount-system/vitrina/internal/logging"

	"github.com/sethvargo/go-retry"
)

// Notifier delivers plain-text notifications
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailerConfig holds SMTP settings
type MailerConfig struct {
	Server      string
	Port        string
	From        string
	Password    string
	MaxAttempts int
	BaseDelay   time.Duration
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends mail over SMTP with STARTTLS and PLAIN auth, retrying with exponential backoff
type Mailer struct {
	cfg      MailerConfig
	sendMail sendMailFunc
}

// Ensure Mailer implements Notifier
var _ Notifier = (*Mailer)(nil)

func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	return &Mailer{cfg: cfg, sendMail: smtp.SendMail}
}

// Send tries up to MaxAttempts times. Cancelling ctx stops the retries.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Server, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Server)
	msg := buildMessage(m.cfg.From, to, subject, body)

	backoff := retry.WithMaxRetries(uint64(m.cfg.MaxAttempts-1), retry.NewExponential(m.cfg.BaseDelay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := m.sendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
			logging.Warn("Failed to send email", "to", to, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s after %d attempts: %w", to, attempt, err)
	}

	logging.Info("Email sent", "to", to, "subject", subject)
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
