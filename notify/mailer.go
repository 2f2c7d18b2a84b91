// Package notify sends transactional and report emails through an SMTP relay.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"canteen-api/config"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
)

// Mailer delivers a single HTML email. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends through an authenticated SMTP relay (Gmail by default).
type SMTPMailer struct {
	from    string
	timeout time.Duration
	pool    *email.Pool
}

func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	if cfg.SMTPUser == "" {
		return nil, errors.New("mailer: SMTP_USER is not set")
	}
	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	pool, err := email.NewPool(addr, 4, auth)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	return &SMTPMailer{
		from:    fmt.Sprintf("%q <%s>", cfg.MailFromName, cfg.SMTPUser),
		timeout: cfg.MailTimeout,
		pool:    pool,
	}, nil
}

// Send blocks until the relay accepts the message, the timeout passes, or ctx ends.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := m.pool.Send(e, timeout); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}

// Close releases pooled SMTP connections.
func (m *SMTPMailer) Close() {
	m.pool.Close()
}

// LogMailer stands in when no SMTP credentials are configured; it only logs.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, _ string) error {
	zerolog.Ctx(ctx).Info().Str("to", to).Str("subject", subject).Msg("mailer: SMTP not configured, email dropped")
	return nil
}
