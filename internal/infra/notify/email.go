package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/config"
)

// SMTPProvider sends plain-text email over SMTP with PLAIN auth.
type SMTPProvider struct {
	cfg config.SMTPSettings
}

// NewSMTPProvider constructs an SMTP-backed email provider.
func NewSMTPProvider(cfg config.SMTPSettings) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

// Configured reports whether the provider has enough settings to attempt a send.
func (p *SMTPProvider) Configured() bool {
	return strings.TrimSpace(p.cfg.Host) != "" &&
		strings.TrimSpace(p.cfg.Username) != "" &&
		strings.TrimSpace(p.cfg.Password) != ""
}

// Send delivers the message. The context is accepted for interface symmetry;
// net/smtp does not support cancellation mid-dial.
func (p *SMTPProvider) Send(_ context.Context, to, subject, body string) error {
	from := p.cfg.From
	if from == "" {
		from = p.cfg.Username
	}

	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
