// Package mail delivers confirmation and password-reset messages over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ccontapub/accounts-api/internal/core/ports"
)

// Config captures SMTP transport settings and the message identity.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// SMTPMailer implements ports.Notifier over a plain SMTP transport.
type SMTPMailer struct {
	cfg Config
	log zerolog.Logger
}

func NewSMTPMailer(cfg Config, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

func (m *SMTPMailer) SendConfirmation(_ context.Context, n ports.Notification) error {
	body := fmt.Sprintf(
		`<p>Hi %s, you have signed up for CcontaPub — almost done, you just need to confirm your account.</p>
<p>Visit the following link:</p>
<a href="%s/auth/confirm-account">Confirm account</a>
<p>Enter the code: <b>%s</b></p>
<p>This code expires in 10 minutes.</p>`,
		n.Name, m.cfg.FrontendURL, n.Token,
	)
	return m.send(n.Email, "CcontaPub - Confirm your account", body)
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, n ports.Notification) error {
	body := fmt.Sprintf(
		`<p>Hi %s, you have requested to reset your password.</p>
<p>Visit the following link:</p>
<a href="%s/auth/new-password">Reset password</a>
<p>Enter the code: <b>%s</b></p>
<p>This code expires in 10 minutes.</p>`,
		n.Name, m.cfg.FrontendURL, n.Token,
	)
	return m.send(n.Email, "CcontaPub - Reset your password", body)
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.log.Debug().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}
