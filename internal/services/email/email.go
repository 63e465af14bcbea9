// Package email sends transactional mail via SMTP using go-mail.
package email

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/civickit/ballotbox/internal/config"
)

// Service sends mail through a configured SMTP relay.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if !cfg.DevMode && cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// ResetLink builds the password reset URL for a token.
func (s *Service) ResetLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
}

// DevLink returns the reset link in dev mode so callers can surface it in
// the API response. Outside dev mode it is always empty; the link reaches
// the user by mail only.
func (s *Service) DevLink(token string) string {
	if !s.cfg.DevMode {
		return ""
	}
	return s.ResetLink(token)
}

// SendPasswordReset dispatches a reset notification. In dev mode the link is
// logged instead of mailed.
func (s *Service) SendPasswordReset(to, token string) error {
	link := s.ResetLink(token)

	if s.cfg.DevMode {
		slog.Info("password_reset_link", "email", to, "link", link)
		return nil
	}

	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		link)

	return s.send(to, "Password reset", body)
}

// send delivers a plain-text message via SMTP.
func (s *Service) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Implicit TLS for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	return client.DialAndSend(msg)
}
