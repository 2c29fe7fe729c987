// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"codeberg.org/oliverandrich/alumni-api/internal/i18n"
	"github.com/a-h/templ"
	"github.com/wneessen/go-mail"
)

// Sender delivers composed messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Service composes and sends account mail.
type Service struct {
	cfg    *config.SMTPConfig
	site   string
	sender Sender
}

// NewService creates a new email service. site is shown in activation subjects.
func NewService(cfg *config.SMTPConfig, site string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	client, err := mail.NewClient(cfg.Host, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("creating mail client: %w", err)
	}

	return NewServiceWithSender(cfg, site, client), nil
}

// NewServiceWithSender creates a service that hands messages to sender.
func NewServiceWithSender(cfg *config.SMTPConfig, site string, sender Sender) *Service {
	return &Service{
		cfg:    cfg,
		site:   strings.TrimSuffix(site, "/"),
		sender: sender,
	}
}

func clientOptions(cfg *config.SMTPConfig) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	// Configure TLS based on config and port
	if cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	// Add authentication if credentials are provided
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	return opts
}

// SendActivationMail sends the account activation link.
func (s *Service) SendActivationMail(ctx context.Context, to, link string) error {
	subject := i18n.TData(ctx, "activation_subject", map[string]any{"Site": s.site})
	text := i18n.TData(ctx, "activation_text", map[string]any{"Link": link})
	body := activationBody(i18n.T(ctx, "activation_heading"), link)

	return s.send(ctx, to, subject, text, body)
}

// SendOTPCode sends a password reset code.
func (s *Service) SendOTPCode(ctx context.Context, to, code string) error {
	subject := i18n.T(ctx, "otp_subject")
	text := i18n.TData(ctx, "otp_body", map[string]any{"Code": code})
	body := otpBody(i18n.T(ctx, "otp_heading"), text)

	return s.send(ctx, to, subject, text, body)
}

// send builds a multipart message with an HTML body and a plain text alternative.
func (s *Service) send(ctx context.Context, to, subject, text string, body templ.Component) error {
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

	html, err := render(ctx, body)
	if err != nil {
		return fmt.Errorf("rendering body: %w", err)
	}
	msg.SetBodyString(mail.TypeTextHTML, html)
	msg.AddAlternativeString(mail.TypeTextPlain, text)

	if err := s.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
