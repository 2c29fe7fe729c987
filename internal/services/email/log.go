// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/alumni-api/internal/config"
	"github.com/wneessen/go-mail"
)

// LogSender writes messages to the log instead of delivering them. It stands
// in for SMTP during local development.
type LogSender struct{}

func (LogSender) DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error {
	for _, msg := range messages {
		slog.WarnContext(ctx, "mail_not_sent",
			"to", strings.Join(msg.GetAddrHeaderString(mail.HeaderTo), ", "),
			"subject", strings.Join(msg.GetGenHeader(mail.HeaderSubject), " "),
			"text", plainText(msg),
		)
	}
	return nil
}

func plainText(msg *mail.Msg) string {
	for _, part := range msg.GetParts() {
		if part.GetContentType() != mail.TypeTextPlain {
			continue
		}
		content, err := part.GetContent()
		if err == nil {
			return string(content)
		}
	}
	return ""
}

// NewLogService returns a Service backed by LogSender.
func NewLogService(site string) *Service {
	return NewServiceWithSender(&config.SMTPConfig{From: "noreply@localhost"}, site, LogSender{})
}
