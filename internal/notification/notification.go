// Package notification delivers short text messages to account email
// addresses. The workflow depends only on the Mailer interface; transports
// are interchangeable.
package notification

import (
	"context"
	"log/slog"
)

// SenderName is the display name OTP mail is sent under.
const SenderName = "EV Charging Office"

// Mailer delivers a message to an email address. Delivery may fail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes would-be deliveries to the structured logger. Used in
// dev mode when no SMTP credentials are configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a logging mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send writes the message to the logger instead of delivering it.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("mail", "to", to, "subject", subject, "body", body)
	return nil
}
