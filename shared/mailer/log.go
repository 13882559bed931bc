package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer writes messages to the log instead of delivering them. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	logger *zerolog.Logger
}

func NewLogMailer(logger *zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendHTML(_ context.Context, to, subject, htmlBody string) error {
	if to == "" {
		return ErrNoRecipients
	}

	m.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", htmlBody).
		Msg("email not delivered (log driver)")

	return nil
}
