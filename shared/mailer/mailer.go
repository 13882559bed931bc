package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("no recipients specified")

// Mailer sends email over SMTP.
type Mailer struct {
	config *Config
	logger *zerolog.Logger
	send   func(msgs ...*gomail.Message) error
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Config holds SMTP configuration for sending emails.
type Config struct {
	Host        string        `env:"SMTP_HOST"`
	Port        int           `env:"SMTP_PORT"`
	Username    string        `env:"SMTP_USERNAME"`
	Password    string        `env:"SMTP_PASSWORD"`
	From        string        `env:"SMTP_FROM"`
	SendTimeout time.Duration `env:"SMTP_SEND_TIMEOUT" envDefault:"15s"`
}

// NewMailer creates a Mailer from SMTP_* environment variables and exits
// the process if they are incomplete.
func NewMailer(logger *zerolog.Logger) *Mailer {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	m, err := NewMailerWithConfig(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Mailer configuration")
	}

	return m
}

// NewMailerWithConfig creates a Mailer from an explicit configuration.
func NewMailerWithConfig(cfg Config, logger *zerolog.Logger) (*Mailer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	return &Mailer{
		config: &cfg,
		logger: logger,
		send:   dialer.DialAndSend,
	}, nil
}

// Send delivers a single email. gomail has no context support, so the SMTP
// exchange runs in its own goroutine and Send returns when ctx is done or
// the send timeout passes, whichever comes first.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	if m.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.SendTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- m.send(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email to %v: %w", email.To, err)
		}
		return nil
	case <-ctx.Done():
		m.logger.Warn().Strs("to", email.To).Str("subject", email.Subject).Msg("email send abandoned")
		return fmt.Errorf("send email to %v: %w", email.To, ctx.Err())
	}
}

// SendHTML sends an HTML email to a single recipient.
func (m *Mailer) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	return m.Send(ctx, Email{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}

func (c *Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
