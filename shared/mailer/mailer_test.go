package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func testConfig() Config {
	return Config{
		Host:        "smtp.example.com",
		Port:        587,
		Username:    "user",
		Password:    "pass",
		From:        "Portal <no-reply@example.com>",
		SendTimeout: time.Second,
	}
}

func TestNewMailerWithConfigValidates(t *testing.T) {
	logger := zerolog.Nop()

	cfg := testConfig()
	cfg.Host = ""
	_, err := NewMailerWithConfig(cfg, &logger)
	assert.ErrorContains(t, err, "SMTP_HOST")

	cfg = testConfig()
	cfg.From = ""
	_, err = NewMailerWithConfig(cfg, &logger)
	assert.ErrorContains(t, err, "SMTP_FROM")

	_, err = NewMailerWithConfig(testConfig(), &logger)
	assert.NoError(t, err)
}

func TestMailerSendHTML(t *testing.T) {
	logger := zerolog.Nop()
	m, err := NewMailerWithConfig(testConfig(), &logger)
	require.NoError(t, err)

	var sent []*gomail.Message
	m.send = func(msgs ...*gomail.Message) error {
		sent = append(sent, msgs...)
		return nil
	}

	err = m.SendHTML(context.Background(), "a@x.com", "Verify your email address", "<b>123456</b>")
	require.NoError(t, err)
	require.Len(t, sent, 1)

	assert.Equal(t, []string{"a@x.com"}, sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Portal <no-reply@example.com>"}, sent[0].GetHeader("From"))
	assert.Equal(t, []string{"Verify your email address"}, sent[0].GetHeader("Subject"))

	var body bytes.Buffer
	_, err = sent[0].WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "123456")
}

func TestMailerSendErrors(t *testing.T) {
	logger := zerolog.Nop()
	m, err := NewMailerWithConfig(testConfig(), &logger)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Send(context.Background(), Email{Subject: "x"}), ErrNoRecipients)

	smtpErr := errors.New("535 authentication failed")
	m.send = func(...*gomail.Message) error { return smtpErr }
	assert.ErrorIs(t, m.SendHTML(context.Background(), "a@x.com", "s", "b"), smtpErr)
}

func TestMailerSendTimeout(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testConfig()
	cfg.SendTimeout = 20 * time.Millisecond
	m, err := NewMailerWithConfig(cfg, &logger)
	require.NoError(t, err)

	release := make(chan struct{})
	defer close(release)
	m.send = func(...*gomail.Message) error {
		<-release
		return nil
	}

	err = m.SendHTML(context.Background(), "a@x.com", "s", "b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	m := NewLogMailer(&logger)

	require.NoError(t, m.SendHTML(context.Background(), "a@x.com", "Subject", "body"))
	assert.Contains(t, buf.String(), "a@x.com")
	assert.ErrorIs(t, m.SendHTML(context.Background(), "", "Subject", "body"), ErrNoRecipients)
}
