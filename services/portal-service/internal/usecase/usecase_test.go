package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/matthewhartstonge/argon2"

	"github.com/vasapolrittideah/appointment-portal/shared/security"
)

type sentMessage struct {
	To      string
	Subject string
	Body    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *fakeNotifier) SendHTML(_ context.Context, to, subject, htmlBody string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (n *fakeNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]sentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}

func (n *fakeNotifier) fail(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

var errSMTPDown = errors.New("smtp down")

func testHasher() security.PasswordHasher {
	cfg := argon2.DefaultConfig()
	cfg.TimeCost = 1
	cfg.MemoryCost = 8 * 1024
	return security.NewArgon2Hasher(cfg)
}

func fixedCode(code string) CodeGenerator {
	return func() (string, error) { return code, nil }
}
