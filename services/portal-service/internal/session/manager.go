package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/repository"
	"github.com/vasapolrittideah/appointment-portal/shared/auth"
)

// Manager loads and persists per-connection identity state. Clients only
// ever hold a signed token naming the session; the state itself stays in
// the session store.
type Manager struct {
	repo   repository.SessionRepository
	signer *auth.SessionTokenSigner
	ttl    time.Duration
	logger *zerolog.Logger
	now    func() time.Time
}

func NewManager(
	repo repository.SessionRepository,
	signer *auth.SessionTokenSigner,
	ttl time.Duration,
	logger *zerolog.Logger,
) *Manager {
	return &Manager{
		repo:   repo,
		signer: signer,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Load returns the session named by token. A missing, invalid, expired or
// unknown token yields a fresh anonymous session; only store failures are
// returned as errors.
func (m *Manager) Load(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return m.fresh(), nil
	}

	id, err := m.signer.Parse(token)
	if err != nil {
		m.logger.Debug().Err(err).Msg("discarding session token")
		return m.fresh(), nil
	}

	sess, err := m.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return m.fresh(), nil
		}
		return nil, err
	}

	return sess, nil
}

// Save persists the session with a renewed expiry and returns a token for
// it along with the expiry the token carries.
func (m *Manager) Save(ctx context.Context, sess *model.Session) (string, time.Time, error) {
	sess.ExpiresAt = m.now().Add(m.ttl)

	if err := m.repo.SaveSession(ctx, sess); err != nil {
		return "", time.Time{}, err
	}

	token, err := m.signer.Sign(sess.ID, sess.ExpiresAt)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, sess.ExpiresAt, nil
}

// Rotate gives sess a new id and removes the record stored under the old
// one. Call it before saving a session whose identity state changed so a
// token issued earlier never names the new state.
func (m *Manager) Rotate(ctx context.Context, sess *model.Session) error {
	oldID := sess.ID
	sess.ID = uuid.NewString()
	sess.CreatedAt = time.Time{}

	return m.repo.DeleteSession(ctx, oldID)
}

// Destroy removes the stored session and resets sess to anonymous.
func (m *Manager) Destroy(ctx context.Context, sess *model.Session) error {
	sess.Reset()
	return m.repo.DeleteSession(ctx, sess.ID)
}

func (m *Manager) fresh() *model.Session {
	return model.NewSession(uuid.NewString())
}
