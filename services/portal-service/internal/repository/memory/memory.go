// Package memory implements the portal repositories in process memory. It
// is used when no MongoDB URI is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users        map[string]model.User
	appointments map[bson.ObjectID]model.Appointment
	order        []bson.ObjectID
	sessions     map[string]model.Session

	now func() time.Time
}

var (
	_ repository.UserRepository        = (*Store)(nil)
	_ repository.AppointmentRepository = (*Store)(nil)
	_ repository.SessionRepository     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		users:        make(map[string]model.User),
		appointments: make(map[bson.ObjectID]model.Appointment),
		sessions:     make(map[string]model.Session),
		now:          time.Now,
	}
}

func (s *Store) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return nil, repository.ErrDuplicate
	}

	now := s.now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.Email] = *user

	out := *user
	return &out, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) VerifyUser(_ context.Context, email, code string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || !u.MatchesVerificationCode(code) {
		return nil, repository.ErrNotFound
	}

	u.Verified = true
	u.VerificationCode = ""
	u.UpdatedAt = s.now()
	s.users[email] = u
	return &u, nil
}

func (s *Store) SetVerificationCode(_ context.Context, email, code string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || u.Verified {
		return nil, repository.ErrNotFound
	}

	u.VerificationCode = code
	u.UpdatedAt = s.now()
	s.users[email] = u
	return &u, nil
}

func (s *Store) CreateAppointment(_ context.Context, a *model.Appointment) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a.ID = bson.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.appointments[a.ID] = *a
	s.order = append(s.order, a.ID)

	out := *a
	return &out, nil
}

func (s *Store) GetOwnedAppointment(_ context.Context, id, ownerEmail string) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.owned(id, ownerEmail)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (s *Store) ListAppointmentsByOwner(_ context.Context, ownerEmail string) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Appointment, 0)
	for _, id := range s.order {
		a := s.appointments[id]
		if a.UserEmail == ownerEmail {
			out = append(out, &a)
		}
	}
	return out, nil
}

func (s *Store) UpdateOwnedAppointmentStatus(
	_ context.Context,
	id, ownerEmail string,
	status model.AppointmentStatus,
) (*model.Appointment, error) {
	sources := model.TransitionSources(status)
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no status may move to %s", model.ErrInvalidTransition, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.owned(id, ownerEmail)
	if !ok || !slices.Contains(sources, a.Status) {
		return nil, repository.ErrNotFound
	}

	if err := a.Transition(status, s.now()); err != nil {
		return nil, err
	}
	s.appointments[a.ID] = a
	return &a, nil
}

// owned must be called with s.mu held.
func (s *Store) owned(id, ownerEmail string) (model.Appointment, bool) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Appointment{}, false
	}

	a, ok := s.appointments[objectID]
	if !ok || a.UserEmail != ownerEmail {
		return model.Appointment{}, false
	}
	return a, true
}

func (s *Store) GetSession(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !sess.ExpiresAt.After(s.now()) {
		delete(s.sessions, id)
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (s *Store) SaveSession(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.sessions[session.ID]; ok {
		session.CreatedAt = existing.CreatedAt
	} else {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	s.sessions[session.ID] = *session
	return nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
