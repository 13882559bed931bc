package model

import (
	"time"
)

// SessionState is the identity state of one client connection.
type SessionState string

const (
	SessionAnonymous           SessionState = "anonymous"
	SessionPendingVerification SessionState = "pending_verification"
	SessionAuthenticated       SessionState = "authenticated"
)

// Session is the server-side state behind a session cookie. Email holds the
// pending email while verification is outstanding and the signed-in email
// once authenticated, so at most one of the two is ever present.
type Session struct {
	ID        string       `bson:"_id"`
	State     SessionState `bson:"state"`
	Email     string       `bson:"email,omitempty"`
	ExpiresAt time.Time    `bson:"expires_at"`
	CreatedAt time.Time    `bson:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

// NewSession returns an anonymous session with the given id.
func NewSession(id string) *Session {
	return &Session{ID: id, State: SessionAnonymous}
}

// BeginVerification marks the session as waiting for email's code.
func (s *Session) BeginVerification(email string) {
	s.State = SessionPendingVerification
	s.Email = email
}

// Authenticate binds the session to email, dropping any pending marker.
func (s *Session) Authenticate(email string) {
	s.State = SessionAuthenticated
	s.Email = email
}

// Reset returns the session to anonymous.
func (s *Session) Reset() {
	s.State = SessionAnonymous
	s.Email = ""
}

// PendingEmail returns the email awaiting verification, if any.
func (s *Session) PendingEmail() (string, bool) {
	if s == nil || s.State != SessionPendingVerification || s.Email == "" {
		return "", false
	}

	return s.Email, true
}

// AuthenticatedEmail returns the signed-in email, if any.
func (s *Session) AuthenticatedEmail() (string, bool) {
	if s == nil || s.State != SessionAuthenticated || s.Email == "" {
		return "", false
	}

	return s.Email, true
}
