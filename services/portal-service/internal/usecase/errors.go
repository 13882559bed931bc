package usecase

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrNoPendingVerification = errors.New("no pending verification")
	ErrInvalidCode           = errors.New("invalid verification code")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserNotVerified       = errors.New("user not verified")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAppointmentNotFound   = errors.New("appointment not found or unauthorized")

	// ErrNotificationFailed is returned after the state change it reports
	// on has already been committed. Status changes may be repeated to
	// resend; a failed verification email is resent with
	// ResendVerification, since repeating Register reports a conflict.
	ErrNotificationFailed = errors.New("notification failed")
)

// ValidationError lists the input fields that were missing or empty.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return "invalid input: " + strings.Join(names, ", ")
}
