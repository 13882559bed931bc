package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/repository"
)

func TestCreateUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, &model.User{Email: "a@x.com", PasswordHash: "h", VerificationCode: "123456"})
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())
	assert.NotZero(t, u.CreatedAt)

	_, err = s.CreateUser(ctx, &model.User{Email: "a@x.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// case-sensitive as stored
	_, err = s.CreateUser(ctx, &model.User{Email: "A@x.com", PasswordHash: "h"})
	assert.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = s.GetUserByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVerifyUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, &model.User{Email: "a@x.com", VerificationCode: "123456"})
	require.NoError(t, err)

	_, err = s.VerifyUser(ctx, "a@x.com", "000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	u, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, u.Verified)
	assert.Equal(t, "123456", u.VerificationCode)

	u, err = s.VerifyUser(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Empty(t, u.VerificationCode)

	// a second use of the same code no longer matches
	_, err = s.VerifyUser(ctx, "a@x.com", "123456")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.SetVerificationCode(ctx, "a@x.com", "654321")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSetVerificationCode(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, &model.User{Email: "a@x.com", VerificationCode: "123456"})
	require.NoError(t, err)

	u, err := s.SetVerificationCode(ctx, "a@x.com", "654321")
	require.NoError(t, err)
	assert.Equal(t, "654321", u.VerificationCode)

	_, err = s.VerifyUser(ctx, "a@x.com", "123456")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.VerifyUser(ctx, "a@x.com", "654321")
	assert.NoError(t, err)
}

func TestOwnedAppointments(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mine, err := s.CreateAppointment(ctx, &model.Appointment{
		UserEmail: "a@x.com", Type: "Advising", Date: "2025-01-10", Time: "10:00", Status: model.AppointmentPending,
	})
	require.NoError(t, err)
	_, err = s.CreateAppointment(ctx, &model.Appointment{
		UserEmail: "b@x.com", Type: "Tutoring", Date: "2025-01-11", Time: "11:00", Status: model.AppointmentPending,
	})
	require.NoError(t, err)
	second, err := s.CreateAppointment(ctx, &model.Appointment{
		UserEmail: "a@x.com", Type: "Career", Date: "2025-01-12", Time: "12:00", Status: model.AppointmentPending,
	})
	require.NoError(t, err)

	list, err := s.ListAppointmentsByOwner(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, mine.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	empty, err := s.ListAppointmentsByOwner(ctx, "c@x.com")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	got, err := s.GetOwnedAppointment(ctx, mine.ID.Hex(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Advising", got.Type)

	_, err = s.GetOwnedAppointment(ctx, mine.ID.Hex(), "b@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetOwnedAppointment(ctx, "not-an-id", "a@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateOwnedAppointmentStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a, err := s.CreateAppointment(ctx, &model.Appointment{UserEmail: "a@x.com", Status: model.AppointmentPending})
	require.NoError(t, err)
	id := a.ID.Hex()

	_, err = s.UpdateOwnedAppointmentStatus(ctx, id, "b@x.com", model.AppointmentConfirmed)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := s.GetOwnedAppointment(ctx, id, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentPending, got.Status)

	updated, err := s.UpdateOwnedAppointmentStatus(ctx, id, "a@x.com", model.AppointmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentConfirmed, updated.Status)

	updated, err = s.UpdateOwnedAppointmentStatus(ctx, id, "a@x.com", model.AppointmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentConfirmed, updated.Status)

	updated, err = s.UpdateOwnedAppointmentStatus(ctx, id, "a@x.com", model.AppointmentCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCancelled, updated.Status)

	_, err = s.UpdateOwnedAppointmentStatus(ctx, id, "a@x.com", model.AppointmentPending)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = s.UpdateOwnedAppointmentStatus(ctx, id, "a@x.com", model.AppointmentRescheduled)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestSessions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	sess := model.NewSession("sid")
	sess.BeginVerification("a@x.com")
	sess.ExpiresAt = now.Add(time.Hour)
	require.NoError(t, s.SaveSession(ctx, sess))
	assert.Equal(t, now, sess.CreatedAt)

	got, err := s.GetSession(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, model.SessionPendingVerification, got.State)
	assert.Equal(t, "a@x.com", got.Email)

	now = now.Add(2 * time.Hour)
	_, err = s.GetSession(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.SaveSession(ctx, sess))
	require.NoError(t, s.DeleteSession(ctx, "sid"))
	require.NoError(t, s.DeleteSession(ctx, "sid"))
	_, err = s.GetSession(ctx, "sid")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
