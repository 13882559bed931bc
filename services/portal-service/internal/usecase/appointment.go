package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/repository"
)

// AppointmentUsecase manages the appointments of the signed-in user. Every
// method returns ErrUnauthorized before touching the store unless the
// session is authenticated.
type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, sess *model.Session, params CreateAppointmentParams) (*model.Appointment, error)
	ListAppointments(ctx context.Context, sess *model.Session) ([]*model.Appointment, error)
	GetAppointment(ctx context.Context, sess *model.Session, id string) (*model.Appointment, error)

	// AcceptAppointment confirms the appointment and then notifies its
	// owner. On ErrNotificationFailed the returned appointment is already
	// confirmed.
	AcceptAppointment(ctx context.Context, sess *model.Session, id string) (*model.Appointment, error)

	// CancelAppointment cancels the appointment and then notifies its
	// owner, with the same ordering as AcceptAppointment.
	CancelAppointment(ctx context.Context, sess *model.Session, id string) (*model.Appointment, error)
}

// CreateAppointmentParams defines the parameters for booking an appointment.
type CreateAppointmentParams struct {
	Type  string
	Date  string
	Time  string
	Notes string
}

type appointmentUsecase struct {
	appointmentRepo repository.AppointmentRepository
	notifier        Notifier
}

func NewAppointmentUsecase(appointmentRepo repository.AppointmentRepository, notifier Notifier) AppointmentUsecase {
	return &appointmentUsecase{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
	}
}

func (u *appointmentUsecase) CreateAppointment(
	ctx context.Context,
	sess *model.Session,
	params CreateAppointmentParams,
) (*model.Appointment, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, err
	}

	params.Type = strings.TrimSpace(params.Type)
	params.Notes = strings.TrimSpace(params.Notes)

	fields := map[string]string{}
	if params.Type == "" {
		fields["type"] = "type is required"
	}
	if strings.TrimSpace(params.Date) == "" {
		fields["date"] = "date is required"
	}
	if strings.TrimSpace(params.Time) == "" {
		fields["time"] = "time is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return u.appointmentRepo.CreateAppointment(ctx, &model.Appointment{
		UserEmail: owner,
		Type:      params.Type,
		Date:      params.Date,
		Time:      params.Time,
		Notes:     params.Notes,
		Status:    model.AppointmentPending,
	})
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, sess *model.Session) ([]*model.Appointment, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, err
	}

	return u.appointmentRepo.ListAppointmentsByOwner(ctx, owner)
}

func (u *appointmentUsecase) GetAppointment(
	ctx context.Context,
	sess *model.Session,
	id string,
) (*model.Appointment, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.GetOwnedAppointment(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return appointment, nil
}

func (u *appointmentUsecase) AcceptAppointment(
	ctx context.Context,
	sess *model.Session,
	id string,
) (*model.Appointment, error) {
	return u.transition(ctx, sess, id, model.AppointmentConfirmed, confirmationEmail)
}

func (u *appointmentUsecase) CancelAppointment(
	ctx context.Context,
	sess *model.Session,
	id string,
) (*model.Appointment, error) {
	return u.transition(ctx, sess, id, model.AppointmentCancelled, cancellationEmail)
}

// transition commits the status change before notifying, so a failed
// notification never hides a change that already happened.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	sess *model.Session,
	id string,
	status model.AppointmentStatus,
	message func(*model.Appointment) (string, string),
) (*model.Appointment, error) {
	owner, err := ownerOf(sess)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.UpdateOwnedAppointmentStatus(ctx, id, owner, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	subject, body := message(appointment)
	if err := u.notifier.SendHTML(ctx, appointment.UserEmail, subject, body); err != nil {
		return appointment, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return appointment, nil
}

func ownerOf(sess *model.Session) (string, error) {
	email, ok := sess.AuthenticatedEmail()
	if !ok {
		return "", ErrUnauthorized
	}

	return email, nil
}
