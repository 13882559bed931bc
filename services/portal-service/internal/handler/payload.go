package handler

import (
	"time"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
)

type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyRequest carries no validation tags: an empty code is an invalid
// code, which only the identity flow can report once it knows the session
// is pending.
type VerifyRequest struct {
	Code string `json:"code"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAppointmentRequest struct {
	Type  string `json:"type"  validate:"required"`
	Date  string `json:"date"  validate:"required"`
	Time  string `json:"time"  validate:"required"`
	Notes string `json:"notes"`
}

type SessionResponse struct {
	State model.SessionState `json:"state"`
	Email string             `json:"email,omitempty"`
}

type AppointmentResponse struct {
	ID           string    `json:"_id"`
	UserEmail    string    `json:"userEmail"`
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Status       string    `json:"status"`
	PreviousDate string    `json:"previousDate,omitempty"`
	PreviousTime string    `json:"previousTime,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AppointmentActionResponse struct {
	Message     string               `json:"message"`
	Appointment *AppointmentResponse `json:"appointment"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func newSessionResponse(sess *model.Session) SessionResponse {
	return SessionResponse{State: sess.State, Email: sess.Email}
}

func newAppointmentResponse(a *model.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:           a.ID.Hex(),
		UserEmail:    a.UserEmail,
		Type:         a.Type,
		Date:         a.Date,
		Time:         a.Time,
		Status:       string(a.Status),
		PreviousDate: a.PreviousDate,
		PreviousTime: a.PreviousTime,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func newAppointmentListResponse(list []*model.Appointment) []*AppointmentResponse {
	out := make([]*AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, newAppointmentResponse(a))
	}
	return out
}
