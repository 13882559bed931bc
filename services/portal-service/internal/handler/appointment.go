package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/usecase"
)

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if _, ok := sess.AuthenticatedEmail(); !ok {
		h.writeUsecaseError(w, r, usecase.ErrUnauthorized, nil)
		return
	}

	var req CreateAppointmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), sess, usecase.CreateAppointmentParams{
		Type:  req.Type,
		Date:  req.Date,
		Time:  req.Time,
		Notes: req.Notes,
	})
	if err != nil {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, newAppointmentResponse(appointment))
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, newAppointmentListResponse(appointments))
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.appointmentUsecase.GetAppointment(
		r.Context(),
		sessionFromContext(r.Context()),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, newAppointmentResponse(appointment))
}

func (h *Handler) acceptAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.appointmentUsecase.AcceptAppointment(
		r.Context(),
		sessionFromContext(r.Context()),
		chi.URLParam(r, "id"),
	)
	h.writeStatusChange(w, r, appointment, err, "Appointment confirmed")
}

func (h *Handler) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.appointmentUsecase.CancelAppointment(
		r.Context(),
		sessionFromContext(r.Context()),
		chi.URLParam(r, "id"),
	)
	h.writeStatusChange(w, r, appointment, err, "Appointment cancelled")
}

func (h *Handler) writeStatusChange(
	w http.ResponseWriter,
	r *http.Request,
	appointment *model.Appointment,
	err error,
	message string,
) {
	if err != nil {
		h.writeUsecaseError(w, r, err, appointment)
		return
	}

	writeJSON(w, http.StatusOK, AppointmentActionResponse{
		Message:     message,
		Appointment: newAppointmentResponse(appointment),
	})
}
