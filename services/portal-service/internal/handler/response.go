package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/usecase"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error        errorBody            `json:"error"`
	StateChanged bool                 `json:"stateChanged,omitempty"`
	Appointment  *AppointmentResponse `json:"appointment,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: msg}})
}

// writeUsecaseError maps a usecase error onto the error envelope. The
// appointment, when given, is the record already committed before a
// notification failed.
func (h *Handler) writeUsecaseError(w http.ResponseWriter, r *http.Request, err error, committed *model.Appointment) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    "validation_error",
			Message: "missing required fields",
			Fields:  validationErr.Fields,
		}})
	case errors.Is(err, usecase.ErrNotificationFailed):
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("notification failed after state change")
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:        errorBody{Code: "notification_failed", Message: "the change was saved but the email could not be sent"},
			StateChanged: true,
			Appointment:  newAppointmentResponse(committed),
		})
	case errors.Is(err, usecase.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, "conflict", "user already exists")
	case errors.Is(err, usecase.ErrNoPendingVerification):
		writeError(w, http.StatusPreconditionFailed, "no_pending_verification", "no verification is pending for this session")
	case errors.Is(err, usecase.ErrInvalidCode):
		writeError(w, http.StatusUnprocessableEntity, "invalid_code", "invalid verification code")
	case errors.Is(err, usecase.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, usecase.ErrUserNotVerified):
		writeError(w, http.StatusForbidden, "not_verified", "please verify your email before logging in")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "bad_credentials", "invalid credentials")
	case errors.Is(err, usecase.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "login required")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "not_found_or_unauthorized", "appointment not found or unauthorized")
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal", "something went wrong")
	}
}
