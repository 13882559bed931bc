package handler

import (
	"errors"
	"net/http"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/usecase"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := sessionFromContext(r.Context())
	err := h.identityUsecase.Register(r.Context(), sess, usecase.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil && !errors.Is(err, usecase.ErrNotificationFailed) {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	// the account exists and the session is pending even if the code
	// could not be sent
	if err := h.rotateSession(w, r, sess); err != nil {
		h.writeSessionError(w, sess, err)
		return
	}
	if err != nil {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusAccepted, newSessionResponse(sess))
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := sessionFromContext(r.Context())
	if err := h.identityUsecase.ConfirmVerification(r.Context(), sess, req.Code); err != nil {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	// the account is verified and its code is gone, so retrying /verify
	// cannot succeed; the client has to log in instead
	if err := h.rotateSession(w, r, sess); err != nil {
		h.logger.Error().
			Err(err).
			Str("email", sess.Email).
			Msg("account verified but session could not be saved")
		writeError(w, http.StatusInternalServerError, "session_not_saved",
			"your email is verified but the session could not be saved, please log in")
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := h.identityUsecase.ResendVerification(r.Context(), sess); err != nil {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	writeJSON(w, http.StatusAccepted, newSessionResponse(sess))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	sess := sessionFromContext(r.Context())
	err := h.identityUsecase.Login(r.Context(), sess, usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeUsecaseError(w, r, err, nil)
		return
	}

	if err := h.rotateSession(w, r, sess); err != nil {
		h.writeSessionError(w, sess, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	h.identityUsecase.Logout(sess)

	if err := h.sessions.Destroy(r.Context(), sess); err != nil {
		h.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to delete session")
	}
	h.clearSessionCookie(w)

	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSessionResponse(sessionFromContext(r.Context())))
}
