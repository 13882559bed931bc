package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
)

type contextKey struct{}

var sessionKey = contextKey{}

// sessionFromContext returns the session loaded by sessionMiddleware.
func sessionFromContext(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionKey).(*model.Session)
	return sess
}

// sessionMiddleware resolves the session cookie into a session and stores
// it in the request context. Requests without a usable cookie get a fresh
// anonymous session that is only persisted once a handler commits it.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(h.cookie.Name); err == nil {
			token = cookie.Value
		}

		sess, err := h.sessions.Load(r.Context(), token)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to load session")
			writeError(w, http.StatusInternalServerError, "internal", "something went wrong")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// commitSession persists sess and refreshes the cookie. It must run before
// the response status is written.
func (h *Handler) commitSession(w http.ResponseWriter, r *http.Request, sess *model.Session) error {
	token, expiresAt, err := h.sessions.Save(r.Context(), sess)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// rotateSession commits sess under a new id. Used whenever the identity
// state changed, so a token obtained before the change stops working.
func (h *Handler) rotateSession(w http.ResponseWriter, r *http.Request, sess *model.Session) error {
	if err := h.sessions.Rotate(r.Context(), sess); err != nil {
		return err
	}

	return h.commitSession(w, r, sess)
}

func (h *Handler) writeSessionError(w http.ResponseWriter, sess *model.Session, err error) {
	h.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save session")
	writeError(w, http.StatusInternalServerError, "internal", "something went wrong")
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("http request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
