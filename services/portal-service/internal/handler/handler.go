package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/session"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/usecase"
	"github.com/vasapolrittideah/appointment-portal/shared/validation"
)

const maxBodyBytes = 1 << 20

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	identityUsecase    usecase.IdentityUsecase
	appointmentUsecase usecase.AppointmentUsecase
	sessions           *session.Manager
	validator          *validation.Validator
	cookie             CookieConfig
	logger             *zerolog.Logger
}

func NewHandler(
	identityUsecase usecase.IdentityUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	sessions *session.Manager,
	validator *validation.Validator,
	cookie CookieConfig,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		identityUsecase:    identityUsecase,
		appointmentUsecase: appointmentUsecase,
		sessions:           sessions,
		validator:          validator,
		cookie:             cookie,
		logger:             logger,
	}
}

// RouterConfig controls transport behaviour around the handlers.
type RouterConfig struct {
	RequestTimeout time.Duration

	// TrustProxy takes the client address from X-Forwarded-For or
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxy bool
}

// NewRouter wires every portal route. Only /signup and /login go through
// the rate limiter.
func NewRouter(h *Handler, limiter *RateLimiter, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)

		r.With(limiter.Middleware).Post("/signup", h.signup)
		r.Post("/verify", h.verify)
		r.Post("/verify/resend", h.resendVerification)
		r.With(limiter.Middleware).Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/logout", h.logout)

		r.Route("/api", func(r chi.Router) {
			r.Get("/session", h.currentSession)

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", h.createAppointment)
				r.Get("/", h.listAppointments)
				r.Get("/{id}", h.getAppointment)
				r.Patch("/{id}/accept", h.acceptAppointment)
				r.Patch("/{id}/cancel", h.cancelAppointment)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into dst and validates it. On failure the
// response is already written and false is returned.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return false
	}

	fields, err := h.validator.Struct(dst)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to validate request")
		writeError(w, http.StatusInternalServerError, "internal", "something went wrong")
		return false
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    "validation_error",
			Message: "invalid request",
			Fields:  fields,
		}})
		return false
	}

	return true
}
