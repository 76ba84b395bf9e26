package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hconline/permission-manager/internal/observability"
	"github.com/hconline/permission-manager/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	throttle  *LoginThrottle
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, throttle *LoginThrottle, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		throttle:  throttle,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginUser struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      loginUser `json:"user"`
}

// clientIP keys the throttle on the host alone. RemoteAddr carries a
// fresh ephemeral port per connection; keying on it would hand every
// reconnect a new window.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verrs[0].Error())
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid payload")
		return
	}

	allowed, err := h.throttle.Allow(r.Context(), clientIP(r))
	if err != nil {
		// Throttle store outage must not take logins down with it.
		h.logger.Warn("login throttle unavailable", slog.Any("error", err))
		allowed = true
	}
	if !allowed {
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "retry later")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveLogin(false)
		h.logger.Info("login rejected", slog.String("email", req.Email))
		httpx.RespondError(w, err)
		return
	}

	h.metrics.ObserveLogin(true)
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		Type:      "Bearer",
		ExpiresAt: result.ExpiresAt,
		User: loginUser{
			ID:          result.Identity.UserID,
			Username:    result.Identity.Username,
			Email:       result.Identity.Email,
			Roles:       result.Roles,
			Permissions: result.Permissions,
		},
	})
}
