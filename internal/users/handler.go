package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hconline/permission-manager/internal/platform/httpx"
	"github.com/hconline/permission-manager/internal/shared"
)

// Handler manages user endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers user routes. The bearer middleware has already
// run; every handler receives an authenticated identity.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}", h.getUser)
	r.Put("/{id}", h.updateUser)
	r.Delete("/{id}", h.deleteUser)
}

type updateUserRequest struct {
	Email   string  `json:"email" validate:"omitempty,email"`
	RoleIDs []int64 `json:"role_ids"`
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}
	profile, err := h.service.GetUser(r.Context(), actor, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
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
	profile, err := h.service.UpdateUser(r.Context(), actor, id, UpdateUserInput{
		Email:   req.Email,
		RoleIDs: req.RoleIDs,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profile)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), actor, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) actorAndTarget(w http.ResponseWriter, r *http.Request) (shared.Identity, int64, bool) {
	actor, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return shared.Identity{}, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user id must be numeric")
		return shared.Identity{}, 0, false
	}
	return actor, id, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, shared.ErrNotFound) &&
		!errors.Is(err, shared.ErrForbidden) &&
		!errors.Is(err, shared.ErrRoleNotFound) &&
		!errors.Is(err, shared.ErrLastAdmin) &&
		!errors.Is(err, shared.ErrDuplicateEmail) {
		h.logger.Error("user operation failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
