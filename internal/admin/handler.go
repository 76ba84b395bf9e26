// Package admin serves the administrative endpoints. The audit feed is
// a static placeholder until audit persistence lands; access control on
// it is real.
package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hconline/permission-manager/internal/platform/httpx"
	"github.com/hconline/permission-manager/internal/rbac"
	"github.com/hconline/permission-manager/internal/shared"
)

// AuditEntry is one row of the audit feed.
type AuditEntry struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Username  string    `json:"username"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler wires the admin endpoints.
type Handler struct {
	logger *slog.Logger
	rbac   rbac.Middleware
	roles  *rbac.Service
	now    func() time.Time
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, rbacMW rbac.Middleware, roles *rbac.Service) *Handler {
	return &Handler{logger: logger, rbac: rbacMW, roles: roles, now: time.Now}
}

// MountRoutes registers admin routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAuthority(shared.PermReadAudit))
		r.Get("/audit", h.getAuditFeed)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAuthority(shared.PermUpdateUser))
		r.Get("/roles", h.listRoles)
	})
}

type roleView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// listRoles returns the role catalog, so a caller preparing a role
// reassignment can look up valid role ids.
func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	views := make([]roleView, 0, len(roles))
	for _, role := range roles {
		view := roleView{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			Permissions: make([]string, 0, len(role.Permissions)),
		}
		for _, perm := range role.Permissions {
			view.Permissions = append(view.Permissions, perm.Name)
		}
		views = append(views, view)
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) getAuditFeed(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC()
	entries := []AuditEntry{
		{ID: 1, Action: "LOGIN", Username: "admin", Details: "User admin logged in", Timestamp: now.Add(-2 * time.Hour)},
		{ID: 2, Action: "UPDATE_USER", Username: "admin", Details: "User admin updated profile of user id 2", Timestamp: now.Add(-1 * time.Hour)},
		{ID: 3, Action: "DELETE_USER", Username: "admin", Details: "User admin deleted user id 3", Timestamp: now.Add(-30 * time.Minute)},
		{ID: 4, Action: "LOGIN", Username: "support", Details: "User support logged in", Timestamp: now.Add(-15 * time.Minute)},
		{ID: 5, Action: "READ_USER", Username: "support", Details: "User support viewed profile of user id 1", Timestamp: now.Add(-5 * time.Minute)},
	}
	httpx.JSON(w, http.StatusOK, entries)
}
