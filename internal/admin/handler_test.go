package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hconline/permission-manager/internal/rbac"
	"github.com/hconline/permission-manager/internal/shared"
)

type stubRoleRepo struct {
	roles []rbac.Role
}

func (s *stubRoleRepo) GetRolesByIDs(ctx context.Context, ids []int64) ([]rbac.Role, error) {
	return s.roles, nil
}

func (s *stubRoleRepo) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	return s.roles, nil
}

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roles := rbac.NewService(&stubRoleRepo{roles: []rbac.Role{
		{ID: 1, Name: "USER", Permissions: []rbac.Permission{{ID: 1, Name: "READ_USER"}}},
		{ID: 3, Name: "ADMIN", Permissions: []rbac.Permission{{ID: 1, Name: "READ_USER"}, {ID: 3, Name: "DELETE_USER"}}},
	}})
	handler := NewHandler(logger, rbac.Middleware{Logger: logger}, roles)
	handler.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	r := chi.NewRouter()
	r.Route("/admin", handler.MountRoutes)
	return r
}

func getAuditAs(r chi.Router, identity *shared.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
	if identity != nil {
		req = req.WithContext(shared.ContextWithIdentity(req.Context(), *identity))
	}
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	return res
}

func TestAuditFeedRequiresReadAudit(t *testing.T) {
	r := testRouter(t)

	res := getAuditAs(r, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	regular := shared.Identity{UserID: 1, Authorities: shared.NewAuthoritySet(shared.PermReadUser)}
	res = getAuditAs(r, &regular)
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestAuditFeedContents(t *testing.T) {
	r := testRouter(t)
	support := shared.Identity{UserID: 2, Authorities: shared.NewAuthoritySet(shared.PermReadUser, shared.PermReadAudit)}

	res := getAuditAs(r, &support)
	require.Equal(t, http.StatusOK, res.Code)

	var entries []AuditEntry
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &entries))
	require.Len(t, entries, 5)
	assert.Equal(t, "LOGIN", entries[0].Action)
	assert.True(t, entries[0].Timestamp.Before(entries[4].Timestamp))
}

func TestRoleCatalog(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/roles", nil)
	viewer := shared.Identity{UserID: 3, Authorities: shared.NewAuthoritySet(shared.PermUpdateUser)}
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), viewer))
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var roles []struct {
		ID          int64    `json:"id"`
		Name        string   `json:"name"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &roles))
	require.Len(t, roles, 2)
	assert.Equal(t, "USER", roles[0].Name)
	assert.Equal(t, []string{"READ_USER", "DELETE_USER"}, roles[1].Permissions)

	// READ_AUDIT alone does not open the catalog.
	auditor := shared.Identity{UserID: 2, Authorities: shared.NewAuthoritySet(shared.PermReadAudit)}
	req = httptest.NewRequest(http.MethodGet, "/admin/roles", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), auditor))
	res = httptest.NewRecorder()
	r.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
}
