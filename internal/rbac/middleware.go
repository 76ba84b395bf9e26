package rbac

import (
	"log/slog"
	"net/http"

	"github.com/hconline/permission-manager/internal/platform/httpx"
	"github.com/hconline/permission-manager/internal/shared"
)

// Middleware wires authority checks for HTTP handlers. It only covers
// the authority-only decision shape; ownership-aware decisions live in
// the service layer where the target id is known.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAuthority rejects requests whose authenticated identity lacks
// the given authority. Requests without an identity are unauthorized
// rather than forbidden.
func (m Middleware) RequireAuthority(authority shared.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrInvalidCredentials)
				return
			}
			if !actor.HasAuthority(authority) {
				if m.Logger != nil {
					m.Logger.Warn("authority check failed",
						slog.Int64("user_id", actor.UserID),
						slog.String("authority", string(authority)),
						slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
