package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hconline/permission-manager/internal/platform/httpx"
	"github.com/hconline/permission-manager/internal/shared"
)

// BearerMiddleware verifies the Authorization header and places the
// reconstructed identity into the request context. Handlers pass that
// identity explicitly into every decision; nothing downstream reads
// ambient security state.
type BearerMiddleware struct {
	Issuer *TokenIssuer
	Logger *slog.Logger
}

// Authenticate is the middleware entrypoint.
func (m *BearerMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, shared.ErrInvalidCredentials)
			return
		}
		identity, err := m.Issuer.Parse(raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("bearer token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.RespondError(w, shared.ErrInvalidCredentials)
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
