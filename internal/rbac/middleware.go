package rbac

import (
	"fmt"
	"net/http"

	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/casavia/casavia/internal/platform/httpx"
	"github.com/casavia/casavia/internal/shared"
)

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger

	group singleflight.Group
}

// RequireAny ensures the current user holds at least one of the required
// permissions. Concurrent lookups for the same user collapse into one
// resolve; the result is never cached across requests.
func (m *Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := shared.ActorFromContext(r.Context())
			if !ok {
				httpx.Unauthorized(w)
				return
			}
			grants, err := m.resolve(r, userID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("rbac require any", slog.Any("error", err))
				}
				httpx.Error(w, shared.WrapUpstream(err, "permission check failed"))
				return
			}
			for _, p := range perms {
				if grants.Has(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Error(w, shared.NewForbidden("Insufficient permissions"))
		})
	}
}

func (m *Middleware) resolve(r *http.Request, userID int64) (Grants, error) {
	key := fmt.Sprintf("resolve:%d", userID)
	v, err, _ := m.group.Do(key, func() (any, error) {
		return m.Service.Resolve(r.Context(), userID)
	})
	if err != nil {
		return Grants{}, err
	}
	return v.(Grants), nil
}
