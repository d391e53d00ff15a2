package core

import (
	"net/http"
	"slices"

	manifest "github.com/joeydtaylor/steeze-codec/pkg/manifest"
	"github.com/joeydtaylor/steeze-codec/pkg/middleware/auth"
)

// withGuard enforces a route guard. A users list takes precedence over roles;
// admins pass any roles check.
func withGuard(next http.Handler, a *auth.Middleware, g manifest.Guard) http.Handler {
	if !g.RequireAuth && len(g.Users) == 0 && len(g.Roles) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Without auth middleware nobody can satisfy a guard.
		if a == nil || !a.IsAuthenticated(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		switch {
		case len(g.Users) > 0:
			if !slices.Contains(g.Users, a.GetUser(r.Context()).Username) {
				writeError(w, http.StatusForbidden, "forbidden", "Forbidden")
				return
			}
		case len(g.Roles) > 0:
			if !a.HasAnyRole(r.Context(), g.Roles...) {
				writeError(w, http.StatusForbidden, "forbidden", "Forbidden")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
