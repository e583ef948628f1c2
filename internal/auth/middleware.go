package auth

import (
	"net/http"

	"go.uber.org/zap"

	"ordercrm/internal/domain"
	"ordercrm/internal/infrastructure/logger"
)

// Authenticate attaches the session principal, when present, to the request
// context. It never rejects a request.
func (m *SessionManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := m.Principal(r); ok {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles admits authenticated principals whose role is in roles.
// Anonymous requests go to the login page and everybody else to their own
// home page.
func RequireRoles(log *zap.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if !Allowed(p.Role, roles...) {
				logger.ForContext(r.Context(), log).Info("role not allowed",
					zap.Int("userId", p.UserID),
					zap.String("role", string(p.Role)),
					zap.String("path", r.URL.Path),
				)
				http.Redirect(w, r, HomePath(p), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfAuthenticated keeps logged-in users away from the login and
// registration screens.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFrom(r.Context()); ok {
			http.Redirect(w, r, HomePath(p), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
