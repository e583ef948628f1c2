package auth

import (
	"context"
	"errors"
	"fmt"

	"ordercrm/internal/domain"
)

const (
	LoginPath = "/login/"
	AdminHome = "/"

	// MsgInvalidCredentials is shown for every failed login, whatever the cause.
	MsgInvalidCredentials = "Username OR password is incorrect"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Principal is the authenticated user attached to a session.
type Principal struct {
	UserID     int
	Username   string
	Role       domain.Role
	CustomerID int
}

func (p Principal) IsAdmin() bool { return p.Role == domain.RoleAdmin }

// Allowed reports whether role is one of required.
func Allowed(role domain.Role, required ...domain.Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}

// HomePath is where a principal lands after login or after being turned
// away from a screen its role cannot see.
func HomePath(p Principal) string {
	if p.Role == domain.RoleCustomer && p.CustomerID > 0 {
		return fmt.Sprintf("/user/%d/", p.CustomerID)
	}
	if p.Role == domain.RoleAdmin {
		return AdminHome
	}
	return LoginPath
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
