// Package auth holds caller identity, token and password primitives.
//
// Services receive the caller explicitly; nothing here reads request-scoped
// globals.
package auth

import (
	"slices"

	"github.com/Leganyst/naconsulta/internal/errs"
	"github.com/Leganyst/naconsulta/internal/model"
)

// Caller is the authenticated identity behind a request, built from verified
// token claims.
type Caller struct {
	UserID int64
	Email  string
	Roles  []string
}

// Anonymous is the zero caller.
var Anonymous = Caller{}

func (c Caller) Authenticated() bool { return c.UserID > 0 }

func (c Caller) HasRole(authority string) bool {
	return slices.Contains(c.Roles, authority)
}

func (c Caller) IsAdmin() bool { return c.HasRole(model.RoleAdmin) }

// ValidateSelfOrAdmin allows the target user or an administrator.
func ValidateSelfOrAdmin(c Caller, userID int64) error {
	if !c.Authenticated() {
		return errs.Unauthorized("Authentication required")
	}
	if c.UserID != userID && !c.IsAdmin() {
		return errs.Forbidden("Access denied")
	}
	return nil
}

// RequireAnyRole allows callers holding at least one of authorities.
func RequireAnyRole(c Caller, authorities ...string) error {
	if !c.Authenticated() {
		return errs.Unauthorized("Authentication required")
	}
	for _, a := range authorities {
		if c.HasRole(a) {
			return nil
		}
	}
	return errs.Forbidden("Access denied")
}

// Identity is what the login flow verifies credentials against.
type Identity struct {
	UserID       int64
	Username     string
	PasswordHash string
	Authorities  []string
}

// Caller converts a verified identity into a request caller.
func (i *Identity) Caller() Caller {
	return Caller{UserID: i.UserID, Email: i.Username, Roles: slices.Clone(i.Authorities)}
}
