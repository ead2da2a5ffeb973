package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/naconsulta/internal/auth"
	"github.com/Leganyst/naconsulta/internal/errs"
)

const callerKey = "caller"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// Authenticate verifies an optional Bearer token and stores the caller.
// Requests without a token continue as auth.Anonymous; a bad token is 401.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			Abort(c, errs.Unauthorized("Malformed Authorization header"))
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			Abort(c, errs.Unauthorized("Invalid token").Wrap(err))
			return
		}

		c.Set(callerKey, claims.Caller())
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerFrom(c).Authenticated() {
			Abort(c, errs.Unauthorized("Authentication required"))
			return
		}
		c.Next()
	}
}

// RequireRole lets through callers holding at least one of authorities.
func RequireRole(authorities ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireAnyRole(CallerFrom(c), authorities...); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller set by Authenticate, or auth.Anonymous.
func CallerFrom(c *gin.Context) auth.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(auth.Caller); ok {
			return caller
		}
	}
	return auth.Anonymous
}
