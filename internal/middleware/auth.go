// Package middleware provides session loading, role guards and request
// instrumentation for the HTTP layer.
package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"

	"github.com/civickit/ballotbox/internal/services/session"
)

// userKey is the echo context key holding the session user.
const userKey = "session_user"

// LoadUser resolves the session identity into the echo context. Role checks
// always read this server-side state, never client-supplied claims.
func LoadUser(sm *scs.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user := session.GetUser(c.Request().Context(), sm); user != nil {
				c.Set(userKey, user)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the session user for the request, or nil.
func CurrentUser(c echo.Context) *session.User {
	user, _ := c.Get(userKey).(*session.User)
	return user
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "Unauthorized. Please login.",
			})
		}
		return next(c)
	}
}

// RequireRole rejects requests whose session lacks the given role with 403.
// Implies RequireAuth.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Unauthorized. Please login.",
				})
			}
			if user.Role != role {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "Forbidden. " + roleLabel(role) + " access required.",
				})
			}
			return next(c)
		}
	}
}

func roleLabel(role string) string {
	if role == "" {
		return "Unknown"
	}
	// "admin" -> "Admin"
	return string(role[0]-'a'+'A') + role[1:]
}
