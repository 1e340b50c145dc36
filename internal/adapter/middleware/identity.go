package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// The session layer in front of this service resolves credentials into a
// user id and role and forwards them as headers. This middleware only
// validates the shape and stashes them on the request context; authorization
// decisions stay in the handlers.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"

	ctxUserID = "identity.user_id"
	ctxRole   = "identity.role"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

func validRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Identity requires a well-formed X-User-Id on every request and an optional
// X-User-Role (defaults to "user").
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing " + HeaderUserID})
			}
			if !reHex32.MatchString(userID) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid " + HeaderUserID})
			}
			role := strings.TrimSpace(c.Request().Header.Get(HeaderRole))
			if role == "" {
				role = RoleUser
			}
			if !validRole(role) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid " + HeaderRole})
			}
			c.Set(ctxUserID, userID)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

func CurrentUserID(c echo.Context) string {
	if v, ok := c.Get(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func CurrentRole(c echo.Context) string {
	if v, ok := c.Get(ctxRole).(string); ok {
		return v
	}
	return RoleUser
}

// RequireRole guards a route group to the listed roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[CurrentRole(c)] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}
