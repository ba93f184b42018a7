// Package middleware contains the HTTP middleware for the delivery layer.
package middleware

import (
	"net/http"
	"net/url"

	"campus/config"
	"campus/internal/authstate"
	"campus/internal/delivery/http/response"
	"campus/internal/domain/entity"
	"campus/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Context key under which the guard stores the admitted user.
const UserContextKey = "authUser"

// GuardMiddleware gates routes on the reconciled auth state. Checks
// run in a fixed order: session still being checked, then
// authentication, then role. A request never sees a role rejection
// while authentication itself is still unsettled.
type GuardMiddleware struct {
	container *authstate.Container
	sessions  usecase.SessionUsecase
	loginPath string
}

// NewGuardMiddleware is the constructor for GuardMiddleware.
func NewGuardMiddleware(container *authstate.Container, sessions usecase.SessionUsecase, cfg *config.Config) *GuardMiddleware {
	loginPath := "/auth/login"
	if cfg != nil && cfg.Auth != nil && cfg.Auth.LoginPath != "" {
		loginPath = cfg.Auth.LoginPath
	}

	return &GuardMiddleware{
		container: container,
		sessions:  sessions,
		loginPath: loginPath,
	}
}

// RequireAuth admits only authenticated requests. While the initial
// session check is still running it answers 503 rather than bouncing
// the user to login for a session that may be about to restore.
// Unauthenticated requests are redirected to the login page with the
// original path preserved for post-login return.
func (m *GuardMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		state := m.container.Snapshot()

		if !m.sessions.Ready() || state.IsLoading {
			return response.ServiceUnavailable(c, "SESSION_CHECKING", "Session is still being checked")
		}

		if !state.IsAuthenticated || state.User == nil {
			target := m.loginPath + "?redirect=" + url.QueryEscape(c.Request().URL.RequestURI())

			return c.Redirect(http.StatusFound, target)
		}

		c.Set(UserContextKey, state.User)

		return next(c)
	}
}

// RequireRole admits users whose role is at least the required one:
// an admin passes an instructor gate, an instructor passes a student
// gate. It must be used AFTER RequireAuth.
func (m *GuardMiddleware) RequireRole(required entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(UserContextKey).(*entity.User)
			if !ok {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied", "role information missing")
			}

			if !user.Role.Satisfies(required) {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied",
					"requires '"+required.String()+"' role, have '"+user.Role.String()+"'")
			}

			return next(c)
		}
	}
}

// RequireAnyRole admits users whose role exactly matches one of the
// listed roles, with no hierarchy applied. It must be used AFTER
// RequireAuth.
func (m *GuardMiddleware) RequireAnyRole(roles ...entity.Role) echo.MiddlewareFunc {
	allowed := entity.Roles(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(UserContextKey).(*entity.User)
			if !ok {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied", "role information missing")
			}

			if !allowed.Contains(user.Role) {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied",
					"role '"+user.Role.String()+"' is not allowed here")
			}

			return next(c)
		}
	}
}
