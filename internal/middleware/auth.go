package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/services"
	"github.com/villagestay/villagestay/pkg/errors"
)

// Context keys set by Authenticate.
const (
	ContextUserID  = "user_id"
	ContextRole    = "role"
	ContextSession = "session"
)

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(token string) (*services.Session, error)
}

// Authenticate requires a valid bearer token whose session is still open.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return errors.New(errors.ErrCodeUnauthorized, "missing bearer token")
			}

			session, err := auth.Authenticate(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
			if err != nil {
				return err
			}

			c.Set(ContextUserID, session.UserID)
			c.Set(ContextRole, session.Role)
			c.Set(ContextSession, session)
			return next(c)
		}
	}
}

// OptionalAuthenticate attaches the session when a valid bearer token is sent
// and lets every other request through anonymously.
func OptionalAuthenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}
			if session, err := auth.Authenticate(strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))); err == nil {
				c.Set(ContextUserID, session.UserID)
				c.Set(ContextRole, session.Role)
				c.Set(ContextSession, session)
			}
			return next(c)
		}
	}
}

// RequireRole rejects authenticated requests whose role is not listed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return errors.New(errors.ErrCodeForbidden, "you do not have access to this resource")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

func Role(c echo.Context) string {
	role, _ := c.Get(ContextRole).(string)
	return role
}

// CurrentSession returns the session set by Authenticate, or nil.
func CurrentSession(c echo.Context) *services.Session {
	s, _ := c.Get(ContextSession).(*services.Session)
	return s
}
