package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
)

// RoleLookup loads a user by email.  A nil user with a nil error means no
// such user.
type RoleLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// RequireAdmin must run after JWTAuth.  It re-reads the caller's user
// record on every request, so a role granted or revoked takes effect
// without issuing a new token.  Unknown users and non-admins get 403; a
// storage failure is passed to the error handler.
func RequireAdmin(users RoleLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := Email(c)
			if email == "" {
				return forbidden(c)
			}
			u, err := users.GetByEmail(c.Request().Context(), email)
			if err != nil {
				return err
			}
			if !u.IsAdmin() {
				return forbidden(c)
			}
			return next(c)
		}
	}
}

// RequireSelf must run after JWTAuth.  It allows the request only when the
// caller's email equals the named path parameter.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := Email(c)
			if email == "" || email != c.Param(param) {
				return forbidden(c)
			}
			return next(c)
		}
	}
}
