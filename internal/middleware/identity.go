package middleware

// identity.go holds helpers that read the caller identity stored by JWTAuth.
// When no token was verified the helpers return empty values, so they are
// safe to call from middleware that also runs on public routes.

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Email returns the email claim of the verified token, or "" when the
// request is unauthenticated or the token carried no email.
func Email(c echo.Context) string {
	email, _ := c.Get(EmailKey).(string)
	return email
}

// Claims returns the full decoded claim set, or nil.
func Claims(c echo.Context) jwt.MapClaims {
	claims, _ := c.Get(ClaimsKey).(jwt.MapClaims)
	return claims
}

// callerID identifies the caller for rate limiting.  Unauthenticated callers
// share the "anon" identity and are separated by IP instead.
func callerID(c echo.Context) string {
	if email := Email(c); email != "" {
		return email
	}
	return "anon"
}
