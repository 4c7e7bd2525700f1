// Package middleware holds the echo middleware shared by the routes:
// authentication, access checks, the response cache, rate limiting, request
// logging and metrics.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ClaimsKey = "claims"
	EmailKey  = "email"
)

// JWTAuth returns an Echo middleware that requires a signed access token in
// the Authorization header.  The "Bearer " prefix is optional.  On success
// the decoded claims are stored under ClaimsKey and the email claim under
// EmailKey so that later middleware and handlers can read the caller's
// identity with Email(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return unauthorized(c)
			}
			// ParseToken strips the prefix and rejects anything but HS256.
			claims, err := utils.ParseToken(secret, auth)
			if err != nil {
				return unauthorized(c)
			}
			c.Set(ClaimsKey, claims)
			c.Set(EmailKey, utils.EmailClaim(claims))
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized access"})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden access"})
}
