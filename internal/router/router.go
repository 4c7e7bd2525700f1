// Package router registers the HTTP routes and their middleware.
package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dining-hall/internal/handler"
	"github.com/iliyamo/dining-hall/internal/middleware"
)

// Deps carries the process-scoped dependencies built in main.  The
// optional middleware fields may be nil.
type Deps struct {
	Secret string
	Roles  middleware.RoleLookup

	Auth       *handler.AuthHandler
	Meals      *handler.MealHandler
	Reviews    *handler.ReviewHandler
	Requests   *handler.RequestHandler
	Users      *handler.UserHandler
	Payments   *handler.PaymentHandler
	Complaints *handler.ComplaintHandler
	Uploads    *handler.UploadHandler

	Cache      echo.MiddlewareFunc // serves cached listings
	Invalidate echo.MiddlewareFunc // clears them after writes
	Limit      echo.MiddlewareFunc // per-caller rate limit
	Metrics    *middleware.Metrics // exposed on GET /metrics
}

// Register adds every route of the table to e.  The per-route chain is
// authentication, authorization, rate limit, cache invalidation and
// response cache, in that order.
func Register(e *echo.Echo, d Deps) {
	for _, r := range routes(d) {
		e.Add(r.Method, r.Path, r.Handler, d.chain(r)...)
	}
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}
}

func (d Deps) chain(r route) []echo.MiddlewareFunc {
	var mw []echo.MiddlewareFunc
	switch r.Access {
	case Authenticated:
		mw = append(mw, middleware.JWTAuth(d.Secret))
	case Admin:
		mw = append(mw, middleware.JWTAuth(d.Secret), middleware.RequireAdmin(d.Roles))
	case Self:
		mw = append(mw, middleware.JWTAuth(d.Secret), middleware.RequireSelf(r.SelfParam))
	}
	if d.Limit != nil {
		mw = append(mw, d.Limit)
	}
	if r.Invalidates && d.Invalidate != nil {
		mw = append(mw, d.Invalidate)
	}
	if r.Cached && d.Cache != nil {
		mw = append(mw, d.Cache)
	}
	return mw
}

// ErrorHandler renders HTTP errors as {"message": ...} and everything else
// as a plain-text 500.  The cause of a 500 is logged, never sent.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("http error")
		}
		writeError(c, he.Code, func() error {
			return c.JSON(he.Code, echo.Map{"message": messageOf(he)})
		})
		return
	}
	log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("unhandled error")
	writeError(c, http.StatusInternalServerError, func() error {
		return c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	})
}

func writeError(c echo.Context, code int, write func() error) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = write()
	}
	if err != nil {
		log.Warn().Err(err).Msg("write error response")
	}
}

func messageOf(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	if he.Message == nil {
		return http.StatusText(he.Code)
	}
	return fmt.Sprint(he.Message)
}
