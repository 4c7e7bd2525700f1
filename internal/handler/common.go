// Package handler implements the HTTP endpoints.  Each handler struct holds
// the narrow storage interfaces it needs; the concrete repositories are
// wired in cmd/server.  Storage calls run on the request context, which the
// router bounds with a timeout.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
	"github.com/iliyamo/dining-hall/internal/repository"
)

// storeError maps repository sentinels to client errors.  Anything else is
// returned unchanged and rendered as a plain 500 by the error handler.
func storeError(err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	case errors.Is(err, repository.ErrEmptyEmail):
		return echo.NewHTTPError(http.StatusBadRequest, "email required")
	}
	return err
}

// bindBody decodes the JSON body only.  echo's Bind also copies path and
// query parameters into the target, which would leak them into free-form
// documents.
func bindBody(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

// parseSortOrder accepts 1/asc/ascending and -1/desc/descending.  An empty
// value yields 0, meaning unsorted.
func parseSortOrder(raw string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return 0, nil
	case "1", "asc", "ascending":
		return 1, nil
	case "-1", "desc", "descending":
		return -1, nil
	}
	return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid sort order")
}

func inserted(c echo.Context, res model.InsertResult, err error) error {
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func updated(c echo.Context, res model.UpdateResult, err error) error {
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func deleted(c echo.Context, res model.DeleteResult, err error) error {
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// found writes v, which is JSON null when the lookup matched nothing.
func found[T any](c echo.Context, v *T, err error) error {
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func list[T any](c echo.Context, items []T, err error) error {
	if err != nil {
		return storeError(err)
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}
