package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
)

type UserStore interface {
	List(ctx context.Context, q model.UserQuery) ([]model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	CreateIfAbsent(ctx context.Context, u *model.User) (model.InsertResult, bool, error)
	SetBadge(ctx context.Context, email, badge string) (model.UpdateResult, error)
	SetAbout(ctx context.Context, email string, about map[string]any) (model.UpdateResult, error)
	PromoteToAdmin(ctx context.Context, id string) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
}

type UserHandler struct {
	Users UserStore
}

func NewUserHandler(users UserStore) *UserHandler {
	if users == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	return &UserHandler{Users: users}
}

func (h *UserHandler) List(c echo.Context) error {
	q := model.UserQuery{Name: c.QueryParam("userName"), Email: c.QueryParam("email")}
	users, err := h.Users.List(c.Request().Context(), q)
	return list(c, users, err)
}

// Get serves GET /users/:email and GET /admin/:email.
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.Users.GetByEmail(c.Request().Context(), c.Param("email"))
	return found(c, u, err)
}

// UpdateProfile serves PUT /users/:email.  A body with a non-empty
// "package" records a purchased badge; any other body, including one whose
// package is null, empty, false or 0, replaces the about blob.  Both create
// the user when missing.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var body map[string]any
	if err := bindBody(c, &body); err != nil {
		return err
	}
	ctx, email := c.Request().Context(), c.Param("email")

	if pkg := body["package"]; isSet(pkg) {
		badge, ok := pkg.(string)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "package must be a string")
		}
		res, err := h.Users.SetBadge(ctx, email, badge)
		return updated(c, res, err)
	}
	if body == nil {
		body = map[string]any{}
	}
	res, err := h.Users.SetAbout(ctx, email, body)
	return updated(c, res, err)
}

// IsAdmin serves GET /users/admin/:email.  Unknown users are not admins.
func (h *UserHandler) IsAdmin(c echo.Context) error {
	u, err := h.Users.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"admin": u.IsAdmin()})
}

func (h *UserHandler) Promote(c echo.Context) error {
	res, err := h.Users.PromoteToAdmin(c.Request().Context(), c.Param("id"))
	return updated(c, res, err)
}

// Create serves POST /users.  Signing in again with a known email is not an
// error; the existing record is left alone.
func (h *UserHandler) Create(c echo.Context) error {
	var u model.User
	if err := bindBody(c, &u); err != nil {
		return err
	}
	res, created, err := h.Users.CreateIfAbsent(c.Request().Context(), &u)
	if err != nil {
		return storeError(err)
	}
	if !created {
		return c.JSON(http.StatusOK, echo.Map{"message": "user already exists!", "insertedId": nil})
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Delete(c echo.Context) error {
	res, err := h.Users.Delete(c.Request().Context(), c.Param("id"))
	return deleted(c, res, err)
}

// isSet reports whether a decoded JSON value is present and not a zero
// scalar.  Objects and arrays count as set even when empty.
func isSet(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	}
	return true
}
