package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/model"
	"github.com/iliyamo/dining-hall/internal/utils"
)

const testSecret = "test-secret"

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := utils.SignClaims(testSecret, map[string]any{"email": email}, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok.Token
}

// serve runs one request through a fresh echo instance with a single route.
func serve(method, path, route, auth string, h echo.HandlerFunc, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	e.Add(method, route, h, mw...)
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func echoEmail(c echo.Context) error { return c.String(http.StatusOK, Email(c)) }

func TestJWTAuth(t *testing.T) {
	tok := token(t, "a@x.com")
	expired, err := utils.SignClaims(testSecret, map[string]any{"email": "a@x.com"}, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	other, err := utils.SignClaims("other-secret", map[string]any{"email": "a@x.com"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		auth   string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, `"unauthorized access"`},
		{"garbage", "Bearer nope", http.StatusUnauthorized, `"unauthorized access"`},
		{"expired", "Bearer " + expired.Token, http.StatusUnauthorized, `"unauthorized access"`},
		{"wrong secret", "Bearer " + other.Token, http.StatusUnauthorized, `"unauthorized access"`},
		{"bearer", "Bearer " + tok, http.StatusOK, "a@x.com"},
		{"bare token", tok, http.StatusOK, "a@x.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(http.MethodGet, "/me", "/me", tc.auth, echoEmail, JWTAuth(testSecret))
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if !strings.Contains(rec.Body.String(), tc.body) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tc.body)
			}
		})
	}
}

type fakeLookup struct {
	users map[string]*model.User
	err   error
}

func (f fakeLookup) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

func TestRequireAdmin(t *testing.T) {
	users := fakeLookup{users: map[string]*model.User{
		"admin@x.com": {Email: "admin@x.com", Role: model.RoleAdmin},
		"user@x.com":  {Email: "user@x.com"},
	}}

	cases := []struct {
		email  string
		status int
	}{
		{"admin@x.com", http.StatusOK},
		{"user@x.com", http.StatusForbidden},
		{"ghost@x.com", http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := serve(http.MethodGet, "/admin", "/admin", "Bearer "+token(t, tc.email), echoEmail,
			JWTAuth(testSecret), RequireAdmin(users))
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.email, rec.Code, tc.status)
		}
		if tc.status == http.StatusForbidden && !strings.Contains(rec.Body.String(), "forbidden access") {
			t.Errorf("%s: body = %q", tc.email, rec.Body.String())
		}
	}

	rec := serve(http.MethodGet, "/admin", "/admin", "Bearer "+token(t, "admin@x.com"), echoEmail,
		JWTAuth(testSecret), RequireAdmin(fakeLookup{err: errors.New("down")}))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("lookup failure: status = %d", rec.Code)
	}
}

func TestRequireAdminWithoutIdentity(t *testing.T) {
	// a token without an email claim must not match a user with an empty email
	tok, err := utils.SignClaims(testSecret, map[string]any{"sub": "x"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	users := fakeLookup{users: map[string]*model.User{"": {Role: model.RoleAdmin}}}
	rec := serve(http.MethodGet, "/admin", "/admin", "Bearer "+tok.Token, echoEmail,
		JWTAuth(testSecret), RequireAdmin(users))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequireSelf(t *testing.T) {
	tok := "Bearer " + token(t, "a@x.com")
	mw := []echo.MiddlewareFunc{JWTAuth(testSecret), RequireSelf("email")}

	if rec := serve(http.MethodGet, "/payments/a@x.com", "/payments/:email", tok, echoEmail, mw...); rec.Code != http.StatusOK {
		t.Errorf("own email: status = %d", rec.Code)
	}
	rec := serve(http.MethodGet, "/payments/other@x.com", "/payments/:email", tok, echoEmail, mw...)
	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Body.String(), "forbidden access") {
		t.Errorf("other email: status = %d body = %q", rec.Code, rec.Body.String())
	}
}
