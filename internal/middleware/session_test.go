package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/realtime-chat/internal/model"
	"github.com/iliyamo/realtime-chat/internal/utils"
)

const testSecret = "guard-test-secret"

type fakeLoader struct {
	users map[uint64]model.User
	err   error
}

func (f *fakeLoader) GetByID(_ context.Context, id uint64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

// runGuard sends a request through the guard with an optional cookie value
// and reports whether the downstream handler ran.
func runGuard(t *testing.T, loader *fakeLoader, cookieValue string, withCookie bool) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	next := func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}
	if err := SessionGuard(testSecret, loader)(next)(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	return rec, reached
}

func TestSessionGuard_NoCookie(t *testing.T) {
	t.Parallel()

	rec, reached := runGuard(t, &fakeLoader{}, "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if reached {
		t.Fatal("downstream handler must not run without a token")
	}
}

func TestSessionGuard_InvalidToken(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"garbage", "a.b.c", ""} {
		rec, reached := runGuard(t, &fakeLoader{}, tok, true)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d, want 401", tok, rec.Code)
		}
		if reached {
			t.Fatal("downstream handler must not run with an invalid token")
		}
	}
}

func TestSessionGuard_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewSessionToken("some-other-secret", 1, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	rec, reached := runGuard(t, &fakeLoader{}, tok, true)
	if rec.Code != http.StatusUnauthorized || reached {
		t.Fatalf("foreign-signed token must be rejected with 401, got %d", rec.Code)
	}
}

func TestSessionGuard_UserGone(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewSessionToken(testSecret, 99, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	rec, reached := runGuard(t, &fakeLoader{users: map[uint64]model.User{}}, tok, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for a deleted user", rec.Code)
	}
	if reached {
		t.Fatal("downstream handler must not run for a deleted user")
	}
}

func TestSessionGuard_StoreFailureIsGeneric500(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewSessionToken(testSecret, 1, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	loader := &fakeLoader{err: errors.New("connection refused to 10.0.0.5:3306")}
	rec, reached := runGuard(t, loader, tok, true)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if reached {
		t.Fatal("downstream handler must not run on store failure")
	}
	// Internal detail stays server-side.
	if body := rec.Body.String(); strings.Contains(body, "10.0.0.5") || strings.Contains(body, "connection refused") {
		t.Fatalf("response leaked internal error detail: %s", body)
	}
}

func TestSessionGuard_AttachesSanitizedUser(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewSessionToken(testSecret, 1, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	loader := &fakeLoader{users: map[uint64]model.User{
		1: {ID: 1, FullName: "John", Email: "john@example.com", PasswordHash: "$2a$10$secret"},
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.User
	next := func(c echo.Context) error {
		got = c.Get("user").(model.User)
		return c.NoContent(http.StatusOK)
	}
	if err := SessionGuard(testSecret, loader)(next)(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.ID != 1 || got.Email != "john@example.com" {
		t.Fatalf("attached user mismatch: %+v", got)
	}
	if got.PasswordHash != "" {
		t.Fatal("guard must strip the password hash before attaching the user")
	}
}

