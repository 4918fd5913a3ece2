package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

func newGateApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"message": de.Message})
		},
	})
	gate := NewIdentityGate(tm, DefaultCookieName)
	app.Get("/me", gate.Handle, func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		fromCtx, ok := IdentityFrom(c.UserContext())
		if !ok || fromCtx != identity {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"subject": identity.SubjectID})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return body
}

func TestIdentityGate(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("gate-secret", time.Hour)
	valid, _, err := tm.Issue("cookie-user")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	headerToken, _, err := tm.Issue("header-user")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	forged, _, err := NewTokenManager("other-secret", time.Hour).Issue("cookie-user")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	tests := []struct {
		name        string
		cookie      string
		header      string
		wantStatus  int
		wantSubject string
		wantMessage string
	}{
		{name: "cookie", cookie: valid, wantStatus: http.StatusOK, wantSubject: "cookie-user"},
		{name: "bearer header", header: "Bearer " + headerToken, wantStatus: http.StatusOK, wantSubject: "header-user"},
		{name: "cookie wins over header", cookie: valid, header: "Bearer " + headerToken, wantStatus: http.StatusOK, wantSubject: "cookie-user"},
		{name: "nothing", wantStatus: http.StatusUnauthorized, wantMessage: "no token provided"},
		{name: "header without scheme", header: headerToken, wantStatus: http.StatusUnauthorized, wantMessage: "no token provided"},
		{name: "forged cookie", cookie: forged, wantStatus: http.StatusUnauthorized, wantMessage: "invalid token"},
		{name: "garbage header", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantMessage: "invalid token"},
	}

	app := newGateApp(t, tm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decodeBody(t, resp)
			if tt.wantSubject != "" && body["subject"] != tt.wantSubject {
				t.Errorf("subject = %v, want %q", body["subject"], tt.wantSubject)
			}
			if tt.wantMessage != "" && body["message"] != tt.wantMessage {
				t.Errorf("message = %v, want %q", body["message"], tt.wantMessage)
			}
		})
	}
}

func TestIdentityGateRejectsExpired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	old := NewTokenManager("gate-secret", time.Minute).WithClock(func() time.Time { return issuedAt })
	token, _, err := old.Issue("late-user")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	app := newGateApp(t, NewTokenManager("gate-secret", time.Minute))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["message"] != "invalid token" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestSessionCookies(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		SetSessionCookie(c, DefaultCookieName, "tok", 24*time.Hour)
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		ClearSessionCookie(c, DefaultCookieName)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	cookies := resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	session := cookies[0]
	if session.Name != DefaultCookieName || session.Value != "tok" {
		t.Errorf("cookie = %s=%s", session.Name, session.Value)
	}
	if !session.HttpOnly {
		t.Error("session cookie must be httpOnly")
	}
	if session.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", session.SameSite)
	}
	if session.MaxAge != 86400 {
		t.Errorf("MaxAge = %d, want 86400", session.MaxAge)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/logout", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	cookies = resp.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	cleared := cookies[0]
	if cleared.Value != "" {
		t.Errorf("cleared cookie value = %q", cleared.Value)
	}
	if !cleared.Expires.Before(time.Now()) {
		t.Errorf("cleared cookie expires %v, want in the past", cleared.Expires)
	}
	// net/http reports an explicit Max-Age=0 as a negative MaxAge.
	if cleared.MaxAge >= 0 {
		t.Errorf("cleared cookie MaxAge = %d, want Max-Age=0 on the wire (%q)",
			cleared.MaxAge, resp.Header.Get(fiber.HeaderSetCookie))
	}
	if !cleared.HttpOnly || cleared.SameSite != http.SameSiteStrictMode || cleared.Path != "/" {
		t.Errorf("cleared cookie attributes = %+v", cleared)
	}
}
