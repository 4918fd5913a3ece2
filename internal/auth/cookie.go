package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName carries the session token.
const DefaultCookieName = "token"

// SetSessionCookie writes the session token as an httpOnly, SameSite=Strict cookie.
func SetSessionCookie(c *fiber.Ctx, name, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an empty value and
// Max-Age=0. fiber.Cookie drops a zero MaxAge, so the header is written as is;
// Expires is kept for clients that ignore Max-Age.
func ClearSessionCookie(c *fiber.Ctx, name string) {
	c.Append(fiber.HeaderSetCookie, clearedCookie(name))
}

func clearedCookie(name string) string {
	return fmt.Sprintf("%s=; Path=/; Expires=%s; Max-Age=0; HttpOnly; SameSite=Strict",
		name, time.Unix(0, 0).UTC().Format(http.TimeFormat))
}
