package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-portal/internal/domain"
	apperrors "github.com/spec-kit/job-portal/pkg/util"
)

const identityKey = "auth_identity"

type identityCtxKey struct{}

// IdentityGate resolves the session token on protected routes.
type IdentityGate struct {
	tokens     *TokenManager
	cookieName string
}

// NewIdentityGate constructs middleware reading the named session cookie.
func NewIdentityGate(tokens *TokenManager, cookieName string) *IdentityGate {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &IdentityGate{tokens: tokens, cookieName: cookieName}
}

// Handle enforces authentication. The cookie wins over the Authorization header.
func (g *IdentityGate) Handle(c *fiber.Ctx) error {
	token := g.candidateToken(c)
	if token == "" {
		return apperrors.NewUnauthenticated("no token provided")
	}

	identity, err := g.tokens.Verify(token)
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}

	c.Locals(identityKey, identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

func (g *IdentityGate) candidateToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Cookies(g.cookieName)); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityFromContext retrieves the identity attached by the gate.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	if !ok || identity.SubjectID == "" {
		return domain.Identity{}, false
	}
	return identity, true
}

// WithIdentity stores identity on a context for code below the HTTP layer.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFrom reads an identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return identity, ok
}
