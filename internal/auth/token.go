package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/job-portal/internal/domain"
)

// ErrInvalidToken is returned by Decode for every verification failure.
var ErrInvalidToken = errors.New("invalid token")

var errEmptySecret = errors.New("empty signing secret")

// tokenClaims describes the JWT payload.
type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Encode signs claims with secret using HS256. Timestamps are truncated to
// whole seconds, so identical inputs always produce the same token.
func Encode(claims domain.SessionClaims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errEmptySecret
	}
	if claims.SubjectID == "" {
		return "", errors.New("session claims missing subject")
	}
	payload := &tokenClaims{
		UserID: claims.SubjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.SubjectID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(secret)
}

// Decode verifies token against secret and returns its subject.
// A token is accepted up to and including its expiry second; there is no leeway.
func Decode(token string, secret []byte, now time.Time) (domain.Identity, error) {
	if len(secret) == 0 {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, errEmptySecret)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	var claims tokenClaims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Identity{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return domain.Identity{}, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}
	if now.After(claims.ExpiresAt.Time) {
		return domain.Identity{}, fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return domain.Identity{SubjectID: subject}, nil
}

// TokenManager binds the process-wide secret and session lifetime to the codec.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// TTL is the lifetime of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a fresh session for subjectID.
func (tm *TokenManager) Issue(subjectID string) (string, domain.SessionClaims, error) {
	issuedAt := tm.now().Truncate(time.Second)
	claims := domain.SessionClaims{
		SubjectID: subjectID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(tm.ttl),
	}
	token, err := Encode(claims, tm.secret)
	if err != nil {
		return "", domain.SessionClaims{}, err
	}
	return token, claims, nil
}

// Verify decodes token against the configured secret at the current time.
func (tm *TokenManager) Verify(token string) (domain.Identity, error) {
	return Decode(token, tm.secret, tm.now())
}
