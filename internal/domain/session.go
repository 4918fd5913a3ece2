package domain

import "time"

// SessionClaims is the payload signed into a session token.
type SessionClaims struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the verified subject of a request. It lives for one request only.
type Identity struct {
	SubjectID string
}
