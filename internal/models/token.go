package models

import "time"

// TokenPayload is content of a bearer token
type TokenPayload struct {
	UserID    uint64
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now.
// A payload without expiry never expires.
func (p TokenPayload) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}
