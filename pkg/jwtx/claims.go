package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryThreshold is how close to expiry a token has to be before
// IsExpiringSoon reports it.
const DefaultExpiryThreshold = 300 * time.Second

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrNoExpiry    = errors.New("jwtx: token has no expiry")
)

// Claims are the access-token claims the storefront backend issues. Only the
// fields the client reads are mapped, the rest of the payload is ignored.
type Claims struct {
	jwt.RegisteredClaims

	// Role or authority of the subject ("ROLE_USER", "ADMIN", ...)
	Role string `json:"role,omitempty"`

	// Some backends put a list of authorities instead of a single role.
	Authorities []string `json:"authorities,omitempty"`

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`

	// Permission Scopes "cart:write orders:read"
	Scopes []string `json:"scopes,omitempty"`
}

// PrimaryRole returns the role claim, falling back to the first authority.
func (c *Claims) PrimaryRole() string {
	if c.Role != "" {
		return c.Role
	}
	if len(c.Authorities) > 0 {
		return c.Authorities[0]
	}
	return ""
}

// ExpiresAtTime returns the exp claim and whether it was present.
func (c *Claims) ExpiresAtTime() (time.Time, bool) {
	if c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
// Unlike a server-side verifier a missing exp is rejected, the client can't
// tell how long such a token will be honoured.
func (c *Claims) ValidateExpiry(now time.Time) error {
	return c.ValidateExpiryWithLeeway(now, 0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	exp, ok := c.ExpiresAtTime()
	if !ok {
		return ErrNoExpiry
	}

	if !now.Before(exp.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
