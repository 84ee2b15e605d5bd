package jwtx

import (
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the lifetime of a dashboard session token. There is no
// refresh flow: once it lapses the operator logs in again.
const DefaultSessionTTL = 24 * time.Hour

// Payload is everything a session token carries about its user. It is the
// single schema shared by Issue and Verify.
type Payload struct {
	UserID    string
	Roles     []string
	Email     string
	FirstName string
	LastName  string
}

// SessionClaims is the wire form of Payload.
type SessionClaims struct {
	jwt.RegisteredClaims

	Roles     []string `json:"roles"`
	Email     string   `json:"email,omitempty"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
}

// NewSessionClaims builds claims for p valid from now until now+ttl.
func NewSessionClaims(p Payload, issuer string, ttl time.Duration, now time.Time) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Roles:     NormalizeRoles(p.Roles),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
}

// Payload converts the claims back into the domain payload.
func (c *SessionClaims) Payload() Payload {
	return Payload{
		UserID:    c.Subject,
		Roles:     c.Roles,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}

// Validate checks the custom parts of the schema. golang-jwt calls this after
// the registered claims (exp, nbf, iat) have been checked.
func (c *SessionClaims) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return ErrInvalidClaim
	}
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	for _, r := range c.Roles {
		if r == "" || r != strings.ToLower(r) {
			return ErrInvalidClaim
		}
	}
	return nil
}

// HasRole reports whether the claims include the given role slug.
func (c *SessionClaims) HasRole(slug string) bool {
	return slices.Contains(c.Roles, strings.ToLower(slug))
}

// NormalizeRoles lower-cases, trims, de-duplicates and sorts role slugs.
// Empty input yields nil.
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return out
}
