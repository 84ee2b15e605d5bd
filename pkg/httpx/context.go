package httpx

import (
	"context"
	"slices"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

// Principal is the authenticated caller of a request. A context without a
// Principal is anonymous.
type Principal struct {
	UserID    string
	Roles     []string
	Email     string
	FirstName string
	LastName  string
}

// HasRole reports whether the principal carries the canonical role slug.
func (p Principal) HasRole(slug string) bool {
	return slices.Contains(p.Roles, slug)
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the request principal, or false when the
// request is anonymous.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}
