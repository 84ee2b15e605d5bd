package httpx

import (
	"context"
	"errors"
	"net/http"
)

// RoleAdmin is the canonical slug of the administrator role.
const RoleAdmin = "admin"

// Tier is the minimum trust level an operation requires.
type Tier int

const (
	TierPublic Tier = iota
	TierAuthenticated
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierAuthenticated:
		return "authenticated"
	case TierAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
)

// Authorize checks the principal in ctx against tier. It has no side effects.
func Authorize(ctx context.Context, tier Tier) error {
	if tier == TierPublic {
		return nil
	}

	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if tier == TierAdmin && !p.HasRole(RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

// RequireTier rejects requests whose principal does not satisfy tier.
// It expects SessionMiddleware to have run earlier in the chain.
func RequireTier(tier Tier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch err := Authorize(r.Context(), tier); {
			case errors.Is(err, ErrUnauthenticated):
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required.")
			case errors.Is(err, ErrForbidden):
				WriteError(w, http.StatusForbidden, "forbidden", "Access denied. Admin role required.")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
