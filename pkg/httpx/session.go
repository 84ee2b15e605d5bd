package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/haulmatch/taxadmin/pkg/jwtx"
	"github.com/haulmatch/taxadmin/pkg/slogx"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth-token"

// Session resolution outcomes, used as metric labels.
const (
	SessionAnonymous     = "anonymous"
	SessionAuthenticated = "authenticated"
	SessionInvalid       = "invalid"
)

// SessionVerifier verifies a raw session token. *jwtx.HS256Codec satisfies it.
type SessionVerifier interface {
	Verify(token string) (jwtx.Payload, error)
}

// SessionObserver is notified of every resolution outcome.
type SessionObserver interface {
	ObserveSession(result string)
}

// ResolveSession derives the principal of r from its session cookie. Any
// problem with the token yields an anonymous result, never an error.
func ResolveSession(r *http.Request, v SessionVerifier) (Principal, bool) {
	p, result, _ := resolve(r, v)
	return p, result == SessionAuthenticated
}

func resolve(r *http.Request, v SessionVerifier) (Principal, string, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return Principal{}, SessionAnonymous, nil
	}

	payload, err := v.Verify(c.Value)
	if err != nil {
		return Principal{}, SessionInvalid, err
	}

	return Principal{
		UserID:    payload.UserID,
		Roles:     payload.Roles,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	}, SessionAuthenticated, nil
}

// SessionMiddleware resolves the session cookie and stores the principal in
// the request context. Requests are never rejected here; the gate decides.
func SessionMiddleware(v SessionVerifier, obs SessionObserver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			p, result, err := resolve(r, v)
			if obs != nil {
				obs.ObserveSession(result)
			}

			switch result {
			case SessionInvalid:
				log := slogx.FromContext(ctx)
				if errors.Is(err, jwtx.ErrExpired) {
					log.Debug("session token expired")
				} else {
					log.Warn("session token rejected", "err", err)
				}
			case SessionAuthenticated:
				ctx = WithPrincipal(ctx, p)
				ctx = slogx.WithUser(ctx, p.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie attaches token as the session cookie for ttl.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie instructs the client to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
