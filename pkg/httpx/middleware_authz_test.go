package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haulmatch/taxadmin/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	anon := context.Background()
	editor := httpx.WithPrincipal(anon, httpx.Principal{UserID: "u1", Roles: []string{"editor"}})
	admin := httpx.WithPrincipal(anon, httpx.Principal{UserID: "u2", Roles: []string{"editor", "admin"}})
	shouting := httpx.WithPrincipal(anon, httpx.Principal{UserID: "u3", Roles: []string{"ADMIN"}})

	cases := []struct {
		name string
		ctx  context.Context
		tier httpx.Tier
		want error
	}{
		{"public anonymous", anon, httpx.TierPublic, nil},
		{"public admin", admin, httpx.TierPublic, nil},
		{"authenticated anonymous", anon, httpx.TierAuthenticated, httpx.ErrUnauthenticated},
		{"authenticated editor", editor, httpx.TierAuthenticated, nil},
		{"admin anonymous", anon, httpx.TierAdmin, httpx.ErrUnauthenticated},
		{"admin editor", editor, httpx.TierAdmin, httpx.ErrForbidden},
		{"admin admin", admin, httpx.TierAdmin, nil},
		{"admin non canonical slug", shouting, httpx.TierAdmin, httpx.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := httpx.Authorize(tc.ctx, tc.tier)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRequireTier(t *testing.T) {
	var hits int
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}), httpx.RequireTier(httpx.TierAdmin))

	serve := func(r *http.Request) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusUnauthorized, serve(req))

	req = withPrincipal(httptest.NewRequest(http.MethodGet, "/metrics", nil), "u1")
	require.Equal(t, http.StatusForbidden, serve(req))
	require.Zero(t, hits)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req = req.WithContext(httpx.WithPrincipal(req.Context(), httpx.Principal{UserID: "u2", Roles: []string{"admin"}}))
	require.Equal(t, http.StatusOK, serve(req))
	require.Equal(t, 1, hits)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("first"), mw("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}
