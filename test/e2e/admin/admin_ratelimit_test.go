package admin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haulmatch/taxadmin/pkg/adminsdk"
)

// TestRateLimitLogin verifies auth.login is limited to 5 requests per minute.
func TestRateLimitLogin(t *testing.T) {
	client := setupContainerWithDefaultRateLimits(t)
	ctx := t.Context()

	for i := range 5 {
		_, err := client.Login(ctx, adminsdk.LoginRequest{Email: adminEmail, Password: "wrong-password"})
		assertCode(t, err, adminsdk.CodeUnauthorized)
		require.False(t, adminsdk.IsCode(err, adminsdk.CodeTooManyRequests), "request %d should not be limited", i+1)
	}

	_, err := client.Login(ctx, adminsdk.LoginRequest{Email: adminEmail, Password: adminPassword})
	assertCode(t, err, adminsdk.CodeTooManyRequests)

	var rpcErr *adminsdk.RPCError
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, 429, rpcErr.StatusCode)
}

// TestPublicQueriesNotLimited verifies public queries tolerate a burst well past the login limit.
func TestPublicQueriesNotLimited(t *testing.T) {
	client := setupContainerWithDefaultRateLimits(t)

	for range 30 {
		_, err := client.GetCategories(t.Context())
		require.NoError(t, err)
	}
}
