package jwtx_test

import (
	"testing"

	"github.com/haulmatch/taxadmin/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoles(t *testing.T) {
	require.Nil(t, jwtx.NormalizeRoles(nil))
	require.Nil(t, jwtx.NormalizeRoles([]string{"", "  "}))
	require.Equal(t, []string{"admin", "viewer"}, jwtx.NormalizeRoles([]string{"Viewer", "ADMIN", "admin "}))
}

func TestSessionClaims_HasRole(t *testing.T) {
	c := jwtx.SessionClaims{Roles: []string{"admin"}}
	require.True(t, c.HasRole("admin"))
	require.True(t, c.HasRole("ADMIN"))
	require.False(t, c.HasRole("editor"))
}
