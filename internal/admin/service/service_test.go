package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/store/drivers/sqlite"
	"github.com/haulmatch/taxadmin/pkg/cryptox"
	"github.com/haulmatch/taxadmin/pkg/httpx"
	"github.com/haulmatch/taxadmin/pkg/jwtx"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newCodec(t *testing.T) *jwtx.HS256Codec {
	t.Helper()
	c, err := jwtx.NewHS256Codec([]byte(testSecret), jwtx.WithIssuer("taxadmin-test"))
	require.NoError(t, err)
	return c
}

// seedUser creates a user with the given password and roles through UserService.
func seedUser(t *testing.T, st *sqlite.Store, email, password string, roles ...string) domain.User {
	t.Helper()
	users := &UserService{Store: st, Issuer: "taxadmin-test"}
	u, err := users.CreateUser(context.Background(), CreateUserInput{
		Email:     email,
		FirstName: "Ana",
		LastName:  "Ruiz",
		Password:  password,
		Roles:     roles,
	})
	require.NoError(t, err)
	return u
}

func asPrincipal(ctx context.Context, u domain.User) context.Context {
	return httpx.WithPrincipal(ctx, httpx.Principal{UserID: u.ID, Roles: u.RoleSlugs(), Email: u.Email})
}

func ptr[T any](v T) *T { return &v }
