package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/metrics"
	"github.com/haulmatch/taxadmin/internal/admin/store/drivers/sqlite"
	"github.com/haulmatch/taxadmin/pkg/idx"
)

type loginRecorder struct{ outcomes []string }

func (r *loginRecorder) ObserveLogin(outcome string) { r.outcomes = append(r.outcomes, outcome) }

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	codec := newCodec(t)
	rec := &loginRecorder{}
	svc := &AuthService{Store: st, Codec: codec, Observer: rec}

	admin := seedUser(t, st, "admin@example.com", "correct-horse", "admin", "editor")
	seedUser(t, st, "viewer@example.com", "correct-horse", "viewer")

	t.Run("admin receives a verifiable token", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginInput{Email: "Admin@Example.com", Password: "correct-horse"})
		require.NoError(t, err)
		require.Equal(t, admin.ID, res.Identity.UserID)
		require.Equal(t, []string{"admin", "editor"}, res.Identity.Roles)
		require.Equal(t, 24*time.Hour, res.TTL)

		p, err := codec.Verify(res.Token)
		require.NoError(t, err)
		require.Equal(t, admin.ID, p.UserID)
		require.Equal(t, []string{"admin", "editor"}, p.Roles)
		require.Equal(t, "admin@example.com", p.Email)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
		_, errWrong := svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "wrong-horse"})
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("non-admin is denied after a correct password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "viewer@example.com", Password: "correct-horse"})
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, in := range []LoginInput{
			{Email: "", Password: "correct-horse"},
			{Email: "not-an-email", Password: "correct-horse"},
			{Email: "admin@example.com", Password: "short"},
			{Email: "admin@example.com", Password: "correct-horse", OTP: "12ab56"},
		} {
			_, err := svc.Login(ctx, in)
			require.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
		}
	})

	t.Run("outcomes are observed", func(t *testing.T) {
		rec.outcomes = nil
		_, _ = svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "correct-horse"})
		_, _ = svc.Login(ctx, LoginInput{Email: "admin@example.com", Password: "wrong-horse"})
		_, _ = svc.Login(ctx, LoginInput{Email: "viewer@example.com", Password: "correct-horse"})
		require.Equal(t, []string{
			metrics.LoginSuccess,
			metrics.LoginInvalidCredentials,
			metrics.LoginAccessDenied,
		}, rec.outcomes)
	})
}

func TestAuthService_Login_LegacyBcrypt(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &AuthService{Store: st, Codec: newCodec(t)}

	hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	role := domain.Role{ID: idx.New().String(), Name: "Admin", Slug: "admin"}
	require.NoError(t, st.Roles().CreateRole(ctx, role))
	u := domain.User{ID: idx.New().String(), Email: "old@example.com", PasswordHash: string(hash)}
	require.NoError(t, st.Users().CreateUser(ctx, u))
	require.NoError(t, st.Users().AssignRole(ctx, u.ID, role.ID))

	res, err := svc.Login(ctx, LoginInput{Email: "old@example.com", Password: "legacy-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, LoginInput{Email: "old@example.com", Password: "legacy-wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

// Role rows imported by other tools may carry upper-case or padded slugs.
func TestAuthService_Login_NonCanonicalStoredRole(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "admin.db")

	st, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	seedUser(t, st, "imported@example.com", "imported-pass", "admin")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	_, err = raw.ExecContext(ctx, `UPDATE roles SET slug = ' ADMIN ' WHERE slug = 'admin'`)
	require.NoError(t, err)

	codec := newCodec(t)
	svc := &AuthService{Store: st, Codec: codec}

	res, err := svc.Login(ctx, LoginInput{Email: "imported@example.com", Password: "imported-pass"})
	require.NoError(t, err)
	require.Equal(t, []string{"admin"}, res.Identity.Roles)

	payload, err := codec.Verify(res.Token)
	require.NoError(t, err)
	require.Equal(t, []string{"admin"}, payload.Roles)
}

func TestAuthService_Login_TOTP(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &AuthService{Store: st, Codec: newCodec(t)}
	users := &UserService{Store: st, Issuer: "taxadmin-test"}

	seedUser(t, st, "mfa@example.com", "correct-horse", "admin")
	url, err := users.EnrollTOTP(ctx, "mfa@example.com")
	require.NoError(t, err)
	require.Contains(t, url, "otpauth://totp/")

	u, err := st.Users().GetUserByEmail(ctx, "mfa@example.com")
	require.NoError(t, err)
	require.True(t, u.HasTOTP())

	_, err = svc.Login(ctx, LoginInput{Email: "mfa@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrOTPRequired)

	code, err := totp.GenerateCode(*u.TOTPSecret, time.Now())
	require.NoError(t, err)

	wrong := []byte(code)
	wrong[5] = '0' + (wrong[5]-'0'+5)%10
	_, err = svc.Login(ctx, LoginInput{Email: "mfa@example.com", Password: "correct-horse", OTP: string(wrong)})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, LoginInput{Email: "mfa@example.com", Password: "correct-horse", OTP: code})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &AuthService{Store: st, Codec: newCodec(t)}
	users := &UserService{Store: st}

	t.Run("anonymous", func(t *testing.T) {
		id, err := svc.Me(ctx)
		require.NoError(t, err)
		require.Nil(t, id)
	})

	u := seedUser(t, st, "me@example.com", "correct-horse", "admin")
	authed := asPrincipal(ctx, u)

	t.Run("roles are re-read from the store", func(t *testing.T) {
		require.NoError(t, users.GrantRole(ctx, "me@example.com", "auditor"))

		id, err := svc.Me(authed)
		require.NoError(t, err)
		require.NotNil(t, id)
		require.Equal(t, u.ID, id.UserID)
		require.Equal(t, []string{"admin", "auditor"}, id.Roles)
	})

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, users.DeleteUser(ctx, "me@example.com"))
		id, err := svc.Me(authed)
		require.NoError(t, err)
		require.Nil(t, id)
	})
}
