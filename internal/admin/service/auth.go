package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/pquerna/otp/totp"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/metrics"
	"github.com/haulmatch/taxadmin/internal/admin/store"
	"github.com/haulmatch/taxadmin/pkg/cryptox"
	"github.com/haulmatch/taxadmin/pkg/httpx"
	"github.com/haulmatch/taxadmin/pkg/jwtx"
	"github.com/haulmatch/taxadmin/pkg/slogx"
)

const minPasswordLength = 6

// LoginObserver records login outcomes. *metrics.Metrics satisfies it.
type LoginObserver interface {
	ObserveLogin(outcome string)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, 0)),
		validation.Field(&in.OTP, validation.Length(6, 8), is.Digit),
	)
}

// LoginResult is a successful login: the identity plus the signed session
// token that the transport attaches as a cookie.
type LoginResult struct {
	Identity domain.Identity
	Token    string
	TTL      time.Duration
}

type AuthService struct {
	Store    store.Store
	Codec    jwtx.Codec
	TTL      time.Duration
	Observer LoginObserver // optional
}

// Login verifies credentials and issues a session token for administrators.
// Unknown emails and wrong passwords fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	res, outcome, err := s.login(ctx, in)
	if s.Observer != nil {
		s.Observer.ObserveLogin(outcome)
	}
	return res, err
}

func (s *AuthService) login(ctx context.Context, in LoginInput) (LoginResult, string, error) {
	log := slogx.FromContext(ctx)

	if err := in.Validate(); err != nil {
		return LoginResult{}, metrics.LoginInvalidInput, invalidInput(err)
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		cryptox.BurnVerify(in.Password)
		return LoginResult{}, metrics.LoginInvalidCredentials, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, metrics.LoginError, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyLogin(in.Password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash is unusable", "user_id", u.ID, "err", err)
		}
		return LoginResult{}, metrics.LoginInvalidCredentials, ErrInvalidCredentials
	}

	if !u.HasRole(httpx.RoleAdmin) {
		log.Info("login refused: missing admin role", "user_id", u.ID)
		return LoginResult{}, metrics.LoginAccessDenied, ErrAccessDenied
	}

	if u.HasTOTP() {
		if in.OTP == "" {
			return LoginResult{}, metrics.LoginOTPRequired, ErrOTPRequired
		}
		if !totp.Validate(in.OTP, *u.TOTPSecret) {
			return LoginResult{}, metrics.LoginInvalidCredentials, ErrInvalidCredentials
		}
	}

	token, err := s.Codec.Issue(jwtx.Payload{
		UserID:    u.ID,
		Roles:     u.RoleSlugs(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
	if err != nil {
		return LoginResult{}, metrics.LoginError, fmt.Errorf("issue session token: %w", err)
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	log.Info("login succeeded", "user_id", u.ID)
	return LoginResult{Identity: domain.NewIdentity(u), Token: token, TTL: ttl}, metrics.LoginSuccess, nil
}

// Me returns the current identity of the caller with roles re-read from the
// store. It returns nil for anonymous callers and for users that no longer exist.
func (s *AuthService) Me(ctx context.Context) (*domain.Identity, error) {
	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		return nil, nil
	}

	u, err := s.Store.Users().GetUserByID(ctx, p.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	id := domain.NewIdentity(u)
	return &id, nil
}
