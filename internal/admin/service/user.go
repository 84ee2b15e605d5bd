package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/store"
	"github.com/haulmatch/taxadmin/pkg/cryptox"
	"github.com/haulmatch/taxadmin/pkg/idx"
)

type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Roles     []string // role slugs; missing roles are created
}

func (in CreateUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, 0)),
	)
}

const defaultTOTPIssuer = "taxadmin"

// UserService holds the operator tasks behind taxadminctl.
type UserService struct {
	Store  store.Store
	Issuer string // TOTP issuer label
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, invalidInput(err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		for _, slug := range in.Roles {
			role, err := ensureRole(ctx, tx, slug)
			if err != nil {
				return err
			}
			if err := tx.Users().AssignRole(ctx, u.ID, role.ID); err != nil {
				return fmt.Errorf("assign role %q: %w", role.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, u.ID)
}

// GrantRole assigns a role to the user with the given email, creating the role if needed.
func (s *UserService) GrantRole(ctx context.Context, email, slug string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return mapStoreNotFound(err, "user "+email)
		}
		role, err := ensureRole(ctx, tx, slug)
		if err != nil {
			return err
		}
		return tx.Users().AssignRole(ctx, u.ID, role.ID)
	})
}

func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return mapStoreNotFound(err, "user "+email)
	}
	return s.Store.Users().DeleteUser(ctx, u.ID)
}

// EnrollTOTP generates and stores a TOTP secret for the user and returns the
// otpauth:// URL to load into an authenticator app.
func (s *UserService) EnrollTOTP(ctx context.Context, email string) (string, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return "", mapStoreNotFound(err, "user "+email)
	}

	issuer := s.Issuer
	if issuer == "" {
		issuer = defaultTOTPIssuer
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Store.Users().UpdateTOTPSecret(ctx, u.ID, key.Secret()); err != nil {
		return "", fmt.Errorf("store totp secret: %w", err)
	}
	return key.URL(), nil
}

func ensureRole(ctx context.Context, tx store.Tx, slug string) (domain.Role, error) {
	slug = domain.NormalizeSlug(slug)
	if slug == "" {
		return domain.Role{}, invalidInput(errors.New("role: slug must not be empty"))
	}

	role, err := tx.Roles().GetRoleBySlug(ctx, slug)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, err
	}

	role = domain.Role{ID: idx.New().String(), Name: slug, Slug: slug}
	if err := tx.Roles().CreateRole(ctx, role); err != nil {
		return domain.Role{}, fmt.Errorf("create role %q: %w", slug, err)
	}
	return role, nil
}

func mapStoreNotFound(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
