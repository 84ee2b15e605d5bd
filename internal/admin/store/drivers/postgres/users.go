package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/jackc/pgx/v5"
)

type usersRepo struct {
	db querier
}

const userColumns = `id, email, first_name, last_name, password_hash, totp_secret, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getWithRoles(ctx, r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getWithRoles(ctx, r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	))
}

func (r *usersRepo) getWithRoles(ctx context.Context, row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.TOTPSecret, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.name, r.slug, r.created_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.slug`, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	roles, err := pgx.CollectRows(rows, scanRole)
	if err != nil {
		return domain.User{}, err
	}
	if len(roles) > 0 {
		u.Roles = roles
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.FirstName, u.LastName,
		u.PasswordHash, u.TOTPSecret, now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *usersRepo) UpdateTOTPSecret(ctx context.Context, userID, secret string) error {
	var s *string
	if secret != "" {
		s = &secret
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET totp_secret = $1, updated_at = $2 WHERE id = $3`,
		s, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (r *usersRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, roleID,
	)
	return mapConstraint(err)
}
