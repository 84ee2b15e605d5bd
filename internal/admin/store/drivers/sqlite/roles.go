package sqlite

import (
	"context"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

type rolesRepo struct {
	db dbtx
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRole reads a role row; slugs written by other tools come back canonical.
func scanRole(row scanner) (domain.Role, error) {
	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Slug, &role.CreatedAt); err != nil {
		return domain.Role{}, err
	}
	role.Slug = domain.NormalizeSlug(role.Slug)
	return role, nil
}

func (r *rolesRepo) GetRoleBySlug(ctx context.Context, slug string) (domain.Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at FROM roles WHERE lower(trim(slug)) = ?`,
		domain.NormalizeSlug(slug),
	))
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, slug, created_at) VALUES (?, ?, ?, ?)`,
		role.ID, role.Name, domain.NormalizeSlug(role.Slug), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM roles ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
