package postgres

import (
	"context"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/jackc/pgx/v5"
)

type rolesRepo struct {
	db querier
}

// scanRole reads a role row; slugs written by other tools come back canonical.
func scanRole(row pgx.CollectableRow) (domain.Role, error) {
	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Slug, &role.CreatedAt); err != nil {
		return domain.Role{}, err
	}
	role.Slug = domain.NormalizeSlug(role.Slug)
	return role, nil
}

func (r *rolesRepo) GetRoleBySlug(ctx context.Context, slug string) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRow(ctx,
		`SELECT id, name, slug, created_at FROM roles WHERE lower(btrim(slug)) = $1`,
		domain.NormalizeSlug(slug),
	).Scan(&role.ID, &role.Name, &role.Slug, &role.CreatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	role.Slug = domain.NormalizeSlug(role.Slug)
	return role, nil
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO roles (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`,
		role.ID, role.Name, domain.NormalizeSlug(role.Slug), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, created_at FROM roles ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRole)
}
