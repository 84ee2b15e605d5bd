package postgres

import (
	"context"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

type categoriesRepo struct {
	db querier
}

func (r *categoriesRepo) ListRoots(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.slug, c.parent_id, c.created_at, c.updated_at,
		       t.locale, t.name, t.description
		FROM transportation_categories c
		LEFT JOIN category_translations t ON t.category_id = c.id
		WHERE c.parent_id IS NULL
		ORDER BY c.slug, t.locale`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var (
			c                         domain.Category
			locale, name, description *string
		)
		if err := rows.Scan(&c.ID, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt, &locale, &name, &description); err != nil {
			return nil, err
		}

		if n := len(out); n == 0 || out[n-1].ID != c.ID {
			c.Translations = []domain.CategoryTranslation{}
			out = append(out, c)
		}
		if locale != nil {
			last := &out[len(out)-1]
			last.Translations = append(last.Translations, domain.CategoryTranslation{
				Locale:      *locale,
				Name:        deref(name),
				Description: deref(description),
			})
		}
	}
	return out, rows.Err()
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) (int64, error) {
	now := time.Now().UTC()

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO transportation_categories (slug, parent_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Slug, c.ParentID, now, now,
	).Scan(&id)
	if err != nil {
		return 0, mapConstraint(err)
	}

	for _, t := range c.Translations {
		_, err := r.db.Exec(ctx,
			`INSERT INTO category_translations (category_id, locale, name, description) VALUES ($1, $2, $3, $4)`,
			id, t.Locale, t.Name, t.Description,
		)
		if err != nil {
			return 0, mapConstraint(err)
		}
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
