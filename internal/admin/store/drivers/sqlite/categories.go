package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

type categoriesRepo struct {
	db dbtx
}

func (r *categoriesRepo) ListRoots(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
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

	var (
		out   []domain.Category
		index = map[int64]int{}
	)
	for rows.Next() {
		var (
			c                         domain.Category
			parent                    sql.NullInt64
			locale, name, description sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Slug, &parent, &c.CreatedAt, &c.UpdatedAt, &locale, &name, &description); err != nil {
			return nil, err
		}
		c.ParentID = mapNullInt64Ptr(parent)

		i, ok := index[c.ID]
		if !ok {
			c.Translations = []domain.CategoryTranslation{}
			out = append(out, c)
			i = len(out) - 1
			index[c.ID] = i
		}
		if locale.Valid {
			out[i].Translations = append(out[i].Translations, domain.CategoryTranslation{
				Locale:      locale.String,
				Name:        name.String,
				Description: description.String,
			})
		}
	}
	return out, rows.Err()
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transportation_categories (slug, parent_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.Slug, mapOptionalInt64(c.ParentID), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, t := range c.Translations {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO category_translations (category_id, locale, name, description) VALUES (?, ?, ?, ?)`,
			id, t.Locale, t.Name, t.Description,
		)
		if err != nil {
			return 0, mapConstraint(err)
		}
	}
	return id, nil
}
