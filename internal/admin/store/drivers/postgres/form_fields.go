package postgres

import (
	"context"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

type formFieldsRepo struct {
	db querier
}

func (r *formFieldsRepo) ListForCategory(ctx context.Context, categorySlug, slugFilter string) ([]domain.FormField, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.id, f.slug, f.label_en, f.label_es, f.description_en, f.description_es,
		       f.component_type, f.form_step_id, f.column_name, f.table_name, f.is_active,
		       f.created_at, f.updated_at, f.deleted_at,
		       `+formValueColumnsV+`
		FROM form_fields f
		JOIN form_values v ON v.form_field_id = f.id
		WHERE strpos(f.slug, $1) > 0
		  AND f.deleted_at IS NULL
		  AND v.deleted_at IS NULL
		  AND (
		        v.in_category_slugs IS NULL
		     OR cardinality(v.in_category_slugs) = 0
		     OR $2 = ANY(v.in_category_slugs)
		  )
		ORDER BY f.slug, v.rank ASC NULLS LAST, v.slug`,
		slugFilter, categorySlug,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FormField
	for rows.Next() {
		var (
			f domain.FormField
			v domain.FormValue
		)
		dest := []any{
			&f.ID, &f.Slug, &f.LabelEn, &f.LabelEs, &f.DescriptionEn, &f.DescriptionEs,
			&f.ComponentType, &f.FormStepID, &f.ColumnName, &f.TableName, &f.IsActive,
			&f.CreatedAt, &f.UpdatedAt, &f.DeletedAt,
		}
		if err := rows.Scan(append(dest, formValueDest(&v)...)...); err != nil {
			return nil, err
		}

		if n := len(out); n == 0 || out[n-1].ID != f.ID {
			out = append(out, f)
		}
		last := &out[len(out)-1]
		last.Values = append(last.Values, v)
	}
	return out, rows.Err()
}

func (r *formFieldsRepo) CreateFormField(ctx context.Context, f domain.FormField) (int64, error) {
	now := time.Now().UTC()

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO form_fields (slug, label_en, label_es, description_en, description_es,
		    component_type, form_step_id, column_name, table_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		f.Slug, f.LabelEn, f.LabelEs, f.DescriptionEn, f.DescriptionEs,
		f.ComponentType, f.FormStepID, f.ColumnName, f.TableName, f.IsActive, now, now,
	).Scan(&id)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return id, nil
}
