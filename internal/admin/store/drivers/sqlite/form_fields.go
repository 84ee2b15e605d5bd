package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

type formFieldsRepo struct {
	db dbtx
}

func (r *formFieldsRepo) ListForCategory(ctx context.Context, categorySlug, slugFilter string) ([]domain.FormField, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.slug, f.label_en, f.label_es, f.description_en, f.description_es,
		       f.component_type, f.form_step_id, f.column_name, f.table_name, f.is_active,
		       f.created_at, f.updated_at, f.deleted_at,
		       `+formValueColumnsV+`
		FROM form_fields f
		JOIN form_values v ON v.form_field_id = f.id
		WHERE instr(f.slug, ?) > 0
		  AND f.deleted_at IS NULL
		  AND v.deleted_at IS NULL
		  AND (
		        v.in_category_slugs IS NULL
		     OR json_array_length(v.in_category_slugs) = 0
		     OR EXISTS (SELECT 1 FROM json_each(v.in_category_slugs) j WHERE j.value = ?)
		  )
		ORDER BY f.slug, v.rank IS NULL, v.rank, v.slug`,
		slugFilter, categorySlug,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FormField
	for rows.Next() {
		var (
			f        domain.FormField
			stepID   sql.NullInt64
			deleted  sql.NullTime
			valueRow formValueRow
		)
		dest := []any{
			&f.ID, &f.Slug, &f.LabelEn, &f.LabelEs, &f.DescriptionEn, &f.DescriptionEs,
			&f.ComponentType, &stepID, &f.ColumnName, &f.TableName, &f.IsActive,
			&f.CreatedAt, &f.UpdatedAt, &deleted,
		}
		if err := rows.Scan(append(dest, valueRow.dest()...)...); err != nil {
			return nil, err
		}
		v, err := valueRow.toDomain()
		if err != nil {
			return nil, err
		}

		// Rows are ordered by field slug, so a field's values are contiguous.
		if n := len(out); n == 0 || out[n-1].ID != f.ID {
			f.FormStepID = mapNullInt64Ptr(stepID)
			f.DeletedAt = mapNullTimePtr(deleted)
			out = append(out, f)
		}
		last := &out[len(out)-1]
		last.Values = append(last.Values, v)
	}
	return out, rows.Err()
}

func (r *formFieldsRepo) CreateFormField(ctx context.Context, f domain.FormField) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO form_fields (slug, label_en, label_es, description_en, description_es,
		    component_type, form_step_id, column_name, table_name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Slug, f.LabelEn, f.LabelEs, f.DescriptionEn, f.DescriptionEs,
		f.ComponentType, mapOptionalInt64(f.FormStepID), f.ColumnName, f.TableName, f.IsActive, now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}
