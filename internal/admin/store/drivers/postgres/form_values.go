package postgres

import (
	"context"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

const formValueColumnsV = `v.id, v.slug, v.value_en, v.value_es, v.description_en, v.description_es,
		       v.form_field_id, v.is_active, v.group_en, v.group_es, v.in_category_slugs,
		       v.type, v.rank, v.created_at, v.updated_at, v.deleted_at`

// formValueDest lists scan targets matching formValueColumnsV. pgx writes
// NULL into the pointer fields as nil.
func formValueDest(v *domain.FormValue) []any {
	return []any{
		&v.ID, &v.Slug, &v.ValueEn, &v.ValueEs, &v.DescriptionEn, &v.DescriptionEs,
		&v.FormFieldID, &v.IsActive, &v.GroupEn, &v.GroupEs, &v.InCategorySlugs,
		&v.Type, &v.Rank, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
	}
}

type formValuesRepo struct {
	db querier
}

func (r *formValuesRepo) GetFormValueByID(ctx context.Context, id int64) (domain.FormValue, error) {
	var v domain.FormValue
	err := r.db.QueryRow(ctx,
		`SELECT `+formValueColumnsV+` FROM form_values v WHERE v.id = $1`, id,
	).Scan(formValueDest(&v)...)
	if err != nil {
		return domain.FormValue{}, mapNotFound(err)
	}
	return v, nil
}

func (r *formValuesRepo) CreateFormValue(ctx context.Context, v domain.FormValue) (int64, error) {
	now := time.Now().UTC()

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO form_values (slug, value_en, value_es, description_en, description_es,
		    form_field_id, is_active, group_en, group_es, in_category_slugs, type, rank,
		    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		v.Slug, v.ValueEn, v.ValueEs, v.DescriptionEn, v.DescriptionEs,
		v.FormFieldID, v.IsActive, v.GroupEn, v.GroupEs, v.InCategorySlugs, v.Type, v.Rank,
		now, now,
	).Scan(&id)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return id, nil
}

func (r *formValuesRepo) UpdateFormValue(ctx context.Context, v domain.FormValue) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE form_values SET
		    slug = $1, value_en = $2, value_es = $3, description_en = $4, description_es = $5,
		    form_field_id = $6, is_active = $7, group_en = $8, group_es = $9,
		    in_category_slugs = $10, type = $11, rank = $12, deleted_at = $13, updated_at = $14
		WHERE id = $15`,
		v.Slug, v.ValueEn, v.ValueEs, v.DescriptionEn, v.DescriptionEs,
		v.FormFieldID, v.IsActive, v.GroupEn, v.GroupEs,
		v.InCategorySlugs, v.Type, v.Rank, v.DeletedAt, time.Now().UTC(),
		v.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(tag)
}
