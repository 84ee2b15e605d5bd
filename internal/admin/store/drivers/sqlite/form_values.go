package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

const formValueColumnsV = `v.id, v.slug, v.value_en, v.value_es, v.description_en, v.description_es,
		       v.form_field_id, v.is_active, v.group_en, v.group_es, v.in_category_slugs,
		       v.type, v.rank, v.created_at, v.updated_at, v.deleted_at`

type formValueRow struct {
	v       domain.FormValue
	groupEn sql.NullString
	groupEs sql.NullString
	slugs   sql.NullString
	rank    sql.NullInt64
	deleted sql.NullTime
}

func (r *formValueRow) dest() []any {
	return []any{
		&r.v.ID, &r.v.Slug, &r.v.ValueEn, &r.v.ValueEs, &r.v.DescriptionEn, &r.v.DescriptionEs,
		&r.v.FormFieldID, &r.v.IsActive, &r.groupEn, &r.groupEs, &r.slugs,
		&r.v.Type, &r.rank, &r.v.CreatedAt, &r.v.UpdatedAt, &r.deleted,
	}
}

func (r *formValueRow) toDomain() (domain.FormValue, error) {
	slugs, err := decodeSlugs(r.slugs)
	if err != nil {
		return domain.FormValue{}, err
	}
	v := r.v
	v.GroupEn = mapNullStringPtr(r.groupEn)
	v.GroupEs = mapNullStringPtr(r.groupEs)
	v.InCategorySlugs = slugs
	v.Rank = mapNullIntPtr(r.rank)
	v.DeletedAt = mapNullTimePtr(r.deleted)
	return v, nil
}

type formValuesRepo struct {
	db dbtx
}

func (r *formValuesRepo) GetFormValueByID(ctx context.Context, id int64) (domain.FormValue, error) {
	var row formValueRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+formValueColumnsV+` FROM form_values v WHERE v.id = ?`, id,
	).Scan(row.dest()...)
	if err != nil {
		return domain.FormValue{}, mapNotFound(err)
	}
	return row.toDomain()
}

func (r *formValuesRepo) CreateFormValue(ctx context.Context, v domain.FormValue) (int64, error) {
	slugs, err := encodeSlugs(v.InCategorySlugs)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO form_values (slug, value_en, value_es, description_en, description_es,
		    form_field_id, is_active, group_en, group_es, in_category_slugs, type, rank,
		    created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Slug, v.ValueEn, v.ValueEs, v.DescriptionEn, v.DescriptionEs,
		v.FormFieldID, v.IsActive, mapOptionalString(v.GroupEn), mapOptionalString(v.GroupEs),
		slugs, v.Type, mapOptionalInt(v.Rank), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *formValuesRepo) UpdateFormValue(ctx context.Context, v domain.FormValue) error {
	slugs, err := encodeSlugs(v.InCategorySlugs)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE form_values SET
		    slug = ?, value_en = ?, value_es = ?, description_en = ?, description_es = ?,
		    form_field_id = ?, is_active = ?, group_en = ?, group_es = ?,
		    in_category_slugs = ?, type = ?, rank = ?, deleted_at = ?, updated_at = ?
		WHERE id = ?`,
		v.Slug, v.ValueEn, v.ValueEs, v.DescriptionEn, v.DescriptionEs,
		v.FormFieldID, v.IsActive, mapOptionalString(v.GroupEn), mapOptionalString(v.GroupEs),
		slugs, v.Type, mapOptionalInt(v.Rank), mapOptionalTime(v.DeletedAt), time.Now().UTC(),
		v.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}
