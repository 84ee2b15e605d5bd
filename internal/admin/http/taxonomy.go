package http

import (
	"context"
	"fmt"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/rpc"
	"github.com/haulmatch/taxadmin/internal/admin/service"
	"github.com/haulmatch/taxadmin/pkg/httpx"
)

type FormValueByIDInput struct {
	ID FormValueID `json:"id"`
}

// UpdateFormValueInput is a partial update. Omitted members are left as they
// are; null clears groupEn, groupEs, inCategorySlugs and rank.
type UpdateFormValueInput struct {
	ID              FormValueID        `json:"id"`
	Slug            Nullable[string]   `json:"slug"`
	ValueEn         Nullable[string]   `json:"valueEn"`
	ValueEs         Nullable[string]   `json:"valueEs"`
	DescriptionEn   Nullable[string]   `json:"descriptionEn"`
	DescriptionEs   Nullable[string]   `json:"descriptionEs"`
	FormFieldID     Nullable[int64]    `json:"formFieldId"`
	IsActive        Nullable[bool]     `json:"isActive"`
	GroupEn         Nullable[string]   `json:"groupEn"`
	GroupEs         Nullable[string]   `json:"groupEs"`
	InCategorySlugs Nullable[[]string] `json:"inCategorySlugs"`
	Type            Nullable[string]   `json:"type"`
	Rank            Nullable[int]      `json:"rank"`
}

func (in UpdateFormValueInput) patch() (domain.FormValuePatch, error) {
	required := []struct {
		name   string
		isNull bool
	}{
		{"slug", in.Slug.Null},
		{"valueEn", in.ValueEn.Null},
		{"valueEs", in.ValueEs.Null},
		{"descriptionEn", in.DescriptionEn.Null},
		{"descriptionEs", in.DescriptionEs.Null},
		{"formFieldId", in.FormFieldID.Null},
		{"isActive", in.IsActive.Null},
		{"type", in.Type.Null},
	}
	for _, f := range required {
		if f.isNull {
			return domain.FormValuePatch{}, fmt.Errorf("%w: %s: must not be null", service.ErrInvalidInput, f.name)
		}
	}

	p := domain.FormValuePatch{
		Slug:          in.Slug.ptr(),
		ValueEn:       in.ValueEn.ptr(),
		ValueEs:       in.ValueEs.ptr(),
		DescriptionEn: in.DescriptionEn.ptr(),
		DescriptionEs: in.DescriptionEs.ptr(),
		FormFieldID:   in.FormFieldID.ptr(),
		IsActive:      in.IsActive.ptr(),
		GroupEn:       in.GroupEn.ptr(),
		GroupEs:       in.GroupEs.ptr(),
		Type:          in.Type.ptr(),
		Rank:          in.Rank.ptr(),

		ClearGroupEn:         in.GroupEn.Null,
		ClearGroupEs:         in.GroupEs.Null,
		ClearRank:            in.Rank.Null,
		ClearInCategorySlugs: in.InCategorySlugs.Null,
	}
	if in.InCategorySlugs.Set && !in.InCategorySlugs.Null {
		slugs := in.InCategorySlugs.Value
		if slugs == nil {
			slugs = []string{}
		}
		p.InCategorySlugs = &slugs
	}
	return p, nil
}

func (r *Router) registerTaxonomy() {
	r.rpc.Register(
		rpc.Query("category.getCategories", httpx.TierPublic, r.getCategories),
		rpc.Query("formFields.getFormFields", httpx.TierPublic, r.getFormFields),
		rpc.Query("formValues.getById", httpx.TierPublic, r.getFormValue),
		rpc.Mutation("formValues.update", httpx.TierAdmin, r.updateFormValue),
	)
}

// getCategories godoc
//
//	@Summary		List root categories
//	@Description	Returns categories without a parent, with all translations, ordered by slug.
//	@Tags			Taxonomy
//	@Produce		json
//	@Success		200	{array}	Category	"result.data"
//	@Router			/api/rpc/category.getCategories [get].
func (r *Router) getCategories(ctx context.Context, _ *rpc.Call, _ rpc.NoInput) ([]Category, error) {
	cats, err := r.CategoryService.ListRoots(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategory(c))
	}
	return out, nil
}

// getFormFields godoc
//
//	@Summary		Form fields for a category
//	@Description	Returns form fields whose slug contains type and that own at least one value
//	@Description	applying to the category. Each field carries only those values.
//	@Tags			Taxonomy
//	@Produce		json
//	@Param			input	query	string		true	"JSON {categorySlug, type?: job|driver}"
//	@Success		200		{array}	FormField	"result.data"
//	@Failure		400		{object}	map[string]any	"BAD_REQUEST"
//	@Router			/api/rpc/formFields.getFormFields [get].
func (r *Router) getFormFields(ctx context.Context, _ *rpc.Call, in service.FormFieldsQuery) ([]FormField, error) {
	fields, err := r.FormFieldService.ForCategory(ctx, in)
	if err != nil {
		return nil, err
	}

	out := make([]FormField, 0, len(fields))
	for _, f := range fields {
		out = append(out, toFormField(f))
	}
	return out, nil
}

// getFormValue godoc
//
//	@Summary		Get a form value
//	@Tags			Taxonomy
//	@Produce		json
//	@Param			input	query		string			true	"JSON {id}"
//	@Success		200		{object}	FormValue		"result.data"
//	@Failure		404		{object}	map[string]any	"NOT_FOUND"
//	@Router			/api/rpc/formValues.getById [get].
func (r *Router) getFormValue(ctx context.Context, _ *rpc.Call, in FormValueByIDInput) (FormValue, error) {
	v, err := r.FormValueService.GetByID(ctx, int64(in.ID))
	if err != nil {
		return FormValue{}, err
	}
	return toFormValue(v), nil
}

// updateFormValue godoc
//
//	@Summary		Update a form value
//	@Description	Applies a partial update. Requires the admin role.
//	@Tags			Taxonomy
//	@Accept			json
//	@Produce		json
//	@Security		SessionCookie
//	@Param			input	body		UpdateFormValueInput	true	"id plus the members to change"
//	@Success		200		{object}	FormValue				"result.data"
//	@Failure		400		{object}	map[string]any			"BAD_REQUEST"
//	@Failure		401		{object}	map[string]any			"UNAUTHORIZED"
//	@Failure		403		{object}	map[string]any			"FORBIDDEN"
//	@Failure		404		{object}	map[string]any			"NOT_FOUND"
//	@Router			/api/rpc/formValues.update [post].
func (r *Router) updateFormValue(ctx context.Context, _ *rpc.Call, in UpdateFormValueInput) (FormValue, error) {
	patch, err := in.patch()
	if err != nil {
		return FormValue{}, err
	}

	v, err := r.FormValueService.Update(ctx, int64(in.ID), patch)
	if err != nil {
		return FormValue{}, err
	}
	return toFormValue(v), nil
}
