package service

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/store"
)

type FormFieldsQuery struct {
	CategorySlug string  `json:"categorySlug"`
	Type         *string `json:"type,omitempty"` // "job", "driver" or nil
}

func (q FormFieldsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.CategorySlug, validation.Required),
		validation.Field(&q.Type, validation.NilOrNotEmpty, validation.In(domain.FormTypeJob, domain.FormTypeDriver)),
	)
}

type FormFieldService struct {
	Store store.Store
}

// ForCategory returns the form fields offered for a category, each with only
// the values that apply to it.
func (s *FormFieldService) ForCategory(ctx context.Context, q FormFieldsQuery) ([]domain.FormField, error) {
	if err := q.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	var filter string
	if q.Type != nil {
		filter = *q.Type
	}
	fields, err := s.Store.FormFields().ListForCategory(ctx, q.CategorySlug, filter)
	if err != nil {
		return nil, err
	}
	return onlyApplying(fields, q.CategorySlug), nil
}

// onlyApplying drops values not offered for categorySlug, then fields left
// without values.
func onlyApplying(fields []domain.FormField, categorySlug string) []domain.FormField {
	out := fields[:0]
	for _, f := range fields {
		values := f.Values[:0]
		for _, v := range f.Values {
			if v.AppliesTo(categorySlug) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		f.Values = values
		out = append(out, f)
	}
	return out
}
