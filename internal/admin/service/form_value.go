package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/store"
	"github.com/haulmatch/taxadmin/pkg/slogx"
)

type FormValueService struct {
	Store store.Store
}

func (s *FormValueService) GetByID(ctx context.Context, id int64) (domain.FormValue, error) {
	if id <= 0 {
		return domain.FormValue{}, invalidInput(errors.New("id: must be a positive integer"))
	}

	v, err := s.Store.FormValues().GetFormValueByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.FormValue{}, fmt.Errorf("form value %d: %w", id, ErrNotFound)
	}
	return v, err
}

func validatePatch(p domain.FormValuePatch) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Slug, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&p.ValueEn, validation.Length(0, 1000)),
		validation.Field(&p.ValueEs, validation.Length(0, 1000)),
		validation.Field(&p.FormFieldID, validation.NilOrNotEmpty, validation.Min(int64(1))),
		validation.Field(&p.Type, validation.Length(0, 64)),
		validation.Field(&p.Rank, validation.Min(0)),
	)
}

// Update applies a partial update to a form value and returns the stored result.
func (s *FormValueService) Update(ctx context.Context, id int64, patch domain.FormValuePatch) (domain.FormValue, error) {
	if id <= 0 {
		return domain.FormValue{}, invalidInput(errors.New("id: must be a positive integer"))
	}
	if err := validatePatch(patch); err != nil {
		return domain.FormValue{}, invalidInput(err)
	}
	// Nothing to write; updatedAt is left as is.
	if patch.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	var updated domain.FormValue
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.FormValues().GetFormValueByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("form value %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		next := patch.Apply(current)
		if err := tx.FormValues().UpdateFormValue(ctx, next); err != nil {
			// The row exists, so a missing reference can only be the form field.
			if errors.Is(err, store.ErrNotFound) {
				return invalidInput(errors.New("formFieldId: unknown form field"))
			}
			return err
		}

		updated, err = tx.FormValues().GetFormValueByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.FormValue{}, err
	}

	slogx.FromContext(ctx).Info("form value updated", "form_value_id", id)
	return updated, nil
}
