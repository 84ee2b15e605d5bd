package adminsdk

import (
	"context"
	"net/http"
)

type formFieldsInput struct {
	CategorySlug string  `json:"categorySlug"`
	Type         *string `json:"type,omitempty"`
}

type formValueByIDInput struct {
	ID int64 `json:"id"`
}

// GetCategories lists every category with its translations.
func (c *SDKClient) GetCategories(ctx context.Context) ([]Category, error) {
	return getCategories(ctx, c, c.HTTPClient)
}

// GetFormFields lists the fields of a category with their values.
// fieldType is "job", "driver" or empty for both.
func (c *SDKClient) GetFormFields(ctx context.Context, categorySlug, fieldType string) ([]FormField, error) {
	return getFormFields(ctx, c, c.HTTPClient, categorySlug, fieldType)
}

// GetFormValue fetches a single form value by id.
func (c *SDKClient) GetFormValue(ctx context.Context, id int64) (*FormValue, error) {
	return getFormValue(ctx, c, c.HTTPClient, id)
}

// UpdateFormValue calls formValues.update without a session. The server
// rejects it with UNAUTHORIZED; Session.UpdateFormValue is the usable form.
func (c *SDKClient) UpdateFormValue(ctx context.Context, id int64, fields map[string]any) (*FormValue, error) {
	return updateFormValue(ctx, c, c.HTTPClient, id, fields)
}

func getCategories(ctx context.Context, c *SDKClient, hc *http.Client) ([]Category, error) {
	var categories []Category
	if err := c.query(ctx, hc, "category.getCategories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func getFormFields(ctx context.Context, c *SDKClient, hc *http.Client, categorySlug, fieldType string) ([]FormField, error) {
	in := formFieldsInput{CategorySlug: categorySlug}
	if fieldType != "" {
		in.Type = &fieldType
	}

	var fields []FormField
	if err := c.query(ctx, hc, "formFields.getFormFields", in, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func getFormValue(ctx context.Context, c *SDKClient, hc *http.Client, id int64) (*FormValue, error) {
	var value FormValue
	if err := c.query(ctx, hc, "formValues.getById", formValueByIDInput{ID: id}, &value); err != nil {
		return nil, err
	}
	return &value, nil
}

func updateFormValue(ctx context.Context, c *SDKClient, hc *http.Client, id int64, fields map[string]any) (*FormValue, error) {
	in := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		in[k] = v
	}
	in["id"] = id

	var value FormValue
	if err := c.mutate(ctx, hc, "formValues.update", in, &value); err != nil {
		return nil, err
	}
	return &value, nil
}
