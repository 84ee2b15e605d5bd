package domain

import "time"

// Form value kinds.
const (
	FormTypeJob    = "job"
	FormTypeDriver = "driver"
)

// FormField describes one dynamic input rendered by the product's forms.
type FormField struct {
	ID            int64
	Slug          string
	LabelEn       string
	LabelEs       string
	DescriptionEn string
	DescriptionEs string
	ComponentType string
	FormStepID    *int64
	ColumnName    string
	TableName     string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time

	Values []FormValue
}

// FormValue is a selectable option of a FormField. A nil or empty
// InCategorySlugs applies the value to every category.
type FormValue struct {
	ID              int64
	Slug            string
	ValueEn         string
	ValueEs         string
	DescriptionEn   string
	DescriptionEs   string
	FormFieldID     int64
	IsActive        bool
	GroupEn         *string
	GroupEs         *string
	InCategorySlugs []string
	Type            string
	Rank            *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// AppliesTo reports whether the value is offered for categorySlug.
func (v FormValue) AppliesTo(categorySlug string) bool {
	if len(v.InCategorySlugs) == 0 {
		return true
	}
	for _, s := range v.InCategorySlugs {
		if s == categorySlug {
			return true
		}
	}
	return false
}

// FormValuePatch holds a partial update. Nil fields are left untouched.
// ClearGroupEn, ClearGroupEs, ClearRank and ClearInCategorySlugs set the
// column to NULL.
type FormValuePatch struct {
	Slug            *string
	ValueEn         *string
	ValueEs         *string
	DescriptionEn   *string
	DescriptionEs   *string
	FormFieldID     *int64
	IsActive        *bool
	GroupEn         *string
	GroupEs         *string
	InCategorySlugs *[]string
	Type            *string
	Rank            *int

	ClearGroupEn         bool
	ClearGroupEs         bool
	ClearRank            bool
	ClearInCategorySlugs bool
}

// Apply returns v with the patch applied.
func (p FormValuePatch) Apply(v FormValue) FormValue {
	if p.Slug != nil {
		v.Slug = *p.Slug
	}
	if p.ValueEn != nil {
		v.ValueEn = *p.ValueEn
	}
	if p.ValueEs != nil {
		v.ValueEs = *p.ValueEs
	}
	if p.DescriptionEn != nil {
		v.DescriptionEn = *p.DescriptionEn
	}
	if p.DescriptionEs != nil {
		v.DescriptionEs = *p.DescriptionEs
	}
	if p.FormFieldID != nil {
		v.FormFieldID = *p.FormFieldID
	}
	if p.IsActive != nil {
		v.IsActive = *p.IsActive
	}
	if p.Type != nil {
		v.Type = *p.Type
	}

	switch {
	case p.ClearGroupEn:
		v.GroupEn = nil
	case p.GroupEn != nil:
		v.GroupEn = p.GroupEn
	}
	switch {
	case p.ClearGroupEs:
		v.GroupEs = nil
	case p.GroupEs != nil:
		v.GroupEs = p.GroupEs
	}
	switch {
	case p.ClearRank:
		v.Rank = nil
	case p.Rank != nil:
		v.Rank = p.Rank
	}
	switch {
	case p.ClearInCategorySlugs:
		v.InCategorySlugs = nil
	case p.InCategorySlugs != nil:
		v.InCategorySlugs = *p.InCategorySlugs
	}
	return v
}

// IsEmpty reports whether the patch changes nothing.
func (p FormValuePatch) IsEmpty() bool {
	return p == (FormValuePatch{})
}
