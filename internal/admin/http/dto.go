package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

type CategoryTranslation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Category struct {
	ID           int64                 `json:"id"`
	Slug         string                `json:"slug"`
	ParentID     *int64                `json:"parentId"`
	Translations []CategoryTranslation `json:"translations"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

func toCategory(c domain.Category) Category {
	out := Category{
		ID:           c.ID,
		Slug:         c.Slug,
		ParentID:     c.ParentID,
		Translations: make([]CategoryTranslation, 0, len(c.Translations)),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	for _, t := range c.Translations {
		out.Translations = append(out.Translations, CategoryTranslation(t))
	}
	return out
}

type FormField struct {
	ID            int64       `json:"id"`
	Slug          string      `json:"slug"`
	LabelEn       string      `json:"labelEn"`
	LabelEs       string      `json:"labelEs"`
	DescriptionEn string      `json:"descriptionEn"`
	DescriptionEs string      `json:"descriptionEs"`
	ComponentType string      `json:"componentType"`
	FormStepID    *int64      `json:"formStepId"`
	ColumnName    string      `json:"columnName"`
	TableName     string      `json:"tableName"`
	IsActive      bool        `json:"isActive"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	FormValues    []FormValue `json:"formValues"`
}

func toFormField(f domain.FormField) FormField {
	out := FormField{
		ID:            f.ID,
		Slug:          f.Slug,
		LabelEn:       f.LabelEn,
		LabelEs:       f.LabelEs,
		DescriptionEn: f.DescriptionEn,
		DescriptionEs: f.DescriptionEs,
		ComponentType: f.ComponentType,
		FormStepID:    f.FormStepID,
		ColumnName:    f.ColumnName,
		TableName:     f.TableName,
		IsActive:      f.IsActive,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
		FormValues:    make([]FormValue, 0, len(f.Values)),
	}
	for _, v := range f.Values {
		out.FormValues = append(out.FormValues, toFormValue(v))
	}
	return out
}

type FormValue struct {
	ID              int64      `json:"id"`
	Slug            string     `json:"slug"`
	ValueEn         string     `json:"valueEn"`
	ValueEs         string     `json:"valueEs"`
	DescriptionEn   string     `json:"descriptionEn"`
	DescriptionEs   string     `json:"descriptionEs"`
	FormFieldID     int64      `json:"formFieldId"`
	IsActive        bool       `json:"isActive"`
	GroupEn         *string    `json:"groupEn"`
	GroupEs         *string    `json:"groupEs"`
	InCategorySlugs []string   `json:"inCategorySlugs"`
	Type            string     `json:"type"`
	Rank            *int       `json:"rank"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	DeletedAt       *time.Time `json:"deletedAt"`
}

func toFormValue(v domain.FormValue) FormValue {
	return FormValue{
		ID:              v.ID,
		Slug:            v.Slug,
		ValueEn:         v.ValueEn,
		ValueEs:         v.ValueEs,
		DescriptionEn:   v.DescriptionEn,
		DescriptionEs:   v.DescriptionEs,
		FormFieldID:     v.FormFieldID,
		IsActive:        v.IsActive,
		GroupEn:         v.GroupEn,
		GroupEs:         v.GroupEs,
		InCategorySlugs: v.InCategorySlugs,
		Type:            v.Type,
		Rank:            v.Rank,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
		DeletedAt:       v.DeletedAt,
	}
}

// FormValueID accepts an id sent either as a JSON number or a numeric string.
type FormValueID int64

func (id *FormValueID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("id %s is not an integer", b)
	}
	*id = FormValueID(n)
	return nil
}

// Nullable tells an absent member (Set false) from an explicit null (Null true).
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

// ptr returns the value when the member carries one.
func (n Nullable[T]) ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}
