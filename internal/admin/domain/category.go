package domain

import "time"

// Category is a node of the transportation category taxonomy.
type Category struct {
	ID           int64
	Slug         string
	ParentID     *int64
	Translations []CategoryTranslation
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CategoryTranslation struct {
	Locale      string
	Name        string
	Description string
}
