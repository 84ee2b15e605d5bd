package domain

import (
	"strings"
	"time"
)

type Role struct {
	ID        string
	Name      string
	Slug      string // canonical lower-case, unique
	CreatedAt time.Time
}

// NormalizeSlug returns the canonical form of a role slug.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
