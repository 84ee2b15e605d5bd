package domain

import (
	"slices"
	"time"
)

type User struct {
	ID           string
	Email        string // stored lower-cased
	FirstName    string
	LastName     string
	PasswordHash string  // argon2id PHC or legacy bcrypt
	TOTPSecret   *string // base32, nil when no second factor is enrolled
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleSlugs returns the canonical slugs of the user's roles in stable order.
func (u User) RoleSlugs() []string {
	if len(u.Roles) == 0 {
		return nil
	}
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, NormalizeSlug(r.Slug))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (u User) HasRole(slug string) bool {
	slug = NormalizeSlug(slug)
	return slices.ContainsFunc(u.Roles, func(r Role) bool { return NormalizeSlug(r.Slug) == slug })
}

func (u User) HasTOTP() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}
