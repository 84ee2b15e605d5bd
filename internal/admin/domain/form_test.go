package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

func TestFormValue_AppliesTo(t *testing.T) {
	tests := []struct {
		name  string
		slugs []string
		want  bool
	}{
		{"null applies everywhere", nil, true},
		{"empty applies everywhere", []string{}, true},
		{"listed category", []string{"buses", "trucks"}, true},
		{"other category", []string{"buses"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.FormValue{InCategorySlugs: tt.slugs}
			require.Equal(t, tt.want, v.AppliesTo("trucks"))
		})
	}
}

func TestFormValuePatch_IsEmpty(t *testing.T) {
	rank := 2
	require.True(t, domain.FormValuePatch{}.IsEmpty())
	require.False(t, domain.FormValuePatch{Rank: &rank}.IsEmpty())
	require.False(t, domain.FormValuePatch{ClearGroupEn: true}.IsEmpty())
}

func TestUser_Roles(t *testing.T) {
	u := domain.User{Roles: []domain.Role{{Slug: "ADMIN"}, {Slug: " editor "}, {Slug: "admin"}}}

	require.True(t, u.HasRole("admin"))
	require.True(t, u.HasRole("Editor"))
	require.False(t, u.HasRole("viewer"))
	require.Equal(t, []string{"admin", "editor"}, u.RoleSlugs())
}
