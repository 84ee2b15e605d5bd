package service

import (
	"context"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
	"github.com/haulmatch/taxadmin/internal/admin/store"
)

type CategoryService struct {
	Store store.Store
}

// ListRoots returns top-level categories with their translations.
func (s *CategoryService) ListRoots(ctx context.Context) ([]domain.Category, error) {
	return s.Store.Categories().ListRoots(ctx)
}
