package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListTrending(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListTrending(ctx)
}

// Get returns a product; ids that are not UUIDs cannot exist.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
