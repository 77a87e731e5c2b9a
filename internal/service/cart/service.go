package cart

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"storefront/internal/domain"
)

type Service struct {
	repo   cartRepo
	logger *log.Logger
}

type cartRepo interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context) (*domain.Cart, error)
	AddLineItem(ctx context.Context, cartID, productID string) (*domain.LineItem, error)
	RemoveLineItem(ctx context.Context, cartID, lineItemID string) (string, error)
	GetView(ctx context.Context, cartID string) (*domain.CartView, error)
	Summary(ctx context.Context, cartID string) (domain.CartSummary, error)
}

func New(repo cartRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

type AddItemInput struct {
	ProductID string `json:"productId" form:"productId"`
}

type RemoveItemInput struct {
	LineItemID string `json:"lineItemId" uri:"lineItemId"`
}

// ResolveCartID returns currentCartID when it names an existing cart and
// provisions a fresh cart otherwise. The caller stores the result in its
// session.
func (s *Service) ResolveCartID(ctx context.Context, currentCartID string) (string, error) {
	currentCartID = strings.TrimSpace(currentCartID)
	if currentCartID != "" && uuid.Validate(currentCartID) == nil {
		ok, err := s.repo.Exists(ctx, currentCartID)
		if err != nil {
			return "", err
		}
		if ok {
			return currentCartID, nil
		}
	}
	cart, err := s.repo.Create(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Printf("cart service: provisioned cart_id=%s previous=%q", cart.ID, currentCartID)
	return cart.ID, nil
}

// GetCart returns the materialized cart. A missing cart yields an empty view.
func (s *Service) GetCart(ctx context.Context, cartID string) (*domain.CartView, error) {
	return s.repo.GetView(ctx, cartID)
}

func (s *Service) Summary(ctx context.Context, cartID string) (domain.CartSummary, error) {
	return s.repo.Summary(ctx, cartID)
}

// AddItem puts one unit of the product in the cart and returns the line id.
// Ids that are not UUIDs are rejected before the store is touched.
func (s *Service) AddItem(ctx context.Context, cartID string, in AddItemInput) (string, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return "", fmt.Errorf("%w: productId required", domain.ErrValidation)
	}
	if uuid.Validate(productID) != nil {
		return "", fmt.Errorf("%w: productId %q is not a valid id", domain.ErrValidation, productID)
	}
	line, err := s.repo.AddLineItem(ctx, cartID, productID)
	if err != nil {
		return "", err
	}
	return line.ID, nil
}

// RemoveItem deletes a line of this cart and echoes the cart id.
func (s *Service) RemoveItem(ctx context.Context, cartID string, in RemoveItemInput) (string, error) {
	lineItemID := strings.TrimSpace(in.LineItemID)
	if lineItemID == "" {
		return "", fmt.Errorf("%w: lineItemId required", domain.ErrValidation)
	}
	// A line id that cannot exist reads as already removed.
	if uuid.Validate(lineItemID) != nil {
		return "", domain.ErrNotFound
	}
	return s.repo.RemoveLineItem(ctx, cartID, lineItemID)
}
