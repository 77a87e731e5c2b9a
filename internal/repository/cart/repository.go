package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists carts and their line items.
type Repository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context) (*domain.Cart, error)
	AddLineItem(ctx context.Context, cartID, productID string) (*domain.LineItem, error)
	RemoveLineItem(ctx context.Context, cartID, lineItemID string) (string, error)
	GetView(ctx context.Context, cartID string) (*domain.CartView, error)
	Summary(ctx context.Context, cartID string) (domain.CartSummary, error)
}
