package order

import (
	"context"

	"storefront/internal/domain"
)

// PlaceOrderInput carries what checkout needs besides the cart contents.
type PlaceOrderInput struct {
	CartID    string
	Purchaser domain.Purchaser
	// EventID names the order.placed outbox record; empty skips the outbox.
	EventID string
}

// Repository places and reads orders.
type Repository interface {
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error)
	GetDetails(ctx context.Context, id string) (*domain.OrderDetails, error)
}
