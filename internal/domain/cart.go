package domain

import (
	"fmt"
	"time"
)

type Cart struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineItem is one (cart, product) row. Quantity is always at least 1.
type LineItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cartId"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartProduct is the product projection shown next to a line item.
type CartProduct struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Stock      int    `json:"stock"`
	PriceCents int64  `json:"priceCents"`
	Image      string `json:"image,omitempty"`
}

type CartItem struct {
	ID       string      `json:"id"`
	Quantity int         `json:"quantity"`
	Product  CartProduct `json:"product"`
}

// NewCartItem validates a joined line item row.
func NewCartItem(id string, quantity int, product CartProduct) (CartItem, error) {
	if id == "" {
		return CartItem{}, fmt.Errorf("%w: line item id required", ErrValidation)
	}
	if quantity <= 0 {
		return CartItem{}, fmt.Errorf("%w: line item %s has quantity %d", ErrValidation, id, quantity)
	}
	return CartItem{ID: id, Quantity: quantity, Product: product}, nil
}

// CartView is the materialized cart. Count and Subtotal are derived from
// LineItems and never stored.
type CartView struct {
	ID        string     `json:"id"`
	LineItems []CartItem `json:"lineItems"`
	Count     int        `json:"count"`
	Subtotal  int64      `json:"subtotal"`
}

// NewCartView folds count and subtotal over the given items.
func NewCartView(id string, items []CartItem) CartView {
	if items == nil {
		items = []CartItem{}
	}
	view := CartView{ID: id, LineItems: items}
	for _, item := range items {
		view.Count += item.Quantity
		view.Subtotal += int64(item.Quantity) * item.Product.PriceCents
	}
	return view
}

// PricedQuantity is a quantity paired with the unit price it is charged at.
type PricedQuantity struct {
	Quantity   int
	PriceCents int64
}

// CartSummary is the header badge: item count and subtotal.
type CartSummary struct {
	Count    int   `json:"count"`
	Subtotal int64 `json:"subtotal"`
}

// Summarize folds quantities and prices into a CartSummary.
func Summarize(lines []PricedQuantity) CartSummary {
	var s CartSummary
	for _, l := range lines {
		s.Count += l.Quantity
		s.Subtotal += int64(l.Quantity) * l.PriceCents
	}
	return s
}
