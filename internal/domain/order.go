package domain

import (
	"encoding/json"
	"time"
)

type Order struct {
	ID             string          `json:"id"`
	UserID         *string         `json:"userId,omitempty"`
	TotalCents     int64           `json:"totalCents"`
	PaymentReceipt json.RawMessage `json:"paymentReceipt"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// OrderDetails is what the order confirmation page shows.
type OrderDetails struct {
	ID             string `json:"id"`
	TotalCents     int64  `json:"totalCents"`
	PurchaserEmail string `json:"purchaserEmail"`
}

// Purchaser is the throwaway user created for each order.
type Purchaser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PaymentReceipt is the synthetic charge stored with every order.
type PaymentReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

// NewPaymentReceipt builds the succeeded charge for a drained cart.
func NewPaymentReceipt(cartID string, totalCents int64) PaymentReceipt {
	return PaymentReceipt{
		ID:     "ch_cart_" + cartID,
		Status: "succeeded",
		Amount: totalCents,
	}
}

// OrderPlacedEvent is published once an order commits.
type OrderPlacedEvent struct {
	EventID        string    `json:"eventId"`
	OrderID        string    `json:"orderId"`
	CartID         string    `json:"cartId"`
	TotalCents     int64     `json:"totalCents"`
	PurchaserEmail string    `json:"purchaserEmail"`
	PlacedAt       time.Time `json:"placedAt"`
}

const (
	TopicOrders      = "storefront.orders"
	EventOrderPlaced = "order.placed"
)
