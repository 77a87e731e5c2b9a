package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

// Checkout outcomes reported to the recorder.
const (
	OutcomePlaced   = "placed"
	OutcomeEmpty    = "empty_cart"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

type orderRepo interface {
	PlaceOrder(ctx context.Context, in orderrepo.PlaceOrderInput) (*domain.Order, error)
	GetDetails(ctx context.Context, id string) (*domain.OrderDetails, error)
}

// Recorder observes checkout outcomes.
type Recorder interface {
	ObserveCheckout(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCheckout(string) {}

type Service struct {
	repo       orderRepo
	purchasers PurchaserFactory
	recorder   Recorder
	logger     *log.Logger
	// events controls whether checkouts enqueue an order.placed outbox record.
	events bool
}

func New(repo orderRepo, purchasers PurchaserFactory, recorder Recorder, logger *log.Logger) *Service {
	if purchasers == nil {
		purchasers = NewFakePurchasers()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, purchasers: purchasers, recorder: recorder, logger: logger, events: true}
}

// WithoutEvents stops checkouts from writing outbox records. Used when no
// relay is configured to drain them.
func (s *Service) WithoutEvents() *Service {
	s.events = false
	return s
}

type GetOrderInput struct {
	OrderID string `json:"orderId" uri:"orderId"`
}

// PlaceOrder converts the cart into an order. The cart and its line items are
// gone afterwards; on any error nothing is written.
func (s *Service) PlaceOrder(ctx context.Context, cartID string) (*domain.Order, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, fmt.Errorf("%w: cart id required", domain.ErrValidation)
	}
	purchaser, err := s.purchasers.NewPurchaser()
	if err != nil {
		s.recorder.ObserveCheckout(OutcomeError)
		return nil, err
	}

	in := orderrepo.PlaceOrderInput{CartID: cartID, Purchaser: purchaser}
	if s.events {
		in.EventID = uuid.NewString()
	}
	order, err := s.repo.PlaceOrder(ctx, in)
	if err != nil {
		s.recorder.ObserveCheckout(outcomeFor(err))
		s.logger.Printf("order service: checkout cart_id=%s error=%v", cartID, err)
		return nil, err
	}
	s.recorder.ObserveCheckout(OutcomePlaced)
	s.logger.Printf("order service: checkout cart_id=%s order_id=%s purchaser=%s", cartID, order.ID, purchaser.Email)
	return order, nil
}

func (s *Service) Get(ctx context.Context, in GetOrderInput) (*domain.OrderDetails, error) {
	id := strings.TrimSpace(in.OrderID)
	if id == "" {
		return nil, fmt.Errorf("%w: orderId required", domain.ErrValidation)
	}
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetDetails(ctx, id)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return OutcomeEmpty
	case errors.Is(err, domain.ErrConcurrentModification):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
