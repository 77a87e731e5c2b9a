package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/repository/outbox"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// PlaceOrder drains the cart into an order inside one transaction.
func (r *postgresRepo) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	c := &checkout{in: in}
	err := db.RunInTx(ctx, r.pool, db.ReadCommitted,
		c.readLines,
		c.insertPurchaser,
		c.insertOrder,
		c.enqueueEvent,
		c.drainCart,
	)
	if err != nil {
		r.logger.Printf("order repo: place cart_id=%s error=%v", in.CartID, err)
		return nil, db.Classify(err)
	}
	r.logger.Printf("order repo: placed cart_id=%s order_id=%s total_cents=%d lines=%d", in.CartID, c.order.ID, c.order.TotalCents, len(c.lines))
	return &c.order, nil
}

// checkout holds the state threaded through the transaction steps.
type checkout struct {
	in          PlaceOrderInput
	lines       []domain.PricedQuantity
	total       int64
	purchaserID string
	order       domain.Order
}

// readLines locks the cart row before reading its lines. Adds to the same cart
// wait on that lock, so every line that gets drained is also charged.
func (c *checkout) readLines(ctx context.Context, tx pgx.Tx) error {
	var locked string
	err := tx.QueryRow(ctx, `SELECT id::text FROM carts WHERE id = $1 FOR UPDATE`, c.in.CartID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: cart %s no longer exists", domain.ErrConcurrentModification, c.in.CartID)
		}
		return fmt.Errorf("lock cart: %w", err)
	}

	rows, err := tx.Query(ctx, `
SELECT li.quantity, p.price_cents
FROM line_items li
JOIN products p ON p.id = li.product_id
WHERE li.cart_id = $1
`, c.in.CartID)
	if err != nil {
		return fmt.Errorf("read line items: %w", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PricedQuantity, error) {
		var l domain.PricedQuantity
		err := row.Scan(&l.Quantity, &l.PriceCents)
		return l, err
	})
	if err != nil {
		return fmt.Errorf("read line items: %w", err)
	}
	if len(lines) == 0 {
		return domain.ErrEmptyCart
	}
	c.lines = lines
	c.total = domain.Summarize(lines).Subtotal
	return nil
}

func (c *checkout) insertPurchaser(ctx context.Context, tx pgx.Tx) error {
	err := tx.QueryRow(ctx, `
INSERT INTO users (email, password_hash)
VALUES ($1, $2)
RETURNING id::text
`, c.in.Purchaser.Email, c.in.Purchaser.PasswordHash).Scan(&c.purchaserID)
	if err != nil {
		return fmt.Errorf("insert purchaser: %w", err)
	}
	return nil
}

func (c *checkout) insertOrder(ctx context.Context, tx pgx.Tx) error {
	receipt, err := json.Marshal(domain.NewPaymentReceipt(c.in.CartID, c.total))
	if err != nil {
		return err
	}
	c.order = domain.Order{
		UserID:         &c.purchaserID,
		TotalCents:     c.total,
		PaymentReceipt: receipt,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, total_cents, payment_receipt)
VALUES ($1, $2, $3)
RETURNING id::text, created_at
`, c.purchaserID, c.total, receipt).Scan(&c.order.ID, &c.order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (c *checkout) enqueueEvent(ctx context.Context, tx pgx.Tx) error {
	if c.in.EventID == "" {
		return nil
	}
	event := domain.OrderPlacedEvent{
		EventID:        c.in.EventID,
		OrderID:        c.order.ID,
		CartID:         c.in.CartID,
		TotalCents:     c.total,
		PurchaserEmail: c.in.Purchaser.Email,
		PlacedAt:       c.order.CreatedAt,
	}
	if err := outbox.Insert(ctx, tx, c.in.EventID, domain.TopicOrders, c.order.ID, event); err != nil {
		return fmt.Errorf("enqueue %s: %w", domain.EventOrderPlaced, err)
	}
	return nil
}

// drainCart removes the cart, failing when another checkout got there first.
func (c *checkout) drainCart(ctx context.Context, tx pgx.Tx) error {
	var deleted string
	err := tx.QueryRow(ctx, `DELETE FROM carts WHERE id = $1 RETURNING id::text`, c.in.CartID).Scan(&deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: cart %s already checked out", domain.ErrConcurrentModification, c.in.CartID)
		}
		return fmt.Errorf("delete cart: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE cart_id = $1`, c.in.CartID); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetDetails(ctx context.Context, id string) (*domain.OrderDetails, error) {
	const q = `
SELECT o.id::text, o.total_cents, COALESCE(u.email, '')
FROM orders o
LEFT JOIN users u ON u.id = o.user_id
WHERE o.id = $1
`
	var d domain.OrderDetails
	if err := r.pool.QueryRow(ctx, q, id).Scan(&d.ID, &d.TotalCents, &d.PurchaserEmail); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("order repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, db.Classify(err)
	}
	return &d, nil
}
