package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/db"
	"storefront/internal/domain"
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

func (r *postgresRepo) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM carts WHERE id = $1)`
	var ok bool
	if err := r.pool.QueryRow(ctx, q, id).Scan(&ok); err != nil {
		r.logger.Printf("cart repo: exists id=%s error=%v", id, err)
		return false, db.Classify(err)
	}
	return ok, nil
}

func (r *postgresRepo) Create(ctx context.Context) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES (NULL)
RETURNING id::text, user_id::text, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt); err != nil {
		r.logger.Printf("cart repo: create error=%v", err)
		return nil, db.Classify(err)
	}
	r.logger.Printf("cart repo: created id=%s", cart.ID)
	return &cart, nil
}

// AddLineItem inserts the product with quantity 1 or bumps the existing row.
// The conflict target keeps a single row per (cart, product) under
// concurrent adds without a read-modify-write round trip.
func (r *postgresRepo) AddLineItem(ctx context.Context, cartID, productID string) (*domain.LineItem, error) {
	const q = `
INSERT INTO line_items (cart_id, product_id, quantity)
VALUES ($1, $2, 1)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = line_items.quantity + 1
RETURNING id::text, cart_id::text, product_id::text, quantity, created_at
`
	var line domain.LineItem
	err := r.pool.QueryRow(ctx, q, cartID, productID).Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.CreatedAt)
	if err != nil {
		r.logger.Printf("cart repo: add line cart_id=%s product_id=%s error=%v", cartID, productID, err)
		return nil, db.Classify(err)
	}
	r.logger.Printf("cart repo: add line cart_id=%s product_id=%s line_id=%s quantity=%d", cartID, productID, line.ID, line.Quantity)
	return &line, nil
}

func (r *postgresRepo) RemoveLineItem(ctx context.Context, cartID, lineItemID string) (string, error) {
	const q = `
DELETE FROM line_items
WHERE cart_id = $1 AND id = $2
RETURNING cart_id::text
`
	var owner string
	if err := r.pool.QueryRow(ctx, q, cartID, lineItemID).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("cart repo: remove line cart_id=%s line_id=%s not found", cartID, lineItemID)
			return "", domain.ErrNotFound
		}
		r.logger.Printf("cart repo: remove line cart_id=%s line_id=%s error=%v", cartID, lineItemID, err)
		return "", db.Classify(err)
	}
	return owner, nil
}

func (r *postgresRepo) GetView(ctx context.Context, cartID string) (*domain.CartView, error) {
	const q = `
SELECT li.id::text, li.quantity, p.id::text, p.name, p.stock, p.price_cents, p.images
FROM carts c
LEFT JOIN line_items li ON li.cart_id = c.id
LEFT JOIN products p ON p.id = li.product_id
WHERE c.id = $1
ORDER BY li.created_at ASC, li.id ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		r.logger.Printf("cart repo: view cart_id=%s error=%v", cartID, err)
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			lineID      *string
			quantity    *int
			productID   *string
			productName *string
			stock       *int
			priceCents  *int64
			images      []byte
		)
		if err := rows.Scan(&lineID, &quantity, &productID, &productName, &stock, &priceCents, &images); err != nil {
			return nil, db.Classify(err)
		}
		if lineID == nil {
			continue
		}
		product := domain.CartProduct{
			ID:         deref(productID),
			Name:       deref(productName),
			Stock:      derefInt(stock),
			PriceCents: derefInt64(priceCents),
			Image:      domain.FirstImageURL(domain.ParseImages(images)),
		}
		item, err := domain.NewCartItem(*lineID, derefInt(quantity), product)
		if err != nil {
			r.logger.Printf("cart repo: view cart_id=%s invalid line error=%v", cartID, err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("cart repo: view rows cart_id=%s error=%v", cartID, err)
		return nil, db.Classify(err)
	}

	view := domain.NewCartView(cartID, items)
	return &view, nil
}

func (r *postgresRepo) Summary(ctx context.Context, cartID string) (domain.CartSummary, error) {
	lines, err := pricedLines(ctx, r.pool, cartID)
	if err != nil {
		r.logger.Printf("cart repo: summary cart_id=%s error=%v", cartID, err)
		return domain.CartSummary{}, err
	}
	return domain.Summarize(lines), nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func pricedLines(ctx context.Context, q querier, cartID string) ([]domain.PricedQuantity, error) {
	const stmt = `
SELECT li.quantity, p.price_cents
FROM line_items li
JOIN products p ON p.id = li.product_id
WHERE li.cart_id = $1
`
	rows, err := q.Query(ctx, stmt, cartID)
	if err != nil {
		return nil, db.Classify(err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PricedQuantity, error) {
		var l domain.PricedQuantity
		err := row.Scan(&l.Quantity, &l.PriceCents)
		return l, err
	})
	if err != nil {
		return nil, db.Classify(err)
	}
	return lines, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
