package product

import (
	"context"
	"encoding/json"
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

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, name, COALESCE(description, ''), COALESCE(long_description, ''), stock, price_cents, images, trending, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC`)
}

func (r *postgresRepo) ListTrending(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE trending = TRUE ORDER BY name ASC`)
}

func (r *postgresRepo) list(ctx context.Context, q string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, db.Classify(err)
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, db.Classify(err)
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, db.Classify(err)
	}
	return &p, nil
}

// Upsert inserts or updates a product keyed by name.
func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	images := product.Images
	if images == nil {
		images = []domain.Image{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO products (name, description, long_description, stock, price_cents, images, trending)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6::jsonb, $7)
ON CONFLICT (name) DO UPDATE SET
    description = EXCLUDED.description,
    long_description = EXCLUDED.long_description,
    stock = EXCLUDED.stock,
    price_cents = EXCLUDED.price_cents,
    images = EXCLUDED.images,
    trending = EXCLUDED.trending
RETURNING id::text, created_at
`
	res := product
	res.Images = images
	err = r.pool.QueryRow(ctx, q,
		product.Name,
		product.Description,
		product.LongDescription,
		product.Stock,
		product.PriceCents,
		string(imagesJSON),
		product.Trending,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", product.Name, err)
		return nil, db.Classify(err)
	}
	res.ImagesSrc = domain.ImageURLs(images)
	r.logger.Printf("product repo: upserted name=%q id=%s", res.Name, res.ID)
	return &res, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p      domain.Product
		images []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.LongDescription, &p.Stock, &p.PriceCents, &images, &p.Trending, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	p.Images = domain.ParseImages(images)
	p.ImagesSrc = domain.ImageURLs(p.Images)
	return p, nil
}
