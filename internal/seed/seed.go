package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type userSeed struct {
	Email    string
	Password string
}

const demoLongDescription = `<h3>Machined Kettle</h3><h1>Elegant simplicity</h1><hr><h4>Sleek design</h4><p>The machined kettle has a smooth black finish and contemporary shape that stands apart from most plastic appliances.</p><h4>One-button control</h4><p>The one button control has a digital readout for setting temperature and turning the kettle on and off.</p>`

var demoUsers = []userSeed{
	{Email: "john.doe@example.com", Password: "password123"},
	{Email: "jane.smith@example.com", Password: "password123"},
}

func demoImages(key, filename, contentType string, size float64) []domain.Image {
	img := domain.Image{
		ServiceName: "s3",
		BucketName:  "files",
		Key:         key,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}
	return []domain.Image{img, img, img, img}
}

// DemoProducts is the catalog the storefront ships with.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{
			Name:            "Premium Wireless Headphones",
			Description:     "High-quality wireless headphones with noise cancellation",
			LongDescription: demoLongDescription,
			PriceCents:      29900,
			Stock:           50,
			Trending:        true,
			Images:          demoImages("33ca92ab-187b-457f-9127-ef344f4b5367", "headphones.jpeg", "image/jpeg", 6675),
		},
		{
			Name:            "Smart Fitness Watch",
			Description:     "Track your health and fitness goals with precision",
			LongDescription: demoLongDescription,
			PriceCents:      19900,
			Stock:           75,
			Trending:        true,
			Images:          demoImages("20d3b49c-8a7f-4f5b-99c0-c9bc2da887d0", "smart watch.jpg", "image/jpeg", 65001),
		},
		{
			Name:            "Portable Power Bank",
			Description:     "20000mAh high-capacity portable charger",
			LongDescription: demoLongDescription,
			PriceCents:      4900,
			Stock:           100,
			Images:          demoImages("f1c868c2-36ce-4336-81e8-a0cb4ce16092", "power-bank.png", "image/png", 1245480),
		},
		{
			Name:            "Machined Kettle",
			Description:     "Temperature controlled pour-over kettle",
			LongDescription: demoLongDescription,
			PriceCents:      14900,
			Stock:           30,
		},
	}
}

// Apply inserts basic seed data for manual testing. It is idempotent: products
// are upserted by name and existing users are left alone.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	for _, u := range demoUsers {
		if err := ensureUser(ctx, pool, u); err != nil {
			return fmt.Errorf("ensure user %s: %w", u.Email, err)
		}
	}
	n, err := Products(ctx, productrepo.NewPostgres(pool, logger), DemoProducts())
	if err != nil {
		return err
	}
	logger.Printf("seed: products upserted count=%d", n)
	return nil
}

// Products upserts each product and returns how many were written.
func Products(ctx context.Context, w ProductWriter, products []domain.Product) (int, error) {
	for i, p := range products {
		if _, err := w.Upsert(ctx, p); err != nil {
			return i, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
	}
	return len(products), nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, u userSeed) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash)
VALUES ($1, $2)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, u.Email, string(hash))
	return err
}
