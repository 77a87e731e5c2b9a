package cart

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_CreateAndEmptyView(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.UserID != nil {
		t.Fatalf("unexpected cart %+v", created)
	}

	ok, err := repo.Exists(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}

	view, err := repo.GetView(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if view.Count != 0 || view.Subtotal != 0 || len(view.LineItems) != 0 {
		t.Fatalf("expected empty view, got %+v", view)
	}
}

func TestPostgres_AddSameProductIncrements(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	cart, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p1 := insertProduct(ctx, t, pool, "Prod 1", 1000)

	first, err := repo.AddLineItem(ctx, cart.ID, p1)
	if err != nil {
		t.Fatalf("AddLineItem: %v", err)
	}
	second, err := repo.AddLineItem(ctx, cart.ID, p1)
	if err != nil {
		t.Fatalf("AddLineItem again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same line id, got %s and %s", first.ID, second.ID)
	}
	if first.Quantity != 1 || second.Quantity != 2 || second.CartID != cart.ID || second.ProductID != p1 {
		t.Fatalf("unexpected returned lines %+v %+v", first, second)
	}

	view, err := repo.GetView(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if len(view.LineItems) != 1 || view.LineItems[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", view.LineItems)
	}
	if view.Subtotal != 2000 || view.Count != 2 {
		t.Fatalf("unexpected totals count=%d subtotal=%d", view.Count, view.Subtotal)
	}
	if view.LineItems[0].Product.Image != "/image/demo/p1.png" {
		t.Fatalf("unexpected image %q", view.LineItems[0].Product.Image)
	}

	summary, err := repo.Summary(ctx, cart.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Count != 2 || summary.Subtotal != 2000 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestPostgres_ConcurrentAddsKeepOneRow(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	cart, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p1 := insertProduct(ctx, t, pool, "Prod 1", 100)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AddLineItem(ctx, cart.ID, p1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent add: %v", err)
	}

	var rowsCount, quantity int
	err = pool.QueryRow(ctx, `SELECT count(*), COALESCE(sum(quantity), 0) FROM line_items WHERE cart_id = $1 AND product_id = $2`, cart.ID, p1).Scan(&rowsCount, &quantity)
	if err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if rowsCount != 1 || quantity != n {
		t.Fatalf("expected 1 row with quantity %d, got rows=%d quantity=%d", n, rowsCount, quantity)
	}
}

func TestPostgres_RemoveLineItem(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	cart, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p1 := insertProduct(ctx, t, pool, "Prod 1", 1000)
	p2 := insertProduct(ctx, t, pool, "Prod 2", 500)

	l1, err := repo.AddLineItem(ctx, cart.ID, p1)
	if err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if _, err := repo.AddLineItem(ctx, cart.ID, p2); err != nil {
		t.Fatalf("add p2: %v", err)
	}

	owner, err := repo.RemoveLineItem(ctx, cart.ID, l1.ID)
	if err != nil {
		t.Fatalf("RemoveLineItem: %v", err)
	}
	if owner != cart.ID {
		t.Fatalf("expected cart id echoed, got %s", owner)
	}

	view, err := repo.GetView(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if len(view.LineItems) != 1 || view.LineItems[0].Product.ID != p2 || view.Count != 1 || view.Subtotal != 500 {
		t.Fatalf("unexpected view after removal %+v", view)
	}

	if _, err := repo.RemoveLineItem(ctx, cart.ID, l1.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second removal, got %v", err)
	}
}

func TestPostgres_RemoveLineItemOfOtherCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	mine, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create mine: %v", err)
	}
	theirs, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create theirs: %v", err)
	}
	p1 := insertProduct(ctx, t, pool, "Prod 1", 1000)
	line, err := repo.AddLineItem(ctx, theirs.ID, p1)
	if err != nil {
		t.Fatalf("AddLineItem: %v", err)
	}

	if _, err := repo.RemoveLineItem(ctx, mine.ID, line.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	view, err := repo.GetView(ctx, theirs.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if len(view.LineItems) != 1 {
		t.Fatalf("line of other cart must survive, got %+v", view.LineItems)
	}
}

func TestPostgres_AddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	cart, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.AddLineItem(ctx, cart.ID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
	if _, err := repo.AddLineItem(ctx, cart.ID, "not-a-uuid"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for malformed id, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE outbox, orders, line_items, carts, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, name string, priceCents int64) string {
	t.Helper()
	const images = `[{"serviceName":"s3","bucketName":"demo","key":"p1.png","filename":"p1.png","contentType":"image/png","size":1}]`
	var id string
	err := pool.QueryRow(ctx, `
		INSERT INTO products (name, stock, price_cents, images)
		VALUES ($1, 10, $2, $3::jsonb)
		RETURNING id::text
	`, name, priceCents, images).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}
