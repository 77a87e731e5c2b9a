package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Op is a single step of a unit of work.
type Op func(ctx context.Context, tx pgx.Tx) error

// ReadCommitted is the isolation used for cart mutations and checkout.
var ReadCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// RunInTx begins a transaction, runs ops in order and commits. The first
// failing op aborts the remaining ones and rolls the transaction back.
func RunInTx(ctx context.Context, b Beginner, opts pgx.TxOptions, ops ...Op) error {
	if len(ops) == 0 {
		return errors.New("unit of work: no operations")
	}
	tx, err := b.BeginTx(ctx, opts)
	if err != nil {
		return Classify(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx)

	for _, op := range ops {
		if err := op(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Classify(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
