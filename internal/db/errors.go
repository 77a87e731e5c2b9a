package db

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"storefront/internal/domain"
)

// SQLSTATE codes the repositories care about.
const (
	codeForeignKeyViolation       = "23503"
	codeUniqueViolation           = "23505"
	codeCheckViolation            = "23514"
	codeInvalidTextRepresentation = "22P02"
	codeAdminShutdown             = "57P01"
	codeCannotConnectNow          = "57P03"
)

// Classify wraps pgx errors with the matching domain sentinel so callers can
// use errors.Is. Errors that already carry a domain sentinel pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrEmptyCart,
		domain.ErrConcurrentModification,
		domain.ErrStoreUnavailable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", domain.ErrConcurrentModification, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeForeignKeyViolation:
			return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		case pgErr.Code == codeInvalidTextRepresentation, pgErr.Code == codeCheckViolation:
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == codeAdminShutdown, pgErr.Code == codeCannotConnectNow:
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
