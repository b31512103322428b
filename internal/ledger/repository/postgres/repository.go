// Package postgres implements the domain repositories over pgx. Every
// balance mutation is a single conditional UPDATE, and multi-step engine
// operations run inside one transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowQuerier is satisfied by both DB and pgx.Tx, so balance helpers can run
// against the pool or inside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgCodeUniqueViolation      = "23505"
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
)

// mapError classifies storage errors: retryable concurrency failures become
// ErrConflict, everything else ErrPersistence. The original error stays in
// the chain for logging.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeSerializationFailure, pgCodeDeadlockDetected:
			return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
	}
	return fmt.Errorf("%w: %v", apperr.ErrPersistence, err)
}

const adjustBalanceSQL = `
	UPDATE accounts
	SET balance = balance + $2
	WHERE id = $1 AND is_active AND balance + $2 >= $3
	RETURNING balance`

// adjustBalanceTx applies delta to one account, refusing any result below
// minBalance. pgx.ErrNoRows means no row qualified: the account is gone,
// inactive, or the floor would be violated. Callers decide which.
func adjustBalanceTx(ctx context.Context, q rowQuerier, accountID string, delta, minBalance decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRow(ctx, adjustBalanceSQL, accountID, delta, minBalance).Scan(&balance)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return balance, nil
}
