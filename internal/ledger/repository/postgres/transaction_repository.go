package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

type TransactionRepository struct {
	db DB
}

func NewTransactionRepository(db DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const insertTransactionSQL = `
	INSERT INTO transactions (id, transaction_type, amount, description,
		from_account_id, to_account_id, user_id, ip_address, user_agent, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

func insertTransactionTx(ctx context.Context, tx pgx.Tx, rec *domain.Transaction) error {
	_, err := tx.Exec(ctx, insertTransactionSQL,
		rec.ID, rec.TransactionType, rec.Amount, rec.Description,
		rec.FromAccountID, rec.ToAccountID, rec.UserID, rec.IPAddress, rec.UserAgent, rec.CreatedAt)
	return err
}

type balanceOp struct {
	accountID string
	delta     decimal.Decimal
	// missing is returned when the conditional update matches no row.
	missing error
}

// Transfer debits the source, credits the destination, and appends the
// ledger row in a single transaction. Row locks are taken in ascending
// account-id order so two opposing transfers on the same pair cannot
// deadlock. Returns the new source balance.
func (r *TransactionRepository) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, rec *domain.Transaction) (decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return decimal.Decimal{}, mapError(err)
	}
	defer tx.Rollback(ctx)

	ops := []balanceOp{
		{accountID: fromAccountID, delta: amount.Neg(), missing: apperr.ErrInsufficientFunds},
		{accountID: toAccountID, delta: amount, missing: apperr.ErrDestinationNotFound},
	}
	if ops[1].accountID < ops[0].accountID {
		ops[0], ops[1] = ops[1], ops[0]
	}

	var sourceBalance decimal.Decimal
	for _, op := range ops {
		balance, err := adjustBalanceTx(ctx, tx, op.accountID, op.delta, decimal.Zero)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return decimal.Decimal{}, op.missing
			}
			return decimal.Decimal{}, mapError(err)
		}
		if op.accountID == fromAccountID {
			sourceBalance = balance
		}
	}

	if err := insertTransactionTx(ctx, tx, rec); err != nil {
		return decimal.Decimal{}, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Decimal{}, mapError(err)
	}
	return sourceBalance, nil
}

// Deposit credits the destination and appends the ledger row in a single
// transaction. Returns the new destination balance.
func (r *TransactionRepository) Deposit(ctx context.Context, toAccountID string, amount decimal.Decimal, rec *domain.Transaction) (decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return decimal.Decimal{}, mapError(err)
	}
	defer tx.Rollback(ctx)

	balance, err := adjustBalanceTx(ctx, tx, toAccountID, amount, decimal.Zero)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, apperr.ErrAccountNotFound
		}
		return decimal.Decimal{}, mapError(err)
	}

	if err := insertTransactionTx(ctx, tx, rec); err != nil {
		return decimal.Decimal{}, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Decimal{}, mapError(err)
	}
	return balance, nil
}

const transactionColumns = `id, transaction_type, amount, description,
		from_account_id, to_account_id, user_id, ip_address, user_agent, created_at`

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
	SELECT `+transactionColumns+`
	FROM transactions
	WHERE from_account_id = $1 OR to_account_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	return collectTransactions(rows)
}

func (r *TransactionRepository) ListByActor(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
	SELECT `+transactionColumns+`
	FROM transactions
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	var list []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(&t.ID, &t.TransactionType, &t.Amount, &t.Description,
			&t.FromAccountID, &t.ToAccountID, &t.UserID, &t.IPAddress, &t.UserAgent, &t.CreatedAt)
		if err != nil {
			return nil, mapError(err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return list, nil
}
