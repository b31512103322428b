package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

const (
	accountNumberConstraint   = "accounts_account_number_key"
	ownerTypeUniqueConstraint = "accounts_owner_type_active_key"
)

type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, account_number, user_id, account_type, balance, is_active, created_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.AccountNumber, &a.UserID, &a.AccountType, &a.Balance, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (id, account_number, user_id, account_type, balance, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, account.ID, account.AccountNumber, account.UserID, account.AccountType,
		account.Balance, account.IsActive, account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation {
			switch pgErr.ConstraintName {
			case ownerTypeUniqueConstraint:
				return apperr.ErrDuplicateAccountType
			case accountNumberConstraint:
				return apperr.ErrAccountNumberTaken
			}
		}
		return mapError(err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns), id)
	return scanAccount(row)
}

func (r *AccountRepository) GetOwnedActive(ctx context.Context, id, ownerID string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM accounts WHERE id = $1 AND user_id = $2 AND is_active
	`, accountColumns), id, ownerID)
	return scanAccount(row)
}

func (r *AccountRepository) GetActiveByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM accounts WHERE account_number = $1 AND is_active
	`, accountColumns), number)
	return scanAccount(row)
}

func (r *AccountRepository) GetActiveByOwnerAndType(ctx context.Context, ownerID, accountType string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM accounts WHERE user_id = $1 AND account_type = $2 AND is_active
	`, accountColumns), ownerID, accountType)
	return scanAccount(row)
}

func (r *AccountRepository) FirstActiveByOwner(ctx context.Context, ownerID string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM accounts WHERE user_id = $1 AND is_active ORDER BY created_at LIMIT 1
	`, accountColumns), ownerID)
	return scanAccount(row)
}

func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM accounts WHERE user_id = $1 ORDER BY created_at
	`, accountColumns), ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.AccountNumber, &a.UserID, &a.AccountType, &a.Balance, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return accounts, nil
}

func (r *AccountRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

// AdjustBalance applies delta atomically against the pool. Multi-account
// operations go through TransactionRepository instead so they share one
// storage transaction.
func (r *AccountRepository) AdjustBalance(ctx context.Context, accountID string, delta, minBalance decimal.Decimal) (decimal.Decimal, error) {
	balance, err := adjustBalanceTx(ctx, r.db, accountID, delta, minBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, apperr.ErrInsufficientFunds
		}
		return decimal.Decimal{}, mapError(err)
	}
	return balance, nil
}
