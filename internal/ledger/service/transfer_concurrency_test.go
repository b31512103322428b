package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakhrm410f/secure-bank-system/internal/ledger/domain"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/dto"
	"github.com/sakhrm410f/secure-bank-system/internal/ledger/service"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

// memoryStore is a mutex-guarded stand-in for the Postgres repositories,
// just enough surface to drive the transfer engine under contention.
type memoryStore struct {
	mu           sync.Mutex
	accounts     map[string]*domain.Account
	transactions []domain.Transaction
}

func newMemoryStore(accounts ...*domain.Account) *memoryStore {
	m := &memoryStore{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *memoryStore) Create(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryStore) GetOwnedActive(_ context.Context, id, ownerID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[id]; ok && a.UserID == ownerID && a.IsActive {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryStore) GetActiveByNumber(_ context.Context, number string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.AccountNumber == number && a.IsActive {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) GetActiveByOwnerAndType(_ context.Context, ownerID, accountType string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.UserID == ownerID && a.AccountType == accountType && a.IsActive {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) FirstActiveByOwner(_ context.Context, ownerID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.UserID == ownerID && a.IsActive {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, a := range m.accounts {
		if a.UserID == ownerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memoryStore) NumberExists(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.AccountNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) AdjustBalance(_ context.Context, accountID string, delta, minBalance decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok || !a.IsActive {
		return decimal.Decimal{}, apperr.ErrInsufficientFunds
	}
	next := a.Balance.Add(delta)
	if next.LessThan(minBalance) {
		return decimal.Decimal{}, apperr.ErrInsufficientFunds
	}
	a.Balance = next
	return next, nil
}

func (m *memoryStore) Transfer(_ context.Context, fromAccountID, toAccountID string, amount decimal.Decimal, rec *domain.Transaction) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	from, ok := m.accounts[fromAccountID]
	if !ok {
		return decimal.Decimal{}, apperr.ErrInsufficientFunds
	}
	to, ok := m.accounts[toAccountID]
	if !ok {
		return decimal.Decimal{}, apperr.ErrDestinationNotFound
	}
	next := from.Balance.Sub(amount)
	if next.IsNegative() {
		return decimal.Decimal{}, apperr.ErrInsufficientFunds
	}
	from.Balance = next
	to.Balance = to.Balance.Add(amount)
	m.transactions = append(m.transactions, *rec)
	return next, nil
}

func (m *memoryStore) Deposit(_ context.Context, toAccountID string, amount decimal.Decimal, rec *domain.Transaction) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	to, ok := m.accounts[toAccountID]
	if !ok {
		return decimal.Decimal{}, apperr.ErrDestinationNotFound
	}
	to.Balance = to.Balance.Add(amount)
	m.transactions = append(m.transactions, *rec)
	return to.Balance, nil
}

func (m *memoryStore) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range m.transactions {
		if (tx.FromAccountID != nil && *tx.FromAccountID == accountID) ||
			(tx.ToAccountID != nil && *tx.ToAccountID == accountID) {
			out = append(out, tx)
		}
	}
	return pageSlice(out, limit, offset), nil
}

func (m *memoryStore) ListByActor(_ context.Context, userID string, limit, offset int) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range m.transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return pageSlice(out, limit, offset), nil
}

func pageSlice(list []domain.Transaction, limit, offset int) []domain.Transaction {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list
}

func (m *memoryStore) balance(accountID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[accountID].Balance
}

func (m *memoryStore) ledgerSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

// With exactly enough funds for successCount transfers, concurrent requests
// must commit exactly that many and reject the rest, with balances
// conserved and one ledger row per committed transfer.
func TestTransferService_ConcurrentTransfers(t *testing.T) {
	const (
		successCount = 20
		extraCount   = 10
	)
	amount := decimal.RequireFromString("5.00")

	source := &domain.Account{
		ID:            "acc-src",
		AccountNumber: "1111111111",
		UserID:        "user-1",
		AccountType:   "checking",
		Balance:       amount.Mul(decimal.NewFromInt(successCount)),
		IsActive:      true,
	}
	destination := &domain.Account{
		ID:            "acc-dst",
		AccountNumber: "2222222222",
		UserID:        "user-2",
		AccountType:   "checking",
		Balance:       decimal.Zero,
		IsActive:      true,
	}
	store := newMemoryStore(source, destination)
	s := service.NewTransferService(store, store, testCeiling, 3, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make(chan error, successCount+extraCount)
	for i := 0; i < successCount+extraCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Transfer(ctx, domain.Identity{UserID: "user-1", Role: "user"}, dto.TransferInput{
				FromAccountID:   "acc-src",
				ToAccountNumber: "2222222222",
				Amount:          "5.00",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var committed, rejected int
	for err := range results {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, apperr.ErrInsufficientFunds):
			rejected++
		default:
			require.NoError(t, err)
		}
	}

	assert.Equal(t, successCount, committed)
	assert.Equal(t, extraCount, rejected)
	assert.True(t, store.balance("acc-src").IsZero(), "source drained exactly, got %s", store.balance("acc-src"))
	assert.True(t, store.balance("acc-dst").Equal(amount.Mul(decimal.NewFromInt(successCount))))
	assert.Equal(t, successCount, store.ledgerSize())
}
