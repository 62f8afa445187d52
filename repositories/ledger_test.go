package repositories

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"courier-lab/domain"
	"courier-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLedger_DebitIfSufficient(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())

	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1", CreditBalance: 2}))

	ok, err := ledger.DebitIfSufficient("acc-1", 1)
	req.NoError(err)
	req.True(ok)

	ok, err = ledger.DebitIfSufficient("acc-1", 1)
	req.NoError(err)
	req.True(ok)

	// Third debit hits an empty balance: rejected, balance stays at 0.
	ok, err = ledger.DebitIfSufficient("acc-1", 1)
	req.NoError(err)
	req.False(ok)

	balance, err := ledger.Balance("acc-1")
	req.NoError(err)
	req.Equal(int64(0), balance)
}

func TestLedger_DebitUnknownAccountIsInsufficient(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())

	ok, err := ledger.DebitIfSufficient("nobody", 1)
	req.NoError(err)
	req.False(ok)

	_, err = ledger.Balance("nobody")
	req.ErrorIs(err, errors.ErrUnknownAccount)
}

func TestLedger_CreditUnknownAccount(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())

	err := ledger.Credit("nobody", 10, "top-up")
	req.ErrorIs(err, errors.ErrUnknownAccount)
}

func TestLedger_RejectsNonPositiveAmounts(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())
	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1", CreditBalance: 5}))

	_, err := ledger.DebitIfSufficient("acc-1", 0)
	req.ErrorIs(err, errors.ErrNonPositiveAmount)
	req.ErrorIs(ledger.Credit("acc-1", -3, "nope"), errors.ErrNonPositiveAmount)
}

// Under N concurrent debits of 1 unit against a balance of B < N,
// exactly B succeed, never more.
func TestLedger_ConcurrentDebitsNeverOversell(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())

	const balance = 7
	const attempts = 50
	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1", CreditBalance: balance}))

	var wins atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ledger.DebitIfSufficient("acc-1", 1)
			require.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	req.Equal(int64(balance), wins.Load())
	remaining, err := ledger.Balance("acc-1")
	req.NoError(err)
	req.Equal(int64(0), remaining)
}

// The sum of all transactions for an account equals its balance.
// Checked here and in ledgerctl, never re-derived on the hot path.
func TestLedger_LogReconcilesWithBalance(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())

	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1"}))
	req.NoError(ledger.Credit("acc-1", 10, "initial top-up"))

	for i := 0; i < 3; i++ {
		ok, err := ledger.DebitIfSufficient("acc-1", 1)
		req.NoError(err)
		req.True(ok)
		req.NoError(ledger.Record(domain.CreditTransaction{
			ID:        uuid.New(),
			AccountID: "acc-1",
			Amount:    -1,
			Kind:      domain.TxMessageWhatsApp,
			Status:    domain.TxCompleted,
			CreatedAt: time.Now().UTC(),
		}))
	}

	entries, err := ledger.Transactions("acc-1")
	req.NoError(err)
	req.Len(entries, 4)

	var sum int64
	for _, entry := range entries {
		sum += entry.Amount
	}
	balance, err := ledger.Balance("acc-1")
	req.NoError(err)
	req.Equal(balance, sum)
}

func TestLedger_TransactionsAreChronological(t *testing.T) {
	req := require.New(t)
	ledger := NewLedgerRepository(openTestDB(t), slog.Default())
	req.NoError(ledger.PutAccount(domain.Account{ID: "acc-1"}))

	at := time.Now().UTC()
	for i, kind := range []domain.TransactionKind{domain.TxTopUp, domain.TxMessageWhatsApp, domain.TxMessageEmail} {
		req.NoError(ledger.Record(domain.CreditTransaction{
			ID:        uuid.New(),
			AccountID: "acc-1",
			Amount:    1,
			Kind:      kind,
			Status:    domain.TxCompleted,
			CreatedAt: at.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := ledger.Transactions("acc-1")
	req.NoError(err)
	req.Len(entries, 3)
	req.Equal(domain.TxTopUp, entries[0].Kind)
	req.Equal(domain.TxMessageEmail, entries[2].Kind)
}
