//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=../mocks/mock_ledger_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"courier-lab/domain"
	"courier-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type ILedgerRepository interface {
	PutAccount(account domain.Account) error
	Balance(accountID string) (int64, error)
	DebitIfSufficient(accountID string, amount int64) (bool, error)
	Credit(accountID string, amount int64, description string) error
	Record(tx domain.CreditTransaction) error
	Transactions(accountID string) ([]domain.CreditTransaction, error)
}

// LedgerRepository owns account balances and the append-only
// transaction log. Concurrent debits against the same account are
// serialized by a per-account mutex, so the sufficiency check and the
// decrement are one atomic step: two racing sends cannot both win the
// last credit.
type LedgerRepository struct {
	db  *badger.DB
	log *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedgerRepository(db *badger.DB, log *slog.Logger) *LedgerRepository {
	return &LedgerRepository{db: db, log: log, locks: make(map[string]*sync.Mutex)}
}

func accountKey(id string) []byte {
	return []byte(fmt.Sprintf("acct:%s", id))
}

func transactionKey(accountID string, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("tx:%s:%019d:%s", accountID, at.UnixNano(), id))
}

func (l *LedgerRepository) lockFor(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[accountID] = lock
	}
	return lock
}

func (l *LedgerRepository) PutAccount(account domain.Account) error {
	bytes, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(accountKey(account.ID), bytes)
	})
}

func (l *LedgerRepository) Balance(accountID string) (int64, error) {
	var account domain.Account
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(accountID))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &account)
		})
	})
	if err == badger.ErrKeyNotFound {
		return 0, errors.ErrUnknownAccount
	}
	return account.CreditBalance, err
}

// DebitIfSufficient atomically checks and decrements the balance.
// Returns false when the balance cannot cover the amount; a missing
// account behaves like an empty one. The balance never goes negative.
func (l *LedgerRepository) DebitIfSufficient(accountID string, amount int64) (bool, error) {
	if amount <= 0 {
		return false, errors.ErrNonPositiveAmount
	}

	lock := l.lockFor(accountID)
	lock.Lock()
	defer lock.Unlock()

	sufficient := false
	err := l.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(accountID))
		if err != nil {
			return err
		}
		var account domain.Account
		if err = item.Value(func(value []byte) error {
			return json.Unmarshal(value, &account)
		}); err != nil {
			return err
		}
		if account.CreditBalance < amount {
			return nil
		}
		account.CreditBalance -= amount
		bytes, err := json.Marshal(account)
		if err != nil {
			return err
		}
		if err = txn.Set(accountKey(accountID), bytes); err != nil {
			return err
		}
		sufficient = true
		return nil
	})
	if err == badger.ErrKeyNotFound {
		l.log.Warn("Debit attempt against unknown account", "account", accountID)
		return false, nil
	}
	return sufficient, err
}

// Credit tops up the balance and appends the matching log entry in one
// transaction.
func (l *LedgerRepository) Credit(accountID string, amount int64, description string) error {
	if amount <= 0 {
		return errors.ErrNonPositiveAmount
	}

	lock := l.lockFor(accountID)
	lock.Lock()
	defer lock.Unlock()

	err := l.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(accountID))
		if err != nil {
			return err
		}
		var account domain.Account
		if err = item.Value(func(value []byte) error {
			return json.Unmarshal(value, &account)
		}); err != nil {
			return err
		}
		account.CreditBalance += amount
		accountBytes, err := json.Marshal(account)
		if err != nil {
			return err
		}
		if err = txn.Set(accountKey(accountID), accountBytes); err != nil {
			return err
		}

		entry := domain.CreditTransaction{
			ID:          uuid.New(),
			AccountID:   accountID,
			Amount:      amount,
			Kind:        domain.TxTopUp,
			Status:      domain.TxCompleted,
			Description: description,
			CreatedAt:   time.Now().UTC(),
		}
		entryBytes, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return txn.Set(transactionKey(accountID, entry.CreatedAt, entry.ID), entryBytes)
	})
	if err == badger.ErrKeyNotFound {
		return errors.ErrUnknownAccount
	}
	return err
}

// Record appends one transaction row. Rows are never mutated or
// deleted; the padded-timestamp key keeps the log chronologically
// ordered under a prefix scan.
func (l *LedgerRepository) Record(tx domain.CreditTransaction) error {
	bytes, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(transactionKey(tx.AccountID, tx.CreatedAt, tx.ID), bytes)
	})
}

// Transactions scans the full log of one account, oldest first.
// Audit and reconciliation only, never on the send path.
func (l *LedgerRepository) Transactions(accountID string) ([]domain.CreditTransaction, error) {
	var entries []domain.CreditTransaction
	err := l.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("tx:%s:", accountID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry domain.CreditTransaction
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &entry)
			})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}
