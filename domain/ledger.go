// This file defines the prepaid credit model. Balances are mutated only
// through ledger operations; transaction rows are append-only and form
// the audit trail. The balance field is the source of truth, the log is
// reconciled against it offline (ledgerctl, tests), never in the hot path.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account identifies a sender owning a prepaid credit balance.
// The balance is expressed in abstract credit units and never goes
// negative: a debit either fully succeeds or is rejected.
type Account struct {
	ID            string
	CreditBalance int64
}

// TransactionKind labels why an amount moved.
type TransactionKind string

const (
	TxMessageWhatsApp TransactionKind = "message-sent-via-whatsapp"
	TxMessageEmail    TransactionKind = "message-sent-via-email"
	TxTopUp           TransactionKind = "top-up"
)

// KindForChannel maps a delivery surface to its ledger label.
func KindForChannel(kind ChannelKind) TransactionKind {
	if kind == ChannelEmail {
		return TxMessageEmail
	}
	return TxMessageWhatsApp
}

// TransactionStatus records the fate of the paid attempt the debit covered.
type TransactionStatus string

const (
	TxCompleted TransactionStatus = "completed"
	// TxForfeited marks a debit whose whole fallback chain failed.
	// The unit is not refunded; keeping the log append-only beats
	// clawing back a single credit.
	TxForfeited TransactionStatus = "forfeited"
)

// CreditTransaction is one append-only ledger entry. Amount is signed:
// debits are negative, top-ups positive. The sum of all entries for an
// account must equal its current balance.
type CreditTransaction struct {
	ID          uuid.UUID
	AccountID   string
	Amount      int64
	Kind        TransactionKind
	Status      TransactionStatus
	Description string
	CreatedAt   time.Time
}
