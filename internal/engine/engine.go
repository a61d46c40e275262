package engine

import (
	"iter"

	domain "ledger-api/internal/domain/account"
	"ledger-api/internal/domain/models"
	"ledger-api/internal/pkg/errors"
)

// Engine processes ledger events against client accounts. It is safe for
// any number of concurrent producers; contention is serialized per
// account, so distinct clients progress in parallel.
//
// Invariants:
//   - At most one monetary event ever succeeds with a given transaction ID.
//   - Only deposits can be disputed (withdrawals cannot).
//   - Deposits transition Applied → Inflight → Resolved or Voided.
//   - A chargeback permanently locks the client account.
type Engine struct {
	// Client accounts, sharded by client ID.
	accounts *accountMap
	// Global transaction registry for monetary-event deduplication.
	transactions *txRegistry
}

// New returns an empty engine with no accounts or claimed transactions.
func New() *Engine {
	return &Engine{
		accounts:     newAccountMap(),
		transactions: newTxRegistry(),
	}
}

// Process applies a single event and returns the transition result.
//
// For deposits and withdrawals the transaction ID is claimed in the
// registry before any account work, so a duplicate ID is never observed
// by an account. The claim is kept even when the subsequent apply fails:
// transaction IDs are a monotone namespace, not an optimistic
// reservation. The registry shard lock is released before the account
// mutex is acquired, so no two guards are ever held together.
func (e *Engine) Process(evt models.Event) error {
	if evt.Monetary() {
		if err := e.transactions.claim(evt); err != nil {
			return err
		}
		acc := e.accounts.getOrCreate(evt.Client)
		return domain.Apply(acc, evt)
	}

	// Dispute operations reference existing deposits; if the account does
	// not exist, the referenced deposit cannot either.
	acc, ok := e.accounts.get(evt.Client)
	if !ok {
		return errors.ErrTransactionNotFound
	}
	return domain.Apply(acc, evt)
}

// GetAccount returns a self-consistent snapshot of one account.
func (e *Engine) GetAccount(client models.ClientID) (models.AccountSnapshot, bool) {
	acc, ok := e.accounts.get(client)
	if !ok {
		return models.AccountSnapshot{}, false
	}
	return domain.Snapshot(acc), true
}

// Accounts yields one snapshot per account in unspecified order. Each
// snapshot is taken under its account's mutex; iteration is safe
// concurrent with Process and may or may not reflect accounts created
// while it runs.
func (e *Engine) Accounts() iter.Seq[models.AccountSnapshot] {
	return func(yield func(models.AccountSnapshot) bool) {
		for _, acc := range e.accounts.all() {
			if !yield(domain.Snapshot(acc)) {
				return
			}
		}
	}
}

// AccountCount returns the number of accounts created so far.
func (e *Engine) AccountCount() int {
	return e.accounts.len()
}

// TransactionCount returns the number of claimed transaction IDs,
// including claims whose apply later failed.
func (e *Engine) TransactionCount() int {
	return e.transactions.len()
}

// SeenTransaction reports whether a monetary transaction ID has been
// claimed.
func (e *Engine) SeenTransaction(tx models.TxID) bool {
	return e.transactions.seen(tx)
}
