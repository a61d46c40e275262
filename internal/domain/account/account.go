package domain

import (
	"ledger-api/internal/domain/models"
	"ledger-api/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

// Apply runs a single ledger transition on the account. The whole
// transition happens under the account mutex and is all-or-nothing: on
// any error the account state is unchanged.
func Apply(acc *models.Account, evt models.Event) error {
	acc.Mu.Lock()
	defer acc.Mu.Unlock()

	if evt.Client != acc.Id {
		return errors.ErrClientMismatch
	}

	switch evt.Type {
	case models.EventDeposit:
		if err := deposit(acc, evt.Amount); err != nil {
			return err
		}
		// Track the deposit for future disputes. Uniqueness of evt.Tx at
		// account scope is guaranteed by the engine's registry claim.
		acc.Deposits[evt.Tx] = &models.DepositRecord{
			Amount: evt.Amount,
			Status: models.DepositApplied,
		}
		return nil

	case models.EventWithdrawal:
		// Withdrawals are not recorded and cannot be disputed.
		return withdraw(acc, evt.Amount)

	case models.EventDispute:
		return dispute(acc, evt.Tx)

	case models.EventResolve:
		return resolve(acc, evt.Tx)

	case models.EventChargeback:
		return chargeback(acc, evt.Tx)

	default:
		// Structurally valid events are the parser's contract; defensive.
		return errors.ErrTransactionNotFound
	}
}

// deposit credits the available balance. Caller holds acc.Mu.
func deposit(acc *models.Account, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.ErrInvalidAmount
	}
	if acc.Locked {
		return errors.ErrAccountLocked
	}
	acc.Available = acc.Available.Add(amount)
	return nil
}

// withdraw debits the available balance. Caller holds acc.Mu.
func withdraw(acc *models.Account, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.ErrInvalidAmount
	}
	if acc.Locked {
		return errors.ErrAccountLocked
	}
	if acc.Available.Cmp(amount) < 0 {
		return errors.ErrInsufficientFunds
	}
	acc.Available = acc.Available.Sub(amount)
	return nil
}

// dispute moves a deposit's amount from available to held. Caller holds
// acc.Mu.
func dispute(acc *models.Account, tx models.TxID) error {
	record, ok := acc.Deposits[tx]
	if !ok {
		return errors.ErrTransactionNotFound
	}
	if record.Status != models.DepositApplied {
		return errors.ErrAlreadyDisputed
	}
	if acc.Locked {
		return errors.ErrAccountLocked
	}
	// Dispute after withdrawal: the deposited funds may already be gone.
	// Rejected rather than allowing a negative available or a partial hold.
	if acc.Available.Cmp(record.Amount) < 0 {
		return errors.ErrInsufficientFunds
	}

	acc.Available = acc.Available.Sub(record.Amount)
	acc.Held = acc.Held.Add(record.Amount)
	record.Status = models.DepositInflight
	return nil
}

// resolve releases held funds back to available. Caller holds acc.Mu.
func resolve(acc *models.Account, tx models.TxID) error {
	record, ok := acc.Deposits[tx]
	if !ok {
		return errors.ErrTransactionNotFound
	}
	if record.Status != models.DepositInflight {
		return errors.ErrNotDisputed
	}
	if acc.Locked {
		return errors.ErrAccountLocked
	}
	// Unreachable while every Inflight amount is included in Held.
	if acc.Held.Cmp(record.Amount) < 0 {
		return errors.ErrInsufficientFunds
	}

	acc.Held = acc.Held.Sub(record.Amount)
	acc.Available = acc.Available.Add(record.Amount)
	record.Status = models.DepositResolved
	return nil
}

// chargeback removes held funds and locks the account. Available is
// untouched: the client keeps any non-disputed funds. Caller holds acc.Mu.
func chargeback(acc *models.Account, tx models.TxID) error {
	record, ok := acc.Deposits[tx]
	if !ok {
		return errors.ErrTransactionNotFound
	}
	if record.Status != models.DepositInflight {
		return errors.ErrNotDisputed
	}
	if acc.Locked {
		return errors.ErrAccountLocked
	}
	if acc.Held.Cmp(record.Amount) < 0 {
		return errors.ErrInsufficientFunds
	}

	acc.Held = acc.Held.Sub(record.Amount)
	acc.Locked = true
	record.Status = models.DepositVoided
	return nil
}

// Snapshot returns a self-consistent view of the account with balances
// rounded for display.
func Snapshot(acc *models.Account) models.AccountSnapshot {
	acc.Mu.Lock()
	defer acc.Mu.Unlock()

	return models.AccountSnapshot{
		Client:    acc.Id,
		Available: acc.Available.RoundBank(models.DecimalPrecision),
		Held:      acc.Held.RoundBank(models.DecimalPrecision),
		Total:     acc.Available.Add(acc.Held).RoundBank(models.DecimalPrecision),
		Locked:    acc.Locked,
	}
}

// Available returns the unrounded available balance.
func Available(acc *models.Account) decimal.Decimal {
	acc.Mu.Lock()
	defer acc.Mu.Unlock()
	return acc.Available
}

// Held returns the unrounded held balance.
func Held(acc *models.Account) decimal.Decimal {
	acc.Mu.Lock()
	defer acc.Mu.Unlock()
	return acc.Held
}

// Total returns available + held, read under a single lock acquisition.
func Total(acc *models.Account) decimal.Decimal {
	acc.Mu.Lock()
	defer acc.Mu.Unlock()
	return acc.Available.Add(acc.Held)
}

// IsLocked reports whether the account has been frozen by a chargeback.
func IsLocked(acc *models.Account) bool {
	acc.Mu.Lock()
	defer acc.Mu.Unlock()
	return acc.Locked
}

// DepositState looks up the dispute status of a tracked deposit.
func DepositState(acc *models.Account, tx models.TxID) (models.DepositStatus, bool) {
	acc.Mu.Lock()
	defer acc.Mu.Unlock()
	record, ok := acc.Deposits[tx]
	if !ok {
		return 0, false
	}
	return record.Status, true
}
