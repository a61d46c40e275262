package models

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DecimalPrecision is the number of fractional digits rendered on
// snapshot output. Internal balances keep full precision.
const DecimalPrecision = 4

// DepositStatus tracks a deposit through the dispute lifecycle:
//
//	Applied ──dispute──► Inflight ──resolve────► Resolved
//	                         │
//	                         └──chargeback──► Voided (account locked)
type DepositStatus int

const (
	DepositApplied DepositStatus = iota
	DepositInflight
	DepositResolved
	DepositVoided
)

func (s DepositStatus) String() string {
	switch s {
	case DepositApplied:
		return "applied"
	case DepositInflight:
		return "inflight"
	case DepositResolved:
		return "resolved"
	case DepositVoided:
		return "voided"
	default:
		return "unknown"
	}
}

// DepositRecord tracks the amount and status of a deposit so that later
// disputes can be adjudicated. Records are never deleted.
type DepositRecord struct {
	Amount decimal.Decimal
	Status DepositStatus
}

// Account is the per-client ledger state. The whole struct is guarded by
// Mu; every read or transition happens under it.
type Account struct {
	Id        ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
	// Deposits indexes deposit records by transaction ID for dispute lookup.
	Deposits map[TxID]*DepositRecord

	Mu sync.Mutex `json:"-"`
}

func NewAccount(id ClientID) *Account {
	return &Account{
		Id:        id,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Deposits:  make(map[TxID]*DepositRecord),
	}
}

// AccountSnapshot is a self-consistent read of one account, taken under
// its mutex. Decimal fields are rounded to DecimalPrecision fractional
// digits with banker's rounding; trailing-zero handling is left to the
// serializer.
type AccountSnapshot struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// TransactionEvent is broadcast to SSE subscribers after a transaction
// is accepted.
type TransactionEvent struct {
	Type      string          `json:"type"`
	Client    ClientID        `json:"client"`
	Tx        TxID            `json:"tx"`
	Amount    decimal.Decimal `json:"amount"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
	Timestamp time.Time       `json:"timestamp"`
}
