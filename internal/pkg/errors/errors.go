package errors

import "net/http"

// TransactionError is a ledger failure kind. Engine operations return
// these as plain values; they are never wrapped or thrown out-of-band.
// Status is the HTTP mapping used at the API boundary.
type TransactionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *TransactionError) Error() string {
	return e.Message
}

// Error codes
const (
	ErrCodeMissingAmount        = "MISSING_AMOUNT"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	ErrCodeTransactionNotFound  = "TRANSACTION_NOT_FOUND"
	ErrCodeClientMismatch       = "CLIENT_MISMATCH"
	ErrCodeAlreadyDisputed      = "ALREADY_DISPUTED"
	ErrCodeNotDisputed          = "NOT_DISPUTED"
	ErrCodeNotDisputable        = "NOT_DISPUTABLE"
	ErrCodeDuplicateTransaction = "DUPLICATE_TRANSACTION"
	ErrCodeAccountLocked        = "ACCOUNT_LOCKED"
)

var (
	// ErrMissingAmount - deposit/withdrawal submitted without an amount.
	// Raised at the DTO boundary; core transitions never see such events.
	ErrMissingAmount = &TransactionError{
		Code:    ErrCodeMissingAmount,
		Message: "missing amount for deposit/withdrawal",
		Status:  http.StatusBadRequest,
	}

	// ErrInvalidAmount - amount is zero or negative.
	ErrInvalidAmount = &TransactionError{
		Code:    ErrCodeInvalidAmount,
		Message: "invalid amount (must be positive)",
		Status:  http.StatusBadRequest,
	}

	// ErrInsufficientFunds - withdrawal exceeds the available balance, or a
	// dispute cannot hold the full deposited amount.
	ErrInsufficientFunds = &TransactionError{
		Code:    ErrCodeInsufficientFunds,
		Message: "insufficient available funds",
		Status:  http.StatusBadRequest,
	}

	// ErrTransactionNotFound - referenced transaction or client is unknown.
	ErrTransactionNotFound = &TransactionError{
		Code:    ErrCodeTransactionNotFound,
		Message: "transaction not found",
		Status:  http.StatusNotFound,
	}

	// ErrClientMismatch - event's client does not own the account.
	ErrClientMismatch = &TransactionError{
		Code:    ErrCodeClientMismatch,
		Message: "client does not own this transaction",
		Status:  http.StatusConflict,
	}

	// ErrAlreadyDisputed - dispute on a deposit that is not in Applied state.
	ErrAlreadyDisputed = &TransactionError{
		Code:    ErrCodeAlreadyDisputed,
		Message: "transaction already under dispute",
		Status:  http.StatusConflict,
	}

	// ErrNotDisputed - resolve/chargeback on a deposit that is not Inflight.
	ErrNotDisputed = &TransactionError{
		Code:    ErrCodeNotDisputed,
		Message: "transaction not under dispute",
		Status:  http.StatusConflict,
	}

	// ErrNotDisputable - only deposits can be disputed. Unreachable while
	// withdrawals stay out of the deposit ledger; retained for future use.
	ErrNotDisputable = &TransactionError{
		Code:    ErrCodeNotDisputable,
		Message: "only deposits can be disputed",
		Status:  http.StatusConflict,
	}

	// ErrDuplicateTransaction - transaction ID already claimed.
	ErrDuplicateTransaction = &TransactionError{
		Code:    ErrCodeDuplicateTransaction,
		Message: "duplicate transaction ID",
		Status:  http.StatusConflict,
	}

	// ErrAccountLocked - account is frozen after a chargeback.
	ErrAccountLocked = &TransactionError{
		Code:    ErrCodeAccountLocked,
		Message: "account is locked",
		Status:  http.StatusLocked,
	}
)
