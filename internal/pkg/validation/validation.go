package validation

import (
	"strings"

	"ledger-api/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw textual amount from a DTO into a decimal.
// An empty string is a missing amount, which only monetary events may
// reject. Precision beyond four fractional digits is preserved; rounding
// is a display concern.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errors.ErrMissingAmount
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.ErrInvalidAmount
	}
	return amount, nil
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return errors.ErrInvalidAmount
	}
	return nil
}
