package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/engine"
	"ledger-api/internal/pkg/logging"
	"ledger-api/internal/pkg/validation"
)

// ProcessTransactions streams a transaction CSV into the engine.
//
// Expected columns: type,client,tx,amount — amount is absent or empty
// for dispute/resolve/chargeback. Fields are trimmed of surrounding
// whitespace. Malformed rows, unknown types, and missing amounts on
// monetary rows are silently skipped, as are rows the engine rejects;
// processing never stops on a bad record.
func ProcessTransactions(r io.Reader, eng *engine.Engine) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				logging.Debug("Skipping malformed row", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			return err
		}
		if header {
			header = false
			continue
		}

		evt, ok := parseRow(row)
		if !ok {
			logging.Debug("Skipping invalid transaction record", nil)
			continue
		}

		if err := eng.Process(evt); err != nil {
			logging.Debug("Skipping rejected transaction", map[string]interface{}{
				"tx":    uint32(evt.Tx),
				"error": err.Error(),
			})
		}
	}
}

func parseRow(row []string) (models.Event, bool) {
	if len(row) < 3 {
		return models.Event{}, false
	}

	kind := strings.ToLower(strings.TrimSpace(row[0]))
	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return models.Event{}, false
	}
	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return models.Event{}, false
	}

	clientID := models.ClientID(client)
	txID := models.TxID(tx)

	switch kind {
	case "deposit", "withdrawal":
		if len(row) < 4 {
			return models.Event{}, false
		}
		amount, err := validation.ParseAmount(row[3])
		if err != nil {
			return models.Event{}, false
		}
		if kind == "deposit" {
			return models.NewDeposit(clientID, txID, amount), true
		}
		return models.NewWithdrawal(clientID, txID, amount), true
	case "dispute":
		return models.NewDispute(clientID, txID), true
	case "resolve":
		return models.NewResolve(clientID, txID), true
	case "chargeback":
		return models.NewChargeback(clientID, txID), true
	default:
		return models.Event{}, false
	}
}

// WriteAccounts writes every account snapshot as CSV with balances fixed
// at four fractional digits (banker's rounding applied by the snapshot).
func WriteAccounts(w io.Writer, eng *engine.Engine) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for snap := range eng.Accounts() {
		row := []string{
			strconv.FormatUint(uint64(snap.Client), 10),
			snap.Available.StringFixed(models.DecimalPrecision),
			snap.Held.StringFixed(models.DecimalPrecision),
			snap.Total.StringFixed(models.DecimalPrecision),
			strconv.FormatBool(snap.Locked),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
