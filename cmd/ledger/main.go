// Ledger batch runner: processes a transaction CSV and writes account
// states to stdout.
//
// Usage: ledger <transactions.csv> > accounts.csv
package main

import (
	"bufio"
	"fmt"
	"os"

	"ledger-api/internal/config"
	"ledger-api/internal/engine"
	"ledger-api/internal/ingest"
	"ledger-api/internal/pkg/logging"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <transactions.csv>\n", os.Args[0])
		os.Exit(2)
	}

	logging.Init(config.Load())

	file, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file %q: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer file.Close()

	eng := engine.New()
	if err := ingest.ProcessTransactions(bufio.NewReader(file), eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error processing transactions: %v\n", err)
		os.Exit(1)
	}

	if err := ingest.WriteAccounts(os.Stdout, eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}
