// Traffic simulator: drives the ledger API with randomized transaction
// streams for manual load inspection.
//
// Run against a local server: go run ./dev/simulator
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	metrics "ledger-api/internal/pkg/telemetry"
)

var baseURL = getenv("BASE_URL", "http://localhost:8080")

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var nextTx atomic.Uint32

type transaction struct {
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount,omitempty"`
}

func post(tx transaction) int {
	body, _ := json.Marshal(tx)
	start := time.Now()
	resp, err := http.Post(baseURL+"/transactions", "application/json", bytes.NewReader(body))
	duration := time.Since(start)
	status := 0
	if err == nil {
		status = resp.StatusCode
		resp.Body.Close()
	} else {
		log.Printf("%s error: %v", tx.Type, err)
	}
	metrics.Record("/transactions", status, duration)
	return status
}

func deposit(client uint16, amount int) uint32 {
	tx := nextTx.Add(1)
	post(transaction{Type: "deposit", Client: client, Tx: tx, Amount: fmt.Sprintf("%d.00", amount)})
	return tx
}

func withdraw(client uint16, amount int) {
	post(transaction{Type: "withdrawal", Client: client, Tx: nextTx.Add(1), Amount: fmt.Sprintf("%d.00", amount)})
}

func disputeCycle(client uint16, depositTx uint32) {
	post(transaction{Type: "dispute", Client: client, Tx: depositTx})
	if rand.Intn(2) == 0 {
		post(transaction{Type: "resolve", Client: client, Tx: depositTx})
	}
	// Unresolved disputes stay inflight; the simulator sends no
	// chargebacks, so simulated accounts stay unlocked.
}

func randomOp(clients int) {
	client := uint16(rand.Intn(clients) + 1)
	switch rand.Intn(4) {
	case 0, 1:
		deposit(client, rand.Intn(100)+1)
	case 2:
		withdraw(client, rand.Intn(50)+1)
	case 3:
		tx := deposit(client, rand.Intn(30)+1)
		disputeCycle(client, tx)
	}
}

func main() {
	const (
		numClients = 100
		totalOps   = 10000
		blockSize  = 100
		blockPause = 100 * time.Millisecond
	)

	// Seed every client with funds so withdrawals mostly succeed.
	for c := 1; c <= numClients; c++ {
		deposit(uint16(c), 1000)
	}

	for sent := 0; sent < totalOps; {
		var wg sync.WaitGroup
		for i := 0; i < blockSize && sent < totalOps; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				randomOp(numClients)
			}()
			sent++
		}
		wg.Wait()
		time.Sleep(blockPause)
	}

	for _, m := range metrics.List() {
		log.Printf("%s status=%d duration=%s", m.Endpoint, m.Status, m.Duration)
	}
}
