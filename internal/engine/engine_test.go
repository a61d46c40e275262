package engine_test

import (
	"sync"
	"testing"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/engine"
	"ledger-api/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDepositCreatesAccount(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100.0000"))))

	snap, ok := eng.GetAccount(1)
	require.True(t, ok)
	assert.Equal(t, models.ClientID(1), snap.Client)
	assert.True(t, snap.Available.Equal(dec("100")))
	assert.True(t, snap.Held.Equal(dec("0")))
	assert.True(t, snap.Total.Equal(dec("100")))
	assert.False(t, snap.Locked)
	assert.Equal(t, 1, eng.AccountCount())
}

func TestDepositThenWithdrawal(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100.0000"))))
	require.NoError(t, eng.Process(models.NewWithdrawal(1, 2, dec("30.0000"))))

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("70")))
	assert.True(t, snap.Total.Equal(dec("70")))
	assert.False(t, snap.Locked)
}

func TestWithdrawalBeyondAvailableFails(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))

	err := eng.Process(models.NewWithdrawal(1, 2, dec("100.0001")))
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("100")))
}

func TestDuplicateTransactionRejected(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))

	err := eng.Process(models.NewDeposit(1, 1, dec("100")))
	assert.ErrorIs(t, err, errors.ErrDuplicateTransaction)

	// Same ID across event kinds and clients is still a duplicate.
	err = eng.Process(models.NewWithdrawal(2, 1, dec("10")))
	assert.ErrorIs(t, err, errors.ErrDuplicateTransaction)

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("100")))
	assert.Equal(t, 1, eng.TransactionCount())
}

func TestClaimPersistsWhenApplyFails(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))

	// The withdrawal claims tx 2 and then fails on the account.
	err := eng.Process(models.NewWithdrawal(1, 2, dec("500")))
	require.ErrorIs(t, err, errors.ErrInsufficientFunds)
	assert.True(t, eng.SeenTransaction(2))

	// The identifier is consumed forever.
	err = eng.Process(models.NewDeposit(1, 2, dec("10")))
	assert.ErrorIs(t, err, errors.ErrDuplicateTransaction)
}

func TestNonMonetaryEventsSkipRegistry(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))
	require.NoError(t, eng.Process(models.NewDispute(1, 1)))
	require.NoError(t, eng.Process(models.NewResolve(1, 1)))

	// Dispute/resolve never claimed anything beyond the deposit.
	assert.Equal(t, 1, eng.TransactionCount())
}

func TestNonMonetaryEventForUnknownClient(t *testing.T) {
	eng := engine.New()

	assert.ErrorIs(t, eng.Process(models.NewDispute(9, 1)), errors.ErrTransactionNotFound)
	assert.ErrorIs(t, eng.Process(models.NewResolve(9, 1)), errors.ErrTransactionNotFound)
	assert.ErrorIs(t, eng.Process(models.NewChargeback(9, 1)), errors.ErrTransactionNotFound)
	assert.Equal(t, 0, eng.AccountCount())
}

func TestDisputeResolveRoundTrip(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))
	require.NoError(t, eng.Process(models.NewDispute(1, 1)))

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("0")))
	assert.True(t, snap.Held.Equal(dec("100")))
	assert.True(t, snap.Total.Equal(dec("100")))

	require.NoError(t, eng.Process(models.NewResolve(1, 1)))

	snap, _ = eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("100")))
	assert.True(t, snap.Held.Equal(dec("0")))
	assert.False(t, snap.Locked)
}

func TestChargebackLocksAccount(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))
	require.NoError(t, eng.Process(models.NewDispute(1, 1)))
	require.NoError(t, eng.Process(models.NewChargeback(1, 1)))

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("0")))
	assert.True(t, snap.Held.Equal(dec("0")))
	assert.True(t, snap.Total.Equal(dec("0")))
	assert.True(t, snap.Locked)

	err := eng.Process(models.NewDeposit(1, 2, dec("10")))
	assert.ErrorIs(t, err, errors.ErrAccountLocked)
}

func TestDisputeAfterFullWithdrawal(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))
	require.NoError(t, eng.Process(models.NewWithdrawal(1, 2, dec("100"))))

	err := eng.Process(models.NewDispute(1, 1))
	assert.ErrorIs(t, err, errors.ErrInsufficientFunds)

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("0")))
	assert.True(t, snap.Held.Equal(dec("0")))
	assert.False(t, snap.Locked)
}

func TestPartialBalanceDispute(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("100"))))
	require.NoError(t, eng.Process(models.NewDeposit(1, 2, dec("50"))))
	require.NoError(t, eng.Process(models.NewWithdrawal(1, 3, dec("40"))))
	require.NoError(t, eng.Process(models.NewDispute(1, 1)))

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("10")))
	assert.True(t, snap.Held.Equal(dec("100")))
	assert.True(t, snap.Total.Equal(dec("110")))
	assert.False(t, snap.Locked)
}

func TestGetAccountUnknownClient(t *testing.T) {
	eng := engine.New()
	_, ok := eng.GetAccount(42)
	assert.False(t, ok)
}

func TestAccountsYieldsEverySnapshot(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(3, 1, dec("10"))))
	require.NoError(t, eng.Process(models.NewDeposit(1, 2, dec("20"))))
	require.NoError(t, eng.Process(models.NewDeposit(2, 3, dec("30"))))

	byClient := make(map[models.ClientID]models.AccountSnapshot)
	for snap := range eng.Accounts() {
		byClient[snap.Client] = snap
	}

	require.Len(t, byClient, 3)
	assert.True(t, byClient[1].Available.Equal(dec("20")))
	assert.True(t, byClient[2].Available.Equal(dec("30")))
	assert.True(t, byClient[3].Available.Equal(dec("10")))
}

func TestConcurrentIdenticalDeposits(t *testing.T) {
	eng := engine.New()
	n := 100
	evt := models.NewDeposit(1, 42, dec("100"))

	results := make(chan error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			results <- eng.Process(evt)
		}()
	}
	wg.Wait()
	close(results)

	successes, duplicates := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, errors.ErrDuplicateTransaction)
		duplicates++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, duplicates)

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("100")))
}

func TestConcurrentDisjointClientsCommute(t *testing.T) {
	eng := engine.New()
	clients := 16
	perClient := 50

	var wg sync.WaitGroup
	wg.Add(clients)
	for c := 1; c <= clients; c++ {
		go func(client models.ClientID) {
			defer wg.Done()
			for i := 0; i < perClient; i++ {
				tx := models.TxID(uint32(client)*1000 + uint32(i))
				require.NoError(t, eng.Process(models.NewDeposit(client, tx, dec("1"))))
			}
		}(models.ClientID(c))
	}
	wg.Wait()

	assert.Equal(t, clients, eng.AccountCount())
	for snap := range eng.Accounts() {
		assert.True(t, snap.Available.Equal(decimal.NewFromInt(int64(perClient))))
		assert.False(t, snap.Locked)
	}
}

func TestConcurrentMixedTrafficOnOneAccount(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.Process(models.NewDeposit(1, 1, dec("1000"))))

	n := 100
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func(tx models.TxID) {
			defer wg.Done()
			require.NoError(t, eng.Process(models.NewDeposit(1, tx, dec("1"))))
		}(models.TxID(1000 + uint32(i)))
		go func(tx models.TxID) {
			defer wg.Done()
			require.NoError(t, eng.Process(models.NewWithdrawal(1, tx, dec("1"))))
		}(models.TxID(2000 + uint32(i)))
	}
	wg.Wait()

	snap, _ := eng.GetAccount(1)
	assert.True(t, snap.Available.Equal(dec("1000")))
	assert.True(t, snap.Held.Equal(dec("0")))
}

func TestSnapshotsAreConsistentDuringProcessing(t *testing.T) {
	eng := engine.New()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			client := models.ClientID(i%10 + 1)
			_ = eng.Process(models.NewDeposit(client, models.TxID(i+1), dec("2")))
		}
	}()

	for i := 0; i < 50; i++ {
		for snap := range eng.Accounts() {
			assert.True(t, snap.Total.Equal(snap.Available.Add(snap.Held)))
			assert.True(t, snap.Available.Sign() >= 0)
			assert.True(t, snap.Held.Sign() >= 0)
		}
	}
	<-done
}

func BenchmarkProcessDeposits(b *testing.B) {
	eng := engine.New()
	amount := dec("10")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = eng.Process(models.NewDeposit(models.ClientID(i%1000), models.TxID(i+1), amount))
	}
}

func BenchmarkProcessDepositsParallel(b *testing.B) {
	eng := engine.New()
	amount := dec("10")
	var next uint32
	var mu sync.Mutex
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			next++
			tx := next
			mu.Unlock()
			_ = eng.Process(models.NewDeposit(models.ClientID(tx%1000), models.TxID(tx), amount))
		}
	})
}
