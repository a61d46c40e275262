package engine

import (
	"sync"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/pkg/errors"
)

const registryShardCount = 64

// txRegistry is the global deduplication set for monetary transaction
// IDs. A claim is an atomic check-and-insert under the ID's shard lock;
// claimed IDs are never released, even if the transaction later fails to
// apply. The claimed event is stored with its ID; only the ID's presence
// is queried (seen).
type txRegistry struct {
	shards [registryShardCount]txShard
}

type txShard struct {
	mu      sync.Mutex
	claimed map[models.TxID]models.Event
}

func newTxRegistry() *txRegistry {
	r := &txRegistry{}
	for i := range r.shards {
		r.shards[i].claimed = make(map[models.TxID]models.Event)
	}
	return r
}

func (r *txRegistry) shard(tx models.TxID) *txShard {
	return &r.shards[uint32(tx)%registryShardCount]
}

// claim records the event's transaction ID. Exactly one of any number of
// concurrent claims for the same ID succeeds; the rest get
// ErrDuplicateTransaction.
func (r *txRegistry) claim(evt models.Event) error {
	s := r.shard(evt.Tx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.claimed[evt.Tx]; ok {
		return errors.ErrDuplicateTransaction
	}
	s.claimed[evt.Tx] = evt
	return nil
}

// seen reports whether the ID has ever been claimed.
func (r *txRegistry) seen(tx models.TxID) bool {
	s := r.shard(tx)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.claimed[tx]
	return ok
}

func (r *txRegistry) len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.claimed)
		s.mu.Unlock()
	}
	return n
}
