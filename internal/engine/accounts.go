package engine

import (
	"sync"

	"ledger-api/internal/domain/models"
)

const accountShardCount = 32

// accountMap is a sharded client→account map. Shard locks are only held
// for lookup and insert; account mutation happens later under the
// account's own mutex, so at most one guard is held at a time.
type accountMap struct {
	shards [accountShardCount]accountShard
}

type accountShard struct {
	mu       sync.RWMutex
	accounts map[models.ClientID]*models.Account
}

func newAccountMap() *accountMap {
	m := &accountMap{}
	for i := range m.shards {
		m.shards[i].accounts = make(map[models.ClientID]*models.Account)
	}
	return m
}

func (m *accountMap) shard(id models.ClientID) *accountShard {
	return &m.shards[uint32(id)%accountShardCount]
}

func (m *accountMap) get(id models.ClientID) (*models.Account, bool) {
	s := m.shard(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	return acc, ok
}

// getOrCreate returns the existing account or inserts a fresh one.
// Racing creators converge on a single instance.
func (m *accountMap) getOrCreate(id models.ClientID) *models.Account {
	s := m.shard(id)

	s.mu.RLock()
	acc, ok := s.accounts[id]
	s.mu.RUnlock()
	if ok {
		return acc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[id]; ok {
		return acc
	}
	acc = models.NewAccount(id)
	s.accounts[id] = acc
	return acc
}

func (m *accountMap) len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		n += len(s.accounts)
		s.mu.RUnlock()
	}
	return n
}

// all returns the current account set. Accounts created while a caller
// iterates the result may or may not be included.
func (m *accountMap) all() []*models.Account {
	out := make([]*models.Account, 0, m.len())
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		for _, acc := range s.accounts {
			out = append(out, acc)
		}
		s.mu.RUnlock()
	}
	return out
}
