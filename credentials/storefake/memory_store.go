package storefake

import (
	"sync"

	"github.com/jrsteele09/go-admin-console/credentials"
)

var _ credentials.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory credentials.Store that records how it was used
type MemoryStore struct {
	lock   sync.Mutex
	pair   credentials.TokenPair
	saves  int
	clears int
}

func NewMemoryStore(pair credentials.TokenPair) *MemoryStore {
	return &MemoryStore{pair: pair}
}

func (m *MemoryStore) Load() credentials.TokenPair {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.pair
}

func (m *MemoryStore) Save(pair credentials.TokenPair) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.pair = pair
	m.saves++
}

func (m *MemoryStore) Clear() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.pair = credentials.TokenPair{}
	m.clears++
}

func (m *MemoryStore) Saves() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.saves
}

func (m *MemoryStore) Clears() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.clears
}
