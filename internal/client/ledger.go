package client

import (
	"sync"
	"time"
)

// ledgerStore adapts the client Storage to the ratelimit.Store contract.
// The client has a single fixed actor slot, so one mutex suffices for
// exclusivity.
type ledgerStore struct {
	storage Storage
	mu      sync.Mutex
}

func newLedgerStore(storage Storage) *ledgerStore {
	return &ledgerStore{storage: storage}
}

func (s *ledgerStore) Load(key string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(key)
}

func (s *ledgerStore) Save(key string, ledger []time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Set(key, ledger)
}

func (s *ledgerStore) Update(key string, fn func([]time.Time) ([]time.Time, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, err := s.load(key)
	if err != nil {
		return false, err
	}
	updated, ok := fn(ledger)
	if err := s.storage.Set(key, updated); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *ledgerStore) load(key string) ([]time.Time, error) {
	var ledger []time.Time
	if _, err := s.storage.Get(key, &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}
