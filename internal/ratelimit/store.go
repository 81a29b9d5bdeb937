package ratelimit

import (
	"crypto/md5" //nolint:gosec // ledger file naming only
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// FileStore keeps one JSON ledger file per actor key in a directory,
// typically under the system temp dir. A flock per key guards the
// read-modify-write cycle against concurrent requests from the same actor.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create rate limit dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	sum := md5.Sum([]byte(key)) //nolint:gosec
	return filepath.Join(s.dir, "ledger_"+hex.EncodeToString(sum[:])+".json")
}

func (s *FileStore) Load(key string) ([]time.Time, error) {
	return readLedger(s.path(key))
}

func (s *FileStore) Save(key string, ledger []time.Time) error {
	return writeLedger(s.path(key), ledger)
}

func (s *FileStore) Update(key string, fn func([]time.Time) ([]time.Time, bool)) (bool, error) {
	path := s.path(key)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return false, fmt.Errorf("lock ledger: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	ledger, err := readLedger(path)
	if err != nil {
		return false, err
	}
	updated, ok := fn(ledger)
	if err := writeLedger(path, updated); err != nil {
		return false, err
	}
	return ok, nil
}

func readLedger(path string) ([]time.Time, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	var ledger []time.Time
	if err := json.Unmarshal(data, &ledger); err != nil {
		// A corrupt ledger resets the window rather than blocking intake.
		return nil, nil
	}
	return ledger, nil
}

func writeLedger(path string, ledger []time.Time) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// MemStore is the in-process store backing the client-side limiter and
// tests.
type MemStore struct {
	mu      sync.Mutex
	ledgers map[string][]time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{ledgers: make(map[string][]time.Time)}
}

func (s *MemStore) Load(key string) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := make([]time.Time, len(s.ledgers[key]))
	copy(ledger, s.ledgers[key])
	return ledger, nil
}

func (s *MemStore) Save(key string, ledger []time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[key] = ledger
	return nil
}

func (s *MemStore) Update(key string, fn func([]time.Time) ([]time.Time, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated, ok := fn(s.ledgers[key])
	s.ledgers[key] = updated
	return ok, nil
}
