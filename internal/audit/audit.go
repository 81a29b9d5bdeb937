// Package audit appends one structured JSON-lines record per submission
// attempt to an append-only log file.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"bfluegel-contact/internal/model"
)

// Log writes AuditRecords as JSON lines. Appends are serialized through an
// exclusive file lock so interleaved records never corrupt a line.
type Log struct {
	path string
	lock *flock.Flock
}

func New(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &Log{path: path, lock: flock.New(path + ".lock")}, nil
}

// Append writes a single record. The log is append-only; records are never
// rewritten or removed.
func (l *Log) Append(record model.AuditRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}

	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("lock audit log: %w", err)
	}
	defer func() { _ = l.lock.Unlock() }()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}
