package audit

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gatekeeper/internal/gate/models"
)

// FileStore appends records to a durable text log, one line per record:
//
//	<RFC3339 timestamp> - <OutcomeLabel>: <detail>
type FileStore struct {
	mu sync.Mutex
	f  *os.File
}

// NewFileStore opens (or creates) the log file in append-only mode.
func NewFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileStore{f: f}, nil
}

// Append writes one record line.
func (s *FileStore) Append(_ context.Context, rec models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.WriteString(rec.Line()); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}
	return nil
}

// Close releases the underlying file handle.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
