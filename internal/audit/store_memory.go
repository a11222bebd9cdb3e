package audit

import (
	"context"
	"sync"

	"gatekeeper/internal/gate/models"
)

// InMemoryStore keeps records in memory. Used by tests.
type InMemoryStore struct {
	mu      sync.Mutex
	records []models.AuditRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Append stores the record.
func (s *InMemoryStore) Append(_ context.Context, rec models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything appended so far.
func (s *InMemoryStore) Records() []models.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AuditRecord, len(s.records))
	copy(out, s.records)
	return out
}
