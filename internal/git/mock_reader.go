package git

import (
	"context"
	"slices"
	"sync"
)

// MockHistoryReader serves canned change sets, newest first, in place of a
// repository.
type MockHistoryReader struct {
	sets  []CommitChangeSet
	err   error
	limit int

	mu    sync.Mutex
	reads int
}

// NewMockHistoryReader returns a reader that yields sets, or err when non-nil.
func NewMockHistoryReader(sets []CommitChangeSet, err error) *MockHistoryReader {
	return &MockHistoryReader{sets: sets, err: err}
}

// WithLimit caps each read at n sets, as ReadOptions.MaxCount does. Zero means no cap.
func (m *MockHistoryReader) WithLimit(n int) *MockHistoryReader {
	m.limit = n
	return m
}

// ReadChanges returns a copy of the canned sets.
func (m *MockHistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	m.mu.Lock()
	m.reads++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}

	sets := m.sets
	if m.limit > 0 && len(sets) > m.limit {
		sets = sets[:m.limit]
	}
	return slices.Clone(sets), nil
}

// Reads returns how many times ReadChanges was called.
func (m *MockHistoryReader) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

var _ RepositoryReader = (*MockHistoryReader)(nil)
