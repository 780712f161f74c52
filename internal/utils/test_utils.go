package utils

import (
	"log/slog"
	"sync"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

// MockJournal keeps entries in memory. Flushed entries move to Entries.
type MockJournal struct {
	mu      sync.Mutex
	pending []types.JournalEntry
	Entries []types.JournalEntry
	Flushes int
	Closed  bool
}

var _ types.Journal = (*MockJournal)(nil)

func (m *MockJournal) Append(entry types.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, entry)
	return nil
}

func (m *MockJournal) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, m.pending...)
	m.pending = nil
	m.Flushes++
	return nil
}

func (m *MockJournal) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
}

func (m *MockJournal) Rotate(path string) error { return nil }
func (m *MockJournal) Size() (int64, error)     { return 0, nil }

func (m *MockJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Flushed returns a copy of the flushed entries.
func (m *MockJournal) Flushed() []types.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.JournalEntry(nil), m.Entries...)
}

// MockUtils is a mock implementation of the types.Utils interface for testing.
type MockUtils struct {
	Logger       *slog.Logger
	SnapshotPath string
}

var _ types.Utils = (*MockUtils)(nil)

func (m *MockUtils) GetLogger() *slog.Logger {
	return m.Logger
}

func (m *MockUtils) GenSnapshotPath() *string {
	if m.SnapshotPath == "" {
		return nil
	}
	path := m.SnapshotPath
	return &path
}

func (m *MockUtils) GetJournalFiles() ([]string, error) {
	return []string{}, nil
}

func (m *MockUtils) GenNextJournalPath() (string, uint64, error) {
	return "", 0, nil
}
