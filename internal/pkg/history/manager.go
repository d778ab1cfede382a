// Package history records generated commit messages in a local JSON file.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultMaxEntries is the default maximum number of history entries.
	DefaultMaxEntries = 1000
)

// Entry is one generated commit message.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Repository string    `json:"repository"`
	Message    string    `json:"message"`
	Summaries  []string  `json:"summaries,omitempty"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Committed  bool      `json:"committed"`
}

// Manager defines the interface for history management.
type Manager interface {
	Save(entry *Entry) error
	List(limit int) ([]*Entry, error)
	Clear() error
}

// FileManager implements Manager using a JSON file for storage.
type FileManager struct {
	filePath   string
	maxEntries int
	mu         sync.Mutex
}

// NewFileManager creates a FileManager writing to filePath and keeping at
// most maxEntries entries. A non-positive maxEntries uses DefaultMaxEntries.
func NewFileManager(filePath string, maxEntries int) *FileManager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileManager{
		filePath:   filePath,
		maxEntries: maxEntries,
	}
}

// Path returns the history file location.
func (m *FileManager) Path() string {
	return m.filePath
}

// Save appends entry to the history file, assigning an ID and timestamp
// when they are missing. The oldest entries are dropped once the file
// holds more than maxEntries.
func (m *FileManager) Save(entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	entries, err := m.loadEntries()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entries = append(entries, entry)
	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}

	if err := m.saveEntries(entries); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// List returns the most recent entries, oldest first, up to limit.
// A non-positive limit returns everything.
func (m *FileManager) List(limit int) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadEntries()
	if err != nil {
		if os.IsNotExist(err) {
			return []*Entry{}, nil
		}
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	if limit <= 0 || len(entries) <= limit {
		return entries, nil
	}
	return entries[len(entries)-limit:], nil
}

// Clear removes all entries from the history file.
func (m *FileManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.saveEntries([]*Entry{}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *FileManager) loadEntries() ([]*Entry, error) {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []*Entry{}, nil
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return entries, nil
}

func (m *FileManager) saveEntries(entries []*Entry) error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	// Entries contain repository paths and diff summaries.
	if err := os.WriteFile(m.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
