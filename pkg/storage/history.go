package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// maxRecent bounds how many connections are remembered
const maxRecent = 20

// RecentConnection is a previously successful connection target.
// Passwords are never recorded.
type RecentConnection struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	LastUsed int64  `json:"lastUsed"`
}

// ID identifies a connection target
func (r RecentConnection) ID() string {
	return fmt.Sprintf("%s@%s:%s", r.Username, r.Host, r.Port)
}

// HistoryStore manages recently used connections
type HistoryStore struct {
	recent   map[string]*RecentConnection
	filePath string
	mu       sync.RWMutex
}

// NewHistoryStore creates a new history store
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	filePath := filepath.Join(dataDir, "recent.json")
	store := &HistoryStore{
		recent:   make(map[string]*RecentConnection),
		filePath: filePath,
	}

	// Load existing history
	if err := store.load(); err != nil {
		// If file doesn't exist, that's okay - will be created on first save
		if !os.IsNotExist(err) {
			if _, ok := err.(*corruptedError); ok {
				// Corrupted file was backed up; continue with empty history
				fmt.Fprintf(os.Stderr, "WARNING: %v\n", err)
			} else {
				return nil, err
			}
		}
	}

	return store, nil
}

type corruptedError struct {
	backupPath string
}

func (e *corruptedError) Error() string {
	return fmt.Sprintf("corrupted recent.json detected and backed up to %s - file has been reset", e.backupPath)
}

// load reads history from disk
func (s *HistoryStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	// Handle empty file - treat as empty history
	if len(data) == 0 {
		return s.save()
	}

	var entries []*RecentConnection
	if err := json.Unmarshal(data, &entries); err != nil {
		// Invalid JSON - create backup and reset
		backupPath := s.filePath + ".corrupted"
		if backupErr := os.WriteFile(backupPath, data, 0600); backupErr != nil {
			return fmt.Errorf("failed to parse history file: %w", err)
		}
		s.recent = make(map[string]*RecentConnection)
		if saveErr := s.save(); saveErr != nil {
			return fmt.Errorf("failed to parse history file (backup saved to %s): %w", backupPath, err)
		}
		return &corruptedError{backupPath: backupPath}
	}

	for _, entry := range entries {
		// null elements carry nothing to restore
		if entry == nil {
			continue
		}
		s.recent[entry.ID()] = entry
	}

	return nil
}

// save writes history to disk
func (s *HistoryStore) save() error {
	data, err := json.MarshalIndent(s.sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// sorted returns entries, most recently used first
func (s *HistoryStore) sorted() []*RecentConnection {
	entries := make([]*RecentConnection, 0, len(s.recent))
	for _, entry := range s.recent {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LastUsed != entries[j].LastUsed {
			return entries[i].LastUsed > entries[j].LastUsed
		}
		return entries[i].ID() < entries[j].ID()
	})
	return entries
}

// Record marks a connection as just used
func (s *HistoryStore) Record(host, port, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep LastUsed strictly increasing so ordering is stable
	now := time.Now().UnixNano()
	for _, existing := range s.recent {
		if existing.LastUsed >= now {
			now = existing.LastUsed + 1
		}
	}

	entry := &RecentConnection{
		Host:     host,
		Port:     port,
		Username: username,
		LastUsed: now,
	}
	s.recent[entry.ID()] = entry

	// Drop the oldest entries beyond the limit
	if len(s.recent) > maxRecent {
		for _, old := range s.sorted()[maxRecent:] {
			delete(s.recent, old.ID())
		}
	}

	return s.save()
}

// List returns recent connections, most recent first
func (s *HistoryStore) List() []RecentConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.sorted()
	out := make([]RecentConnection, len(sorted))
	for i, entry := range sorted {
		out[i] = *entry
	}
	return out
}

// Latest returns the most recently used connection
func (s *HistoryStore) Latest() (RecentConnection, bool) {
	list := s.List()
	if len(list) == 0 {
		return RecentConnection{}, false
	}
	return list[0], true
}
