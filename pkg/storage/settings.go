package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Settings represents application settings
type Settings struct {
	RemoteRoot        string `json:"remoteRoot"`        // Directory the remote tree is rooted at
	RemoteTransferDir string `json:"remoteTransferDir"` // Upload target for direct transfers
	LocalRoot         string `json:"localRoot"`         // Directory the local tree is rooted at, empty means home
	DefaultTool       string `json:"defaultTool"`       // scp or rsync
}

// SettingsStore manages application settings
type SettingsStore struct {
	settings Settings
	filePath string
	mu       sync.RWMutex
}

// NewSettingsStore creates a new settings store
func NewSettingsStore(dataDir string) (*SettingsStore, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	filePath := filepath.Join(dataDir, "settings.json")
	store := &SettingsStore{
		settings: getDefaultSettings(),
		filePath: filePath,
	}

	// Load existing settings
	if err := store.load(); err != nil {
		// If file doesn't exist, that's okay, use defaults
		if !os.IsNotExist(err) {
			return nil, err
		}
		// Save default settings
		if err := store.save(); err != nil {
			return nil, fmt.Errorf("failed to write default settings: %w", err)
		}
	}

	return store, nil
}

// getDefaultSettings returns default settings
func getDefaultSettings() Settings {
	return Settings{
		RemoteRoot:        "/root",
		RemoteTransferDir: "/root",
		LocalRoot:         "",
		DefaultTool:       "scp",
	}
}

// load reads settings from disk
func (s *SettingsStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.settings); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}

	// Fields missing from older files keep their defaults
	defaults := getDefaultSettings()
	if s.settings.RemoteRoot == "" {
		s.settings.RemoteRoot = defaults.RemoteRoot
	}
	if s.settings.RemoteTransferDir == "" {
		s.settings.RemoteTransferDir = defaults.RemoteTransferDir
	}
	if s.settings.DefaultTool == "" {
		s.settings.DefaultTool = defaults.DefaultTool
	}
	return nil
}

// save writes settings to disk
func (s *SettingsStore) save() error {
	data, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	return os.WriteFile(s.filePath, data, 0600)
}

// Get returns current settings
func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// ResolveLocalRoot returns LocalRoot, or the user's home directory when unset
func (s Settings) ResolveLocalRoot() (string, error) {
	if s.LocalRoot != "" {
		return s.LocalRoot, nil
	}
	return os.UserHomeDir()
}
