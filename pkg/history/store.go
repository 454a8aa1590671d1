package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"tokscraper/pkg/logger"
)

// Record is the persisted resume state for one target
type Record struct {
	TargetKey string    `json:"targetKey"`
	Cursor    int64     `json:"cursor"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists the last-seen pagination cursor per target key. Reads are
// best-effort: a missing or corrupt file yields the zero cursor, never an
// error, because history is an optimization rather than a correctness
// requirement.
type Store struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a cursor store rooted at dir. An empty dir resolves to
// the platform data directory.
func NewStore(dir string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if dir == "" {
		dataDir, err := dataDirectory()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		dir = filepath.Join(dataDir, "history")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Store{dir: dir, logger: log}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.history.json", key))
}

// ReadCursor returns the persisted cursor for key, 0 if absent or unreadable
func (s *Store) ReadCursor(key string) int64 {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WarnWithFields("history file unreadable, starting from zero", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return 0
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.WarnWithFields("history file corrupt, starting from zero", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return 0
	}

	s.logger.DebugWithFields("history cursor loaded", map[string]interface{}{
		"key":    key,
		"cursor": rec.Cursor,
	})

	return rec.Cursor
}

// WriteCursor persists the cursor for key atomically
func (s *Store) WriteCursor(key string, cursor int64) error {
	rec := Record{
		TargetKey: key,
		Cursor:    cursor,
		UpdatedAt: time.Now(),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history record: %w", err)
	}

	final := s.path(key)
	tempPath := final + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	if err := os.Rename(tempPath, final); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace history file: %w", err)
	}

	s.logger.DebugWithFields("history cursor saved", map[string]interface{}{
		"key":    key,
		"cursor": cursor,
	})

	return nil
}

// Exists reports whether a history record exists for key
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

// Delete removes the history record for key
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	return nil
}

// dataDirectory returns the appropriate data directory for the current OS
func dataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "tokscraper")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "tokscraper")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "tokscraper")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "tokscraper")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
