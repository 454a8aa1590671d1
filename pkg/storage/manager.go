package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const mediaExt = ".mp4"

// Manager handles media file persistence and duplicate detection
type Manager struct {
	outputDir  string
	downloaded map[string]bool
	mu         sync.RWMutex
}

// NewManager creates a storage manager rooted at outputDir, creating the
// directory and scanning any media already present from earlier runs.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir:  outputDir,
		downloaded: make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records already downloaded media for duplicate detection
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == mediaExt {
			postID := strings.TrimSuffix(entry.Name(), mediaExt)
			m.downloaded[postID] = true
		}
	}

	return nil
}

// IsDownloaded checks if media for the given post ID is already on disk
func (m *Manager) IsDownloaded(postID string) bool {
	m.mu.RLock()
	known := m.downloaded[postID]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(m.MediaPath(postID)); err == nil {
		m.mu.Lock()
		m.downloaded[postID] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// MediaPath returns the on-disk path for a post's media
func (m *Manager) MediaPath(postID string) string {
	return filepath.Join(m.outputDir, postID+mediaExt)
}

// SaveMedia writes media bytes for a post atomically and returns the path
func (m *Manager) SaveMedia(r io.Reader, postID string) (string, error) {
	filename := m.MediaPath(postID)

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to save media data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.downloaded[postID] = true
	m.mu.Unlock()

	return filename, nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// DownloadedCount returns the number of media files known to be on disk
func (m *Manager) DownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloaded)
}
