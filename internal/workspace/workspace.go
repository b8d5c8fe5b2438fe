package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docvm/internal/config"
	"git.home.luguber.info/inful/docvm/internal/logfields"
)

// Manager handles runtime directory operations (both temporary and persistent)
type Manager struct {
	baseDir    string
	tempDir    string
	persistent bool // If true, use a fixed path without timestamps
}

// NewManager creates a new workspace manager with ephemeral timestamped directories
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{
		baseDir:    baseDir,
		persistent: false,
	}
}

// NewPersistentManager creates a workspace manager that uses a persistent directory.
// The directory is fixed (baseDir/subdirName) and not cleaned up on Cleanup().
func NewPersistentManager(baseDir, subdirName string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdirName == "" {
		subdirName = "runtime"
	}
	return &Manager{
		baseDir:    baseDir,
		tempDir:    filepath.Join(baseDir, subdirName),
		persistent: true,
	}
}

// FromConfig returns a persistent manager rooted at the configured runtime temp dir.
func FromConfig(cfg *config.Config) *Manager {
	dir := cfg.TempDir()
	return NewPersistentManager(filepath.Dir(dir), filepath.Base(dir))
}

// Create creates the runtime directory
// For ephemeral mode: creates a timestamped directory
// For persistent mode: ensures the fixed directory exists
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.tempDir, 0o750); err != nil {
			return fmt.Errorf("failed to create persistent runtime directory: %w", err)
		}
		slog.Debug("Using persistent runtime directory", logfields.Path(m.tempDir))
		return nil
	}

	// Ephemeral mode: create timestamped directory
	timestamp := time.Now().Format("20060102-150405")
	tempDir, err := os.MkdirTemp(m.baseDir, fmt.Sprintf("docvm-%s-", timestamp))
	if err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	m.tempDir = tempDir
	slog.Debug("Created runtime directory", logfields.Path(tempDir))
	return nil
}

// GetPath returns the path to the runtime directory
func (m *Manager) GetPath() string {
	return m.tempDir
}

// Persistent reports whether Cleanup keeps the directory.
func (m *Manager) Persistent() bool {
	return m.persistent
}

// Cleanup removes the runtime directory
// For persistent mode: does nothing (keeps directory for later passes)
// For ephemeral mode: removes the timestamped directory
func (m *Manager) Cleanup() error {
	if m.tempDir == "" {
		return nil
	}

	if m.persistent {
		slog.Debug("Skipping cleanup for persistent runtime directory", logfields.Path(m.tempDir))
		return nil
	}

	if err := os.RemoveAll(m.tempDir); err != nil {
		return fmt.Errorf("failed to cleanup runtime directory: %w", err)
	}

	slog.Debug("Cleaned up runtime directory", logfields.Path(m.tempDir))
	m.tempDir = ""
	return nil
}

// CreateSubdir creates a subdirectory within the runtime directory
func (m *Manager) CreateSubdir(name string) (string, error) {
	if m.tempDir == "" {
		return "", fmt.Errorf("workspace not created")
	}

	subdir := filepath.Join(m.tempDir, name)
	if err := os.MkdirAll(subdir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	return subdir, nil
}
