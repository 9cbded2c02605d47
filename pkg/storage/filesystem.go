// Package storage persists tickets and events as append-only JSON Lines
// files under the workspace data directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const InterlockDir = ".interlock"
const TicketsFile = "tickets.jsonl"
const EventsFile = "events.jsonl"
const ConfigFile = "config.yaml"

// FilesystemRepository anchors all workspace files under root/.interlock.
type FilesystemRepository struct {
	root string
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{root: root}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// DataDir returns the .interlock directory path.
func (r *FilesystemRepository) DataDir() string {
	return filepath.Join(r.root, InterlockDir)
}

// ResolvePath ensures the path is within the .interlock directory and
// prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, InterlockDir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	// Check for traversal and ensure it's a direct child
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, InterlockDir)
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", InterlockDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, InterlockDir))
	return err == nil
}
