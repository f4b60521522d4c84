package kv

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File layout constants
const (
	FileSuffix      = ".json"
	BackupSuffix    = ".backup"
	TmpSuffix       = ".tmp.json"
	FilePermissions = 0644
	DirPermissions  = 0755
)

// File stores each key as a JSON document in a directory.
type File struct {
	dir string
	mu  sync.RWMutex
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the data directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+FileSuffix), nil
}

// Get reads the document for key
func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, false, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set writes the document for key: temp file first, previous version kept as
// backup, then rename into place
func (f *File) Set(_ context.Context, key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmpFile := strings.TrimSuffix(p, FileSuffix) + TmpSuffix
	if err := os.WriteFile(tmpFile, value, FilePermissions); err != nil {
		return err
	}

	// Create backup
	if _, err := os.Stat(p); err == nil {
		if err := os.Rename(p, p+BackupSuffix); err != nil {
			log.Printf("Warning: failed to create backup of %s: %v", p, err)
		}
	}

	return os.Rename(tmpFile, p)
}

// Delete removes the document for key; a missing document is not an error
func (f *File) Delete(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *File) Close() error { return nil }
