package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mockstack/mockstack/lib/paths"
)

// FileStore persists collection documents as indented JSON files under the
// data directory.
type FileStore struct {
	paths *paths.Paths
}

// NewFileStore creates a FileStore rooted at the given paths.
func NewFileStore(p *paths.Paths) *FileStore {
	return &FileStore{paths: p}
}

// Load reads the named collection document into out. It returns false when no
// document exists. Callers that must keep defaults on corrupt data should
// decode into a scratch value and only adopt it when Load succeeds, since a
// type mismatch can stop the decode partway through.
func (f *FileStore) Load(name string, out any) (bool, error) {
	data, err := os.ReadFile(f.paths.Collection(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read collection %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal collection %s: %w", name, err)
	}

	return true, nil
}

// Save writes the named collection document, replacing any prior contents.
// The document is written to a temp file and renamed into place so readers
// never observe a partial write.
func (f *FileStore) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", name, err)
	}

	path := f.paths.Collection(name)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+name+"-*.json")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod collection %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close collection %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename collection %s: %w", name, err)
	}

	return nil
}
