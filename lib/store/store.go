// Package store owns the in-memory collections and their persistence. Every
// collection is kept as one JSON document on disk and rewritten wholesale
// after each mutation.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mockstack/mockstack/lib/paths"
)

// Store guards the State with a single lock. Reads go through View, mutations
// through Update. Update flushes every collection before the lock is released,
// so a success is never reported ahead of the write.
type Store struct {
	mu    sync.RWMutex
	state *State
	files *FileStore
	log   *slog.Logger
}

// Open loads every collection from the data directory, seeding any that is
// absent or unreadable, and writes the result back so all documents exist on
// disk from the start.
func Open(p *paths.Paths, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(p.DataDir(), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{
		state: DefaultState(),
		files: NewFileStore(p),
		log:   log,
	}
	loadInto(s, "users", &s.state.Users)
	loadInto(s, "tokens", &s.state.Tokens)
	loadInto(s, "images", &s.state.Images)
	loadInto(s, "volumes", &s.state.Volumes)
	loadInto(s, "servers", &s.state.Servers)
	loadInto(s, "attachments", &s.state.Attachments)
	s.normalize()

	if err := s.Flush(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadInto replaces *dst with the stored document when one loads cleanly.
// Corrupt documents are logged and skipped so the seed contents survive.
func loadInto[T any](s *Store, name string, dst *T) {
	var v T
	ok, err := s.files.Load(name, &v)
	if err != nil {
		s.log.Warn("collection unreadable, using seed data", "collection", name, "error", err)
		return
	}
	if ok {
		*dst = v
	}
}

// normalize re-seeds collections that decoded to null. A document containing
// just "null" parses cleanly but would break map inserts later.
func (s *Store) normalize() {
	def := DefaultState()
	if s.state.Users == nil {
		s.state.Users = def.Users
	}
	if s.state.Tokens == nil {
		s.state.Tokens = def.Tokens
	}
	if s.state.Images == nil {
		s.state.Images = def.Images
	}
	if s.state.Volumes == nil {
		s.state.Volumes = def.Volumes
	}
	if s.state.Servers == nil {
		s.state.Servers = def.Servers
	}
	if s.state.Attachments == nil {
		s.state.Attachments = def.Attachments
	}
}

// View runs fn with shared read access to the state. fn must not mutate the
// state or retain references past its return.
func (s *Store) View(fn func(st *State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Update runs fn with exclusive access to the state. When fn succeeds, every
// collection is flushed before the lock is released. When fn fails it must
// leave the state unmodified; nothing is written.
func (s *Store) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.state); err != nil {
		return err
	}
	return s.flushLocked()
}

// Flush writes every collection unconditionally.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	collections := []struct {
		name string
		data any
	}{
		{"users", s.state.Users},
		{"tokens", s.state.Tokens},
		{"images", s.state.Images},
		{"volumes", s.state.Volumes},
		{"servers", s.state.Servers},
		{"attachments", s.state.Attachments},
	}
	for _, c := range collections {
		if err := s.files.Save(c.name, c.data); err != nil {
			return fmt.Errorf("flush %s: %w", c.name, err)
		}
	}
	return nil
}
