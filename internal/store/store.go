// Package store is the persistent encrypted record store: settings, decks,
// croquis history pairs, alarms, the recent-files list and the heatmap, each
// kept as an encrypted file readable only through the crypt codec.
//
// Collections are loaded lazily on first access and cached for the process
// lifetime. Every mutation is a full-file atomic rewrite; most are flushed
// on a background queue where a newer snapshot supersedes a queued one.
// Concurrent processes sharing a data directory are unsupported.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyunsol/croquis/internal/crypt"
	"github.com/hyunsol/croquis/internal/logging"
)

const (
	datDir    = "dat"
	pairsDir  = "croquis_pairs"
	draftsDir = "drafts"

	settingsFile = "settings.dat"
	alarmsFile   = "alarms.dat"
	recentFile   = "recent.dat"
	heatmapFile  = "croquis_history.dat"
)

type Store struct {
	dir   string
	codec *crypt.Codec
	log   logging.Logger
	queue *writeQueue

	mu sync.Mutex

	settings       *Settings
	alarms         []Alarm
	alarmsLoaded   bool
	recent         []string
	recentLoaded   bool
	heatmap        map[string]int
	heatmapLoaded  bool
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithKey overrides the codec key, mainly for tests.
func WithKey(k crypt.KeyProvider) Option {
	return func(s *Store) { s.codec = crypt.New(k) }
}

// New opens (or creates) the data directory layout at dir.
func New(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:   dir,
		codec: crypt.New(nil),
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, sub := range []string{datDir, pairsDir, draftsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrStorage, sub, err)
		}
	}

	// Drafts never outlive the process that created them; sweep leftovers
	// from a run that crashed or was killed.
	if entries, err := os.ReadDir(filepath.Join(dir, draftsDir)); err == nil {
		for _, e := range entries {
			if err := os.Remove(filepath.Join(dir, draftsDir, e.Name())); err != nil {
				s.log.Warn("removing stale draft", "file", e.Name(), "err", err)
			}
		}
	}

	s.queue = newWriteQueue(s.log)
	return s, nil
}

// DefaultDataDir returns ~/.config/croquis (per-OS user config dir).
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "croquis"), nil
}

// Flush blocks until every scheduled background write has landed.
func (s *Store) Flush() {
	s.queue.Flush()
}

// Close flushes pending writes and stops the background worker.
func (s *Store) Close() error {
	s.queue.Close()
	return nil
}

func (s *Store) datPath(name string) string {
	return filepath.Join(s.dir, datDir, name)
}

// PairsDir exposes the history directory (used by the export package).
func (s *Store) PairsDir() string {
	return filepath.Join(s.dir, pairsDir)
}

// readRecord reads and decodes one encrypted file into v.
func (s *Store) readRecord(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrStorage, path, err)
	}
	return s.codec.Decode(data, v)
}

// writeRecord encodes v and atomically replaces path (write temp, rename).
func (s *Store) writeRecord(path string, v any) error {
	data, err := s.codec.Encode(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: temp for %s: %v", ErrStorage, path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrStorage, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", ErrStorage, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", ErrStorage, path, err)
	}
	return nil
}
