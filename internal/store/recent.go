package store

import (
	"errors"
	"os"
)

type recentRecord struct {
	RecentFiles []string `json:"recent_files"`
}

// RecentFiles returns the most-recently-opened deck paths, newest first,
// capped at MaxRecentFiles. Entries whose file no longer exists are pruned
// at load time.
func (s *Store) RecentFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadRecentLocked()
	return append([]string(nil), s.recent...)
}

// AddRecentFile moves (or inserts) path at the front of the list.
func (s *Store) AddRecentFile(path string) {
	s.mu.Lock()
	s.loadRecentLocked()
	next := []string{path}
	for _, f := range s.recent {
		if f != path {
			next = append(next, f)
		}
	}
	if len(next) > MaxRecentFiles {
		next = next[:MaxRecentFiles]
	}
	s.recent = next
	snapshot := append([]string(nil), next...)
	s.mu.Unlock()

	s.scheduleRecentSave(snapshot)
}

// RemoveRecentFile drops one path (used when opening it fails).
func (s *Store) RemoveRecentFile(path string) {
	s.mu.Lock()
	s.loadRecentLocked()
	next := make([]string, 0, len(s.recent))
	for _, f := range s.recent {
		if f != path {
			next = append(next, f)
		}
	}
	s.recent = next
	snapshot := append([]string(nil), next...)
	s.mu.Unlock()

	s.scheduleRecentSave(snapshot)
}

// ClearRecentFiles empties the list.
func (s *Store) ClearRecentFiles() {
	s.mu.Lock()
	s.recent = nil
	s.recentLoaded = true
	s.mu.Unlock()

	s.scheduleRecentSave(nil)
}

func (s *Store) loadRecentLocked() {
	if s.recentLoaded {
		return
	}
	var rec recentRecord
	if err := s.readRecord(s.datPath(recentFile), &rec); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("recent files unreadable, starting empty", "err", err)
	}
	s.recent = nil
	for _, f := range rec.RecentFiles {
		if _, err := os.Stat(f); err == nil {
			s.recent = append(s.recent, f)
		}
	}
	if len(s.recent) > MaxRecentFiles {
		s.recent = s.recent[:MaxRecentFiles]
	}
	s.recentLoaded = true
}

func (s *Store) scheduleRecentSave(snapshot []string) {
	if snapshot == nil {
		snapshot = []string{}
	}
	s.queue.Schedule("recent", func() error {
		return s.writeRecord(s.datPath(recentFile), recentRecord{RecentFiles: snapshot})
	})
}
