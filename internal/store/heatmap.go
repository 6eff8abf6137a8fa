package store

import (
	"errors"
	"time"
)

// Heatmap returns a copy of the date -> completed-session-count map.
// A missing file is an empty heatmap; so is an unreadable one.
func (s *Store) Heatmap() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadHeatmapLocked()

	out := make(map[string]int, len(s.heatmap))
	for k, v := range s.heatmap {
		out[k] = v
	}
	return out
}

// TotalCount is the sum over all dates.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadHeatmapLocked()

	total := 0
	for _, v := range s.heatmap {
		total += v
	}
	return total
}

// TodayCount returns the count for the current calendar date.
func (s *Store) TodayCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadHeatmapLocked()
	return s.heatmap[time.Now().Format("2006-01-02")]
}

// IncrementHeatmap adds n completed sessions to the given date
// (YYYY-MM-DD) and persists the whole map in the background.
func (s *Store) IncrementHeatmap(date string, n int) {
	s.mu.Lock()
	s.loadHeatmapLocked()
	s.heatmap[date] += n
	snapshot := make(map[string]int, len(s.heatmap))
	for k, v := range s.heatmap {
		snapshot[k] = v
	}
	s.mu.Unlock()

	s.queue.Schedule("heatmap", func() error {
		return s.writeRecord(s.datPath(heatmapFile), snapshot)
	})
}

// ResetHeatmap clears all counts (whole-file reset, the only way a count
// may go down).
func (s *Store) ResetHeatmap() {
	s.mu.Lock()
	s.heatmap = make(map[string]int)
	s.heatmapLoaded = true
	s.mu.Unlock()

	s.queue.Schedule("heatmap", func() error {
		return s.writeRecord(s.datPath(heatmapFile), map[string]int{})
	})
}

func (s *Store) loadHeatmapLocked() {
	if s.heatmapLoaded {
		return
	}
	s.heatmap = make(map[string]int)
	if err := s.readRecord(s.datPath(heatmapFile), &s.heatmap); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Warn("heatmap unreadable, starting empty", "err", err)
		s.heatmap = make(map[string]int)
	}
	s.heatmapLoaded = true
}
