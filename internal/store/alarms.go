package store

import "errors"

// alarmsRecord is the file shape: the list lives under an "alarms" key.
type alarmsRecord struct {
	Alarms []Alarm `json:"alarms"`
}

// Alarms returns a copy of the alarm list. Missing or unreadable files
// yield an empty list.
func (s *Store) Alarms() []Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alarmsLoaded {
		var rec alarmsRecord
		if err := s.readRecord(s.datPath(alarmsFile), &rec); err != nil && !errors.Is(err, ErrNotFound) {
			s.log.Warn("alarms unreadable, starting empty", "err", err)
		}
		s.alarms = rec.Alarms
		s.alarmsLoaded = true
	}
	return append([]Alarm(nil), s.alarms...)
}

// SaveAlarms replaces the alarm list and persists it in the background.
func (s *Store) SaveAlarms(alarms []Alarm) {
	snapshot := append([]Alarm(nil), alarms...)

	s.mu.Lock()
	s.alarms = append([]Alarm(nil), snapshot...)
	s.alarmsLoaded = true
	s.mu.Unlock()

	s.queue.Schedule("alarms", func() error {
		return s.writeRecord(s.datPath(alarmsFile), alarmsRecord{Alarms: snapshot})
	})
}
