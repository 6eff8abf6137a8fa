package store

import "errors"

// Settings returns the current settings, loading them on first access.
// A missing or unreadable settings file falls back to defaults and writes
// them through, so the file exists from then on.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		loaded := DefaultSettings()
		err := s.readRecord(s.datPath(settingsFile), &loaded)
		switch {
		case err == nil:
			// Absent fields kept their defaults because decoding started
			// from DefaultSettings.
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrDecode):
			if errors.Is(err, ErrDecode) {
				s.log.Warn("settings unreadable, resetting to defaults", "err", err)
			}
			loaded = DefaultSettings()
			s.scheduleSettingsSave(loaded)
		default:
			s.log.Error("settings load failed", "err", err)
			loaded = DefaultSettings()
		}
		s.settings = &loaded
	}

	out := *s.settings
	out.Shortcuts = copyShortcuts(s.settings.Shortcuts)
	return out
}

// UpdateSettings replaces the settings record and persists it in the
// background (write-through on every mutation, no batching).
func (s *Store) UpdateSettings(next Settings) {
	if next.Shortcuts == nil {
		next.Shortcuts = DefaultSettings().Shortcuts
	}
	next.Shortcuts = copyShortcuts(next.Shortcuts)

	s.mu.Lock()
	s.settings = &next
	snapshot := next
	s.mu.Unlock()

	s.scheduleSettingsSave(snapshot)
}

func (s *Store) scheduleSettingsSave(snapshot Settings) {
	s.queue.Schedule("settings", func() error {
		return s.writeRecord(s.datPath(settingsFile), snapshot)
	})
}

func copyShortcuts(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
