package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the second-resolution stamp used in pair files and
// their names.
const TimestampLayout = "20060102_150405"

// AppendHistoryPair writes one completed croquis as its own encrypted file
// named {timestamp}_{filename}.croq and returns the file name. The write
// is synchronous; a pair is the product of a whole session and losing it
// silently would be worse than a blocked caller.
func (s *Store) AppendHistoryPair(pair HistoryPair) (string, error) {
	if pair.Timestamp == "" {
		pair.Timestamp = time.Now().Format(TimestampLayout)
	}

	base := strings.TrimSuffix(pair.Metadata.Filename, filepath.Ext(pair.Metadata.Filename))
	if base == "" {
		base = "unknown"
	}
	name := fmt.Sprintf("%s_%s.croq", pair.Timestamp, base)

	if err := s.writeRecord(filepath.Join(s.PairsDir(), name), pair); err != nil {
		return "", err
	}
	return name, nil
}

// ListHistory loads every pair in the history directory, newest first.
// Files that fail to decode are logged and skipped; one corrupt pair must
// not hide the rest.
func (s *Store) ListHistory() ([]HistoryEntry, error) {
	dir := s.PairsDir()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, dir, err)
	}

	var out []HistoryEntry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".croq") {
			continue
		}
		var pair HistoryPair
		if err := s.readRecord(filepath.Join(dir, e.Name()), &pair); err != nil {
			s.log.Warn("skipping unreadable history pair", "file", e.Name(), "err", err)
			continue
		}
		out = append(out, HistoryEntry{File: e.Name(), Pair: pair})
	}

	// Names start with the timestamp, so reverse-lexicographic is
	// newest-first.
	sort.Slice(out, func(i, j int) bool { return out[i].File > out[j].File })
	return out, nil
}

// LoadPair reads one targeted pair file. Unlike ListHistory, corruption
// here is a hard failure.
func (s *Store) LoadPair(file string) (HistoryPair, error) {
	var pair HistoryPair
	err := s.readRecord(filepath.Join(s.PairsDir(), file), &pair)
	return pair, err
}

// SetMemo rewrites one pair file with a new memo, last write wins. All
// other fields are preserved unchanged.
func (s *Store) SetMemo(file, memo string) error {
	pair, err := s.LoadPair(file)
	if err != nil {
		return err
	}
	pair.Memo = memo
	return s.writeRecord(filepath.Join(s.PairsDir(), file), pair)
}

// Memo returns the memo of one pair, or "" when the file is missing or
// unreadable (used for list tooltips, where failures are not interesting).
func (s *Store) Memo(file string) string {
	pair, err := s.LoadPair(file)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(pair.Memo)
}

// PairDate extracts the calendar date (YYYY-MM-DD) from a pair's
// timestamp, for the history view's date filter.
func PairDate(pair HistoryPair) string {
	t, err := time.Parse(TimestampLayout, pair.Timestamp)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// FilterHistoryByDate keeps the entries recorded on one calendar date;
// date "" keeps everything.
func FilterHistoryByDate(entries []HistoryEntry, date string) []HistoryEntry {
	if date == "" {
		return entries
	}
	var out []HistoryEntry
	for _, e := range entries {
		if PairDate(e.Pair) == date {
			out = append(out, e)
		}
	}
	return out
}

// HistoryDates returns the distinct dates present in entries, newest
// first, for populating a date filter.
func HistoryDates(entries []HistoryEntry) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range entries {
		d := PairDate(e.Pair)
		if d != "" && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// IsNotFound reports whether err is the store's missing-file error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
