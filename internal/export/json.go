package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hyunsol/croquis/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	File        string `json:"file"`
	Timestamp   string `json:"timestamp"`
	Filename    string `json:"filename"`
	DurationSec int    `json:"duration_seconds"`
	Duration    string `json:"duration"`
	Memo        string `json:"memo,omitempty"`
}

// HistoryToJSON writes an index of the given history entries. Image bytes
// stay out of the index; Pair exports them separately.
func HistoryToJSON(entries []store.HistoryEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			File:        e.File,
			Timestamp:   e.Pair.Timestamp,
			Filename:    e.Pair.Metadata.Filename,
			DurationSec: e.Pair.CroquisTime,
			Duration:    formatDuration(e.Pair.CroquisTime),
			Memo:        e.Pair.Memo,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
