package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyunsol/croquis/internal/store"
)

func sampleEntries() []store.HistoryEntry {
	return []store.HistoryEntry{
		{
			File: "20260824_093015_gesture01.croq",
			Pair: store.HistoryPair{
				Original:    []byte("original-png-bytes"),
				Screenshot:  []byte("drawing-png-bytes"),
				Timestamp:   "20260824_093015",
				CroquisTime: 3600,
				Metadata:    store.ImageMetadata{Filename: "gesture01.png", Width: 800, Height: 1200},
				Memo:        "어깨 라인 다시 볼 것",
			},
		},
		{
			File: "20260824_100000_gesture02.croq",
			Pair: store.HistoryPair{
				Original:    []byte("original-2"),
				Screenshot:  []byte("drawing-2"),
				Timestamp:   "20260824_100000",
				CroquisTime: 300,
				Metadata:    store.ImageMetadata{Filename: "gesture02.png"},
			},
		},
	}
}

// ============================================================
// Pair / Image
// ============================================================

func TestPair(t *testing.T) {
	dir := t.TempDir()
	entry := sampleEntries()[0]

	if err := Pair(entry, dir); err != nil {
		t.Fatalf("Pair: %v", err)
	}

	orig, err := os.ReadFile(filepath.Join(dir, "20260824_093015_gesture01_original.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(orig) != "original-png-bytes" {
		t.Fatalf("original bytes mangled: %q", orig)
	}

	croq, err := os.ReadFile(filepath.Join(dir, "20260824_093015_gesture01_croquis.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(croq) != "drawing-png-bytes" {
		t.Fatalf("croquis bytes mangled: %q", croq)
	}
}

func TestPairEmptyData(t *testing.T) {
	entry := store.HistoryEntry{File: "x.croq"}
	if err := Pair(entry, t.TempDir()); err == nil {
		t.Fatal("expected error for empty image data")
	}
}

func TestImageBadPath(t *testing.T) {
	err := Image([]byte("data"), "/nonexistent/dir/file.png")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON index
// ============================================================

func TestHistoryToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	if err := HistoryToJSON(sampleEntries(), path); err != nil {
		t.Fatalf("HistoryToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	e := result.Entries[0]
	if e.File != "20260824_093015_gesture01.croq" {
		t.Fatalf("File = %q", e.File)
	}
	if e.Filename != "gesture01.png" {
		t.Fatalf("Filename = %q", e.Filename)
	}
	if e.DurationSec != 3600 {
		t.Fatalf("DurationSec = %d, want 3600", e.DurationSec)
	}
	if e.Duration != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", e.Duration)
	}
	if e.Memo != "어깨 라인 다시 볼 것" {
		t.Fatalf("Memo = %q", e.Memo)
	}

	// Image bytes must not leak into the index.
	if strings.Contains(string(data), "original-png-bytes") {
		t.Fatal("index should not embed image bytes")
	}
}

func TestHistoryToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := HistoryToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Entries != nil {
		t.Fatal("entries should be nil/null for empty export")
	}
}

func TestHistoryToJSONBadPath(t *testing.T) {
	if err := HistoryToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Heatmap CSV
// ============================================================

func TestHeatmapToCSV(t *testing.T) {
	heatmap := map[string]int{
		"2026-08-24": 3,
		"2026-08-22": 1,
		"2026-08-23": 7,
	}
	path := filepath.Join(t.TempDir(), "heatmap.csv")

	if err := HeatmapToCSV(heatmap, path); err != nil {
		t.Fatalf("HeatmapToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
	if records[0][0] != "Date" || records[0][1] != "Count" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	// Rows sorted by date.
	wantDates := []string{"2026-08-22", "2026-08-23", "2026-08-24"}
	wantCounts := []string{"1", "7", "3"}
	for i, row := range records[1:] {
		if row[0] != wantDates[i] || row[1] != wantCounts[i] {
			t.Fatalf("row %d = %v, want [%s %s]", i, row, wantDates[i], wantCounts[i])
		}
	}
}

func TestHeatmapToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := HeatmapToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestHeatmapToCSVBadPath(t *testing.T) {
	if err := HeatmapToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.secs)
		if got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
