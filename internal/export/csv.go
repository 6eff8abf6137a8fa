package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// HeatmapToCSV writes date,count rows sorted by date.
func HeatmapToCSV(heatmap map[string]int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Count"}); err != nil {
		return err
	}

	dates := make([]string, 0, len(heatmap))
	for d := range heatmap {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		if err := w.Write([]string{d, fmt.Sprintf("%d", heatmap[d])}); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatDuration(secs int) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
