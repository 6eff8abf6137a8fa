// Package export turns stored history into plain files the user can keep
// outside the encrypted store: the image pairs themselves, a JSON index,
// and a heatmap CSV.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyunsol/croquis/internal/store"
)

// Pair writes both halves of a history pair into dir as
// {stem}_original.png and {stem}_croquis.png, where stem is the pair's
// file name without its extension.
func Pair(entry store.HistoryEntry, dir string) error {
	stem := strings.TrimSuffix(filepath.Base(entry.File), filepath.Ext(entry.File))

	if err := Image(entry.Pair.Original, filepath.Join(dir, stem+"_original.png")); err != nil {
		return err
	}
	return Image(entry.Pair.Screenshot, filepath.Join(dir, stem+"_croquis.png"))
}

// Image writes one image's PNG bytes to path.
func Image(data []byte, path string) error {
	if len(data) == 0 {
		return fmt.Errorf("export image %s: no image data", filepath.Base(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return nil
}
