package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"
)

// UnmarshalJSON accepts both deck entry formats: the current object form
// and the legacy form where an entry is a bare file path. Legacy entries
// are resolved by reading the image from disk; ones that no longer exist
// are dropped. Unknown fields on object entries are ignored.
func (d *Deck) UnmarshalJSON(data []byte) error {
	var raw struct {
		Images      []json.RawMessage `json:"images"`
		CurrentPath string            `json:"current_path"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.CurrentPath = raw.CurrentPath
	d.Images = nil
	for _, entry := range raw.Images {
		type plainImage Image // avoid recursing through any custom methods
		var img plainImage
		if err := json.Unmarshal(entry, &img); err == nil && img.Filename != "" {
			d.Images = append(d.Images, normalizeImage(Image(img)))
			continue
		}

		var path string
		if err := json.Unmarshal(entry, &path); err == nil && path != "" {
			if img, err := ImageFromFile(path); err == nil {
				d.Images = append(d.Images, img)
			}
		}
	}
	return nil
}

func normalizeImage(img Image) Image {
	if img.Difficulty < 1 || img.Difficulty > 5 {
		img.Difficulty = 1
	}
	img.Tags = normalizeTags(img.Tags)
	return img
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == "" || len([]rune(t)) > MaxTagLength || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ImageFromFile builds an Image record from an image file on disk.
func ImageFromFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("%w: read %s: %v", ErrStorage, path, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(path), err)
	}
	return Image{
		Filename:     filepath.Base(path),
		OriginalPath: path,
		Width:        cfg.Width,
		Height:       cfg.Height,
		Size:         int64(len(data)),
		Data:         data,
		Difficulty:   1,
		Tags:         []string{},
	}, nil
}

// LoadDeck reads one user-selected .crdk file. Unlike bulk history
// listing, a decode failure here is a hard error.
func (s *Store) LoadDeck(path string) (*Deck, error) {
	var deck Deck
	if err := s.readRecord(path, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// SaveDeck writes the deck to path synchronously; saving a deck is an
// explicit user action and the caller wants the error.
func (s *Store) SaveDeck(deck *Deck, path string) error {
	snapshot := *deck
	snapshot.CurrentPath = path
	snapshot.Images = append([]Image(nil), deck.Images...)
	return s.writeRecord(path, snapshot)
}

// --- in-memory deck mutations (filename is the key) ---

// AddImage appends an image record. Inserting a filename the deck already
// holds is a silent no-op keeping the first record.
func (d *Deck) AddImage(img Image) {
	if d.find(img.Filename) >= 0 {
		return
	}
	d.Images = append(d.Images, normalizeImage(img))
}

// Remove deletes the record with the given filename, if present.
func (d *Deck) Remove(filename string) {
	if i := d.find(filename); i >= 0 {
		d.Images = append(d.Images[:i], d.Images[i+1:]...)
	}
}

// SetDifficulty sets the difficulty of one image, clamped to [1,5].
// Repeating the same edit is idempotent.
func (d *Deck) SetDifficulty(filename string, difficulty int) {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}
	if i := d.find(filename); i >= 0 {
		d.Images[i].Difficulty = difficulty
	}
}

// CycleDifficulty advances difficulty 1→2→3→4→5→1.
func (d *Deck) CycleDifficulty(filename string) {
	if i := d.find(filename); i >= 0 {
		d.Images[i].Difficulty = d.Images[i].Difficulty%5 + 1
	}
}

// SetTags replaces the tag set of one image. Tags longer than
// MaxTagLength runes and duplicates are dropped.
func (d *Deck) SetTags(filename string, tags []string) {
	if i := d.find(filename); i >= 0 {
		d.Images[i].Tags = normalizeTags(tags)
	}
}

// Rename changes an image's filename. A no-op when the target name is
// already taken, preserving filename uniqueness.
func (d *Deck) Rename(oldName, newName string) {
	if newName == "" || d.find(newName) >= 0 {
		return
	}
	if i := d.find(oldName); i >= 0 {
		d.Images[i].Filename = newName
	}
}

func (d *Deck) find(filename string) int {
	for i := range d.Images {
		if d.Images[i].Filename == filename {
			return i
		}
	}
	return -1
}

// Tags returns every distinct tag in the deck, in first-seen order.
func (d *Deck) Tags() []string {
	var out []string
	seen := make(map[string]bool)
	for _, img := range d.Images {
		for _, t := range img.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// FilterByTags returns the images visible under the given enabled-tag set.
// An empty set disables filtering; untagged images are always included.
func FilterByTags(images []Image, enabled map[string]bool) []Image {
	if len(enabled) == 0 {
		return append([]Image(nil), images...)
	}
	var out []Image
	for _, img := range images {
		if len(img.Tags) == 0 {
			out = append(out, img)
			continue
		}
		for _, t := range img.Tags {
			if enabled[t] {
				out = append(out, img)
				break
			}
		}
	}
	return out
}
