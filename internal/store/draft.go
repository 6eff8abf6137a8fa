package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Draft is the transient working copy of a deck being edited. Every edit
// persists to a draft file in the background so destructive changes are
// recoverable until the user saves or discards; the draft is deleted when
// the deck is closed or replaced.
type Draft struct {
	store  *Store
	path   string // draft file under drafts/
	origin string // deck file this draft was seeded from, "" for a new deck

	mu   sync.Mutex
	deck Deck
}

// OpenDraft starts editing. With a non-empty origin the deck file is
// loaded first (hard failure on corrupt data); otherwise the draft starts
// empty.
func (s *Store) OpenDraft(origin string) (*Draft, error) {
	d := &Draft{
		store:  s,
		origin: origin,
		path:   filepath.Join(s.dir, draftsDir, fmt.Sprintf("deck_%s.draft", uuid.NewString()[:8])),
	}

	if origin != "" {
		deck, err := s.LoadDeck(origin)
		if err != nil {
			return nil, err
		}
		d.deck = *deck
		d.deck.CurrentPath = origin
	}

	d.persist()
	return d, nil
}

// Deck returns a snapshot of the draft's current state. Mutating the
// returned value does not affect the draft.
func (d *Draft) Deck() Deck {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.deck
	out.Images = append([]Image(nil), d.deck.Images...)
	return out
}

// Origin returns the deck path this draft was opened from.
func (d *Draft) Origin() string { return d.origin }

// Edit applies fn to the underlying deck and persists the draft in the
// background.
func (d *Draft) Edit(fn func(*Deck)) {
	d.mu.Lock()
	fn(&d.deck)
	d.mu.Unlock()
	d.persist()
}

// Save writes the draft's contents out as the real deck file at path.
// The draft stays open so editing can continue.
func (d *Draft) Save(path string) error {
	d.mu.Lock()
	snapshot := d.deck
	snapshot.Images = append([]Image(nil), d.deck.Images...)
	d.mu.Unlock()

	if err := d.store.SaveDeck(&snapshot, path); err != nil {
		return err
	}

	d.mu.Lock()
	d.origin = path
	d.deck.CurrentPath = path
	d.mu.Unlock()
	d.persist()
	return nil
}

// Discard deletes the draft file; unsaved edits are lost. Scheduled on the
// draft's own queue key so it lands after any in-flight draft write.
func (d *Draft) Discard() {
	path := d.path
	d.store.queue.Schedule("draft:"+path, func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: remove draft: %v", ErrStorage, err)
		}
		return nil
	})
}

func (d *Draft) persist() {
	d.mu.Lock()
	snapshot := d.deck
	snapshot.Images = append([]Image(nil), d.deck.Images...)
	d.mu.Unlock()

	d.store.queue.Schedule("draft:"+d.path, func() error {
		return d.store.writeRecord(d.path, snapshot)
	})
}
