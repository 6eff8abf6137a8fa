package store

import (
	"errors"

	"github.com/hyunsol/croquis/internal/crypt"
)

// Sentinel errors for the record store. Callers match them with errors.Is.
var (
	// ErrNotFound means the file for a requested record does not exist.
	// For most collections this is expected on first run and callers fall
	// back to defaults.
	ErrNotFound = errors.New("not found")

	// ErrDecode means stored data exists but could not be decrypted or
	// parsed. It is the codec's error so a failure surfaced from any layer
	// of the pipeline matches.
	ErrDecode = crypt.ErrDecode

	// ErrStorage wraps filesystem failures (permissions, disk full).
	// Writes are never retried automatically.
	ErrStorage = errors.New("storage error")
)
