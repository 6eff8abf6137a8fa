// Package crypt implements the codec used for every file the application
// writes: records are serialized to JSON, compressed with zlib and sealed
// with AES-256-GCM. The key is derived once per process from a fixed
// passphrase; the scheme obscures data from casual inspection and is not a
// security boundary.
package crypt

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/argon2"
)

// ErrDecode is wrapped by every failure of Decode: truncated input, a bad
// authentication tag, corrupt compression, or malformed JSON. Callers match
// it with errors.Is to distinguish corrupt data from missing files.
var ErrDecode = errors.New("decode failed")

const nonceSize = 12

// KeyProvider returns the symmetric key material for the codec. The
// indirection exists so the fixed-passphrase scheme can later be replaced
// by per-installation derivation without changing call sites.
type KeyProvider func() []byte

var (
	keyOnce   sync.Once
	cachedKey []byte
)

// DefaultKey derives a 32-byte key from the fixed application passphrase
// using argon2id with a fixed salt, computed once and cached for the
// process lifetime.
func DefaultKey() []byte {
	keyOnce.Do(func() {
		cachedKey = argon2.IDKey([]byte("croquis_secret_key"), []byte("croquis.v1"), 1, 64*1024, 4, 32)
	})
	return cachedKey
}

// Codec encodes and decodes records with a single key.
type Codec struct {
	key KeyProvider
}

func New(key KeyProvider) *Codec {
	if key == nil {
		key = DefaultKey
	}
	return &Codec{key: key}
}

// Encode serializes v to JSON, compresses it and seals it. The random
// nonce is prepended to the returned ciphertext.
func (c *Codec) Encode(v any) ([]byte, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := zw.Write(plain); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	out := make([]byte, 0, nonceSize+buf.Len()+aead.Overhead())
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, buf.Bytes(), nil)
	return out, nil
}

// Decode reverses Encode into v. Any failure wraps ErrDecode.
func (c *Codec) Decode(data []byte, v any) error {
	if len(data) < nonceSize {
		return fmt.Errorf("%w: input too short", ErrDecode)
	}

	aead, err := c.aead()
	if err != nil {
		return err
	}

	compressed, err := aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := zr.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := json.Unmarshal(plain, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func (c *Codec) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key())
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return aead, nil
}
