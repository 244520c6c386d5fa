package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of a sealing key in bytes
const KeySize = chacha20poly1305.KeySize

// sealedVersion prefixes every sealed value and is authenticated with it
const sealedVersion byte = 0x01

// ErrTampered is returned when a sealed value fails authentication
var ErrTampered = errors.New("sealed value failed authentication")

// Sealed encrypts values before handing them to the wrapped Store. Keys
// stay in clear text and are bound to their value as additional data, so
// a value copied under another key does not open.
type Sealed struct {
	inner Store
	key   []byte
}

// NewSealed wraps inner with XChaCha20-Poly1305 under key
func NewSealed(inner Store, key []byte) (*Sealed, error) {
	if len(key) != KeySize {
		return nil, wrap("open", "", fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key)))
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &Sealed{inner: inner, key: k}, nil
}

// Get opens the value stored under key
func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.open(key, raw)
	if err != nil {
		return "", false, wrap("get", key, err)
	}
	return plain, true, nil
}

// Set seals value and stores it under key
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return wrap("set", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

// Remove deletes key from the wrapped store
func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

func (s *Sealed) seal(key, value string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}

	out := make([]byte, 1+chacha20poly1305.NonceSizeX, 1+chacha20poly1305.NonceSizeX+len(value)+aead.Overhead())
	out[0] = sealedVersion
	nonce := out[1:]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out = aead.Seal(out, nonce, []byte(value), additionalData(key))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealed) open(key, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTampered, err)
	}
	if len(data) < 1+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead || data[0] != sealedVersion {
		return "", ErrTampered
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("creating XChaCha20-Poly1305 cipher: %w", err)
	}
	nonce := data[1 : 1+chacha20poly1305.NonceSizeX]
	plain, err := aead.Open(nil, nonce, data[1+chacha20poly1305.NonceSizeX:], additionalData(key))
	if err != nil {
		return "", ErrTampered
	}
	return string(plain), nil
}

func additionalData(key string) []byte {
	return append([]byte{sealedVersion}, key...)
}

// LoadOrCreateKey reads the base64 key at path, generating and writing a
// new one when the file does not exist.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, wrap("load key", "", fmt.Errorf("decode %s: %w", path, err))
		}
		if len(key) != KeySize {
			return nil, wrap("load key", "", fmt.Errorf("%s holds %d bytes, want %d", path, len(key), KeySize))
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, wrap("load key", "", err)
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, wrap("create key", "", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, wrap("create key", "", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key) + "\n"
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, wrap("create key", "", err)
	}
	return key, nil
}
