package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// FileName is the document written inside the store directory
const FileName = "session.json"

// File keeps all keys in one JSON document. Every write replaces the
// document through a temp file and rename, so readers never see a
// partial write.
type File struct {
	path string

	mu     sync.Mutex
	values map[string]string
	loaded bool
}

// NewFile creates a file store rooted at dir, creating dir if needed
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, wrap("open", "", errors.New("directory is required"))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, wrap("open", "", err)
	}
	return &File{path: filepath.Join(dir, FileName)}, nil
}

// Path returns the document location
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, wrap("get", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.loadLocked(); err != nil {
		return "", false, wrap("get", key, err)
	}
	v, ok := f.values[key]
	return v, ok, nil
}

// Set stores value under key and flushes the document
func (f *File) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return wrap("set", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.loadLocked(); err != nil {
		return wrap("set", key, err)
	}
	next := f.copyLocked()
	next[key] = value
	if err := f.flush(next); err != nil {
		return wrap("set", key, err)
	}
	f.values = next
	return nil
}

// Remove deletes key and flushes the document
func (f *File) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return wrap("remove", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.loadLocked(); err != nil {
		return wrap("remove", key, err)
	}
	if _, ok := f.values[key]; !ok {
		return nil
	}
	next := f.copyLocked()
	delete(next, key)
	if err := f.flush(next); err != nil {
		return wrap("remove", key, err)
	}
	f.values = next
	return nil
}

func (f *File) loadLocked() error {
	if f.loaded {
		return nil
	}

	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.values = map[string]string{}
	case err != nil:
		return err
	default:
		values := map[string]string{}
		if len(data) > 0 {
			if err := sonic.Unmarshal(data, &values); err != nil {
				return fmt.Errorf("decode %s: %w", f.path, err)
			}
		}
		f.values = values
	}
	f.loaded = true
	return nil
}

func (f *File) copyLocked() map[string]string {
	next := make(map[string]string, len(f.values)+1)
	for k, v := range f.values {
		next[k] = v
	}
	return next
}

func (f *File) flush(values map[string]string) error {
	data, err := sonic.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}
