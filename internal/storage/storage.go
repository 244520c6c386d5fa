package storage

import (
	"context"
	"fmt"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
)

// Store is an opaque string key/value store
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// PersistenceError reports a failed storage operation
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*PersistenceError); ok {
		return err
	}
	return &PersistenceError{Op: op, Key: key, Err: err}
}

// Open builds the store described by cfg: a File store in cfg.Dir, sealed
// when cfg.Encrypt is set, or a Memory store that lives for one process.
func Open(cfg config.StorageConfig) (Store, error) {
	if cfg.Backend == config.StorageMemory {
		return NewMemory(), nil
	}

	file, err := NewFile(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if !cfg.Encrypt {
		return file, nil
	}

	key, err := LoadOrCreateKey(cfg.KeyPath())
	if err != nil {
		return nil, err
	}
	return NewSealed(file, key)
}
