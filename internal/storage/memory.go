package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Store
type Memory struct {
	values sync.Map
}

// NewMemory creates an empty memory store
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the value stored under key
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, wrap("get", key, err)
	}
	v, ok := m.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

// Set stores value under key
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return wrap("set", key, err)
	}
	m.values.Store(key, value)
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return wrap("remove", key, err)
	}
	m.values.Delete(key)
	return nil
}
