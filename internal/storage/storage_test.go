package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

// exerciseStore runs the contract every Store must satisfy
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "session.token", "abc"))
	require.NoError(t, s.Set(ctx, "session.profile", `{"_id":"u1"}`))

	v, ok, err := s.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Set(ctx, "session.token", "def"))
	v, _, err = s.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, s.Remove(ctx, "session.token"))
	require.NoError(t, s.Remove(ctx, "session.token"))
	_, ok, err = s.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = s.Get(ctx, "session.profile")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"_id":"u1"}`, v)
}

func TestStores(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		exerciseStore(t, NewMemory())
	})

	t.Run("file", func(t *testing.T) {
		f, err := NewFile(t.TempDir())
		require.NoError(t, err)
		exerciseStore(t, f)
	})

	t.Run("sealed", func(t *testing.T) {
		s, err := NewSealed(NewMemory(), testKey())
		require.NoError(t, err)
		exerciseStore(t, s)
	})
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemory().Set(ctx, "k", "v")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "set", perr.Op)
	assert.Equal(t, "k", perr.Key)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "session.token", "abc"))

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	info, err := os.Stat(f.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))

	f, err := NewFile(dir)
	require.NoError(t, err)

	_, _, err = f.Get(context.Background(), "session.token")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "get", perr.Op)
}

func TestSealedHidesPlaintext(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	s, err := NewSealed(inner, testKey())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "session.token", "secret-token"))

	raw, ok, err := inner.Get(ctx, "session.token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "secret-token")

	decoded, err := base64.StdEncoding.DecodeString(raw)
	require.NoError(t, err)
	assert.Equal(t, sealedVersion, decoded[0])
}

func TestSealedRejectsTampering(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	s, err := NewSealed(inner, testKey())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "session.token", "secret-token"))

	t.Run("moved to another key", func(t *testing.T) {
		raw, _, _ := inner.Get(ctx, "session.token")
		require.NoError(t, inner.Set(ctx, "session.profile", raw))

		_, ok, err := s.Get(ctx, "session.profile")
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrTampered))
	})

	t.Run("garbage", func(t *testing.T) {
		require.NoError(t, inner.Set(ctx, "session.other", "!!!"))
		_, _, err := s.Get(ctx, "session.other")
		assert.ErrorIs(t, err, ErrTampered)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := testKey()
		other[0] ^= 0xff
		s2, err := NewSealed(inner, other)
		require.NoError(t, err)
		_, _, err = s2.Get(ctx, "session.token")
		assert.ErrorIs(t, err, ErrTampered)
	})
}

func TestNewSealedKeySize(t *testing.T) {
	_, err := NewSealed(NewMemory(), []byte("short"))
	assert.Error(t, err)
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "session.key")

	first, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Len(t, first, KeySize)

	second, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte(base64.StdEncoding.EncodeToString([]byte("tiny"))), 0o600))
	_, err = LoadOrCreateKey(path)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	plain, err := Open(config.StorageConfig{Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &File{}, plain)

	sealed, err := Open(config.StorageConfig{Dir: dir, Encrypt: true})
	require.NoError(t, err)
	assert.IsType(t, &Sealed{}, sealed)
	require.NoError(t, sealed.Set(ctx, "session.token", "abc"))
	assert.FileExists(t, filepath.Join(dir, "session.key"))

	reopened, err := Open(config.StorageConfig{Dir: dir, Encrypt: true})
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	mem, err := Open(config.StorageConfig{Backend: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mem)
	_, ok, err = mem.Get(ctx, "session.token")
	require.NoError(t, err)
	assert.False(t, ok)
}
