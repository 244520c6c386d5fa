package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMockPersistencePassesThroughUntilExpected(t *testing.T) {
	ctx := context.Background()
	p := NewMockPersistence(t)

	require.NoError(t, p.Set(ctx, "k", "v"))
	v, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	p.On("Set", mock.Anything, "k", mock.Anything).Return(errors.New("read-only"))

	assert.Error(t, p.Set(ctx, "k", "w"))
	stored, _ := p.Value("k")
	assert.Equal(t, "v", stored)
	p.AssertNumberOfCalls(t, "Set", 1)

	require.NoError(t, p.Remove(ctx, "k"))
	_, ok = p.Value("k")
	assert.False(t, ok)
}
