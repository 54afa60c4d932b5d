package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	_, found, err := c.Get(ctx, "draft:u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "draft:u1", []byte(`{"items":[]}`), time.Hour))

	value, found, err := c.Get(ctx, "draft:u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"items":[]}`, string(value))

	now = now.Add(2 * time.Hour)
	_, found, err = c.Get(ctx, "draft:u1")
	require.NoError(t, err)
	assert.False(t, found, "valor expirado não deve ser devolvido")

	require.NoError(t, c.Set(ctx, "draft:u2", []byte("x"), 0))
	require.NoError(t, c.Delete(ctx, "draft:u2"))
	_, found, err = c.Get(ctx, "draft:u2")
	require.NoError(t, err)
	assert.False(t, found)
}
