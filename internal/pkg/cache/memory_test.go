package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "managers", []item{{Name: "Rina"}}, 5*time.Minute))

	var got []item
	found, err := c.Get(ctx, "managers", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []item{{Name: "Rina"}}, got)

	now = now.Add(4*time.Minute + 59*time.Second)
	found, err = c.Get(ctx, "managers", &got)
	require.NoError(t, err)
	assert.True(t, found, "still fresh inside ttl")

	now = now.Add(time.Second)
	found, err = c.Get(ctx, "managers", &got)
	require.NoError(t, err)
	assert.False(t, found, "expired at ttl")
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Delete(ctx, "a", "missing"))

	var v int
	found, _ := c.Get(ctx, "a", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "b", &v)
	assert.True(t, found)
	assert.Equal(t, 2, v)
}
