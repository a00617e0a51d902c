package cache

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	original := []byte("png-bytes")
	require.NoError(t, c.Set(ctx, "chart", original, time.Minute))
	original[0] = 'X'

	got, ok, err := c.Get(ctx, "chart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(got), "cache should keep its own copy")

	got[0] = 'Y'
	again, _, _ := c.Get(ctx, "chart")
	assert.Equal(t, "png-bytes", string(again), "callers should receive copies")
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, "short")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, "short")
	assert.False(t, ok, "entry should expire at its ttl")
	assert.Equal(t, 1, c.Len(), "expired entry should be evicted on read")

	now = now.Add(24 * time.Hour)
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok, "non-positive ttl never expires")
}

func TestMemoryCacheSweepsExpiredWhenFull(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := 0; i < maxMemoryEntries; i++ {
		require.NoError(t, c.Set(ctx, Key("chart", strconv.Itoa(i)), []byte("x"), time.Minute))
	}
	require.Equal(t, maxMemoryEntries, c.Len())

	now = now.Add(time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", []byte("y"), time.Minute))
	assert.Equal(t, 1, c.Len(), "expired entries should be swept once the cache is full")
}

func TestMemoryCacheBounded(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "pinned", []byte("p"), 0))
	for i := 0; i < 3*maxMemoryEntries; i++ {
		now = now.Add(time.Millisecond)
		require.NoError(t, c.Set(ctx, Key("chart", strconv.Itoa(i)), []byte("x"), time.Hour))
		require.LessOrEqual(t, c.Len(), maxMemoryEntries)
	}

	_, ok, _ := c.Get(ctx, "pinned")
	assert.True(t, ok, "entries without a ttl are evicted last")
	_, ok, _ = c.Get(ctx, Key("chart", "0"))
	assert.False(t, ok, "the soonest-expiring entry should be evicted first")
	_, ok, _ = c.Get(ctx, Key("chart", strconv.Itoa(3*maxMemoryEntries-1)))
	assert.True(t, ok)

	// Overwriting an existing key never evicts.
	require.NoError(t, c.Set(ctx, "pinned", []byte("q"), 0))
	assert.Equal(t, maxMemoryEntries, c.Len())
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("test", string(rune('a'+i%4)))
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, key, []byte{byte(j)}, time.Minute)
				_, _, _ = c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.Len())
}

func TestKey(t *testing.T) {
	a := Key("chart", "balance", "price=1")
	b := Key("chart", "balance", "price=1")
	c := Key("chart", "balance", "price=2")
	d := Key("chart", "balanceprice=1")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d, "parts should not run together")
	assert.Contains(t, a, "chart:")
}

func TestSettingsTTLDuration(t *testing.T) {
	assert.Equal(t, 300*time.Second, Settings{}.TTLDuration())
	assert.Equal(t, 30*time.Second, Settings{TTL: 30}.TTLDuration())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Settings{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	c, err = New(ctx, Settings{Backend: " Memory "}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New(ctx, Settings{Backend: "memcached"}, zap.NewNop())
	assert.Error(t, err)

	_, err = New(ctx, Settings{Backend: BackendRedis}, zap.NewNop())
	assert.Error(t, err, "redis without an address should fail")
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, Settings{Address: addr})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	key := Key("test", t.Name(), time.Now().String())
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte("value"), time.Minute))
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}
