package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(c)
	t.Cleanup(func() {
		SetClient(nil)
		_ = c.Close()
	})
	return mr
}

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSetJSON(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	var missing cachedValue
	found, err := GetJSON(ctx, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	in := cachedValue{Name: "politics", Count: 3}
	require.NoError(t, SetJSON(ctx, "present", in, time.Minute))

	var out cachedValue
	found, err = GetJSON(ctx, "present", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGetSetJSONWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	// No Redis means a cache miss, never an error.
	var out cachedValue
	found, err := GetJSON(ctx, "anything", &out)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "anything", cachedValue{}, time.Minute))
}

func TestAside(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedValue) func() error {
		return func() error {
			fetches++
			dest.Name = "fetched"
			dest.Count = fetches
			return nil
		}
	}

	var first cachedValue
	require.NoError(t, Aside(ctx, "aside-key", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "fetched", first.Name)

	// Second read is served from the cache.
	var second cachedValue
	require.NoError(t, Aside(ctx, "aside-key", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAsideExpiry(t *testing.T) {
	mr := setupTestCache(t)
	ctx := context.Background()

	fetches := 0
	var v cachedValue
	fetch := func() error {
		fetches++
		v.Count = fetches
		return nil
	}

	require.NoError(t, Aside(ctx, "expiring", &v, time.Minute, fetch))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, Aside(ctx, "expiring", &v, time.Minute, fetch))
	assert.Equal(t, 2, fetches)
}

func TestInvalidatePost(t *testing.T) {
	setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(7), cachedValue{Name: "post"}, time.Minute))
	InvalidatePost(ctx, 7)

	var out cachedValue
	found, err := GetJSON(ctx, PostKey(7), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "post:12", PostKey(12))
	assert.Equal(t, "news:za:business:", NewsKey("za", "business", ""))
	assert.Equal(t, "weather:-26.2041:28.0473", WeatherKey("-26.2041", "28.0473"))
}
