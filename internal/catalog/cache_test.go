package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func listingKey(c *Cache, ctx context.Context) string {
	return fmt.Sprintf("%sv=%s:q=:c=:p=1:l=20", productsCachePfx, c.Version(ctx, productsVerKey))
}

func TestCacheRoundTrip(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", []string{"a", "b"}))
	var got []string
	ok, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got)
}

func TestBumpOrphansListingEntries(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()

	key := listingKey(c, ctx)
	require.NoError(t, c.SetJSON(ctx, key, []string{"stale menu"}))

	var got []string
	ok, err := c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	require.True(t, ok)

	c.Bump(ctx, productsVerKey)

	fresh := listingKey(c, ctx)
	require.NotEqual(t, key, fresh)
	ok, err = c.GetJSON(ctx, fresh, &got)
	require.NoError(t, err)
	require.False(t, ok, "bumped generation must not see the old entry")
}

func TestVersionDefaultsToZero(t *testing.T) {
	c := testCache(t)
	require.Equal(t, "0", c.Version(context.Background(), productsVerKey))

	var nilCache *Cache
	require.Equal(t, "0", nilCache.Version(context.Background(), productsVerKey))
	nilCache.Bump(context.Background(), productsVerKey)
}
