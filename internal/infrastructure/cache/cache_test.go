package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/cache"
)

type report struct {
	Sessions int     `json:"sessions"`
	Area     float64 `json:"area"`
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestReportCacheRoundTripAndInvalidate(t *testing.T) {
	t.Parallel()

	_, client := newRedis(t)
	rc := cache.NewReportCache(client, "test", time.Minute)
	ctx := context.Background()

	var got report
	hit, err := rc.Get(ctx, "all|||", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, rc.Set(ctx, "all|||", report{Sessions: 3, Area: 7}))

	hit, err = rc.Get(ctx, "all|||", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, report{Sessions: 3, Area: 7}, got)

	require.NoError(t, rc.Invalidate(ctx))

	hit, err = rc.Get(ctx, "all|||", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestReportCacheEntriesExpire(t *testing.T) {
	t.Parallel()

	mr, client := newRedis(t)
	rc := cache.NewReportCache(client, "test", time.Minute)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "k", report{Sessions: 1}))
	mr.FastForward(2 * time.Minute)

	var got report
	hit, err := rc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestReportCacheSurfacesConnectionErrors(t *testing.T) {
	t.Parallel()

	mr, client := newRedis(t)
	rc := cache.NewReportCache(client, "test", time.Minute)
	mr.Close()

	var got report
	_, err := rc.Get(context.Background(), "k", &got)
	require.Error(t, err)
}

type countingFamilies struct {
	families []domain.ProductFamily
	calls    int
}

func (f *countingFamilies) Create(context.Context, *domain.ProductFamily) error { return nil }

func (f *countingFamilies) List(context.Context) ([]domain.ProductFamily, error) {
	f.calls++
	return f.families, nil
}

func TestFamilyCacheLoadsOnceUntilInvalidated(t *testing.T) {
	t.Parallel()

	repo := &countingFamilies{families: []domain.ProductFamily{{ID: "fam-1", Name: "Adesivos"}}}
	fc := cache.NewFamilyCache(repo, time.Minute)
	ctx := context.Background()

	id, err := fc.IDByName(ctx, " adesivos ")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "fam-1", *id)

	id, err = fc.IDByName(ctx, "Lonas e Banners")
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, 1, repo.calls)

	repo.families = append(repo.families, domain.ProductFamily{ID: "fam-2", Name: "Lonas e Banners"})
	fc.Invalidate()

	id, err = fc.IDByName(ctx, "Lonas e Banners")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "fam-2", *id)
	assert.Equal(t, 2, repo.calls)
}
