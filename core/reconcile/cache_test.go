package reconcile_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"inventory-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCache_SharesLoads(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	cache := reconcile.NewCatalogCache(func(ctx context.Context) ([]reconcile.Candidate, error) {
		calls.Add(1)
		<-release
		return catalog, nil
	}, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.Get(context.Background())
			assert.NoError(t, err)
			assert.Len(t, got, len(catalog))
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCatalogCache_ZeroTTLAlwaysLoads(t *testing.T) {
	var calls int
	cache := reconcile.NewCatalogCache(func(ctx context.Context) ([]reconcile.Candidate, error) {
		calls++
		return nil, nil
	}, 0)

	for i := 0; i < 3; i++ {
		got, err := cache.Get(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
	}
	assert.Equal(t, 3, calls)
}

func TestCatalogCache_InvalidateAndErrors(t *testing.T) {
	fail := true
	cache := reconcile.NewCatalogCache(func(ctx context.Context) ([]reconcile.Candidate, error) {
		if fail {
			return nil, errors.New("registry down")
		}
		return catalog, nil
	}, time.Hour)

	_, err := cache.Get(context.Background())
	assert.Error(t, err)

	fail = false
	got, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(catalog))

	cache.Invalidate()
	fail = true
	_, err = cache.Get(context.Background())
	assert.Error(t, err)
}
