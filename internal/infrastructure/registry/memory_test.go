package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matfinder/backend/internal/domain"
)

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	_, err := registry.Get(ctx, "zenflow")
	assert.ErrorIs(t, err, domain.ErrRegistryMiss)

	require.NoError(t, registry.Set(ctx, "zenflow", "abc123"))

	hash, err := registry.Get(ctx, "zenflow")
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)

	require.NoError(t, registry.Set(ctx, "zenflow", "def456"))
	hash, err = registry.Get(ctx, "zenflow")
	require.NoError(t, err)
	assert.Equal(t, "def456", hash)

	assert.Equal(t, 1, registry.Size())
}

func TestMemoryRegistry_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = registry.Set(ctx, "brand", "hash")
		}()
		go func() {
			defer wg.Done()
			_, _ = registry.Get(ctx, "brand")
		}()
	}
	wg.Wait()

	hash, err := registry.Get(ctx, "brand")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)
}
