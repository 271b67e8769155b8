package registry

import (
	"context"
	"sync"

	"github.com/matfinder/backend/internal/domain"
)

// MemoryRegistry is a thread-safe in-memory hash registry. It is the default
// backend for single-shot pipeline runs and for tests; hashes do not survive
// the process.
type MemoryRegistry struct {
	hashes map[string]string
	mutex  sync.RWMutex
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		hashes: make(map[string]string),
	}
}

// Get returns the recorded hash for a brand, or ErrRegistryMiss.
func (r *MemoryRegistry) Get(ctx context.Context, key string) (string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	hash, exists := r.hashes[key]
	if !exists {
		return "", domain.ErrRegistryMiss
	}
	return hash, nil
}

// Set records the hash for a brand, replacing any previous value.
func (r *MemoryRegistry) Set(ctx context.Context, key, hash string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.hashes[key] = hash
	return nil
}

// Size returns the number of recorded brands (for debugging/monitoring).
func (r *MemoryRegistry) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.hashes)
}
