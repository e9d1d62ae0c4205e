package httpapi

import (
	"context"
	"sync"
	"time"

	"vox-console/internal/assistants"
)

// DefaultStoreIdleTTL is how long a tenant's store stays cached without requests.
const DefaultStoreIdleTTL = 30 * time.Minute

type cacheEntry struct {
	store    *assistants.Store
	ready    chan struct{} // closed once the first Load returns
	lastUsed time.Time
}

// StoreCache keeps one assistants.Store per tenant so local edits survive between requests.
// Stores unused for idleTTL are closed and dropped on the next Get, so the cache holds at most
// the tenants seen within that window.
type StoreCache struct {
	api     assistants.Backend
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewStoreCache builds a cache. idleTTL <= 0 disables eviction.
func NewStoreCache(api assistants.Backend, idleTTL time.Duration) *StoreCache {
	return &StoreCache{
		api:     api,
		idleTTL: idleTTL,
		now:     time.Now,
		entries: map[string]*cacheEntry{},
	}
}

// Get returns the tenant's store. The first caller loads it; concurrent callers wait for that
// load instead of seeing an empty list. A store whose last fetch failed is refetched.
func (sc *StoreCache) Get(ctx context.Context, clientID string) *assistants.Store {
	sc.mu.Lock()
	now := sc.now()
	sc.evictLocked(now)
	e, ok := sc.entries[clientID]
	if !ok {
		e = &cacheEntry{store: assistants.NewStore(sc.api, clientID), ready: make(chan struct{})}
		sc.entries[clientID] = e
	}
	e.lastUsed = now
	sc.mu.Unlock()

	if !ok {
		e.store.Load(ctx)
		close(e.ready)
		return e.store
	}

	select {
	case <-e.ready:
	case <-ctx.Done():
		return e.store
	}
	if e.store.State().Error != "" {
		e.store.Refetch(ctx)
	}
	return e.store
}

// Len reports how many tenants are cached.
func (sc *StoreCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.entries)
}

func (sc *StoreCache) evictLocked(now time.Time) {
	if sc.idleTTL <= 0 {
		return
	}
	for id, e := range sc.entries {
		select {
		case <-e.ready:
		default:
			continue
		}
		if now.Sub(e.lastUsed) > sc.idleTTL {
			e.store.Close()
			delete(sc.entries, id)
		}
	}
}

// Close closes every store and forgets them.
func (sc *StoreCache) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for id, e := range sc.entries {
		e.store.Close()
		delete(sc.entries, id)
	}
}
