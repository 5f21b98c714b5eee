package ingest

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Store memoizes catalogs per distinct file selection so repeated identical
// selections skip re-reading files. Invalidation is explicit; changes to the
// underlying files are not watched.
type Store struct {
	loader *Loader
	onLoad func()

	mu    sync.RWMutex
	cache map[string]*Catalog
}

// NewStore creates a catalog store backed by the given loader.
func NewStore(loader *Loader) *Store {
	return &Store{
		loader: loader,
		cache:  make(map[string]*Catalog),
	}
}

// OnLoad registers a hook invoked whenever Get builds a catalog from disk
// rather than serving it from cache.
func (s *Store) OnLoad(f func()) {
	s.onLoad = f
}

// Get returns the catalog for the given file set, building it on first use.
// The key is the sorted file-name set, so selection order does not matter.
func (s *Store) Get(ctx context.Context, paths []string) (*Catalog, error) {
	key := cacheKey(paths)

	s.mu.RLock()
	catalog, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return catalog, nil
	}

	catalog, err := s.loader.Load(ctx, paths)
	if err != nil {
		return nil, err
	}
	if s.onLoad != nil {
		s.onLoad()
	}

	s.mu.Lock()
	s.cache[key] = catalog
	s.mu.Unlock()
	return catalog, nil
}

// Invalidate drops every cached catalog. Call it after the underlying files
// change on disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]*Catalog)
	s.mu.Unlock()
}

func cacheKey(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
