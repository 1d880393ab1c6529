package cache

import (
	"sync"
)

// Store is the process-wide in-memory cache shared by all request handlers.
//
// Values are opaque serialized blobs; the catalog service owns the
// serialization format and must decode symmetrically with what it encoded.
// Individual key operations are atomic. The read-then-populate pattern built
// on top of Has/Get/Set is not atomic: two concurrent misses for the same
// key may both query the source and both populate. That overwrite is benign
// and tolerated.
//
// There is no TTL, eviction, or capacity bound. Entries live until they are
// invalidated or overwritten.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
	bytes   int64
}

// NewStore creates an empty cache store. One instance is created at process
// start and handed to the catalog service; it holds no hidden global state.
func NewStore() *Store {
	return &Store{
		entries: make(map[string][]byte),
	}
}

// Has reports whether a value is cached under key.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Get returns the value cached under key. The second return value reports
// whether the key was present. A read never removes or expires an entry.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	val, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		CacheMisses.Inc()
		return nil, false
	}

	CacheHits.WithLabelValues("memory").Inc()
	return val, true
}

// Set stores val under key, overwriting unconditionally.
func (s *Store) Set(key string, val []byte) {
	s.mu.Lock()
	if old, ok := s.entries[key]; ok {
		s.bytes -= int64(len(old))
	}
	s.entries[key] = val
	s.bytes += int64(len(val))
	entries, size := len(s.entries), s.bytes
	s.mu.Unlock()

	CacheEntries.Set(float64(entries))
	CacheSize.WithLabelValues("memory").Set(float64(size))
}

// Delete removes the entry for key. Deleting an absent key is a no-op, not
// an error, so invalidation routines can fire without knowing which keys
// currently exist.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	old, ok := s.entries[key]
	if ok {
		s.bytes -= int64(len(old))
		delete(s.entries, key)
	}
	entries, size := len(s.entries), s.bytes
	s.mu.Unlock()

	if ok {
		CacheDeletes.Inc()
	}
	CacheEntries.Set(float64(entries))
	CacheSize.WithLabelValues("memory").Set(float64(size))
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
