package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const (
	DefaultTTL     = 5 * time.Minute
	DefaultMaxSize = 100
)

type memoryEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process bounded cache. Expired entries are dropped
// lazily on read; when the store is full the oldest insert is evicted.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = oldest insert
	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces the time source. Used by tests to drive expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(maxSize int, defaultTTL time.Duration, opts ...MemoryOption) *MemoryStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	s := &MemoryStore{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return "", false
	}
	entry := elem.Value.(*memoryEntry)
	if s.now().After(entry.expiresAt) {
		s.removeLocked(elem)
		return "", false
	}
	return entry.value, true
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = s.now().Add(ttl)
		return
	}

	if s.order.Len() >= s.maxSize {
		s.evictLocked()
	}

	entry := &memoryEntry{key: key, value: value, expiresAt: s.now().Add(ttl)}
	s.entries[key] = s.order.PushBack(entry)
}

func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.entries[key]; ok {
		s.removeLocked(elem)
	}
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// evictLocked drops expired entries first; if nothing expired, the oldest
// insert goes.
func (s *MemoryStore) evictLocked() {
	now := s.now()
	evicted := false
	for elem := s.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			s.removeLocked(elem)
			evicted = true
		}
		elem = next
	}
	if !evicted {
		if oldest := s.order.Front(); oldest != nil {
			s.removeLocked(oldest)
		}
	}
}

func (s *MemoryStore) removeLocked(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(s.entries, entry.key)
	s.order.Remove(elem)
}

var _ Store = (*MemoryStore)(nil)
