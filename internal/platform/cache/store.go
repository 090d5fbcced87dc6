package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crease-analytics/rinkline/internal/platform/resilience"
)

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Store is a bounded LRU with optional TTL. When the capacity is reached the
// least recently used entry is evicted; a capacity of 0 disables the bound.
// Concurrent loads of the same key are deduplicated.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List
	capacity int
	ttl      time.Duration
	flight   resilience.SingleFlight
}

func NewStore(capacity int, ttl time.Duration) *Store {
	return &Store{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.removeLocked(elem)
		return nil, false
	}

	s.order.MoveToFront(elem)
	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		s.order.MoveToFront(elem)
		return
	}

	elem := s.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	s.entries[key] = elem

	if s.capacity > 0 && s.order.Len() > s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.removeLocked(oldest)
		}
	}
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.entries[key]; ok {
		s.removeLocked(elem)
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *Store) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	s.order.Remove(elem)
	delete(s.entries, e.key)
}

// GetOrLoad returns the cached value or runs the loader once per key, even
// under concurrent callers. Loader failures are not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
