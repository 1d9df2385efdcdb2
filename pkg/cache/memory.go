package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const (
	defaultTTL             = time.Hour
	defaultCleanupInterval = time.Minute
)

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	ttl        time.Duration
	cleanup    time.Duration
	maxEntries int
}

// WithDefaultTTL sets the expiry used when Set gets a zero ttl.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.ttl = d }
}

// WithCleanupInterval sets how often expired entries are swept.
// Zero disables the sweeper; expired entries are then dropped on access.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.cleanup = d }
}

// WithMaxEntries bounds the cache size. The least recently used entry is
// evicted when the bound is reached. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) { c.maxEntries = n }
}

type item[V any] struct {
	key     string
	value   V
	expires time.Time // zero: never
}

func (it *item[V]) expired(now time.Time) bool {
	return !it.expires.IsZero() && now.After(it.expires)
}

// Memory is a process-local Cache with LRU eviction.
type Memory[V any] struct {
	mu     sync.Mutex
	cfg    memoryConfig
	index  map[string]*list.Element
	lru    *list.List // front: most recently used
	stop   chan struct{}
	closed bool
}

// NewMemory creates an in-memory cache.
//
//	tokens := cache.NewMemory[Visitor](cache.WithCleanupInterval(time.Minute))
//	defer tokens.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{ttl: defaultTTL, cleanup: defaultCleanupInterval}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		cfg:   cfg,
		index: make(map[string]*list.Element),
		lru:   list.New(),
		stop:  make(chan struct{}),
	}
	if m.cfg.cleanup > 0 {
		go m.sweep(m.cfg.cleanup)
	}
	return m
}

// Get implements Cache. A hit marks the entry as recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el := m.live(key)
	if el == nil {
		var zero V
		return zero, ErrNotFound
	}
	m.lru.MoveToFront(el)
	return el.Value.(*item[V]).value, nil
}

// Set implements Cache.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.cfg.ttl
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if el, ok := m.index[key]; ok {
		it := el.Value.(*item[V])
		it.value, it.expires = value, expires
		m.lru.MoveToFront(el)
		return nil
	}

	if m.cfg.maxEntries > 0 && m.lru.Len() >= m.cfg.maxEntries {
		m.remove(m.lru.Back())
	}
	m.index[key] = m.lru.PushFront(&item[V]{key: key, value: value, expires: expires})
	return nil
}

// Take implements Cache.
func (m *Memory[V]) Take(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el := m.live(key)
	if el == nil {
		var zero V
		return zero, ErrNotFound
	}
	m.remove(el)
	return el.Value.(*item[V]).value, nil
}

// Delete implements Cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if el, ok := m.index[key]; ok {
		m.remove(el)
	}
	return nil
}

// Clear implements Cache.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	clear(m.index)
	m.lru.Init()
	return nil
}

// Len returns the number of stored entries, expired ones included until
// they are swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// Close stops the sweeper. Further writes fail with ErrClosed.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

// live returns the element for key, dropping it if it has expired.
// Caller holds mu.
func (m *Memory[V]) live(key string) *list.Element {
	el, ok := m.index[key]
	if !ok {
		return nil
	}
	if el.Value.(*item[V]).expired(time.Now()) {
		m.remove(el)
		return nil
	}
	return el
}

// remove drops el. Caller holds mu.
func (m *Memory[V]) remove(el *list.Element) {
	m.lru.Remove(el)
	delete(m.index, el.Value.(*item[V]).key)
}

func (m *Memory[V]) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.mu.Lock()
			for el := m.lru.Back(); el != nil; {
				prev := el.Prev()
				if el.Value.(*item[V]).expired(now) {
					m.remove(el)
				}
				el = prev
			}
			m.mu.Unlock()
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
