package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

type memoryEntry struct {
	key   string
	value []byte
}

// Memory is a bounded least-recently-used cache safe for concurrent use.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List
	entries    map[string]*list.Element
}

// NewMemory creates a cache holding at most maxEntries results.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheEntries
	}
	return &Memory{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Get returns a copy of the cached value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	m.order.MoveToFront(el)
	value := el.Value.(*memoryEntry).value
	return append([]byte(nil), value...), nil
}

// Set stores a copy of value, evicting the least recently used entry when full.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := append([]byte(nil), value...)
	if el, ok := m.entries[key]; ok {
		el.Value.(*memoryEntry).value = stored
		m.order.MoveToFront(el)
		return nil
	}

	m.entries[key] = m.order.PushFront(&memoryEntry{key: key, value: stored})
	for m.order.Len() > m.maxEntries {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoryEntry).key)
	}
	return nil
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
