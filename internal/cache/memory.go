package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/surfwatch/internal/marine"
)

// Memory is a thread-safe LRU with a fixed time-to-live per entry.
type Memory struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	ll      *list.List // front is most recently used
	entries map[string]*list.Element
}

type entry struct {
	key     string
	value   []marine.Observation
	expires time.Time
}

// NewMemory creates an in-memory cache. A nil clock uses the real clock.
func NewMemory(maxEntries int, ttl time.Duration, clock clockwork.Clock) *Memory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memory{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		ll:         list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Get returns a copy of the cached value if it is still fresh.
func (m *Memory) Get(_ context.Context, key string) ([]marine.Observation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if !m.clock.Now().Before(e.expires) {
		m.removeElement(el)
		return nil, false
	}
	m.ll.MoveToFront(el)
	return marine.CloneObservations(e.value), true
}

// Set stores a copy of value, evicting the least recently used entry when full.
func (m *Memory) Set(_ context.Context, key string, value []marine.Observation) {
	if m.ttl <= 0 || m.maxEntries <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	value = marine.CloneObservations(value)
	expires := m.clock.Now().Add(m.ttl)

	if el, ok := m.entries[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expires = expires
		m.ll.MoveToFront(el)
		return
	}

	m.entries[key] = m.ll.PushFront(&entry{key: key, value: value, expires: expires})
	for m.ll.Len() > m.maxEntries {
		m.removeElement(m.ll.Back())
	}
}

// Len reports the number of entries, including ones that expired but were not yet touched.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

func (m *Memory) removeElement(el *list.Element) {
	m.ll.Remove(el)
	delete(m.entries, el.Value.(*entry).key)
}
