package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/sandevgo/tianbot/internal/core"
)

// MemoryStore keeps sessions in process. It evicts the least recently used
// session beyond MaxSessions and, on Sweep, sessions idle longer than IdleTTL.
// Zero limits disable the respective policy.
type MemoryStore struct {
	mu          sync.Mutex
	ll          *list.List
	items       map[string]*list.Element
	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
}

func NewMemoryStore(maxSessions int, idleTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		ll:          list.New(),
		items:       make(map[string]*list.Element),
		maxSessions: maxSessions,
		idleTTL:     idleTTL,
		now:         time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*core.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.items[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}

	s := el.Value.(*core.Session)
	if m.expired(s, m.now()) {
		m.removeElement(el)
		return nil, core.ErrSessionNotFound
	}

	m.ll.MoveToFront(el)
	return s.Clone(), nil
}

func (m *MemoryStore) Put(ctx context.Context, s *core.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[s.ID]; ok {
		el.Value = s.Clone()
		m.ll.MoveToFront(el)
		return nil
	}

	m.items[s.ID] = m.ll.PushFront(s.Clone())
	for m.maxSessions > 0 && m.ll.Len() > m.maxSessions {
		m.removeElement(m.ll.Back())
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.items[id]; ok {
		m.removeElement(el)
	}
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

// Sweep drops idle sessions and reports how many were removed.
func (m *MemoryStore) Sweep(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for el := m.ll.Back(); el != nil; {
		prev := el.Prev()
		if m.expired(el.Value.(*core.Session), now) {
			m.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (m *MemoryStore) expired(s *core.Session, now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(s.UpdatedAt) > m.idleTTL
}

func (m *MemoryStore) removeElement(el *list.Element) {
	m.ll.Remove(el)
	delete(m.items, el.Value.(*core.Session).ID)
}
