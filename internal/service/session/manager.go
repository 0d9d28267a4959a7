package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/tianbot/internal/core"
)

// MaxMessages is how many messages a session keeps between turns.
const MaxMessages = 10

// NewID returns a fresh opaque session id.
func NewID() string {
	return uuid.NewString()
}

// Trim keeps the most recent limit messages in order.
func Trim(messages []core.Message, limit int) []core.Message {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return append([]core.Message(nil), messages[len(messages)-limit:]...)
}

// Manager serializes turns per session id on top of a repository.
type Manager struct {
	repo        core.SessionRepository
	maxMessages int
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewManager(repo core.SessionRepository, maxMessages int) *Manager {
	if maxMessages <= 0 {
		maxMessages = MaxMessages
	}
	return &Manager{
		repo:        repo,
		maxMessages: maxMessages,
		now:         time.Now,
		locks:       make(map[string]*keyLock),
	}
}

// Do loads (or creates) the session, runs fn while holding the session's
// lock and saves the result. When fn fails nothing is saved.
func (m *Manager) Do(ctx context.Context, id string, fn func(s *core.Session) error) error {
	if err := m.lock(ctx, id); err != nil {
		return err
	}
	defer m.unlock(id)

	s, err := m.repo.Get(ctx, id)
	if errors.Is(err, core.ErrSessionNotFound) {
		s = &core.Session{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if err := fn(s); err != nil {
		return err
	}

	s.Messages = Trim(s.Messages, m.maxMessages)
	s.UpdatedAt = m.now()
	if err := m.repo.Put(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Reset forgets the session entirely.
func (m *Manager) Reset(ctx context.Context, id string) error {
	if err := m.lock(ctx, id); err != nil {
		return err
	}
	defer m.unlock(id)
	return m.repo.Delete(ctx, id)
}

func (m *Manager) lock(ctx context.Context, id string) error {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.release(id, l)
		return ctx.Err()
	}
}

func (m *Manager) unlock(id string) {
	m.mu.Lock()
	l := m.locks[id]
	m.mu.Unlock()

	<-l.ch
	m.release(id, l)
}

func (m *Manager) release(id string, l *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, id)
	}
}
