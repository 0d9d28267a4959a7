package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tianbot/internal/core"
)

func TestTrim(t *testing.T) {
	tests := []struct {
		name  string
		count int
		limit int
		first string
		want  int
	}{
		{name: "under limit", count: 4, limit: 10, first: "m0", want: 4},
		{name: "at limit", count: 10, limit: 10, first: "m0", want: 10},
		{name: "over limit keeps newest", count: 12, limit: 10, first: "m2", want: 10},
		{name: "zero limit is a no-op", count: 3, limit: 0, first: "m0", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := make([]core.Message, tt.count)
			for i := range msgs {
				msgs[i] = core.Message{Role: core.RoleUser, Content: fmt.Sprintf("m%d", i)}
			}

			got := Trim(msgs, tt.limit)
			require.Len(t, got, tt.want)
			assert.Equal(t, tt.first, got[0].Content)
			assert.Equal(t, fmt.Sprintf("m%d", tt.count-1), got[len(got)-1].Content)
		})
	}
}

func TestManager_SixTurnsKeepLastTen(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 0)
	m := NewManager(store, MaxMessages)

	for i := 1; i <= 6; i++ {
		err := m.Do(ctx, "s1", func(s *core.Session) error {
			s.Messages = append(s.Messages,
				core.Message{Role: core.RoleUser, Content: fmt.Sprintf("q%d", i)},
				core.Message{Role: core.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
			)
			return nil
		})
		require.NoError(t, err)
	}

	s, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, s.Messages, 10)
	assert.Equal(t, "q2", s.Messages[0].Content)
	assert.Equal(t, "a6", s.Messages[9].Content)
}

func TestManager_FailedTurnIsNotSaved(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 0)
	m := NewManager(store, MaxMessages)

	boom := errors.New("boom")
	err := m.Do(ctx, "s1", func(s *core.Session) error {
		s.Messages = append(s.Messages, core.Message{Role: core.RoleUser, Content: "lost"})
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestManager_SerializesSameSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 0)
	m := NewManager(store, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(ctx, "shared", func(s *core.Session) error {
				s.Messages = append(s.Messages, core.Message{Role: core.RoleUser, Content: "x"})
				return nil
			})
		}()
	}
	wg.Wait()

	s, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, s.Messages, 50)
	assert.Empty(t, m.locks)
}

func TestManager_LockHonorsContext(t *testing.T) {
	store := NewMemoryStore(0, 0)
	m := NewManager(store, MaxMessages)

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = m.Do(context.Background(), "s1", func(s *core.Session) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := m.Do(ctx, "s1", func(s *core.Session) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestManager_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 0)
	m := NewManager(store, MaxMessages)

	require.NoError(t, m.Do(ctx, "s1", func(s *core.Session) error {
		s.LastCity = "上海"
		return nil
	}))
	require.NoError(t, m.Reset(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
