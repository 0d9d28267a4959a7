package core

import "context"

// MemoryRepository persists the whole memory collection at once.
type MemoryRepository interface {
	Load(ctx context.Context) ([]MemoryRecord, error)
	Save(ctx context.Context, records []MemoryRecord) error
}

// SessionRepository stores sessions by id. Get returns ErrSessionNotFound
// for unknown or expired ids.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
