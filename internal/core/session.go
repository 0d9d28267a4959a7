package core

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the per-client conversation state kept between turns.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	LastCity  string    `json:"lastCity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = append([]Message(nil), s.Messages...)
	return &c
}
