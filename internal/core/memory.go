package core

import (
	"encoding/json"
	"time"
)

// MemoryRecord is a remembered statement with its embedding.
type MemoryRecord struct {
	Text      string
	Vector    []float32
	Metadata  map[string]any
	CreatedAt time.Time
}

type memoryRecordJSON struct {
	Text      string         `json:"text"`
	Vector    []float32      `json:"vector"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt int64          `json:"createdAt"`
}

// MarshalJSON stores createdAt as Unix milliseconds.
func (m MemoryRecord) MarshalJSON() ([]byte, error) {
	meta := m.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return json.Marshal(memoryRecordJSON{
		Text:      m.Text,
		Vector:    m.Vector,
		Metadata:  meta,
		CreatedAt: m.CreatedAt.UnixMilli(),
	})
}

func (m *MemoryRecord) UnmarshalJSON(data []byte) error {
	var raw memoryRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Text = raw.Text
	m.Vector = raw.Vector
	m.Metadata = raw.Metadata
	m.CreatedAt = time.UnixMilli(raw.CreatedAt)
	return nil
}
