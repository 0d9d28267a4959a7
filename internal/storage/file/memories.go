package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/pkg/log"
)

// MemoryRepo keeps the memory collection as one JSON document.
type MemoryRepo struct {
	path string
	mu   sync.RWMutex
}

func NewMemoryRepo(path string) *MemoryRepo {
	return &MemoryRepo{path: path}
}

// Load returns nil without error when the document does not exist yet.
func (r *MemoryRepo) Load(ctx context.Context) ([]core.MemoryRecord, error) {
	r.mu.RLock()
	data, err := os.ReadFile(r.path)
	r.mu.RUnlock()

	if err != nil {
		if os.IsNotExist(err) {
			log.FromCtx(ctx).Debug().Str("path", r.path).Msg("memory document not found")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read memory document: %w", err)
	}

	var records []core.MemoryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse memory document: %w", err)
	}
	return records, nil
}

// Save rewrites the document through a temp file and rename, so a crash
// leaves either the old or the new collection on disk.
func (r *MemoryRepo) Save(ctx context.Context, records []core.MemoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if records == nil {
		records = []core.MemoryRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memories: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to replace memory document: %w", err)
	}
	return nil
}
