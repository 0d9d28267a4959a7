package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tianbot/internal/core"
)

func TestMemoryRepo_LoadMissing(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepo(filepath.Join(t.TempDir(), "vector_db.json"))

	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestMemoryRepo_LoadCorrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "vector_db.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"text": "broken`), 0644))

	_, err := NewMemoryRepo(path).Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse memory document")
}

func TestMemoryRepo_SaveAndLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "vector_db.json")
	repo := NewMemoryRepo(path)
	ctx := context.Background()

	created := time.UnixMilli(1718000000123)
	in := []core.MemoryRecord{
		{Text: "喜欢爬山", Vector: []float32{0.5, -0.25}, Metadata: map[string]any{"source": "chat"}, CreatedAt: created},
		{Text: "怕冷", Vector: []float32{1, 0}, CreatedAt: created},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "喜欢爬山", out[0].Text)
	assert.Equal(t, []float32{0.5, -0.25}, out[0].Vector)
	assert.Equal(t, "chat", out[0].Metadata["source"])
	assert.True(t, out[1].CreatedAt.Equal(created))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestMemoryRepo_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	repo := NewMemoryRepo(filepath.Join(dir, "vector_db.json"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, []core.MemoryRecord{{Text: "x", Vector: []float32{1}}}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vector_db.json", entries[0].Name())
}

func TestMemoryRepo_SaveEmptyWritesArray(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "vector_db.json")
	require.NoError(t, NewMemoryRepo(path).Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestMemoryRepo_SaveCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryRepo(filepath.Join(t.TempDir(), "m.json")).Save(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
