package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tianbot/internal/core"
)

func newTestDB(t *testing.T) *MemoryRepo {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "tian.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMemoryRepo(db)
}

func TestMemoryRepo_EmptyLoad(t *testing.T) {
	repo := newTestDB(t)

	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryRepo_SaveReplacesCollection(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()
	created := time.UnixMilli(1718000000123)

	first := []core.MemoryRecord{
		{Text: "喜欢爬山", Vector: []float32{0.5, -0.25, 1}, Metadata: map[string]any{"source": "chat"}, CreatedAt: created},
	}
	require.NoError(t, repo.Save(ctx, first))

	second := append(first, core.MemoryRecord{Text: "怕冷", Vector: []float32{1, 0, 0}, CreatedAt: created.Add(time.Second)})
	require.NoError(t, repo.Save(ctx, second))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "喜欢爬山", out[0].Text)
	assert.Equal(t, []float32{0.5, -0.25, 1}, out[0].Vector)
	assert.Equal(t, "chat", out[0].Metadata["source"])
	assert.True(t, out[0].CreatedAt.Equal(created))

	assert.Equal(t, "怕冷", out[1].Text)
	assert.NotNil(t, out[1].Metadata)
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e-7}
	blob, err := serializeVector(in)
	require.NoError(t, err)
	assert.Len(t, blob, 16)

	out, err := deserializeVector(blob)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = deserializeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}
