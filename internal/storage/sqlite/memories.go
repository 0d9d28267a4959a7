package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/pkg/log"
)

type MemoryRepo struct {
	db *sql.DB
}

func NewMemoryRepo(db *sql.DB) *MemoryRepo {
	return &MemoryRepo{db: db}
}

func (r *MemoryRepo) Load(ctx context.Context) ([]core.MemoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT text, vector, metadata, created_at FROM memories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	var records []core.MemoryRecord
	for rows.Next() {
		var (
			rec       core.MemoryRecord
			blob      []byte
			meta      string
			createdMs int64
		)
		if err := rows.Scan(&rec.Text, &blob, &meta, &createdMs); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}

		if rec.Vector, err = deserializeVector(blob); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMs)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(records)).Msg("loaded memories from sqlite")
	return records, nil
}

// Save replaces the stored collection in one transaction.
func (r *MemoryRepo) Save(ctx context.Context, records []core.MemoryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM memories`); err != nil {
		return fmt.Errorf("failed to clear memories: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO memories (text, vector, metadata, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		blob, err := serializeVector(rec.Vector)
		if err != nil {
			return err
		}

		meta := rec.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, rec.Text, blob, string(metaJSON), rec.CreatedAt.UnixMilli()); err != nil {
			return fmt.Errorf("failed to insert memory: %w", err)
		}
	}

	return tx.Commit()
}
