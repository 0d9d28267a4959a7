package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/pkg/log"
)

const (
	DefaultThreshold = 0.6
	DefaultK         = 3
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Match is a stored record with its similarity to the query.
type Match struct {
	core.MemoryRecord
	Similarity float64
}

// Store keeps user memories in memory and mirrors every change to its
// repository. Search is exact: every record is scored.
type Store struct {
	mu        sync.RWMutex
	records   []core.MemoryRecord
	embedder  core.Embedder
	repo      core.MemoryRepository
	threshold float64
	now       func() time.Time
}

type Option func(*Store)

// WithThreshold sets the similarity a match must exceed.
func WithThreshold(threshold float64) Option {
	return func(s *Store) { s.threshold = threshold }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads the persisted collection. A repository that cannot be read
// leaves the store empty instead of failing startup.
func NewStore(ctx context.Context, embedder core.Embedder, repo core.MemoryRepository, opts ...Option) *Store {
	s := &Store{
		embedder:  embedder,
		repo:      repo,
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	logger := log.FromCtx(ctx)
	records, err := repo.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load memories, starting empty")
		return s
	}
	s.records = records
	logger.Info().Int("count", len(records)).Msg("loaded memories")
	return s
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// AddText embeds text, appends it and persists the whole collection before
// returning. Nothing is kept in memory when embedding or persisting fails.
func (s *Store) AddText(ctx context.Context, text string, metadata map[string]any) Result {
	logger := log.FromCtx(ctx)

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		logger.Error().Err(err).Str("text", text).Msg("failed to embed memory")
		return failed(fmt.Errorf("failed to embed memory: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) > 0 && len(s.records[0].Vector) != len(vector) {
		err := fmt.Errorf("%w: got %d, store uses %d", ErrDimensionMismatch, len(vector), len(s.records[0].Vector))
		logger.Error().Err(err).Msg("rejected memory")
		return failed(err)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}
	s.records = append(s.records, core.MemoryRecord{
		Text:      text,
		Vector:    vector,
		Metadata:  metadata,
		CreatedAt: s.now(),
	})

	if err := s.repo.Save(ctx, s.records); err != nil {
		s.records = s.records[:len(s.records)-1]
		logger.Error().Err(err).Msg("failed to persist memories")
		return failed(fmt.Errorf("failed to persist memories: %w", err))
	}

	logger.Debug().Str("text", text).Int("count", len(s.records)).Msg("memory added")
	return success()
}

// Search scores every record against the query, keeps the k best and drops
// those not above the threshold. Equal scores keep insertion order.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Match, Result) {
	if k <= 0 {
		k = DefaultK
	}

	s.mu.RLock()
	records := make([]core.MemoryRecord, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	if len(records) == 0 {
		return nil, empty()
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("query", query).Msg("failed to embed memory query")
		return nil, failed(fmt.Errorf("failed to embed query: %w", err))
	}

	scored := make([]Match, len(records))
	for i, rec := range records {
		scored[i] = Match{MemoryRecord: rec, Similarity: Cosine(vector, rec.Vector)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	matches := make([]Match, 0, len(scored))
	for _, m := range scored {
		if m.Similarity > s.threshold {
			matches = append(matches, m)
		}
	}

	if len(matches) == 0 {
		return nil, empty()
	}
	return matches, success()
}
