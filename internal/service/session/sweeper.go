package session

import (
	"context"
	"time"

	"github.com/sandevgo/tianbot/pkg/log"
)

const defaultSweepInterval = 5 * time.Minute

type sweepable interface {
	Sweep(ctx context.Context) int
}

// Sweeper periodically evicts idle sessions from a MemoryStore.
type Sweeper struct {
	store    sweepable
	Interval time.Duration
}

func NewSweeper(store sweepable) *Sweeper {
	return &Sweeper{
		store:    store,
		Interval: defaultSweepInterval,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Dur("interval", s.Interval).Msg("starting session sweeper")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.store.Sweep(ctx); n > 0 {
				logger.Debug().Int("evicted", n).Msg("evicted idle sessions")
			}
		}
	}
}

func (s *Sweeper) Shutdown(ctx context.Context) error {
	return nil
}
