package weather

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/tianbot/internal/core"
)

// Snapshot resolves the city and gathers current, forecast, index and
// warning data concurrently. Each part degrades on its own.
func (c *Client) Snapshot(ctx context.Context, city string) (*core.WeatherSnapshot, error) {
	loc := c.LookupCity(ctx, city)
	if loc == nil {
		return nil, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}

	snap := &core.WeatherSnapshot{Location: loc.Name}

	var g errgroup.Group
	g.Go(func() error {
		snap.Now = c.Now(ctx, loc.ID)
		return nil
	})
	g.Go(func() error {
		snap.Daily = c.Daily7d(ctx, loc.ID)
		return nil
	})
	g.Go(func() error {
		snap.Indices = c.Indices(ctx, loc.ID)
		return nil
	})
	g.Go(func() error {
		snap.Warning = c.Warnings(ctx, loc.ID)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snap, nil
}
