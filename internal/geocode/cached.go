package geocode

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"agent-router/internal/cache"
	"agent-router/internal/geo"
)

// Cached puts a coordinates cache in front of a Geocoder and collapses
// concurrent lookups of the same place into one upstream call. Misses
// and errors are not cached.
//
// The shared upstream call is detached from the cancellation of whichever
// caller started it and bounded by its own timeout; each caller stops
// waiting when its own context ends.
type Cached struct {
	next    Geocoder
	cache   cache.Cache
	timeout time.Duration
	log     *slog.Logger
	group   singleflight.Group
}

func NewCached(next Geocoder, c cache.Cache, timeout time.Duration, log *slog.Logger) *Cached {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cached{next: next, cache: c, timeout: timeout, log: log}
}

func (c *Cached) Geocode(ctx context.Context, place string) (geo.Coordinates, error) {
	coords, err := c.cache.GetCoordinates(ctx, place)
	if err != nil {
		c.log.Warn("geocode cache read failed", "place", place, "err", err)
	} else if coords != nil {
		c.log.Debug("geocode cache hit", "place", place)
		return *coords, nil
	}

	ch := c.group.DoChan(cache.Key(place), func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		coords, err := c.next.Geocode(lookupCtx, place)
		if err != nil {
			return nil, err
		}
		if err := c.cache.SetCoordinates(lookupCtx, place, coords); err != nil {
			c.log.Warn("geocode cache write failed", "place", place, "err", err)
		}
		return coords, nil
	})

	select {
	case <-ctx.Done():
		return geo.Coordinates{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return geo.Coordinates{}, res.Err
		}
		if res.Shared {
			c.log.Debug("geocode lookup shared", "place", place)
		}
		return res.Val.(geo.Coordinates), nil
	}
}
