package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

// Fetcher loads a trip's current itinerary.
type Fetcher interface {
	TripItineraries(ctx context.Context, tripID int64) (*domain.Trip, error)
}

// Poller waits for itinerary generation to finish by refetching on a
// fixed interval. There is no backoff.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller returns a Poller. interval <= 0 uses five minutes.
func NewPoller(f Fetcher, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{fetcher: f, interval: interval, logger: logger}
}

// WaitForItinerary fetches tripID immediately and then every interval until
// the trip has at least one itinerary day or ctx ends. Fetch errors are
// logged and retried on the next tick, except a rejected session, which
// ends the wait.
func (p *Poller) WaitForItinerary(ctx context.Context, tripID int64) (*domain.Trip, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("waiting for itinerary",
		slog.Int64("trip_id", tripID),
		slog.Duration("interval", p.interval),
	)

	attempt := 0
	for {
		attempt++
		t, err := p.fetcher.TripItineraries(ctx, tripID)
		switch {
		case err == nil && t != nil && t.Ready():
			p.logger.Info("itinerary ready", slog.Int64("trip_id", tripID), slog.Int("attempts", attempt))
			return t, nil
		case err != nil && errors.Is(err, client.ErrUnauthorized):
			return nil, fmt.Errorf("trip.WaitForItinerary: %w", err)
		case err != nil && ctx.Err() == nil:
			p.logger.Warn("itinerary fetch failed, will retry",
				slog.Int64("trip_id", tripID),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("trip.WaitForItinerary: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
