package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/ports"
)

// DefaultRetryDelay is the pause between two location attempts.
const DefaultRetryDelay = time.Second

// LocationProbe reads the device position with a bounded number of retries.
type LocationProbe struct {
	provider ports.LocationProvider
	delay    time.Duration
}

// NewLocationProbe creates a probe. A non-positive delay selects
// DefaultRetryDelay.
func NewLocationProbe(provider ports.LocationProvider, delay time.Duration) *LocationProbe {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &LocationProbe{provider: provider, delay: delay}
}

// Acquire tries the provider once, then up to maxRetries more times while
// it fails with anything other than a permission refusal. The returned
// error is always a *domain.LocationError.
func (p *LocationProbe) Acquire(ctx context.Context, maxRetries int) (domain.Coordinate, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for attempt := 1; ; attempt++ {
		pos, err := p.provider.CurrentPosition(ctx)
		if err == nil {
			slog.Debug("location acquired", "attempt", attempt, "lat", pos.Lat, "lon", pos.Lon)
			return pos, nil
		}

		if errors.Is(err, domain.ErrPermissionDenied) {
			return domain.Coordinate{}, &domain.LocationError{
				Kind: domain.LocationPermissionDenied, Attempts: attempt, Err: err,
			}
		}

		if attempt > maxRetries {
			return domain.Coordinate{}, &domain.LocationError{
				Kind: domain.LocationUnavailable, Attempts: attempt, Err: err,
			}
		}

		slog.Debug("location attempt failed, retrying",
			"attempt", attempt, "retry_in", p.delay.String(), "error", err)

		if timer == nil {
			timer = time.NewTimer(p.delay)
		} else {
			timer.Reset(p.delay)
		}

		select {
		case <-ctx.Done():
			return domain.Coordinate{}, &domain.LocationError{
				Kind: domain.LocationUnavailable, Attempts: attempt, Err: ctx.Err(),
			}
		case <-timer.C:
		}
	}
}
