// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wneessen/weather-widget/internal/location"
)

// RateLimited wraps a Provider and limits how often the API is queried. A call that would
// exceed the limit waits for a token until the context ends. It never retries.
type RateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

func NewRateLimited(next Provider, perMinute int) (*RateLimited, error) {
	if next == nil {
		return nil, errors.New("weather provider is required")
	}
	if perMinute <= 0 {
		return nil, errors.New("rate limit must be positive")
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, 1)}, nil
}

func (r *RateLimited) Name() string {
	return r.next.Name()
}

func (r *RateLimited) GetForecast(ctx context.Context, coords location.Coordinate) (*Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s aborted: %w", r.next.Name(), err)
	}
	return r.next.GetForecast(ctx, coords)
}
