// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/weather-widget/internal/logger"
)

const (
	// DefaultTimeout bounds a full resolution across all providers.
	DefaultTimeout = time.Second * 8
	// SourceFallback marks coordinates taken from the configured default.
	SourceFallback = "fallback"
)

var (
	ErrNoProviders        = errors.New("no location providers available")
	ErrInvalidCoordinates = errors.New("provider returned invalid coordinates")
)

// Provider is implemented by each host location service.
type Provider interface {
	Name() string
	Locate(ctx context.Context) (Coordinate, error)
}

// Resolver turns the configured providers into exactly one Coordinate per call.
type Resolver struct {
	providers []Provider
	fallback  Coordinate
	timeout   time.Duration
	logger    *logger.Logger
}

// NewResolver returns a Resolver that asks the providers in order and falls back to the
// given coordinate when none of them answers in time.
func NewResolver(log *logger.Logger, fallback Coordinate, timeout time.Duration, providers ...Provider) (*Resolver, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if !fallback.Valid() {
		return nil, fmt.Errorf("invalid fallback coordinates: %s", fallback)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	fallback.Source = SourceFallback

	return &Resolver{
		providers: providers,
		fallback:  fallback,
		timeout:   timeout,
		logger:    log,
	}, nil
}

// Resolve returns the first valid coordinate reported by a provider. If every provider
// fails, or the timeout expires first, the fallback coordinate is returned and a warning
// is logged. Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context) Coordinate {
	ctxLocate, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	coord, err := r.locate(ctxLocate)
	if err != nil {
		r.logger.Warn("unable to determine location, using fallback coordinates", logger.Err(err),
			slog.Float64("latitude", r.fallback.Lat), slog.Float64("longitude", r.fallback.Lon))
		return r.fallback
	}

	r.logger.Debug("location resolved", slog.String("source", coord.Source),
		slog.Float64("latitude", coord.Lat), slog.Float64("longitude", coord.Lon))
	return coord
}

func (r *Resolver) locate(ctx context.Context) (Coordinate, error) {
	if len(r.providers) == 0 {
		return Coordinate{}, ErrNoProviders
	}

	var errs []error
	for _, p := range r.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("location lookup aborted: %w", err))
			break
		}

		coord, err := r.safeLocate(ctx, p)
		if err != nil {
			r.logger.Debug("location provider failed", slog.String("provider", p.Name()), logger.Err(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if !coord.Valid() {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), ErrInvalidCoordinates))
			continue
		}
		if coord.Source == "" {
			coord.Source = p.Name()
		}
		return coord, nil
	}

	return Coordinate{}, errors.Join(errs...)
}

type locateResult struct {
	coord Coordinate
	err   error
}

// safeLocate invokes the provider and turns a panic into an error. It returns once ctx is
// done, even if the provider does not honour ctx. Such a provider finishes in the background.
func (r *Resolver) safeLocate(ctx context.Context, p Provider) (Coordinate, error) {
	result := make(chan locateResult, 1)
	go func() {
		var res locateResult
		defer func() {
			if rec := recover(); rec != nil {
				res = locateResult{err: fmt.Errorf("provider panicked: %v", rec)}
			}
			result <- res
		}()
		res.coord, res.err = p.Locate(ctx)
	}()

	select {
	case <-ctx.Done():
		return Coordinate{}, ctx.Err()
	case res := <-result:
		return res.coord, res.err
	}
}
