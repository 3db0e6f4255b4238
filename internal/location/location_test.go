// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package location

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/wneessen/weather-widget/internal/logger"
)

var warsaw = Coordinate{Lat: 52.2297, Lon: 21.0122}

type mockProvider struct {
	name   string
	coord  Coordinate
	err    error
	block  bool
	panics bool
	called int
}

func (m *mockProvider) Name() string { return m.name }

// stuckProvider ignores ctx and only answers once release is closed.
type stuckProvider struct {
	release chan struct{}
}

func (s *stuckProvider) Name() string { return "stuck" }

func (s *stuckProvider) Locate(context.Context) (Coordinate, error) {
	<-s.release
	return Coordinate{Lat: 1, Lon: 1}, nil
}

func (m *mockProvider) Locate(ctx context.Context) (Coordinate, error) {
	m.called++
	if m.panics {
		panic("intentionally panicking")
	}
	if m.block {
		<-ctx.Done()
		return Coordinate{}, ctx.Err()
	}
	return m.coord, m.err
}

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		valid bool
	}{
		{"warsaw", warsaw, true},
		{"null island", Coordinate{}, true},
		{"south west corner", Coordinate{Lat: -90, Lon: -180}, true},
		{"latitude too large", Coordinate{Lat: 90.1, Lon: 0}, false},
		{"longitude too small", Coordinate{Lat: 0, Lon: -180.5}, false},
		{"NaN latitude", Coordinate{Lat: math.NaN(), Lon: 0}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.coord.Valid() != tc.valid {
				t.Errorf("expected valid to be %t for %s", tc.valid, tc.coord)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate(52.229799, TruncPrecision); got != 52.2297 {
		t.Errorf("expected truncated value to be 52.2297, got %f", got)
	}
	if got := Truncate(-21.01229, TruncPrecision); got != -21.0122 {
		t.Errorf("expected truncated value to be -21.0122, got %f", got)
	}
}

func TestNewResolver(t *testing.T) {
	t.Run("new resolver succeeds", func(t *testing.T) {
		r, err := NewResolver(logger.New(slog.LevelInfo), warsaw, 0)
		if err != nil {
			t.Fatalf("failed to create resolver: %s", err)
		}
		if r.timeout != DefaultTimeout {
			t.Errorf("expected default timeout %s, got %s", DefaultTimeout, r.timeout)
		}
	})
	t.Run("nil logger fails", func(t *testing.T) {
		if _, err := NewResolver(nil, warsaw, time.Second); err == nil {
			t.Fatal("expected resolver creation to fail")
		}
	})
	t.Run("invalid fallback fails", func(t *testing.T) {
		_, err := NewResolver(logger.New(slog.LevelInfo), Coordinate{Lat: 100}, time.Second)
		if err == nil {
			t.Fatal("expected resolver creation to fail")
		}
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("first successful provider wins", func(t *testing.T) {
		failing := &mockProvider{name: "failing", err: errors.New("intentionally failing")}
		working := &mockProvider{name: "working", coord: Coordinate{Lat: 40.7185, Lon: -74.0025}}
		unused := &mockProvider{name: "unused", coord: Coordinate{Lat: 1, Lon: 1}}

		r, err := NewResolver(logger.New(slog.LevelInfo), warsaw, time.Second, failing, working, unused)
		if err != nil {
			t.Fatalf("failed to create resolver: %s", err)
		}
		coord := r.Resolve(t.Context())
		if coord.Lat != 40.7185 || coord.Lon != -74.0025 {
			t.Errorf("expected coordinates of working provider, got %s", coord)
		}
		if coord.Source != "working" {
			t.Errorf("expected source to be %q, got %q", "working", coord.Source)
		}
		if unused.called != 0 {
			t.Error("expected providers after the first success to be skipped")
		}
	})
	t.Run("no providers falls back with a warning", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		r, err := NewResolver(logger.NewLogger(slog.LevelInfo, buf), warsaw, time.Second)
		if err != nil {
			t.Fatalf("failed to create resolver: %s", err)
		}
		coord := r.Resolve(t.Context())
		if coord.Lat != warsaw.Lat || coord.Lon != warsaw.Lon {
			t.Errorf("expected fallback coordinates, got %s", coord)
		}
		if coord.Source != SourceFallback {
			t.Errorf("expected source to be %q, got %q", SourceFallback, coord.Source)
		}
		if !strings.Contains(buf.String(), "level=WARN") {
			t.Errorf("expected a warning to be logged, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), ErrNoProviders.Error()) {
			t.Errorf("expected log to contain %q, got %q", ErrNoProviders, buf.String())
		}
	})
	t.Run("all providers failing falls back", func(t *testing.T) {
		providers := []Provider{
			&mockProvider{name: "one", err: errors.New("intentionally failing")},
			&mockProvider{name: "invalid", coord: Coordinate{Lat: 123, Lon: 0}},
			&mockProvider{name: "panics", panics: true},
		}
		buf := bytes.NewBuffer(nil)
		r, err := NewResolver(logger.NewLogger(slog.LevelInfo, buf), warsaw, time.Second, providers...)
		if err != nil {
			t.Fatalf("failed to create resolver: %s", err)
		}
		coord := r.Resolve(t.Context())
		if coord.Source != SourceFallback {
			t.Errorf("expected fallback coordinates, got %s from %s", coord, coord.Source)
		}
		if !strings.Contains(buf.String(), ErrInvalidCoordinates.Error()) {
			t.Errorf("expected log to contain %q, got %q", ErrInvalidCoordinates, buf.String())
		}
	})
	t.Run("timeout falls back", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			blocking := &mockProvider{name: "blocking", block: true}
			never := &mockProvider{name: "never", coord: Coordinate{Lat: 1, Lon: 1}}
			r, err := NewResolver(logger.NewLogger(slog.LevelInfo, bytes.NewBuffer(nil)), warsaw,
				time.Second*5, blocking, never)
			if err != nil {
				t.Fatalf("failed to create resolver: %s", err)
			}

			start := time.Now()
			coord := r.Resolve(t.Context())
			if coord.Source != SourceFallback {
				t.Errorf("expected fallback coordinates, got %s from %s", coord, coord.Source)
			}
			if elapsed := time.Since(start); elapsed != time.Second*5 {
				t.Errorf("expected resolution to take the full timeout, took %s", elapsed)
			}
			if never.called != 0 {
				t.Error("expected no provider to be asked after the timeout expired")
			}
		})
	})
	t.Run("timeout falls back even if a provider ignores the context", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			stuck := &stuckProvider{release: make(chan struct{})}
			buf := bytes.NewBuffer(nil)
			r, err := NewResolver(logger.NewLogger(slog.LevelInfo, buf), warsaw, time.Second*3, stuck)
			if err != nil {
				t.Fatalf("failed to create resolver: %s", err)
			}

			start := time.Now()
			coord := r.Resolve(t.Context())
			if elapsed := time.Since(start); elapsed != time.Second*3 {
				t.Errorf("expected resolution to end after the timeout, took %s", elapsed)
			}
			if coord.Source != SourceFallback {
				t.Errorf("expected fallback coordinates, got %s from %s", coord, coord.Source)
			}
			if !strings.Contains(buf.String(), context.DeadlineExceeded.Error()) {
				t.Errorf("expected log to name the timeout, got %q", buf.String())
			}

			// the late answer is dropped
			close(stuck.release)
			synctest.Wait()
		})
	})
}
