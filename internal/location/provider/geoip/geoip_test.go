// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"
	"strings"
	"testing"

	"github.com/wneessen/weather-widget/internal/http"
	"github.com/wneessen/weather-widget/internal/logger"
	"github.com/wneessen/weather-widget/internal/testhelper"
)

const testFile = "../../../../testdata/geoip.json"

func TestNewGeolocationGeoIPProvider(t *testing.T) {
	t.Run("new provider succeeds", func(t *testing.T) {
		provider, err := NewGeolocationGeoIPProvider(http.New(logger.New(slog.LevelInfo)))
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		if !strings.EqualFold(provider.Name(), name) {
			t.Errorf("expected provider name to be %s, got %s", name, provider.Name())
		}
	})
	t.Run("provider without http client fails", func(t *testing.T) {
		if _, err := NewGeolocationGeoIPProvider(nil); err == nil {
			t.Fatal("expected provider creation to fail")
		}
	})
}

func TestGeolocationGeoIPProvider_Locate(t *testing.T) {
	t.Run("locate succeeds", func(t *testing.T) {
		provider := testProvider(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			data, err := os.Open(testFile)
			if err != nil {
				t.Fatalf("failed to open JSON response file: %s", err)
			}
			return &stdhttp.Response{StatusCode: 200, Body: data, Header: make(stdhttp.Header)}, nil
		})
		coord, err := provider.Locate(t.Context())
		if err != nil {
			t.Fatalf("failed to locate: %s", err)
		}
		if coord.Lat != 52.2298 {
			t.Errorf("expected latitude to be truncated to 52.2298, got %f", coord.Lat)
		}
		if coord.Lon != 21.0123 {
			t.Errorf("expected longitude to be truncated to 21.0123, got %f", coord.Lon)
		}
		if coord.Source != name {
			t.Errorf("expected source to be %s, got %s", name, coord.Source)
		}
	})
	t.Run("empty result fails", func(t *testing.T) {
		provider := testProvider(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(`{"ip":"192.0.2.1"}`)),
				Header:     make(stdhttp.Header),
			}, nil
		})
		if _, err := provider.Locate(t.Context()); !errors.Is(err, ErrNoLocation) {
			t.Errorf("expected error to be %s, got %s", ErrNoLocation, err)
		}
	})
	t.Run("failing API fails", func(t *testing.T) {
		provider := testProvider(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		})
		if _, err := provider.Locate(t.Context()); err == nil {
			t.Fatal("expected locate to fail")
		}
	})
}

func testProvider(t *testing.T, fn func(*stdhttp.Request) (*stdhttp.Response, error)) *GeolocationGeoIPProvider {
	t.Helper()
	client := http.New(logger.NewLogger(slog.LevelInfo, io.Discard))
	client.Transport = testhelper.MockRoundTripper{Fn: fn}
	provider, err := NewGeolocationGeoIPProvider(client)
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	return provider
}
