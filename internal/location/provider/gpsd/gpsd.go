// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/weather-widget/internal/location"
)

const (
	name        = "gpsd"
	DefaultHost = "localhost"
	DefaultPort = "2947"
	DialTimeout = time.Second * 5
)

var ErrWatchEnded = errors.New("gpsd watch ended without a fix")

type GeolocationGPSDProvider struct {
	name     string
	addr     string
	locateFn func(ctx context.Context) (lat, lon float64, err error)
}

func NewGeolocationGPSDProvider(host, port string) *GeolocationGPSDProvider {
	if host == "" {
		host = DefaultHost
	}
	if port == "" {
		port = DefaultPort
	}
	provider := &GeolocationGPSDProvider{
		name: name,
		addr: net.JoinHostPort(host, port),
	}
	provider.locateFn = provider.locate
	return provider
}

func (p *GeolocationGPSDProvider) Name() string {
	return p.name
}

func (p *GeolocationGPSDProvider) Locate(ctx context.Context) (location.Coordinate, error) {
	lat, lon, err := p.locateFn(ctx)
	if err != nil {
		return location.Coordinate{}, err
	}
	return location.Coordinate{
		Lat:    location.Truncate(lat, location.TruncPrecision),
		Lon:    location.Truncate(lon, location.TruncPrecision),
		Source: p.name,
	}, nil
}

// locate watches the gpsd stream until the first TPV report with at least a 2D fix. The
// session is closed before locate returns.
func (p *GeolocationGPSDProvider) locate(ctx context.Context) (float64, float64, error) {
	session, err := p.dial(ctx)
	if err != nil {
		return 0, 0, err
	}

	fixes := make(chan [2]float64, 1)
	session.AddFilter("TPV", func(r interface{}) {
		lat, lon, ok := fixFromReport(r)
		if !ok {
			return
		}
		select {
		case fixes <- [2]float64{lat, lon}:
		default:
		}
	})

	done := session.Watch()
	watching := true
	defer func() {
		_ = session.Close()
		// the watcher reports its end on an unbuffered channel
		if watching {
			<-done
		}
	}()

	select {
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	case fix := <-fixes:
		return fix[0], fix[1], nil
	case <-done:
		watching = false
		return 0, 0, ErrWatchEnded
	}
}

type dialResult struct {
	session *gpsd.Session
	err     error
}

// dial connects to gpsd. go-gpsd waits for the gpsd banner without a deadline, so the dial
// runs in the background and a session that arrives after ctx is done gets closed there.
func (p *GeolocationGPSDProvider) dial(ctx context.Context) (*gpsd.Session, error) {
	timeout := DialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	result := make(chan dialResult, 1)
	go func() {
		session, err := gpsd.DialTimeout(p.addr, timeout)
		result <- dialResult{session: session, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if res := <-result; res.err == nil {
				_ = res.session.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-result:
		if res.err != nil {
			return nil, fmt.Errorf("failed to connect to gpsd at %q: %w", p.addr, res.err)
		}
		return res.session, nil
	}
}

// fixFromReport returns the position of a TPV report with at least a 2D fix.
func fixFromReport(r interface{}) (lat, lon float64, ok bool) {
	tpv, isTPV := r.(*gpsd.TPVReport)
	if !isTPV || tpv == nil {
		return 0, 0, false
	}
	if tpv.Mode < gpsd.Mode2D {
		return 0, 0, false
	}
	return tpv.Lat, tpv.Lon, true
}
