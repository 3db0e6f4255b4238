// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoclue

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/weather-widget/internal/location"
)

const (
	name = "geoclue"

	busName         = "org.freedesktop.GeoClue2"
	managerPath     = "/org/freedesktop/GeoClue2/Manager"
	managerIface    = "org.freedesktop.GeoClue2.Manager"
	clientIface     = "org.freedesktop.GeoClue2.Client"
	locationIface   = "org.freedesktop.GeoClue2.Location"
	locationUpdated = "LocationUpdated"

	// accuracyLevelCity is GCLUE_ACCURACY_LEVEL_CITY
	accuracyLevelCity uint32 = 4
)

var ErrNoLocation = errors.New("geoclue did not report a location")

// GeolocationGeoClueProvider asks the GeoClue2 service on the system bus for the
// current position.
type GeolocationGeoClueProvider struct {
	name      string
	desktopID string
	locateFn  func(ctx context.Context) (lat, lon float64, err error)
}

// NewGeolocationGeoClueProvider returns a provider that identifies itself to GeoClue2
// with the given desktop ID.
func NewGeolocationGeoClueProvider(desktopID string) *GeolocationGeoClueProvider {
	provider := &GeolocationGeoClueProvider{
		name:      name,
		desktopID: desktopID,
	}
	provider.locateFn = provider.locate
	return provider
}

func (p *GeolocationGeoClueProvider) Name() string {
	return p.name
}

func (p *GeolocationGeoClueProvider) Locate(ctx context.Context) (location.Coordinate, error) {
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

// locate registers a GeoClue2 client, starts it and waits for the first LocationUpdated
// signal or the end of the context, whichever comes first.
func (p *GeolocationGeoClueProvider) locate(ctx context.Context) (lat, lon float64, err error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close system bus: %w", closeErr))
		}
	}()

	var clientPath dbus.ObjectPath
	manager := conn.Object(busName, managerPath)
	if err = manager.CallWithContext(ctx, managerIface+".GetClient", 0).Store(&clientPath); err != nil {
		return 0, 0, fmt.Errorf("failed to get geoclue client: %w", err)
	}
	client := conn.Object(busName, clientPath)
	if err = client.SetProperty(clientIface+".DesktopId", dbus.MakeVariant(p.desktopID)); err != nil {
		return 0, 0, fmt.Errorf("failed to set desktop id: %w", err)
	}
	if err = client.SetProperty(clientIface+".RequestedAccuracyLevel", dbus.MakeVariant(accuracyLevelCity)); err != nil {
		return 0, 0, fmt.Errorf("failed to set requested accuracy level: %w", err)
	}

	if err = conn.AddMatchSignalContext(ctx, dbus.WithMatchObjectPath(clientPath),
		dbus.WithMatchInterface(clientIface), dbus.WithMatchMember(locationUpdated)); err != nil {
		return 0, 0, fmt.Errorf("failed to subscribe to location updates: %w", err)
	}
	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	if err = client.CallWithContext(ctx, clientIface+".Start", 0).Err; err != nil {
		return 0, 0, fmt.Errorf("failed to start geoclue client: %w", err)
	}
	defer client.Call(clientIface+".Stop", 0)

	for {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return 0, 0, ErrNoLocation
			}
			locPath, ok := newLocationPath(sig)
			if !ok {
				continue
			}
			return readLocation(conn.Object(busName, locPath))
		}
	}
}

// newLocationPath extracts the new location object from a LocationUpdated(old, new) signal.
func newLocationPath(sig *dbus.Signal) (dbus.ObjectPath, bool) {
	if sig == nil || sig.Name != clientIface+"."+locationUpdated || len(sig.Body) != 2 {
		return "", false
	}
	path, ok := sig.Body[1].(dbus.ObjectPath)
	if !ok || path == "/" || !path.IsValid() {
		return "", false
	}
	return path, true
}

func readLocation(obj dbus.BusObject) (lat, lon float64, err error) {
	latVar, err := obj.GetProperty(locationIface + ".Latitude")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get latitude: %w", err)
	}
	lonVar, err := obj.GetProperty(locationIface + ".Longitude")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get longitude: %w", err)
	}
	if err = latVar.Store(&lat); err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	if err = lonVar.Store(&lon); err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	return lat, lon, nil
}
