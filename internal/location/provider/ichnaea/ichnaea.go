// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ichnaea

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdlayher/wifi"

	"github.com/wneessen/weather-widget/internal/http"
	"github.com/wneessen/weather-widget/internal/location"
)

const (
	name          = "ichnaea"
	APIEndpoint   = "https://api.beacondb.net/v1/geolocate"
	LookupTimeout = time.Second * 5
)

var ErrNoLocation = errors.New("geolocate API did not return a location")

// GeolocationICHNAEAProvider locates the host through an Ichnaea compatible geolocate API
// (BeaconDB), using visible WiFi access points and the public IP address.
type GeolocationICHNAEAProvider struct {
	name     string
	endpoint string
	http     *http.Client
	scanFn   func() ([]WirelessNetwork, error)
}

type APIResult struct {
	Location struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
}

type WirelessNetwork struct {
	LastSeen       int64  `json:"age"`
	MACAddress     string `json:"macAddress"`
	SignalStrength int32  `json:"signalStrength"`
}

type request struct {
	ConsiderIP   bool              `json:"considerIp"`
	Accesspoints []WirelessNetwork `json:"wifiAccessPoints,omitempty"`
}

func NewGeolocationICHNAEAProvider(http *http.Client) (*GeolocationICHNAEAProvider, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	return &GeolocationICHNAEAProvider{
		name:     name,
		endpoint: APIEndpoint,
		http:     http,
		scanFn:   wifiAccessPoints,
	}, nil
}

func (p *GeolocationICHNAEAProvider) Name() string {
	return p.name
}

// Locate posts the visible access points to the geolocate API. A failing WiFi scan is not
// fatal, the API then falls back to the IP address.
func (p *GeolocationICHNAEAProvider) Locate(ctx context.Context) (location.Coordinate, error) {
	aps, err := p.scanFn()
	if err != nil {
		aps = nil
	}

	body := bytes.NewBuffer(nil)
	if err = json.NewEncoder(body).Encode(request{ConsiderIP: true, Accesspoints: aps}); err != nil {
		return location.Coordinate{}, fmt.Errorf("failed to encode wifi list to JSON: %w", err)
	}

	result := new(APIResult)
	if _, err = p.http.PostWithTimeout(ctx, p.endpoint, result, body,
		map[string]string{"Content-Type": "application/json"}, LookupTimeout); err != nil {
		return location.Coordinate{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}
	if result.Accuracy <= 0 {
		return location.Coordinate{}, ErrNoLocation
	}

	return location.Coordinate{
		Lat:    location.Truncate(result.Location.Latitude, location.TruncPrecision),
		Lon:    location.Truncate(result.Location.Longitude, location.TruncPrecision),
		Source: p.name,
	}, nil
}

// wifiAccessPoints lists the access points seen by all station interfaces. Hidden networks
// and networks that opted out with the "_nomap" suffix are skipped.
func wifiAccessPoints() ([]WirelessNetwork, error) {
	wlan, err := wifi.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create wifi client: %w", err)
	}
	defer func() {
		_ = wlan.Close()
	}()

	ifaces, err := wlan.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var list []WirelessNetwork
	for _, iface := range ifaces {
		if iface.Type != wifi.InterfaceTypeStation {
			continue
		}
		aps, err := wlan.AccessPoints(iface)
		if err != nil {
			continue
		}
		for _, ap := range aps {
			if ap.SSID == "" || ap.SSID[0] == '\x00' || strings.HasSuffix(ap.SSID, "_nomap") {
				continue
			}
			list = append(list, WirelessNetwork{
				SignalStrength: ap.Signal / 100,
				MACAddress:     ap.BSSID.String(),
				LastSeen:       ap.LastSeen.Milliseconds(),
			})
		}
	}

	return list, nil
}
