// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/weather-widget/internal/http"
	"github.com/wneessen/weather-widget/internal/location"
)

const (
	name          = "geoip"
	APIEndpoint   = "https://reallyfreegeoip.org/json/"
	LookupTimeout = time.Second * 5
)

var ErrNoLocation = errors.New("geoip lookup did not return a location")

type GeolocationGeoIPProvider struct {
	name     string
	endpoint string
	http     *http.Client
}

type APIResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country_name"`
	RegionCode  string  `json:"region_code,omitempty"`
	Region      string  `json:"region_name,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func NewGeolocationGeoIPProvider(http *http.Client) (*GeolocationGeoIPProvider, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	return &GeolocationGeoIPProvider{
		name:     name,
		endpoint: APIEndpoint,
		http:     http,
	}, nil
}

func (p *GeolocationGeoIPProvider) Name() string {
	return p.name
}

// Locate looks up the public IP address of the host. A result without a country is
// treated as no location at all.
func (p *GeolocationGeoIPProvider) Locate(ctx context.Context) (location.Coordinate, error) {
	result := new(APIResult)
	if _, err := p.http.GetWithTimeout(ctx, p.endpoint, result, nil, nil, LookupTimeout); err != nil {
		return location.Coordinate{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}
	if result.CountryCode == "" {
		return location.Coordinate{}, ErrNoLocation
	}

	return location.Coordinate{
		Lat:    location.Truncate(result.Latitude, location.TruncPrecision),
		Lon:    location.Truncate(result.Longitude, location.TruncPrecision),
		Source: p.name,
	}, nil
}
