// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geolocation_file

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wneessen/weather-widget/internal/location"
)

const name = "geolocation_file"

var ErrNoCoordinates = errors.New("no valid coordinates found in geolocation file")

// GeolocationFileProvider reads a fixed position from a user maintained file. The first
// non-comment line of the form "lat,lon" is used.
type GeolocationFileProvider struct {
	name string
	path string
}

// NewGeolocationFileProvider returns a provider reading from path.
func NewGeolocationFileProvider(path string) *GeolocationFileProvider {
	return &GeolocationFileProvider{
		name: name,
		path: path,
	}
}

// Name returns the name of the GeolocationFileProvider instance.
func (p *GeolocationFileProvider) Name() string {
	return p.name
}

// Locate returns the coordinates stored in the geolocation file.
func (p *GeolocationFileProvider) Locate(ctx context.Context) (location.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return location.Coordinate{}, err
	}
	lat, lon, err := p.readFile()
	if err != nil {
		return location.Coordinate{}, err
	}
	return location.Coordinate{Lat: lat, Lon: lon, Source: p.name}, nil
}

// readFile parses the first usable coordinate pair from the file at the configured path.
func (p *GeolocationFileProvider) readFile() (lat, lon float64, err error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read geolocation file %q: %w", p.path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		latStr, lonStr, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		if lat, err = strconv.ParseFloat(strings.TrimSpace(latStr), 64); err != nil {
			continue
		}
		if lon, err = strconv.ParseFloat(strings.TrimSpace(lonStr), 64); err != nil {
			continue
		}
		return lat, lon, nil
	}
	return 0, 0, ErrNoCoordinates
}
