// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/weather-widget/internal/location"
)

// Series identifies one of the hourly float series of a forecast.
type Series int

const (
	SeriesTemperature Series = iota
	SeriesPrecipitation
	SeriesUVIndex
	SeriesRelativeHumidity
	SeriesPressure
	SeriesDewPoint
	SeriesCloudCover
)

var ErrMisalignedSeries = errors.New("hourly series is not aligned with the time series")

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetForecast(ctx context.Context, coords location.Coordinate) (*Forecast, error)
}

type Forecast struct {
	GeneratedAt time.Time
	Coordinates location.Coordinate

	Current *Current
	Hourly  Hourly
}

type Current struct {
	Time          time.Time
	Temperature   float64
	WindSpeed     float64
	WindDirection float64
	WeatherCode   int
}

// Hourly holds the parallel hourly series. Every series is expected to have the same
// length as Time, which is checked by Validate.
type Hourly struct {
	Time             []time.Time
	Temperature      []float64
	WeatherCode      []int
	Precipitation    []float64
	UVIndex          []float64
	RelativeHumidity []float64
	Pressure         []float64
	DewPoint         []float64
	CloudCover       []float64
}

func (s Series) String() string {
	switch s {
	case SeriesTemperature:
		return "temperature"
	case SeriesPrecipitation:
		return "precipitation"
	case SeriesUVIndex:
		return "uv_index"
	case SeriesRelativeHumidity:
		return "relative_humidity"
	case SeriesPressure:
		return "pressure"
	case SeriesDewPoint:
		return "dew_point"
	case SeriesCloudCover:
		return "cloud_cover"
	default:
		return fmt.Sprintf("series(%d)", int(s))
	}
}

// Validate reports every series whose length differs from the time series.
func (h Hourly) Validate() error {
	var errs []error
	want := len(h.Time)
	for _, s := range []Series{
		SeriesTemperature, SeriesPrecipitation, SeriesUVIndex, SeriesRelativeHumidity,
		SeriesPressure, SeriesDewPoint, SeriesCloudCover,
	} {
		if got := len(h.series(s)); got != want {
			errs = append(errs, fmt.Errorf("%w: %s has %d values, expected %d", ErrMisalignedSeries, s, got, want))
		}
	}
	if got := len(h.WeatherCode); got != want {
		errs = append(errs, fmt.Errorf("%w: weather_code has %d values, expected %d", ErrMisalignedSeries, got, want))
	}
	return errors.Join(errs...)
}

// Float returns the value of the series at index i. ok is false if the series does not
// reach that far.
func (h Hourly) Float(s Series, i int) (float64, bool) {
	values := h.series(s)
	if i < 0 || i >= len(values) || i >= len(h.Time) {
		return 0, false
	}
	return values[i], true
}

func (h Hourly) Code(i int) (int, bool) {
	if i < 0 || i >= len(h.WeatherCode) || i >= len(h.Time) {
		return 0, false
	}
	return h.WeatherCode[i], true
}

// NextIndex returns the index of the first hourly timestamp strictly after now.
func (h Hourly) NextIndex(now time.Time) (int, bool) {
	for i, t := range h.Time {
		if t.After(now) {
			return i, true
		}
	}
	return 0, false
}

func (h Hourly) series(s Series) []float64 {
	switch s {
	case SeriesTemperature:
		return h.Temperature
	case SeriesPrecipitation:
		return h.Precipitation
	case SeriesUVIndex:
		return h.UVIndex
	case SeriesRelativeHumidity:
		return h.RelativeHumidity
	case SeriesPressure:
		return h.Pressure
	case SeriesDewPoint:
		return h.DewPoint
	case SeriesCloudCover:
		return h.CloudCover
	default:
		return nil
	}
}
