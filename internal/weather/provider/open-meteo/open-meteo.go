// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/weather-widget/internal/http"
	"github.com/wneessen/weather-widget/internal/location"
	"github.com/wneessen/weather-widget/internal/logger"
	"github.com/wneessen/weather-widget/internal/weather"
)

const (
	name = "open-meteo"

	metricTemperature      = "temperature_2m"
	metricWeatherCode      = "weathercode"
	metricPrecipitation    = "precipitation"
	metricUVIndex          = "uv_index"
	metricRelativeHumidity = "relativehumidity_2m"
	metricPressure         = "pressure_msl"
	metricDewPoint         = "dewpoint_2m"
	metricCloudCover       = "cloudcover"
)

// HourlyMetrics is the fixed list of hourly fields requested from the API, in request order.
var HourlyMetrics = []string{
	metricTemperature, metricWeatherCode, metricPrecipitation, metricUVIndex,
	metricRelativeHumidity, metricPressure, metricDewPoint, metricCloudCover,
}

// forecaster is satisfied by omgo.Client.
type forecaster interface {
	Get(ctx context.Context, loc omgo.Location, opts *omgo.Options) ([]byte, error)
}

// apiTimezone holds the timezone fields of a response. With timezone=auto all timestamps
// are wall-clock times in this zone, without an offset.
type apiTimezone struct {
	Timezone         string `json:"timezone"`
	Abbreviation     string `json:"timezone_abbreviation"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
}

type OpenMeteo struct {
	log    *logger.Logger
	client forecaster
	now    func() time.Time
}

// New returns an Open-Meteo provider that sends its requests through the given HTTP client.
func New(http *http.Client, log *logger.Logger) (*OpenMeteo, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	client, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	client.Client = http.Client

	return &OpenMeteo{log: log, client: client, now: time.Now}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// GetForecast performs the single forecast request for the given coordinates. Any non-2xx
// response, transport or decode error is returned wrapped.
func (o *OpenMeteo) GetForecast(ctx context.Context, coords location.Coordinate) (*weather.Forecast, error) {
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: %s", location.ErrInvalidCoordinates, coords)
	}
	loc, err := omgo.NewLocation(coords.Lat, coords.Lon)
	if err != nil {
		return nil, fmt.Errorf("invalid coordinates %s: %w", coords, err)
	}

	o.log.Debug("fetching forecast", slog.String("coordinates", coords.String()))
	body, err := o.client.Get(ctx, loc, forecastOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve forecast from Open-Meteo API: %w", err)
	}
	res, err := omgo.ParseBody(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Open-Meteo forecast: %w", err)
	}
	zone, err := responseLocation(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Open-Meteo timezone: %w", err)
	}
	o.log.Debug("forecast received", slog.String("timezone", zone.String()),
		slog.Int("hours", len(res.HourlyTimes)))

	forecast := convert(res, zone)
	forecast.GeneratedAt = o.now()
	forecast.Coordinates = coords
	return forecast, nil
}

func forecastOptions() *omgo.Options {
	metrics := make([]string, len(HourlyMetrics))
	copy(metrics, HourlyMetrics)
	return &omgo.Options{
		Timezone:      "auto",
		HourlyMetrics: metrics,
	}
}

// responseLocation returns the zone the response timestamps are expressed in. The IANA name
// is preferred, the reported offset is used when the name is unknown to the host.
func responseLocation(body []byte) (*time.Location, error) {
	tz := apiTimezone{}
	if err := json.Unmarshal(body, &tz); err != nil {
		return nil, err
	}
	if tz.Timezone != "" {
		if loc, err := time.LoadLocation(tz.Timezone); err == nil {
			return loc, nil
		}
	}
	if tz.UTCOffsetSeconds == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(tz.Abbreviation, tz.UTCOffsetSeconds), nil
}

// inZone reads the wall clock of t, which omgo decodes as UTC, as a time in zone.
func inZone(t time.Time, zone *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), zone)
}

// convert maps the API result to a weather.Forecast. A metric missing from the response
// leaves the corresponding series nil.
func convert(res *omgo.Forecast, zone *time.Location) *weather.Forecast {
	times := make([]time.Time, len(res.HourlyTimes))
	for i, t := range res.HourlyTimes {
		times[i] = inZone(t, zone)
	}
	forecast := &weather.Forecast{
		Hourly: weather.Hourly{
			Time:             times,
			Temperature:      res.HourlyMetrics[metricTemperature],
			WeatherCode:      codes(res.HourlyMetrics[metricWeatherCode]),
			Precipitation:    res.HourlyMetrics[metricPrecipitation],
			UVIndex:          res.HourlyMetrics[metricUVIndex],
			RelativeHumidity: res.HourlyMetrics[metricRelativeHumidity],
			Pressure:         res.HourlyMetrics[metricPressure],
			DewPoint:         res.HourlyMetrics[metricDewPoint],
			CloudCover:       res.HourlyMetrics[metricCloudCover],
		},
	}
	if !res.CurrentWeather.Time.IsZero() {
		forecast.Current = &weather.Current{
			Time:          inZone(res.CurrentWeather.Time.Time, zone),
			Temperature:   res.CurrentWeather.Temperature,
			WindSpeed:     res.CurrentWeather.WindSpeed,
			WindDirection: res.CurrentWeather.WindDirection,
			WeatherCode:   code(res.CurrentWeather.WeatherCode),
		}
	}
	return forecast
}

func codes(values []float64) []int {
	if values == nil {
		return nil
	}
	list := make([]int, len(values))
	for i, v := range values {
		list[i] = code(v)
	}
	return list
}

// code converts a WMO code as decoded from JSON. Non-finite values become -1, which maps
// to the unknown weather category.
func code(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return -1
	}
	return int(math.Round(v))
}
