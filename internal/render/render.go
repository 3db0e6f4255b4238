// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"time"

	"github.com/vorlif/humanize"

	"github.com/wneessen/weather-widget/internal/presenter"
	"github.com/wneessen/weather-widget/internal/vartype"
	"github.com/wneessen/weather-widget/internal/weather"
)

const (
	// ForecastWindow is how far ahead the hourly strip reaches.
	ForecastWindow = time.Hour * 24

	ClassHourBox = "hour-box"
	ClassTemp    = "temp"

	TimestampPrefix = "Ostatnia aktualizacja: "
)

// Renderer writes a forecast into the regions of a Target. Values that are missing from the
// forecast render as the placeholder, so a partial forecast still renders every other field.
type Renderer struct {
	Target        Target
	Now           func() time.Time
	Location      *time.Location
	BackgroundDir string
	Humanizer     *humanize.Humanizer
}

func New(target Target, humanizer *humanize.Humanizer, backgroundDir string) (*Renderer, error) {
	if target == nil {
		return nil, errors.New("render target is required")
	}
	return &Renderer{
		Target:        target,
		Now:           time.Now,
		Location:      time.Local,
		BackgroundDir: backgroundDir,
		Humanizer:     humanizer,
	}, nil
}

// All renders the current conditions, the hourly strip and the UV index, in that order.
func (r *Renderer) All(forecast *weather.Forecast) {
	now := r.now()
	r.current(forecast, now)
	r.hourly(forecast, now)
	r.uvIndex(forecast, now)
}

// Current renders the current conditions block, the "last updated" timestamp, the background
// and the values of the next forecast hour.
func (r *Renderer) Current(forecast *weather.Forecast) {
	r.current(forecast, r.now())
}

// Hourly renders one element per forecast hour within ForecastWindow after now.
func (r *Renderer) Hourly(forecast *weather.Forecast) {
	r.hourly(forecast, r.now())
}

func (r *Renderer) UVIndex(forecast *weather.Forecast) {
	r.uvIndex(forecast, r.now())
}

func (r *Renderer) current(forecast *weather.Forecast, now time.Time) {
	var temp, windSpeed, windDir vartype.VarFloat64
	description := presenter.Placeholder
	if forecast != nil && forecast.Current != nil {
		cur := forecast.Current
		temp = vartype.Finite(cur.Temperature, true)
		windSpeed = vartype.Finite(cur.WindSpeed, true)
		windDir = vartype.Finite(cur.WindDirection, true)
		description = presenter.WeatherCodeToDescription(cur.WeatherCode)
		r.Target.SetImage(RegionAppContainer, presenter.WeatherBackground(cur.WeatherCode).File(r.BackgroundDir))
	}

	r.Target.SetText(RegionCurrentTemperature, presenter.Format(temp, 0, "%s°C"))
	r.Target.SetText(RegionCurrentWindSpeed, presenter.Format(windSpeed, 0, "%s km/h"))
	r.Target.SetText(RegionCurrentWindDirection, windDir.Format(func(deg float64) string {
		return "(" + presenter.WindDirectionToText(deg) + ")"
	}))
	r.Target.SetText(RegionWeatherDescription, description)
	r.Target.SetText(RegionWeatherTimestamp, TimestampPrefix+
		presenter.New(r.Humanizer).LocalizedTime(now.In(r.location())))

	r.Target.SetText(RegionHumidity, presenter.Format(r.nextHour(forecast, now, weather.SeriesRelativeHumidity), 0, "%s%%"))
	r.Target.SetText(RegionPressure, presenter.Format(r.nextHour(forecast, now, weather.SeriesPressure), 0, "%s hPa"))
	r.Target.SetText(RegionDewPoint, presenter.Format(r.nextHour(forecast, now, weather.SeriesDewPoint), 1, "%s°C"))
	r.Target.SetText(RegionCloudCover, presenter.Format(r.nextHour(forecast, now, weather.SeriesCloudCover), 0, "%s%%"))
}

func (r *Renderer) hourly(forecast *weather.Forecast, now time.Time) {
	r.Target.ClearChildren(RegionHourlyForecast)
	if forecast == nil {
		return
	}

	hourly := forecast.Hourly
	for i, t := range hourly.Time {
		if !t.After(now) || t.Sub(now) > ForecastWindow {
			continue
		}

		icon := presenter.WeatherIcon(-1)
		if code, ok := hourly.Code(i); ok {
			icon = presenter.WeatherIcon(code)
		}
		rain := presenter.Placeholder
		if precip := vartype.Finite(hourly.Float(weather.SeriesPrecipitation, i)); precip.IsSet() && precip.Value() > 0 {
			icon = presenter.RainIcon
			rain = presenter.Format(precip, 1, "%s mm")
		}
		temp := vartype.Finite(hourly.Float(weather.SeriesTemperature, i))

		r.Target.AppendChild(RegionHourlyForecast, Element{
			Class: ClassHourBox,
			Cells: []Cell{
				{Text: t.In(r.location()).Format("15") + ":00"},
				{Text: icon},
				{Class: ClassTemp, Text: presenter.Format(temp, 0, "%s°")},
				{Text: rain},
			},
		})
	}
}

func (r *Renderer) uvIndex(forecast *weather.Forecast, now time.Time) {
	r.Target.SetText(RegionUVIndex, presenter.Format(r.nextHour(forecast, now, weather.SeriesUVIndex), 1, "%s"))
}

// nextHour returns the value of the series at the first hour strictly after now.
func (r *Renderer) nextHour(forecast *weather.Forecast, now time.Time, series weather.Series) vartype.VarFloat64 {
	if forecast == nil {
		return vartype.VarFloat64{}
	}
	idx, ok := forecast.Hourly.NextIndex(now)
	if !ok {
		return vartype.VarFloat64{}
	}
	return vartype.Finite(forecast.Hourly.Float(series, idx))
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Renderer) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}
