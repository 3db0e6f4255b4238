// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package template exports a rendered page to the surfaces the widget supports: a waybar
// JSON line and a static HTML document.
package template

import (
	"fmt"
	"io"
	"maps"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/mattn/go-runewidth"
	"github.com/nathan-osman/go-sunrise"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weather-widget/internal/config"
	"github.com/wneessen/weather-widget/internal/location"
	"github.com/wneessen/weather-widget/internal/presenter"
	"github.com/wneessen/weather-widget/internal/render"
	"github.com/wneessen/weather-widget/internal/vartype"
)

// Exporter writes a rendered page to w.
type Exporter interface {
	Export(w io.Writer, in Input) error
}

// Input is everything an exporter needs besides the rendered page.
type Input struct {
	Page        render.Snapshot
	Coordinates location.Coordinate
	WeatherCode vartype.VarInt
	Time        time.Time
}

type DisplayData struct {
	// Location data
	Latitude  float64
	Longitude float64
	Source    string

	// Astronomical data
	UpdateTime             time.Time
	SunriseTime            time.Time
	SunsetTime             time.Time
	IsDaytime              bool
	Moonphase              string
	MoonphaseIcon          string
	MoonphaseIconWithSpace string

	// Rendered regions
	Temperature   string
	WindSpeed     string
	WindDirection string
	Description   string
	Timestamp     string
	Humidity      string
	Pressure      string
	DewPoint      string
	CloudCover    string
	UVIndex       string
	Background    string

	ConditionIcon          string
	ConditionIconWithSpace string
	Class                  string
	Hours                  []HourData
}

type HourData struct {
	Hour          string
	Icon          string
	Temperature   string
	Precipitation string
}

type Templates struct {
	Text      *template.Template
	Tooltip   *template.Template
	presenter *presenter.Presenter
}

func NewTemplate(conf *config.Config, pres *presenter.Presenter) (*Templates, error) {
	tpls := new(Templates)
	tpls.presenter = pres
	if tpls.presenter == nil {
		tpls.presenter = presenter.New(nil)
	}

	tpl, err := template.New("text").Funcs(tpls.templateFuncMap()).Parse(conf.Templates.Text)
	if err != nil {
		return tpls, fmt.Errorf("failed to parse text template: %w", err)
	}
	tpls.Text = tpl

	tpl, err = template.New("tooltip").Funcs(tpls.templateFuncMap()).Parse(conf.Templates.Tooltip)
	if err != nil {
		return tpls, fmt.Errorf("failed to parse tooltip template: %w", err)
	}
	tpls.Tooltip = tpl

	return tpls, nil
}

// templateFuncMap merges the sprig text functions with our own, ours take precedence.
func (t *Templates) templateFuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	maps.Copy(funcs, t.presenter.TemplateFuncMap())
	funcs["emojiWithSpace"] = EmojiWithSpace
	return funcs
}

// NewDisplayData collects the template data from a rendered page.
func NewDisplayData(in Input) DisplayData {
	page := in.Page
	now := in.Time
	if now.IsZero() {
		now = time.Now()
	}

	data := DisplayData{
		Latitude:      in.Coordinates.Lat,
		Longitude:     in.Coordinates.Lon,
		Source:        in.Coordinates.Source,
		UpdateTime:    now,
		Temperature:   page.Text(render.RegionCurrentTemperature),
		WindSpeed:     page.Text(render.RegionCurrentWindSpeed),
		WindDirection: page.Text(render.RegionCurrentWindDirection),
		Description:   page.Text(render.RegionWeatherDescription),
		Timestamp:     page.Text(render.RegionWeatherTimestamp),
		Humidity:      page.Text(render.RegionHumidity),
		Pressure:      page.Text(render.RegionPressure),
		DewPoint:      page.Text(render.RegionDewPoint),
		CloudCover:    page.Text(render.RegionCloudCover),
		UVIndex:       page.Text(render.RegionUVIndex),
		Background:    page.Images[render.RegionAppContainer],
	}

	// Sun and moon
	data.SunriseTime, data.SunsetTime = sunrise.SunriseSunset(in.Coordinates.Lat, in.Coordinates.Lon,
		now.Year(), now.Month(), now.Day())
	data.SunriseTime, data.SunsetTime = data.SunriseTime.In(now.Location()), data.SunsetTime.In(now.Location())
	data.IsDaytime = now.After(data.SunriseTime) && now.Before(data.SunsetTime)
	m := moonphase.New(now)
	data.Moonphase = m.PhaseName()
	data.MoonphaseIcon = presenter.MoonPhaseIcon[data.Moonphase]
	data.MoonphaseIconWithSpace = EmojiWithSpace(data.MoonphaseIcon)

	data.ConditionIcon = in.WeatherCode.Format(presenter.WeatherIcon)
	data.ConditionIconWithSpace = EmojiWithSpace(data.ConditionIcon)
	data.Class = in.WeatherCode.Format(func(code int) string {
		return presenter.WeatherBackground(code).Name
	})
	if data.Class == vartype.Unset {
		data.Class = presenter.BackgroundDefault.Name
	}

	for _, child := range page.Children[render.RegionHourlyForecast] {
		hour := HourData{}
		for i, cell := range child.Cells {
			switch i {
			case 0:
				hour.Hour = cell.Text
			case 1:
				hour.Icon = cell.Text
			case 2:
				hour.Temperature = cell.Text
			case 3:
				hour.Precipitation = cell.Text
			}
		}
		data.Hours = append(data.Hours, hour)
	}

	return data
}

func EmojiWithSpace(emoji string) string {
	if emoji == "" {
		return ""
	}
	width := runewidth.StringWidth(emoji)
	return fmt.Sprintf("%s%s", emoji, strings.Repeat(" ", width+1))
}
