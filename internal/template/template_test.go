// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/weather-widget/internal/config"
	"github.com/wneessen/weather-widget/internal/i18n"
	"github.com/wneessen/weather-widget/internal/location"
	"github.com/wneessen/weather-widget/internal/presenter"
	"github.com/wneessen/weather-widget/internal/render"
	"github.com/wneessen/weather-widget/internal/vartype"
	"github.com/wneessen/weather-widget/internal/weather"
)

var (
	now    = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	warsaw = location.Coordinate{Lat: 52.2297, Lon: 21.0122, Source: "geoip"}
)

func TestNewTemplate(t *testing.T) {
	t.Run("new template succeeds", func(t *testing.T) {
		conf, err := config.New()
		if err != nil {
			t.Fatalf("failed to create config: %s", err)
		}
		tpl, err := NewTemplate(conf, presenter.New(i18n.New(i18n.DefaultLocale)))
		if err != nil {
			t.Fatalf("failed to create template: %s", err)
		}
		if tpl == nil {
			t.Fatal("expected template to be non-nil")
		}
	})
	t.Run("rendering template with sprig functions succeeds", func(t *testing.T) {
		conf, err := config.New()
		if err != nil {
			t.Fatalf("failed to create config: %s", err)
		}
		conf.Templates.Text = `{{ .Data | upper }} {{ floatFormat 2.46 1 }}`
		tpl, err := NewTemplate(conf, nil)
		if err != nil {
			t.Fatalf("failed to create template: %s", err)
		}

		buf := bytes.NewBuffer(nil)
		if err = tpl.Text.Execute(buf, map[string]string{"Data": "test"}); err != nil {
			t.Errorf("failed to render template: %s", err)
		}
		if buf.String() != "TEST 2.5" {
			t.Errorf("expected rendered template to be %q, got %q", "TEST 2.5", buf.String())
		}
	})

	tests := []struct {
		name      string
		configure func(*config.Config)
	}{
		{
			name: "parsing text template fails",
			configure: func(c *config.Config) {
				c.Templates.Text = "{{ .Data }"
			},
		},
		{
			name: "parsing tooltip template fails",
			configure: func(c *config.Config) {
				c.Templates.Tooltip = "{{ .Data }"
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf, err := config.New()
			if err != nil {
				t.Fatalf("failed to create config: %s", err)
			}
			tc.configure(conf)
			if _, err = NewTemplate(conf, nil); err == nil {
				t.Error("expected template creation to fail")
			}
		})
	}
}

func TestNewDisplayData(t *testing.T) {
	data := NewDisplayData(testInput(t))
	if data.Temperature != "22°C" || data.Description != "Częściowo pochmurno" {
		t.Errorf("unexpected current conditions: %s, %s", data.Temperature, data.Description)
	}
	if data.Humidity != "55%" || data.UVIndex != "3.1" {
		t.Errorf("unexpected next hour values: %s, %s", data.Humidity, data.UVIndex)
	}
	if data.Class != "partly-cloudy" {
		t.Errorf("expected class partly-cloudy, got %s", data.Class)
	}
	if data.ConditionIcon != presenter.IconPartlyCloudy {
		t.Errorf("expected partly cloudy icon, got %s", data.ConditionIcon)
	}
	if len(data.Hours) != 2 {
		t.Fatalf("expected 2 hours, got %d", len(data.Hours))
	}
	if data.Hours[1].Icon != presenter.RainIcon || data.Hours[1].Precipitation != "0.4 mm" {
		t.Errorf("unexpected second hour: %+v", data.Hours[1])
	}
	if !data.SunriseTime.Before(data.SunsetTime) {
		t.Errorf("expected sunrise %s before sunset %s", data.SunriseTime, data.SunsetTime)
	}
	if !data.IsDaytime {
		t.Error("expected noon in June to be daytime in Warsaw")
	}
	if data.Moonphase == "" || data.MoonphaseIcon == "" {
		t.Error("expected moon phase to be set")
	}

	t.Run("unknown weather code uses the default class", func(t *testing.T) {
		in := testInput(t)
		in.WeatherCode = vartype.VarInt{}
		data := NewDisplayData(in)
		if data.Class != presenter.BackgroundDefault.Name || data.ConditionIcon != presenter.Placeholder {
			t.Errorf("expected default class and placeholder icon, got %s and %s", data.Class, data.ConditionIcon)
		}
	})
}

func TestWaybar_Export(t *testing.T) {
	conf, err := config.New()
	if err != nil {
		t.Fatalf("failed to create config: %s", err)
	}
	tpls, err := NewTemplate(conf, presenter.New(i18n.New(i18n.DefaultLocale)))
	if err != nil {
		t.Fatalf("failed to create templates: %s", err)
	}
	if _, err = NewWaybar(nil); err == nil {
		t.Error("expected waybar exporter without templates to fail")
	}
	var exporter Exporter
	exporter, err = NewWaybar(tpls)
	if err != nil {
		t.Fatalf("failed to create waybar exporter: %s", err)
	}

	buf := bytes.NewBuffer(nil)
	if err = exporter.Export(buf, testInput(t)); err != nil {
		t.Fatalf("failed to export: %s", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected a single JSON line, got %q", buf.String())
	}
	var output WaybarOutput
	if err = json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to decode waybar output: %s", err)
	}
	if !strings.HasPrefix(output.Text, presenter.IconPartlyCloudy) || !strings.HasSuffix(output.Text, "22°C") {
		t.Errorf("unexpected text %q", output.Text)
	}
	if !strings.Contains(output.Tooltip, "Częściowo pochmurno") || !strings.Contains(output.Tooltip, "Ostatnia aktualizacja: 12:30") {
		t.Errorf("unexpected tooltip %q", output.Tooltip)
	}
	if output.Class != "partly-cloudy" {
		t.Errorf("expected class partly-cloudy, got %s", output.Class)
	}
}

func TestHTML_Export(t *testing.T) {
	t.Run("plain page contains every region", func(t *testing.T) {
		exporter, err := NewHTML(false)
		if err != nil {
			t.Fatalf("failed to create HTML exporter: %s", err)
		}
		buf := bytes.NewBuffer(nil)
		if err = exporter.Export(buf, testInput(t)); err != nil {
			t.Fatalf("failed to export: %s", err)
		}
		page := buf.String()
		for _, want := range []string{
			`id="current-temperature">22°C<`,
			`id="current-wind-direction">(W)<`,
			`id="humidity">55%<`,
			`id="uv-index">3.1<`,
			`partly-cloudy.webp`,
			`data-location="52.2297,21.0122"`,
		} {
			if !strings.Contains(page, want) {
				t.Errorf("expected page to contain %q", want)
			}
		}
		if got := strings.Count(page, `class="hour-box"`); got != 2 {
			t.Errorf("expected 2 hour boxes, got %d", got)
		}
	})
	t.Run("minified page is smaller", func(t *testing.T) {
		plain, err := NewHTML(false)
		if err != nil {
			t.Fatalf("failed to create HTML exporter: %s", err)
		}
		minified, err := NewHTML(true)
		if err != nil {
			t.Fatalf("failed to create HTML exporter: %s", err)
		}
		plainBuf, minBuf := bytes.NewBuffer(nil), bytes.NewBuffer(nil)
		if err = plain.Export(plainBuf, testInput(t)); err != nil {
			t.Fatalf("failed to export: %s", err)
		}
		if err = minified.Export(minBuf, testInput(t)); err != nil {
			t.Fatalf("failed to export: %s", err)
		}
		if minBuf.Len() >= plainBuf.Len() {
			t.Errorf("expected minified page (%d bytes) to be smaller than %d bytes", minBuf.Len(), plainBuf.Len())
		}
		if !strings.Contains(minBuf.String(), "22°C") {
			t.Error("expected minified page to contain the temperature")
		}
	})
}

func TestEmojiWithSpace(t *testing.T) {
	if got := EmojiWithSpace(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := EmojiWithSpace("x"); got != "x  " {
		t.Errorf("expected %q, got %q", "x  ", got)
	}
}

func testInput(t *testing.T) Input {
	t.Helper()
	page := render.NewPage()
	r, err := render.New(page, i18n.New(i18n.DefaultLocale), "./IMGs/DynamicBG/V1")
	if err != nil {
		t.Fatalf("failed to create renderer: %s", err)
	}
	r.Now = func() time.Time { return now }
	r.Location = time.UTC

	forecast := &weather.Forecast{
		Current: &weather.Current{Time: now, Temperature: 21.6, WindSpeed: 12.4, WindDirection: 250, WeatherCode: 1},
		Hourly: weather.Hourly{
			Time:             []time.Time{now.Add(time.Hour), now.Add(time.Hour * 2), now.Add(time.Hour * 25)},
			Temperature:      []float64{22.4, 23.5, 18},
			WeatherCode:      []int{0, 95, 3},
			Precipitation:    []float64{0, 0.4, 1.2},
			UVIndex:          []float64{3.14, 2, 0},
			RelativeHumidity: []float64{54.6, 60, 70},
			Pressure:         []float64{1013.4, 1012, 1011},
			DewPoint:         []float64{11.66, 12, 13},
			CloudCover:       []float64{20.2, 40, 100},
		},
	}
	r.All(forecast)

	return Input{
		Page:        page.Snapshot(),
		Coordinates: warsaw,
		WeatherCode: vartype.NewVariable(1),
		Time:        now,
	}
}
