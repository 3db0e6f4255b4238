// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "WEATHERWIDGET"
	appDir    = "weather-widget"

	FormatHTML   = "html"
	FormatWaybar = "waybar"

	DefaultTextTpl    = "{{.ConditionIconWithSpace}}{{.Temperature}}"
	DefaultTooltipTpl = "{{.Description}}\nWiatr: {{.WindSpeed}} {{.WindDirection}}\n" +
		"Wilgotność: {{.Humidity}}\nCiśnienie: {{.Pressure}}\nIndeks UV: {{.UVIndex}}\n" +
		"Wschód słońca: {{timeFormat .SunriseTime \"15:04\"}}\nZachód słońca: {{timeFormat .SunsetTime \"15:04\"}}\n" +
		"Faza księżyca: {{.MoonphaseIconWithSpace}}\n{{.Timestamp}}"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application's configuration structure.
type Config struct {
	LogLevel slog.Level `fig:"loglevel" default:"0"`
	// A BCP 47 tag or "auto" to detect it from the environment
	Locale string `fig:"locale" default:"pl"`

	Location struct {
		DefaultLatitude  float64       `fig:"default_latitude" default:"52.2297"`
		DefaultLongitude float64       `fig:"default_longitude" default:"21.0122"`
		Timeout          time.Duration `fig:"timeout" default:"8s"`
		File             string        `fig:"file"`
		DesktopID        string        `fig:"desktop_id" default:"weather-widget"`
		GPSDHost         string        `fig:"gpsd_host" default:"localhost"`
		GPSDPort         string        `fig:"gpsd_port" default:"2947"`
		DisableFile      bool          `fig:"disable_file"`
		DisableGeoClue   bool          `fig:"disable_geoclue"`
		DisableGPSD      bool          `fig:"disable_gpsd"`
		DisableICHNAEA   bool          `fig:"disable_ichnaea"`
		DisableGeoIP     bool          `fig:"disable_geoip"`
	} `fig:"location"`

	Weather struct {
		// Requests per minute in refresh mode
		MaxRate int `fig:"max_rate" default:"1"`
	} `fig:"weather"`

	Output struct {
		// Allowed values: html, waybar
		Format        string `fig:"format" default:"html"`
		File          string `fig:"file"`
		BackgroundDir string `fig:"background_dir" default:"./IMGs/DynamicBG/V1"`
		DisableMinify bool   `fig:"disable_minify"`
	} `fig:"output"`

	Templates struct {
		Text    string `fig:"text"`
		Tooltip string `fig:"tooltip"`
	} `fig:"templates"`

	Intervals struct {
		// Zero renders once and exits
		Refresh time.Duration `fig:"refresh"`
	} `fig:"intervals"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// DefaultDir returns the directory the config file is looked up in if no path is given.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDir)
}

func (c *Config) Validate() error {
	lat, lon := c.Location.DefaultLatitude, c.Location.DefaultLongitude
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: default latitude out of range: %f", ErrInvalidConfig, lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: default longitude out of range: %f", ErrInvalidConfig, lon)
	}
	if c.Location.Timeout <= 0 {
		return fmt.Errorf("%w: location timeout must be positive: %s", ErrInvalidConfig, c.Location.Timeout)
	}
	if c.Weather.MaxRate < 1 {
		return fmt.Errorf("%w: weather max rate must be at least 1: %d", ErrInvalidConfig, c.Weather.MaxRate)
	}
	if c.Output.Format != FormatHTML && c.Output.Format != FormatWaybar {
		return fmt.Errorf("%w: invalid output format: %s", ErrInvalidConfig, c.Output.Format)
	}
	if c.Intervals.Refresh < 0 {
		return fmt.Errorf("%w: refresh interval must not be negative: %s", ErrInvalidConfig, c.Intervals.Refresh)
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.Location.File == "" {
		c.Location.File = filepath.Join(DefaultDir(), "geolocation")
	}

	return nil
}
