// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"

	"github.com/wneessen/weather-widget/internal/config"
	"github.com/wneessen/weather-widget/internal/location"
	"github.com/wneessen/weather-widget/internal/location/provider/geoclue"
	"github.com/wneessen/weather-widget/internal/location/provider/geoip"
	"github.com/wneessen/weather-widget/internal/location/provider/geolocation_file"
	"github.com/wneessen/weather-widget/internal/location/provider/gpsd"
	"github.com/wneessen/weather-widget/internal/location/provider/ichnaea"
	"github.com/wneessen/weather-widget/internal/logger"
	"github.com/wneessen/weather-widget/internal/presenter"
	"github.com/wneessen/weather-widget/internal/template"
	"github.com/wneessen/weather-widget/internal/weather"
	openmeteo "github.com/wneessen/weather-widget/internal/weather/provider/open-meteo"
)

// selectLocationProviders returns the enabled providers in the order they are asked. An empty
// list is valid, the resolver then always uses the fallback coordinates.
func (s *Service) selectLocationProviders() ([]location.Provider, error) {
	var provider []location.Provider

	if !s.config.Location.DisableFile {
		provider = append(provider, geolocation_file.NewGeolocationFileProvider(s.config.Location.File))
	}

	if !s.config.Location.DisableGeoClue {
		provider = append(provider, geoclue.NewGeolocationGeoClueProvider(s.config.Location.DesktopID))
	}

	if !s.config.Location.DisableGPSD {
		provider = append(provider, gpsd.NewGeolocationGPSDProvider(s.config.Location.GPSDHost,
			s.config.Location.GPSDPort))
	}

	if !s.config.Location.DisableICHNAEA {
		mls, err := ichnaea.NewGeolocationICHNAEAProvider(s.http)
		if err != nil {
			s.logger.Error("failed to create ICHNAEA provider", logger.Err(err))
		} else {
			provider = append(provider, mls)
		}
	}

	if !s.config.Location.DisableGeoIP {
		gip, err := geoip.NewGeolocationGeoIPProvider(s.http)
		if err != nil {
			return nil, fmt.Errorf("failed to create GeoIP provider: %w", err)
		}
		provider = append(provider, gip)
	}

	return provider, nil
}

// selectWeatherProvider returns the Open-Meteo provider. In refresh mode it is rate limited.
func (s *Service) selectWeatherProvider() (weather.Provider, error) {
	provider, err := openmeteo.New(s.http, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
	}
	if s.config.Intervals.Refresh <= 0 {
		return provider, nil
	}

	limited, err := weather.NewRateLimited(provider, s.config.Weather.MaxRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limited weather provider: %w", err)
	}
	return limited, nil
}

func (s *Service) selectExporter() (template.Exporter, error) {
	switch s.config.Output.Format {
	case config.FormatWaybar:
		tpls, err := template.NewTemplate(s.config, presenter.New(s.humanizer))
		if err != nil {
			return nil, fmt.Errorf("failed to parse templates: %w", err)
		}
		return template.NewWaybar(tpls)
	case config.FormatHTML:
		return template.NewHTML(!s.config.Output.DisableMinify)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", s.config.Output.Format)
	}
}
