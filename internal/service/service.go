// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vorlif/humanize"

	"github.com/wneessen/weather-widget/internal/config"
	"github.com/wneessen/weather-widget/internal/http"
	"github.com/wneessen/weather-widget/internal/i18n"
	"github.com/wneessen/weather-widget/internal/location"
	"github.com/wneessen/weather-widget/internal/logger"
	"github.com/wneessen/weather-widget/internal/render"
	"github.com/wneessen/weather-widget/internal/template"
	"github.com/wneessen/weather-widget/internal/vartype"
	"github.com/wneessen/weather-widget/internal/weather"
)

const refreshJobName = "weather_refresh_job"

// Service runs the render pipeline: resolve the location, fetch the forecast, render it into
// the page and export the page.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	http      *http.Client
	humanizer *humanize.Humanizer
	resolver  *location.Resolver
	weather   weather.Provider
	exporter  template.Exporter
	scheduler gocron.Scheduler

	// monitorResume is started in refresh mode and triggers a pass after system sleep
	monitorResume func(ctx context.Context)
	now           func() time.Time

	passLock sync.Mutex
	page     *render.Page

	outputLock sync.Mutex
	stdout     io.Writer
}

func New(conf *config.Config, log *logger.Logger) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	service := &Service{
		config:    conf,
		logger:    log,
		http:      http.New(log),
		humanizer: i18n.New(conf.Locale),
		now:       time.Now,
		page:      render.NewPage(),
		stdout:    os.Stdout,
	}
	service.monitorResume = service.monitorSleepResume

	exporter, err := service.selectExporter()
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}
	service.exporter = exporter

	providers, err := service.selectLocationProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to create location providers: %w", err)
	}
	fallback := location.Coordinate{Lat: conf.Location.DefaultLatitude, Lon: conf.Location.DefaultLongitude}
	resolver, err := location.NewResolver(log, fallback, conf.Location.Timeout, providers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create location resolver: %w", err)
	}
	service.resolver = resolver

	provider, err := service.selectWeatherProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create weather provider: %w", err)
	}
	service.weather = provider

	return service, nil
}

// Run performs one pass. With a refresh interval configured it then keeps refreshing on that
// interval and after resume from sleep until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.pass(ctx)
	if s.config.Intervals.Refresh <= 0 {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.scheduler = scheduler
	if err = s.createScheduledJob(ctx, s.config.Intervals.Refresh, s.pass, refreshJobName); err != nil {
		return err
	}
	s.scheduler.Start()
	s.logger.Debug("refresh job scheduled", slog.Duration("interval", s.config.Intervals.Refresh))

	if s.monitorResume != nil {
		go s.monitorResume(ctx)
	}

	// Wait for the context to cancel
	<-ctx.Done()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// pass runs the pipeline once. A failed fetch is logged and leaves the page and the
// exported output untouched.
func (s *Service) pass(ctx context.Context) {
	s.passLock.Lock()
	defer s.passLock.Unlock()

	coords := s.resolver.Resolve(ctx)
	s.logger.Debug("location resolved", slog.String("coordinates", coords.String()),
		slog.String("source", coords.Source))

	forecast, err := s.weather.GetForecast(ctx, coords)
	if err != nil {
		s.logger.Error("failed to fetch forecast", slog.String("provider", s.weather.Name()), logger.Err(err))
		return
	}
	if err = forecast.Hourly.Validate(); err != nil {
		s.logger.Warn("forecast is incomplete, missing values are shown as placeholders", logger.Err(err))
	}

	renderer, err := render.New(s.page, s.humanizer, s.config.Output.BackgroundDir)
	if err != nil {
		s.logger.Error("failed to create renderer", logger.Err(err))
		return
	}
	renderer.Now = s.now
	renderer.All(forecast)

	in := template.Input{
		Page:        s.page.Snapshot(),
		Coordinates: coords,
		Time:        s.now(),
	}
	if forecast.Current != nil {
		in.WeatherCode = vartype.NewVariable(forecast.Current.WeatherCode)
	}
	if err = s.export(in); err != nil {
		s.logger.Error("failed to export page", logger.Err(err))
	}
}

// export writes the page to the configured output file or stdout.
func (s *Service) export(in template.Input) error {
	buf := bytes.NewBuffer(nil)
	if err := s.exporter.Export(buf, in); err != nil {
		return err
	}

	s.outputLock.Lock()
	defer s.outputLock.Unlock()
	if s.config.Output.File == "" {
		if _, err := buf.WriteTo(s.stdout); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(s.config.Output.File, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	s.logger.Debug("page exported", slog.String("file", s.config.Output.File))
	return nil
}
