// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the weather-widget command.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wneessen/weather-widget/internal/config"
	"github.com/wneessen/weather-widget/internal/logger"
	"github.com/wneessen/weather-widget/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	format := flag.String("format", "", "output format (html or waybar)")
	output := flag.String("out", "", "write the rendered page to this file instead of stdout")
	once := flag.Bool("once", false, "render once and exit, even if a refresh interval is configured")
	flag.Parse()

	// A .env file in the working directory may hold WEATHERWIDGET_* overrides
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error("failed to load .env file", logger.Err(err))
		os.Exit(1)
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	if *format != "" {
		conf.Output.Format = *format
	}
	if *output != "" {
		conf.Output.File = *output
	}
	if *once {
		conf.Intervals.Refresh = 0
	}
	if err = conf.Validate(); err != nil {
		log.Error("invalid command line options", logger.Err(err))
		os.Exit(1)
	}

	log = logger.New(conf.LogLevel)
	serv, err := service.New(conf, log)
	if err != nil {
		log.Error("failed to initialize weather-widget service", logger.Err(err))
		os.Exit(1)
	}

	log.Info("starting weather-widget", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("weather-widget service failed", logger.Err(err))
		os.Exit(1)
	}
	log.Info("shutting down weather-widget")
}

// loadConfig reads the given config file. Without one it looks for a config file in the
// default config directory and falls back to defaults and the environment.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	dir := config.DefaultDir()
	for _, ext := range []string{"toml", "yaml", "yml", "json"} {
		file := "config." + ext
		if _, err := os.Stat(filepath.Join(dir, file)); err == nil {
			return config.NewFromFile(dir, file)
		}
	}
	return config.New()
}
