// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/weather-widget/internal/logger"
)

const (
	login1Interface    = "org.freedesktop.login1.Manager"
	prepareForSleep    = "PrepareForSleep"
	resumeDebounceSecs = 2
	sleepSignalBuffer  = 8

	busReconnectDelay  = 5 * time.Second
	networkWakeupDelay = 10 * time.Second
	resubscribeDelay   = 10 * time.Second
)

// monitorSleepResume watches logind's PrepareForSleep signal and runs a pass once the system
// resumed. A lost bus connection is re-established until ctx is cancelled.
func (s *Service) monitorSleepResume(ctx context.Context) {
	var lastResume int64

	for {
		conn := s.connectSystemBus(ctx)
		if conn == nil {
			return
		}
		if !s.subscribeSleepSignal(ctx, conn) {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		signals := make(chan *dbus.Signal, sleepSignalBuffer)
		conn.Signal(signals)
		s.logger.Debug("watching for resume from sleep", slog.String("interface", login1Interface),
			slog.String("member", prepareForSleep))

		s.waitForResume(ctx, signals, &lastResume)

		conn.RemoveSignal(signals)
		if err := conn.Close(); err != nil {
			s.logger.Debug("failed to close system bus connection", logger.Err(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// connectSystemBus retries until a connection is established. It returns nil once ctx is done.
func (s *Service) connectSystemBus(ctx context.Context) *dbus.Conn {
	for {
		conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
		if err == nil {
			return conn
		}
		s.logger.Debug("system bus not available", logger.Err(err))
		select {
		case <-time.After(busReconnectDelay):
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Service) subscribeSleepSignal(ctx context.Context, conn *dbus.Conn) bool {
	err := conn.AddMatchSignalContext(ctx, dbus.WithMatchInterface(login1Interface),
		dbus.WithMatchMember(prepareForSleep))
	if err == nil {
		return true
	}

	s.logger.Error("failed to subscribe to dbus signal", slog.String("interface", login1Interface),
		slog.String("member", prepareForSleep), logger.Err(err))
	if err = conn.Close(); err != nil {
		s.logger.Debug("failed to close system bus connection", logger.Err(err))
	}
	select {
	case <-time.After(resubscribeDelay):
	case <-ctx.Done():
	}
	return false
}

// waitForResume returns when ctx is done or the signal channel was closed by the connection.
func (s *Service) waitForResume(ctx context.Context, signals <-chan *dbus.Signal, lastResume *int64) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if isResume(sig) {
				s.handleResumeEvent(ctx, lastResume)
			}
		}
	}
}

// isResume reports whether sig is PrepareForSleep(false), sent after the system woke up.
func isResume(sig *dbus.Signal) bool {
	if sig == nil || sig.Name != login1Interface+"."+prepareForSleep || len(sig.Body) != 1 {
		return false
	}
	sleeping, ok := sig.Body[0].(bool)
	return ok && !sleeping
}

// handleResumeEvent runs a pass after the system woke up. Multiple resume events within the
// debounce window trigger a single pass.
func (s *Service) handleResumeEvent(ctx context.Context, lastResume *int64) {
	now := s.now().Unix()
	if now-atomic.LoadInt64(lastResume) < resumeDebounceSecs {
		return
	}
	atomic.StoreInt64(lastResume, now)

	// the network usually needs a moment after resume
	select {
	case <-ctx.Done():
		return
	case <-time.After(networkWakeupDelay):
	}

	s.logger.Debug("resumed from sleep, refreshing weather data")
	s.pass(ctx)
}
