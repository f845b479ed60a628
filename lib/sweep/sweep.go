// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sweep periodically removes expired items from every online
// actor's holdings. Items that expire while sitting untouched in an
// inventory are otherwise only noticed when someone next interacts
// with them.
package sweep

import (
	"io"
	"log/slog"
	"sync"

	"github.com/bureau-foundation/warden/lib/enforce"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemevent"
	"github.com/bureau-foundation/warden/lib/tick"
)

// DefaultInterval is the sweep period in ticks: one minute at
// tick.DefaultRate.
const DefaultInterval uint64 = 60 * tick.DefaultRate

// ActorSource lists the actors currently online.
type ActorSource interface {
	Online() []enforce.Actor
}

// Holdings sweeps one actor's inventory. *enforce.Matrix implements
// it.
type Holdings interface {
	SweepHoldings(actor enforce.Actor, action itemevent.Action) []item.Item
}

// Report summarises one sweep pass.
type Report struct {
	// Actors is the number of actors swept.
	Actors int
	// Removed is the number of stacks removed across all actors.
	Removed int
}

// Sweeper runs periodic sweeps on a tick.Scheduler.
type Sweeper struct {
	holdings Holdings
	actors   ActorSource
	interval uint64
	logger   *slog.Logger

	mu   sync.Mutex
	task *tick.Task
}

// New returns a stopped Sweeper. A zero interval means
// DefaultInterval; a nil logger discards.
func New(holdings Holdings, actors ActorSource, interval uint64, logger *slog.Logger) *Sweeper {
	if interval == 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sweeper{holdings: holdings, actors: actors, interval: interval, logger: logger}
}

// Interval returns the sweep period in ticks.
func (s *Sweeper) Interval() uint64 { return s.interval }

// Start schedules the first sweep on the next tick and one every
// interval ticks after that. Starting a running Sweeper restarts its
// schedule.
func (s *Sweeper) Start(scheduler *tick.Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil {
		s.task.Cancel()
	}
	s.task = scheduler.Every(1, s.interval, func() { s.SweepOnce() })
	s.logger.Info("periodic sweep started", "interval_ticks", s.interval)
}

// Stop cancels the schedule. A sweep already running completes.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task == nil {
		return
	}
	s.task.Cancel()
	s.task = nil
	s.logger.Info("periodic sweep stopped")
}

// Running reports whether a schedule is active.
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task != nil
}

// SweepOnce sweeps every online actor now.
func (s *Sweeper) SweepOnce() Report {
	var report Report
	for _, actor := range s.actors.Online() {
		removed := s.holdings.SweepHoldings(actor, itemevent.PeriodicCheck)
		report.Actors++
		report.Removed += len(removed)
	}
	if report.Removed > 0 {
		s.logger.Info("periodic sweep removed expired items",
			"actors", report.Actors,
			"removed", report.Removed,
		)
	} else {
		s.logger.Debug("periodic sweep found nothing", "actors", report.Actors)
	}
	return report
}
