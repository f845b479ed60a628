// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tick provides the deferral model for item policy: a
// [Scheduler] that counts discrete processing cycles ("ticks") and runs
// queued work at tick boundaries.
//
// Interaction handlers never mutate holdings while an interaction is
// being processed. They queue the mutation with [Scheduler.Defer] and
// it runs at the start of the next tick, after the host has finished
// with the interaction. Delayed work ([Scheduler.After]) and recurring
// work ([Scheduler.Every]) use the same queue.
//
// A Scheduler is driven either by calling [Scheduler.Tick] directly
// (hosts with their own loop, and tests) or by [Scheduler.Run], which
// ticks at a fixed interval on an injected [clock.Clock].
package tick

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bureau-foundation/warden/lib/clock"
)

// DefaultRate is the number of ticks per second the host is assumed
// to run at.
const DefaultRate = 20

// Scheduler queues functions to run on future ticks. It is safe for
// concurrent use. Tasks run on the goroutine calling Tick, one at a
// time.
type Scheduler struct {
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	current uint64
	nextSeq uint64
	pending []*Task
}

// Task is a scheduled function.
type Task struct {
	scheduler *Scheduler
	seq       uint64
	due       uint64
	period    uint64
	fn        func()
	cancelled bool
}

// New returns a scheduler at tick 0. interval is the wall-clock time
// between ticks when driven by Run. A nil logger discards.
func New(clk clock.Clock, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{clock: clk, interval: interval, logger: logger}
}

// Current returns the number of ticks processed so far.
func (s *Scheduler) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Pending returns the number of scheduled, uncancelled tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Defer runs fn on the next tick.
func (s *Scheduler) Defer(fn func()) *Task {
	return s.schedule(1, 0, fn)
}

// After runs fn once, ticks ticks from now. Zero is treated as one:
// nothing scheduled runs during the tick that scheduled it.
func (s *Scheduler) After(ticks uint64, fn func()) *Task {
	return s.schedule(ticks, 0, fn)
}

// Every runs fn delay ticks from now and then every period ticks until
// cancelled. A zero delay or period is treated as one.
func (s *Scheduler) Every(delay, period uint64, fn func()) *Task {
	return s.schedule(delay, max(period, 1), fn)
}

func (s *Scheduler) schedule(delay, period uint64, fn func()) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	task := &Task{
		scheduler: s,
		seq:       s.nextSeq,
		due:       s.current + max(delay, 1),
		period:    period,
		fn:        fn,
	}
	s.pending = append(s.pending, task)
	return task
}

// Cancel prevents any future run of the task. Cancelling from inside
// the task itself stops a repeating task after the current run.
func (t *Task) Cancel() {
	s := t.scheduler
	s.mu.Lock()
	defer s.mu.Unlock()
	t.cancelled = true
	s.pending = slices.DeleteFunc(s.pending, func(candidate *Task) bool {
		return candidate == t
	})
}

// Tick advances the counter and runs every task that has come due, in
// the order the tasks were scheduled. Tasks scheduled while ticking are
// due on a later tick. A panicking task is logged and does not stop the
// others; a panicking repeating task keeps its schedule.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	s.current++
	now := s.current
	var due []*Task
	s.pending = slices.DeleteFunc(s.pending, func(task *Task) bool {
		if task.due > now {
			return false
		}
		due = append(due, task)
		if task.period > 0 {
			task.due = now + task.period
			return false
		}
		return true
	})
	s.mu.Unlock()

	slices.SortFunc(due, func(a, b *Task) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	for _, task := range due {
		s.mu.Lock()
		cancelled := task.cancelled
		s.mu.Unlock()
		if cancelled {
			continue
		}
		s.run(now, task)
	}
}

func (s *Scheduler) run(now uint64, task *Task) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.logger.Error("scheduled task panicked",
				"tick", now,
				"task", task.seq,
				"panic", recovered,
			)
		}
	}()
	task.fn()
}

// Run calls Tick once per interval until ctx is done, then returns
// ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("tick scheduler running", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Ticks converts a wall-clock duration to a tick count at rate ticks
// per second, rounding up so that a non-zero duration is at least one
// tick.
func Ticks(d time.Duration, rate int) uint64 {
	if d <= 0 || rate <= 0 {
		return 0
	}
	perTick := time.Second / time.Duration(rate)
	return uint64((d + perTick - 1) / perTick)
}
