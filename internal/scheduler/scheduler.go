// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: the store settings
// refresh and the orphaned product report.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tharabouqet/florist/internal/metrics"
	"github.com/tharabouqet/florist/internal/store"
)

// Job names.
const (
	JobSettingsRefresh = "settings-refresh"
	JobOrphanReport    = "orphan-report"
)

// OrphanReportSchedule runs the orphan report daily at 06:00.
const OrphanReportSchedule = "0 6 * * *"

const jobTimeout = 30 * time.Second

// ErrJobNotFound is returned by Trigger for an unregistered job name.
var ErrJobNotFound = errors.New("job not found")

// Refresher reloads cached state from the database.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// OrphanLister lists products whose category no longer exists.
type OrphanLister interface {
	OrphanedProducts(ctx context.Context) ([]store.Product, error)
}

type job struct {
	name     string
	schedule string
	entryID  cron.EntryID
	run      func(ctx context.Context) error

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
	NextRun   time.Time `json:"next_run"`
}

// Scheduler handles the cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*job
}

// New creates a scheduler whose schedules are evaluated in loc.
func New(logger *slog.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Register adds a named job. An empty schedule skips registration.
func (s *Scheduler) Register(name, schedule string, run func(ctx context.Context) error) error {
	if schedule == "" {
		s.logger.Info("scheduled job disabled", "job", name)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	j := &job{name: name, schedule: schedule, run: run}
	id, err := s.cron.AddFunc(schedule, func() { s.execute(j) })
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// RegisterSettingsRefresh schedules hub refreshes and counts their outcome.
func (s *Scheduler) RegisterSettingsRefresh(schedule string, hub Refresher, m *metrics.Metrics) error {
	return s.Register(JobSettingsRefresh, schedule, func(ctx context.Context) error {
		err := hub.Refresh(ctx)
		m.RecordSettingsRefresh(err)
		return err
	})
}

// RegisterOrphanReport schedules a warning for products left without a
// category after a rename or delete.
func (s *Scheduler) RegisterOrphanReport(schedule string, lister OrphanLister) error {
	return s.Register(JobOrphanReport, schedule, func(ctx context.Context) error {
		rows, err := lister.OrphanedProducts(ctx)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]string, 0, len(rows))
		for _, p := range rows {
			ids = append(ids, p.ID)
		}
		s.logger.Warn("catalog has products without a category", "count", len(rows), "product_ids", ids)
		return nil
	})
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Trigger runs a job immediately, outside its schedule.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrJobNotFound, name)
	}
	return s.execute(j)
}

// Jobs lists the registered jobs sorted by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		j.mu.Lock()
		info := JobInfo{
			Name:     j.name,
			Schedule: j.schedule,
			LastRun:  j.lastRun,
			NextRun:  s.cron.Entry(j.entryID).Next,
		}
		if j.lastErr != nil {
			info.LastError = j.lastErr.Error()
		}
		j.mu.Unlock()
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (s *Scheduler) execute(j *job) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	err := j.run(ctx)

	j.mu.Lock()
	j.lastRun = start
	j.lastErr = err
	j.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled job failed", "job", j.name, "error", err)
		return err
	}
	s.logger.Debug("scheduled job finished", "job", j.name, "duration", time.Since(start).String())
	return nil
}
