package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher reloads a table file on a cron schedule, for deployments where
// the file is replaced by a job rather than edited in place.
type Refresher struct {
	reloader *Reloader
	schedule string
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewRefresher creates a refresher using a standard five-field cron
// expression, e.g. "0 */6 * * *" for every six hours.
func NewRefresher(reloader *Reloader, schedule string) *Refresher {
	return &Refresher{
		reloader: reloader,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules the reload job. An empty schedule is a no-op. The
// refresher stops when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := r.reloader.logger.With("component", "registry.refresher")

	if r.schedule == "" {
		logger.Info("refresh schedule not configured, skipping refresher")
		return nil
	}
	if r.running {
		return fmt.Errorf("refresher already running")
	}

	if _, err := cron.ParseStandard(r.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", r.schedule, err)
	}

	if _, err := r.cron.AddFunc(r.schedule, func() {
		_ = r.reloader.Reload(TriggerSchedule)
	}); err != nil {
		return fmt.Errorf("failed to schedule model table refresh: %w", err)
	}

	r.cron.Start()
	r.running = true

	logger.Info("model table refresher started",
		"schedule", r.schedule,
		"path", r.reloader.Path(),
	)

	go func() {
		<-ctx.Done()
		r.Stop()
	}()

	return nil
}

// Stop stops the schedule and waits for a running reload to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	<-r.cron.Stop().Done()
	r.running = false
}

// IsRunning reports whether the schedule is active.
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

// NextRun returns the next scheduled reload, or nil when not scheduled.
func (r *Refresher) NextRun() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
