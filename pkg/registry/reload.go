package registry

import (
	"log/slog"
)

// Reload triggers reported to a ReloadObserver.
const (
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// ReloadObserver receives the outcome of every table reload attempt.
type ReloadObserver interface {
	ObserveReload(trigger string, err error)
}

// Reloader loads a table file and swaps it into a registry. A table that
// fails to load leaves the registry untouched.
type Reloader struct {
	path     string
	registry *Registry
	logger   *slog.Logger
	observer ReloadObserver
}

// NewReloader creates a reloader for the table file at path. observer may be nil.
func NewReloader(reg *Registry, path string, logger *slog.Logger, observer ReloadObserver) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		path:     path,
		registry: reg,
		logger:   logger.With("component", "registry.reloader"),
		observer: observer,
	}
}

// Path returns the table file being reloaded.
func (l *Reloader) Path() string {
	return l.path
}

// Reload reads the table file and installs it.
func (l *Reloader) Reload(trigger string) error {
	t, err := LoadFile(l.path)
	if l.observer != nil {
		l.observer.ObserveReload(trigger, err)
	}
	if err != nil {
		l.logger.Error("model table reload failed, keeping current table",
			"path", l.path,
			"trigger", trigger,
			"error", err,
		)
		return err
	}

	previous := l.registry.Swap(t)
	attrs := []any{
		"path", l.path,
		"trigger", trigger,
		"version", t.Version(),
		"models", t.Len(),
	}
	if previous != nil {
		attrs = append(attrs, "previous_version", previous.Version())
	}
	l.logger.Info("model table reloaded", attrs...)
	return nil
}
