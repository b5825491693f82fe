package registry

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const reloadTableV2 = `
version: "v2"
openai:
  patch:
    gpt-4.1-mini:
      factor: 1.62
      max_tokens: 1536
      input_cost_per_million_tokens: 0.80
      output_cost_per_million_tokens: 3.20
`

type recordingObserver struct {
	mu      sync.Mutex
	reloads []string
	errs    []error
}

func (o *recordingObserver) ObserveReload(trigger string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reloads = append(o.reloads, trigger)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.reloads)
}

func writeTable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReloader_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.yaml")
	writeTable(t, path, reloadTableV2)

	reg, err := NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	observer := &recordingObserver{}
	reloader := NewReloader(reg, path, nil, observer)

	if err := reloader.Reload(TriggerManual); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if got := reg.Table().Version(); got != "v2" {
		t.Errorf("table version after reload = %q, want v2", got)
	}

	// A broken file keeps the last good table.
	writeTable(t, path, "openai: [")
	if err := reloader.Reload(TriggerManual); err == nil {
		t.Fatal("Reload() of broken file returned nil error")
	}
	if got := reg.Table().Version(); got != "v2" {
		t.Errorf("table version after failed reload = %q, want v2", got)
	}

	if observer.count() != 2 {
		t.Fatalf("observer saw %d reloads, want 2", observer.count())
	}
	if observer.errs[0] != nil || observer.errs[1] == nil {
		t.Errorf("observer errors = %v, want [nil, non-nil]", observer.errs)
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.yaml")
	writeTable(t, path, string(DefaultTableYAML()))

	reg, err := NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	observer := &recordingObserver{}
	watcher, err := NewWatcher(NewReloader(reg, path, nil, observer), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer func() { _ = watcher.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = watcher.Watch(ctx)
	}()

	// Wait for watcher to start
	time.Sleep(100 * time.Millisecond)

	writeTable(t, path, reloadTableV2)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if reg.Table().Version() == "v2" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if got := reg.Table().Version(); got != "v2" {
		t.Fatalf("table version = %q after file change, want v2", got)
	}
	if observer.count() == 0 {
		t.Error("observer saw no reloads")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.yaml")
	writeTable(t, path, reloadTableV2)

	reg, err := NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	observer := &recordingObserver{}
	watcher, err := NewWatcher(NewReloader(reg, path, nil, observer), 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = watcher.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = watcher.Watch(ctx)
	}()
	time.Sleep(100 * time.Millisecond)

	writeTable(t, filepath.Join(dir, "other.yaml"), "x: 1")
	time.Sleep(200 * time.Millisecond)

	if observer.count() != 0 {
		t.Errorf("observer saw %d reloads for an unrelated file, want 0", observer.count())
	}
}

func TestRefresher_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "every six hours", schedule: "0 */6 * * *", wantRunning: true},
		{name: "empty schedule", schedule: "", wantRunning: false},
		{name: "invalid schedule", schedule: "whenever", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewDefault()
			if err != nil {
				t.Fatal(err)
			}
			refresher := NewRefresher(NewReloader(reg, "unused.yaml", nil, nil), tt.schedule)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err = refresher.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if refresher.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", refresher.IsRunning(), tt.wantRunning)
			}
			if tt.wantRunning && refresher.NextRun() == nil {
				t.Error("NextRun() = nil for a running refresher")
			}

			refresher.Stop()
			if refresher.IsRunning() {
				t.Error("IsRunning() = true after Stop()")
			}
		})
	}
}
