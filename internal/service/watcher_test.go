package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"autofocus_analysis/internal/analysis"
	"autofocus_analysis/internal/logger"
	"autofocus_analysis/internal/repository"

	"github.com/fsnotify/fsnotify"
)

type recordingLoader struct {
	mu    sync.Mutex
	dirs  []string
	calls chan struct{}
}

func (r *recordingLoader) Dir() string { return "" }

func (r *recordingLoader) ReloadDirectory(ctx context.Context, dir string) (LoadSummary, error) {
	r.mu.Lock()
	r.dirs = append(r.dirs, dir)
	r.mu.Unlock()
	select {
	case r.calls <- struct{}{}:
	default:
	}
	return LoadSummary{Dir: dir}, nil
}

func TestWatcherService_ReloadsOnReportChange(t *testing.T) {
	dir := t.TempDir()
	loader := &recordingLoader{calls: make(chan struct{}, 1)}
	w := NewWatcherService(loader, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, dir, 50*time.Millisecond)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Keep writing until the watcher is registered and a reload happens.
	deadline := time.After(5 * time.Second)
	for i := 0; ; i++ {
		name := filepath.Join(dir, fmt.Sprintf("run-%d.json", i))
		if err := os.WriteFile(name, []byte(`{}`), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		select {
		case <-loader.calls:
			loader.mu.Lock()
			defer loader.mu.Unlock()
			if loader.dirs[0] != dir {
				t.Fatalf("reloaded %q; want %q", loader.dirs[0], dir)
			}
			return
		case <-time.After(200 * time.Millisecond):
		case <-deadline:
			t.Fatalf("watcher never reloaded the folder")
		}
	}
}

func writeReportFile(t *testing.T, dir, name, filter string) {
	t.Helper()
	body := fmt.Sprintf(`{"Filter": %q, "Timestamp": "2024-03-02T21:00:00Z", "Temperature": 1,
		"Fitting": "HYPERBOLIC", "CalculatedFocusPoint": {"Position": 100}}`, filter)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// waitFor polls cond, writing one more file through write on each attempt.
func waitFor(t *testing.T, what string, write func(i int), cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for i := 0; !cond(); i++ {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		write(i)
		time.Sleep(100 * time.Millisecond)
	}
}

func TestWatcherService_FollowsUserLoadedFolder(t *testing.T) {
	configured, chosen := t.TempDir(), t.TempDir()
	writeReportFile(t, configured, "a0.json", "A")
	writeReportFile(t, chosen, "b0.json", "B")

	log := logger.Nop()
	session := analysis.NewSession(log)
	svc := NewReportsService(repository.NewReportDir(1), &stubReportRepo{}, &fakeEventRepo{}, session, log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := svc.LoadDirectory(ctx, configured); err != nil {
		t.Fatalf("load configured: %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewWatcherService(svc, log).Run(ctx, configured, 50*time.Millisecond)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitFor(t, "reload of the configured folder",
		func(i int) { writeReportFile(t, configured, fmt.Sprintf("a%d.json", i+1), "A") },
		func() bool { return session.Snapshot().TotalReports > 1 })

	if _, err := svc.LoadDirectory(ctx, chosen); err != nil {
		t.Fatalf("load chosen: %v", err)
	}

	waitFor(t, "reload of the chosen folder",
		func(i int) {
			writeReportFile(t, configured, fmt.Sprintf("late%d.json", i), "A")
			writeReportFile(t, chosen, fmt.Sprintf("b%d.json", i+1), "B")
			if got := svc.Dir(); got != chosen {
				t.Fatalf("Dir() = %q; the watcher swapped the loaded folder back", got)
			}
		},
		func() bool { return session.Snapshot().TotalReports > 1 })

	if got := svc.Dir(); got != chosen {
		t.Fatalf("Dir() = %q; want %q", got, chosen)
	}
	if filters := session.Snapshot().Filters; len(filters) != 1 || filters[0] != "B" {
		t.Fatalf("filters = %v; want only B", filters)
	}
}

func TestWatcherService_MissingDirReturns(t *testing.T) {
	loader := &recordingLoader{calls: make(chan struct{}, 1)}
	w := NewWatcherService(loader, logger.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), time.Second)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run should return when the folder cannot be watched")
	}
}

func TestIsReportChange(t *testing.T) {
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/af/a.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/af/a.json", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/af/a.json", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/af/a.json", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/af/a.txt", Op: fsnotify.Create}, false},
	}
	for _, tc := range cases {
		if got := isReportChange(tc.ev); got != tc.want {
			t.Fatalf("isReportChange(%v) = %v; want %v", tc.ev, got, tc.want)
		}
	}
}
