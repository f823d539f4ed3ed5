package service

import (
	"context"
	"errors"
	"time"

	"autofocus_analysis/internal/logger"
	"autofocus_analysis/internal/repository"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 2 * time.Second

// directoryLoader is the part of Reports the watcher drives.
type directoryLoader interface {
	ReloadDirectory(ctx context.Context, dir string) (LoadSummary, error)
	Dir() string
}

// WatcherService reloads the report folder after its *.json files change.
type WatcherService struct {
	reports directoryLoader
	log     *logger.Logger
}

func NewWatcherService(reports directoryLoader, log *logger.Logger) *WatcherService {
	return &WatcherService{reports: reports, log: log}
}

// Run watches dir until ctx is canceled. A reload happens once no report
// file event has been seen for one debounce period. When another folder is
// loaded through Reports, the watch follows it and only that folder is reloaded.
func (w *WatcherService) Run(ctx context.Context, dir string, debounce time.Duration) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Errorw("report_watch_init_failed", "err", err)
		return
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(dir); err != nil {
		w.log.Errorw("report_watch_add_failed", "dir", dir, "err", err)
		return
	}
	w.log.Infow("report_watch_started", "dir", dir, "debounce", debounce)
	watched := dir

	t := time.NewTicker(debounce / 2)
	defer t.Stop()

	var (
		pending   bool
		lastEvent time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !isReportChange(ev) {
				continue
			}
			pending = true
			lastEvent = time.Now()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warnw("report_watch_error", "dir", watched, "err", err)
		case now := <-t.C:
			if current := w.reports.Dir(); current != "" && current != watched {
				// events seen so far belong to the folder being left
				pending = false
				w.repoint(fw, watched, current)
				watched = current
				continue
			}
			if !pending || now.Sub(lastEvent) < debounce {
				continue
			}
			pending = false
			_, err := w.reports.ReloadDirectory(ctx, watched)
			switch {
			case errors.Is(err, ErrDirectoryChanged):
				w.log.Debugw("report_watch_reload_skipped", "dir", watched)
			case err != nil:
				w.log.Warnw("report_watch_reload_failed", "dir", watched, "err", err)
			}
		}
	}
}

// repoint moves the watch from one folder to another. If the new folder
// cannot be watched nothing is watched until the next folder change.
func (w *WatcherService) repoint(fw *fsnotify.Watcher, from, to string) {
	if err := fw.Remove(from); err != nil {
		w.log.Debugw("report_watch_remove_failed", "dir", from, "err", err)
	}
	if err := fw.Add(to); err != nil {
		w.log.Errorw("report_watch_add_failed", "dir", to, "err", err)
		return
	}
	w.log.Infow("report_watch_moved", "from", from, "to", to)
}

func isReportChange(ev fsnotify.Event) bool {
	if !repository.IsReportFile(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
