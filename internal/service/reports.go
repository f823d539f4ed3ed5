package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"autofocus_analysis/internal/analysis"
	"autofocus_analysis/internal/logger"
	"autofocus_analysis/internal/models"
	"autofocus_analysis/internal/repository"
)

var (
	ErrNoDirectory = errors.New("no report directory given")
	// ErrDirectoryChanged means another folder was loaded in the meantime.
	ErrDirectoryChanged = errors.New("report directory changed")
)

type ReportsService struct {
	source     repository.ReportSource
	reportRepo repository.ReportRepo
	eventRepo  repository.EventRepo
	session    *analysis.Session
	log        *logger.Logger

	// loadMu serializes loads coming from HTTP and the folder watcher.
	loadMu sync.Mutex
	mu     sync.RWMutex
	dir    string
}

func NewReportsService(
	source repository.ReportSource,
	reportRepo repository.ReportRepo,
	eventRepo repository.EventRepo,
	session *analysis.Session,
	log *logger.Logger,
) *ReportsService {
	return &ReportsService{
		source:     source,
		reportRepo: reportRepo,
		eventRepo:  eventRepo,
		session:    session,
		log:        log,
	}
}

// LoadDirectory replaces the session's reports with the files in dir.
// Undecodable files are skipped and reported in the summary. If the folder
// cannot be read the current reports stay in place.
func (s *ReportsService) LoadDirectory(ctx context.Context, dir string) (LoadSummary, error) {
	if dir == "" {
		return LoadSummary{}, ErrNoDirectory
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loadLocked(ctx, dir)
}

// ReloadDirectory reloads dir only if it is still the folder the current
// reports came from (or nothing has been loaded yet). Otherwise it returns
// ErrDirectoryChanged and leaves the reports untouched.
func (s *ReportsService) ReloadDirectory(ctx context.Context, dir string) (LoadSummary, error) {
	if dir == "" {
		return LoadSummary{}, ErrNoDirectory
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if current := s.Dir(); current != "" && current != dir {
		return LoadSummary{}, fmt.Errorf("%w: %s is loaded, not %s", ErrDirectoryChanged, current, dir)
	}
	return s.loadLocked(ctx, dir)
}

func (s *ReportsService) loadLocked(ctx context.Context, dir string) (LoadSummary, error) {
	res, err := s.source.Load(ctx, dir)
	if err != nil {
		s.log.Errorw("reports_load_failed", "dir", dir, "err", err)
		return LoadSummary{}, fmt.Errorf("load report directory: %w", err)
	}

	failures := make([]LoadFailure, 0, len(res.Failures))
	for _, f := range res.Failures {
		s.log.Errorw("report_parse_failed", "path", f.Path, "err", f.Err)
		failures = append(failures, LoadFailure{Path: f.Path, Error: f.Err.Error()})
		s.journal(ctx, models.AnalysisEvent{
			Type:        models.EventRecordSkipped,
			Description: fmt.Sprintf("skipped %s", f.Path),
			Metadata:    map[string]any{"path": f.Path, "error": f.Err.Error()},
		})
	}

	snap := s.session.Load(res.Reports)
	s.setDir(dir)

	if err := s.reportRepo.Replace(ctx, dir, res.Reports); err != nil {
		s.log.Errorw("report_snapshot_save_failed", "dir", dir, "err", err)
	}

	s.log.Infow("reports_loaded",
		"dir", dir,
		"loaded", len(res.Reports),
		"failed", len(failures),
		"filters", snap.Filters,
		"selected_filter", snap.Settings.SelectedFilter,
	)
	s.journal(ctx, models.AnalysisEvent{
		Type:        models.EventReportsLoaded,
		Description: fmt.Sprintf("loaded %d reports from %s", len(res.Reports), dir),
		Metadata:    map[string]any{"dir": dir, "loaded": len(res.Reports), "failed": len(failures)},
	})

	return LoadSummary{
		Dir:      dir,
		Loaded:   len(res.Reports),
		Failed:   len(failures),
		Failures: failures,
		Analysis: snap,
	}, nil
}

// Restore loads the last stored snapshot into the session. An empty store is not an error.
func (s *ReportsService) Restore(ctx context.Context) (LoadSummary, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	dir, reports, err := s.reportRepo.Load(ctx)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("restore report snapshot: %w", err)
	}
	if dir == "" {
		return LoadSummary{Analysis: s.session.Snapshot()}, nil
	}

	snap := s.session.Load(reports)
	s.setDir(dir)
	s.log.Infow("report_snapshot_restored", "dir", dir, "loaded", len(reports))
	s.journal(ctx, models.AnalysisEvent{
		Type:        models.EventSnapshotLoaded,
		Description: fmt.Sprintf("restored %d reports of %s", len(reports), dir),
		Metadata:    map[string]any{"dir": dir, "loaded": len(reports)},
	})
	return LoadSummary{Dir: dir, Loaded: len(reports), Analysis: snap}, nil
}

func (s *ReportsService) All() []models.Report {
	return s.session.Reports()
}

// Dir is the folder the current reports came from.
func (s *ReportsService) Dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

func (s *ReportsService) setDir(dir string) {
	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()
}

// journal appends best-effort; a failing journal never fails the operation.
func (s *ReportsService) journal(ctx context.Context, e models.AnalysisEvent) {
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warnw("journal_append_failed", "type", e.Type, "err", err)
	}
}
