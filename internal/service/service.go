package service

import (
	"context"
	"time"

	"autofocus_analysis/internal/analysis"
	"autofocus_analysis/internal/logger"
	"autofocus_analysis/internal/models"
	"autofocus_analysis/internal/repository"
)

// Reports loads report folders into the analysis session.
type Reports interface {
	LoadDirectory(ctx context.Context, dir string) (LoadSummary, error)
	Restore(ctx context.Context) (LoadSummary, error)
	All() []models.Report
	Dir() string
}

// Analysis exposes the filter settings, filtered subset and trend.
type Analysis interface {
	Snapshot() analysis.Snapshot
	Update(ctx context.Context, updates []analysis.FieldUpdate) (analysis.Snapshot, error)
	Version() uint64
}

// EventLog exposes the analysis journal with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AnalysisEvent, error)
}

// Watcher reloads a report folder when its files change.
// Stop via context cancellation in main() for graceful shutdown.
type Watcher interface {
	Run(ctx context.Context, dir string, debounce time.Duration)
}

// Service aggregates all sub-services around one analysis session.
type Service struct {
	Reports
	Analysis
	EventLog
	Watcher
}

func NewService(repos *repository.Repository, log *logger.Logger) *Service {
	session := analysis.NewSession(log)
	reports := NewReportsService(repos.Source, repos.ReportRepo, repos.EventRepo, session, log)
	return &Service{
		Reports:  reports,
		Analysis: NewAnalysisService(session, repos.EventRepo, log),
		EventLog: NewEventLogService(repos.EventRepo),
		Watcher:  NewWatcherService(reports, log),
	}
}
