package repository

import (
	"context"
	"database/sql"
	"time"

	"autofocus_analysis/internal/models"
)

// ReportSource enumerates and decodes the report files of a directory.
type ReportSource interface {
	Load(ctx context.Context, dir string) (LoadResult, error)
}

// ReportRepo keeps a snapshot of the most recently loaded reports.
type ReportRepo interface {
	Replace(ctx context.Context, dir string, reports []models.Report) error
	Load(ctx context.Context) (string, []models.Report, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.AnalysisEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AnalysisEvent, error)
}

type Repository struct {
	Source     ReportSource
	ReportRepo ReportRepo
	EventRepo  EventRepo
}

func NewRepository(db *sql.DB, workers int) *Repository {
	return &Repository{
		Source:     NewReportDir(workers),
		ReportRepo: NewReportSQLite(db),
		EventRepo:  NewEventSQLite(db),
	}
}
