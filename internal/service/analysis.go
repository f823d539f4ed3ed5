package service

import (
	"context"
	"fmt"

	"autofocus_analysis/internal/analysis"
	"autofocus_analysis/internal/logger"
	"autofocus_analysis/internal/models"
	"autofocus_analysis/internal/repository"
)

type AnalysisService struct {
	session   *analysis.Session
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewAnalysisService(session *analysis.Session, eventRepo repository.EventRepo, log *logger.Logger) *AnalysisService {
	return &AnalysisService{session: session, eventRepo: eventRepo, log: log}
}

func (s *AnalysisService) Snapshot() analysis.Snapshot {
	return s.session.Snapshot()
}

func (s *AnalysisService) Version() uint64 {
	return s.session.Version()
}

// Update applies filter changes and returns the recomputed snapshot.
func (s *AnalysisService) Update(ctx context.Context, updates []analysis.FieldUpdate) (analysis.Snapshot, error) {
	snap, err := s.session.Update(updates...)
	if err != nil {
		return snap, err
	}

	changed := make(map[string]any, len(updates))
	for _, u := range updates {
		changed[string(u.Field)] = describeValue(u.Value)
	}
	s.log.Infow("filters_changed",
		"changes", changed,
		"filtered", snap.FilteredCount,
		"trend", snap.Trend != nil,
	)

	meta := map[string]any{"changes": changed, "filtered": snap.FilteredCount}
	if snap.Trend != nil {
		meta["slope"] = snap.Trend.Slope
		meta["intercept"] = snap.Trend.Intercept
	}
	if err := s.eventRepo.Append(ctx, models.AnalysisEvent{
		Type:        models.EventFiltersChanged,
		Description: fmt.Sprintf("%d filter field(s) changed, %d reports selected", len(updates), snap.FilteredCount),
		Metadata:    meta,
	}); err != nil {
		s.log.Warnw("journal_append_failed", "type", models.EventFiltersChanged, "err", err)
	}
	return snap, nil
}

func describeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *models.Date:
		if x == nil {
			return nil
		}
		return x.String()
	case models.Date:
		return x.String()
	default:
		return x
	}
}
