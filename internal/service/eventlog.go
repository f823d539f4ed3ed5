package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autofocus_analysis/internal/models"
	"autofocus_analysis/internal/repository"
)

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownEventType = errors.New("unknown event type")
)

var journalTypes = map[string]struct{}{
	models.EventReportsLoaded:  {},
	models.EventRecordSkipped:  {},
	models.EventFiltersChanged: {},
	models.EventSnapshotLoaded: {},
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns journal entries in [f.From, f.To], optionally of one type.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.AnalysisEvent, error) {
	q, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q.From, q.To, q.Type)
}

// normalizeFilter converts bounds to UTC, canonicalizes the type and
// rejects inverted ranges and unknown types.
func normalizeFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From: utcOrZero(f.From),
		To:   utcOrZero(f.To),
		Type: strings.ToUpper(strings.TrimSpace(f.Type)),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	if out.Type != "" {
		if _, ok := journalTypes[out.Type]; !ok {
			return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownEventType, f.Type)
		}
	}
	return out, nil
}

func utcOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
