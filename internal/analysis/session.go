package analysis

import (
	"errors"
	"fmt"
	"sync"

	"autofocus_analysis/internal/models"
)

// FilterField names one field of Settings.
type FilterField string

const (
	FieldTemperatureFrom    FilterField = "temperature_from"
	FieldTemperatureThrough FilterField = "temperature_through"
	FieldPositionFrom       FilterField = "position_from"
	FieldPositionThrough    FilterField = "position_through"
	FieldRSquaredAbove      FilterField = "r_squared_above"
	FieldSelectedFilter     FilterField = "selected_filter"
	FieldDateFrom           FilterField = "date_from"
	FieldDateThru           FilterField = "date_thru"
)

// Fields lists every settable filter field.
var Fields = []FilterField{
	FieldTemperatureFrom,
	FieldTemperatureThrough,
	FieldPositionFrom,
	FieldPositionThrough,
	FieldRSquaredAbove,
	FieldSelectedFilter,
	FieldDateFrom,
	FieldDateThru,
}

var (
	ErrUnknownField = errors.New("unknown filter field")
	ErrInvalidValue = errors.New("invalid filter value")
)

// FieldUpdate assigns Value to Field. Numeric fields take float64 (or any
// integer), selected_filter takes a string and date fields take nil,
// models.Date, *models.Date or a YYYY-MM-DD string ("" clears).
type FieldUpdate struct {
	Field FilterField
	Value any
}

// Snapshot is a consistent view of a session after its latest recompute.
type Snapshot struct {
	Version       uint64          `json:"version"`
	Settings      Settings        `json:"settings"`
	TotalReports  int             `json:"total_reports"`
	FilteredCount int             `json:"filtered_count"`
	Trend         *models.Trend   `json:"trend"`
	Dates         []*models.Date  `json:"dates"`
	Filters       []string        `json:"filters"`
	Filtered      []models.Report `json:"-"`
}

// Session owns the loaded reports, the current filter settings and the
// filtered subset and trend derived from them. Every mutation recomputes the
// derived state before returning.
type Session struct {
	mu         sync.RWMutex
	store      *Store
	settings   Settings
	filtered   []models.Report
	trend      *models.Trend
	version    uint64
	classifier *Classifier
	log        Logger
}

func NewSession(log Logger) *Session {
	s := &Session{
		store:      NewStore(nil),
		settings:   DefaultSettings(),
		classifier: NewClassifier(log),
		log:        log,
	}
	s.recompute()
	return s
}

// Load replaces the reports wholesale, clears the date bounds and selects the
// first filter name found.
func (s *Session) Load(reports []models.Report) Snapshot {
	store := NewStore(reports)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
	s.settings.DateFrom = nil
	s.settings.DateThru = nil
	s.settings.SelectedFilter = store.FirstFilter()
	s.recompute()
	return s.snapshotLocked()
}

// SetFilterField updates a single filter field.
func (s *Session) SetFilterField(field FilterField, value any) (Snapshot, error) {
	return s.Update(FieldUpdate{Field: field, Value: value})
}

// Update applies all updates and recomputes once. If any update is invalid
// the settings are left untouched.
func (s *Session) Update(updates ...FieldUpdate) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	for _, u := range updates {
		if err := assign(&next, u); err != nil {
			return s.snapshotLocked(), err
		}
	}
	s.settings = next
	s.recompute()
	return s.snapshotLocked(), nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Version increments on every recompute.
func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Reports returns every loaded report.
func (s *Session) Reports() []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Reports()
}

func (s *Session) snapshotLocked() Snapshot {
	var trend *models.Trend
	if s.trend != nil {
		t := *s.trend
		trend = &t
	}
	return Snapshot{
		Version:       s.version,
		Settings:      copySettings(s.settings),
		TotalReports:  s.store.Len(),
		FilteredCount: len(s.filtered),
		Trend:         trend,
		Dates:         s.store.Dates(),
		Filters:       s.store.Filters(),
		Filtered:      s.filtered,
	}
}

func (s *Session) recompute() {
	s.filtered = Apply(s.store.Reports(), s.settings, s.classifier)
	s.trend = nil
	trend, err := Fit(PointsOf(s.filtered))
	if err != nil {
		if s.log != nil {
			s.log.Debugw("trend_unfittable", "err", err, "points", len(s.filtered))
		}
	} else {
		s.trend = &trend
	}
	s.version++
}

func copySettings(in Settings) Settings {
	out := in
	if in.DateFrom != nil {
		d := *in.DateFrom
		out.DateFrom = &d
	}
	if in.DateThru != nil {
		d := *in.DateThru
		out.DateThru = &d
	}
	return out
}

func assign(st *Settings, u FieldUpdate) error {
	switch u.Field {
	case FieldTemperatureFrom:
		return assignFloat(&st.TemperatureFrom, u)
	case FieldTemperatureThrough:
		return assignFloat(&st.TemperatureThrough, u)
	case FieldPositionFrom:
		return assignFloat(&st.PositionFrom, u)
	case FieldPositionThrough:
		return assignFloat(&st.PositionThrough, u)
	case FieldRSquaredAbove:
		return assignFloat(&st.RSquaredAbove, u)
	case FieldSelectedFilter:
		v, ok := u.Value.(string)
		if !ok {
			return invalid(u)
		}
		st.SelectedFilter = v
		return nil
	case FieldDateFrom:
		return assignDate(&st.DateFrom, u)
	case FieldDateThru:
		return assignDate(&st.DateThru, u)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, u.Field)
	}
}

func assignFloat(dst *float64, u FieldUpdate) error {
	switch v := u.Value.(type) {
	case float64:
		*dst = v
	case float32:
		*dst = float64(v)
	case int:
		*dst = float64(v)
	case int64:
		*dst = float64(v)
	default:
		return invalid(u)
	}
	return nil
}

func assignDate(dst **models.Date, u FieldUpdate) error {
	switch v := u.Value.(type) {
	case nil:
		*dst = nil
	case models.Date:
		*dst = &v
	case *models.Date:
		if v == nil {
			*dst = nil
			return nil
		}
		d := *v
		*dst = &d
	case string:
		if v == "" {
			*dst = nil
			return nil
		}
		d, err := models.ParseDate(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, u.Field, err)
		}
		*dst = &d
	default:
		return invalid(u)
	}
	return nil
}

func invalid(u FieldUpdate) error {
	return fmt.Errorf("%w: %s does not accept %T", ErrInvalidValue, u.Field, u.Value)
}
