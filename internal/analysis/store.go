package analysis

import "autofocus_analysis/internal/models"

// Store holds one loaded collection of reports plus the distinct dates and
// filter names found in it, both in first-seen order.
type Store struct {
	reports []models.Report
	dates   []models.Date
	filters []string
}

// NewStore indexes reports. The slice is copied; the Store never changes afterwards.
func NewStore(reports []models.Report) *Store {
	s := &Store{
		reports: make([]models.Report, len(reports)),
		dates:   make([]models.Date, 0),
		filters: make([]string, 0),
	}
	copy(s.reports, reports)

	seenDates := make(map[models.Date]struct{})
	seenFilters := make(map[string]struct{})
	for _, r := range s.reports {
		d := r.Date()
		if _, ok := seenDates[d]; !ok {
			seenDates[d] = struct{}{}
			s.dates = append(s.dates, d)
		}
		if _, ok := seenFilters[r.Filter]; !ok {
			seenFilters[r.Filter] = struct{}{}
			s.filters = append(s.filters, r.Filter)
		}
	}
	return s
}

func (s *Store) Len() int { return len(s.reports) }

// Reports returns the loaded reports in load order. Callers must not modify the result.
func (s *Store) Reports() []models.Report { return s.reports }

// Dates returns the distinct report dates led by a nil entry meaning "no date filter".
func (s *Store) Dates() []*models.Date {
	out := make([]*models.Date, 0, len(s.dates)+1)
	out = append(out, nil)
	for i := range s.dates {
		d := s.dates[i]
		out = append(out, &d)
	}
	return out
}

// Filters returns the distinct filter names.
func (s *Store) Filters() []string {
	out := make([]string, len(s.filters))
	copy(out, s.filters)
	return out
}

// FirstFilter returns the first filter name seen, or "" for an empty store.
func (s *Store) FirstFilter() string {
	if len(s.filters) == 0 {
		return ""
	}
	return s.filters[0]
}
