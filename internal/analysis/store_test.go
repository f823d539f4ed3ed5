package analysis

import (
	"testing"
	"time"

	"autofocus_analysis/internal/models"
)

func TestNewStore_DistinctIndicesInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	reports := []models.Report{
		report("Ha", 1, 100, day(2024, time.May, 2)),
		report("L", 2, 200, day(2024, time.May, 1)),
		report("Ha", 3, 300, day(2024, time.May, 2)),
		report("OIII", 4, 400, day(2024, time.May, 3)),
	}
	s := NewStore(reports)

	if s.Len() != 4 {
		t.Fatalf("Len: want 4, got %d", s.Len())
	}
	if got := s.Filters(); len(got) != 3 || got[0] != "Ha" || got[1] != "L" || got[2] != "OIII" {
		t.Fatalf("Filters: got %v", got)
	}
	if s.FirstFilter() != "Ha" {
		t.Fatalf("FirstFilter: want Ha, got %q", s.FirstFilter())
	}

	dates := s.Dates()
	if len(dates) != 4 {
		t.Fatalf("Dates: want sentinel + 3, got %d", len(dates))
	}
	if dates[0] != nil {
		t.Fatalf("Dates[0] must be the nil sentinel, got %v", dates[0])
	}
	want := []string{"2024-05-02", "2024-05-01", "2024-05-03"}
	for i, w := range want {
		if dates[i+1] == nil || dates[i+1].String() != w {
			t.Fatalf("Dates[%d]: want %s, got %v", i+1, w, dates[i+1])
		}
	}
}

func TestNewStore_CopiesInput(t *testing.T) {
	t.Parallel()

	reports := []models.Report{report("L", 1, 100, day(2024, time.May, 2))}
	s := NewStore(reports)
	reports[0].Filter = "changed"

	if s.Reports()[0].Filter != "L" {
		t.Fatalf("store must not alias the caller's slice")
	}
}

func TestNewStore_Empty(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	if s.Len() != 0 || s.FirstFilter() != "" || len(s.Filters()) != 0 {
		t.Fatalf("unexpected empty store state: %+v", s)
	}
	if d := s.Dates(); len(d) != 1 || d[0] != nil {
		t.Fatalf("empty store should only carry the sentinel, got %v", d)
	}
}
