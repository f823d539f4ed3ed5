package handlers

import (
	"context"
	"time"

	"autofocus_analysis/internal/analysis"
	"autofocus_analysis/internal/models"
	"autofocus_analysis/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockReports struct {
	summary service.LoadSummary
	loadErr error
	reports []models.Report
	dir     string

	lastLoadDir string
	loadCalls   int
}

func (m *mockReports) LoadDirectory(ctx context.Context, dir string) (service.LoadSummary, error) {
	m.loadCalls++
	m.lastLoadDir = dir
	if dir == "" {
		return service.LoadSummary{}, service.ErrNoDirectory
	}
	return m.summary, m.loadErr
}
func (m *mockReports) Restore(ctx context.Context) (service.LoadSummary, error) {
	return m.summary, nil
}
func (m *mockReports) All() []models.Report { return m.reports }
func (m *mockReports) Dir() string            { return m.dir }

type mockAnalysis struct {
	snap      analysis.Snapshot
	updateErr error
	version   uint64

	lastUpdates []analysis.FieldUpdate
}

func (m *mockAnalysis) Snapshot() analysis.Snapshot { return m.snap }
func (m *mockAnalysis) Update(ctx context.Context, updates []analysis.FieldUpdate) (analysis.Snapshot, error) {
	m.lastUpdates = updates
	return m.snap, m.updateErr
}
func (m *mockAnalysis) Version() uint64 { return m.version }

type mockEventLog struct {
	resp     []models.AnalysisEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	calls    int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.AnalysisEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
