package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autofocus_analysis/internal/models"
	"autofocus_analysis/internal/repository"
	"autofocus_analysis/internal/service"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestLoadReports(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		current  string
		loadErr  error
		wantCode int
		wantDir  string
	}{
		{name: "explicit dir", body: `{"dir":"/af"}`, wantCode: http.StatusOK, wantDir: "/af"},
		{name: "empty body reloads current", body: "", current: "/prev", wantCode: http.StatusOK, wantDir: "/prev"},
		{name: "nothing to load", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "bad json", body: `{"dir":`, wantCode: http.StatusBadRequest},
		{name: "not a directory", body: `{"dir":"/etc/hosts"}`, loadErr: repository.ErrNotDirectory, wantCode: http.StatusBadRequest, wantDir: "/etc/hosts"},
		{name: "other failure", body: `{"dir":"/af"}`, loadErr: errors.New("io"), wantCode: http.StatusInternalServerError, wantDir: "/af"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := &mockReports{
				dir:     tc.current,
				loadErr: tc.loadErr,
				summary: service.LoadSummary{Dir: tc.wantDir, Loaded: 3, Failed: 1},
			}
			r := newTestRouter(&service.Service{Reports: rep})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/load", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d; want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantDir != "" && rep.lastLoadDir != tc.wantDir {
				t.Fatalf("loaded %q; want %q", rep.lastLoadDir, tc.wantDir)
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			var out service.LoadSummary
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.Loaded != 3 || out.Failed != 1 {
				t.Fatalf("summary = %+v", out)
			}
		})
	}
}

func TestListReports(t *testing.T) {
	rep := &mockReports{
		dir: "/af",
		reports: []models.Report{
			{Filter: "L", Temperature: 3.5, Fitting: "HYPERBOLIC"},
			{Filter: "R", Temperature: 2, Fitting: "PARABOLIC"},
		},
	}
	r := newTestRouter(&service.Service{Reports: rep})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		Dir     string `json:"dir"`
		Count   int    `json:"count"`
		Reports []struct {
			Filter string `json:"Filter"`
		} `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Dir != "/af" || out.Count != 2 || out.Reports[1].Filter != "R" {
		t.Fatalf("unexpected response: %+v", out)
	}
}
