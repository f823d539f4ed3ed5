package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"autofocus_analysis/internal/models"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	reportExt      = ".json"
	defaultWorkers = 4
)

var (
	ErrNotDirectory = errors.New("not a directory")
	errEmptyRecord  = errors.New("empty record")
)

// RecordParseError describes a report file that could not be decoded.
type RecordParseError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("parse report %q: %v", e.Path, e.Err)
}

func (e *RecordParseError) Unwrap() error { return e.Err }

// LoadResult is the outcome of a best-effort directory load.
type LoadResult struct {
	Reports  []models.Report
	Failures []*RecordParseError
}

// ReportDir reads *.json report files from a directory.
type ReportDir struct {
	workers int
}

func NewReportDir(workers int) *ReportDir {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &ReportDir{workers: workers}
}

// Load decodes every report file in dir, in file name order. Files that fail
// to decode are reported in Failures and skipped. An error is returned only if
// the directory cannot be read or ctx is done.
func (d *ReportDir) Load(ctx context.Context, dir string) (LoadResult, error) {
	paths, err := listReportFiles(dir)
	if err != nil {
		return LoadResult{}, err
	}

	type slot struct {
		report *models.Report
		err    error
	}
	slots := make([]slot, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := decodeReportFile(path)
			slots[i] = slot{report: r, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LoadResult{}, fmt.Errorf("load reports from %q: %w", dir, err)
	}
	if err := ctx.Err(); err != nil {
		return LoadResult{}, fmt.Errorf("load reports from %q: %w", dir, err)
	}

	res := LoadResult{Reports: make([]models.Report, 0, len(paths))}
	for i, s := range slots {
		if s.err != nil {
			res.Failures = append(res.Failures, &RecordParseError{Path: paths[i], Err: s.err})
			continue
		}
		res.Reports = append(res.Reports, *s.report)
	}
	return res, nil
}

func listReportFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("report dir %q: %w", dir, ErrNotDirectory)
	}
	if err != nil {
		return nil, fmt.Errorf("stat report dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("report dir %q: %w", dir, ErrNotDirectory)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read report dir %q: %w", dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsReportFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// IsReportFile reports whether name has the report file extension.
func IsReportFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), reportExt)
}

func decodeReportFile(path string) (*models.Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r *models.Report
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errEmptyRecord
	}
	r.SourcePath = path
	return r, nil
}
