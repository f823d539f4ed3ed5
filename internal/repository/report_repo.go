package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"autofocus_analysis/internal/models"
)

type ReportSQLite struct {
	db *sql.DB
}

func NewReportSQLite(db *sql.DB) *ReportSQLite {
	return &ReportSQLite{db: db}
}

const (
	snapshotRowID = 1

	deleteReportsSQL = `DELETE FROM reports`

	insertReportSQL = `
		INSERT INTO reports (seq, source_path, filter, ts, temperature, position, fitting, method,
			focuser, star_detector, has_r2, r2_hyperbolic, r2_quadratic, r2_left, r2_right)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	upsertSnapshotSQL = `
		INSERT INTO report_snapshot (id, dir, count, loaded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			dir=excluded.dir,
			count=excluded.count,
			loaded_at=excluded.loaded_at
	`

	selectSnapshotSQL = `SELECT dir FROM report_snapshot WHERE id=?`

	selectReportsSQL = `
		SELECT source_path, filter, ts, temperature, position, fitting, method,
			focuser, star_detector, has_r2, r2_hyperbolic, r2_quadratic, r2_left, r2_right
		FROM reports ORDER BY seq ASC
	`
)

// Replace swaps the stored snapshot for reports in one transaction.
func (r *ReportSQLite) Replace(ctx context.Context, dir string, reports []models.Report) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteReportsSQL); err != nil {
		return fmt.Errorf("clear reports: %w", err)
	}
	for i, rep := range reports {
		if _, err := tx.ExecContext(ctx, insertReportSQL, reportArgs(i, rep)...); err != nil {
			return fmt.Errorf("insert report %q: %w", rep.SourcePath, err)
		}
	}
	if _, err := tx.ExecContext(ctx, upsertSnapshotSQL, snapshotRowID, dir, len(reports), time.Now().UTC()); err != nil {
		return fmt.Errorf("save snapshot header: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report snapshot: %w", err)
	}
	return nil
}

// Load returns the stored directory and reports in their original order.
// An empty snapshot yields ("", nil, nil).
func (r *ReportSQLite) Load(ctx context.Context) (string, []models.Report, error) {
	var dir string
	if err := r.db.QueryRowContext(ctx, selectSnapshotSQL, snapshotRowID).Scan(&dir); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("select snapshot header: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, selectReportsSQL)
	if err != nil {
		return "", nil, fmt.Errorf("select reports: %w", err)
	}
	defer rows.Close()

	out := make([]models.Report, 0, 64)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return "", nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("iterate reports: %w", err)
	}
	return dir, out, nil
}

func reportArgs(seq int, rep models.Report) []any {
	var temp any
	if t := rep.Temperature.Value(); !math.IsNaN(t) && !math.IsInf(t, 0) {
		temp = t
	}
	var hyp, quad, left, right any
	if rs := rep.RSquares; rs != nil {
		hyp, quad, left, right = nullable(rs.Hyperbolic), nullable(rs.Quadratic), nullable(rs.LeftTrend), nullable(rs.RightTrend)
	}
	return []any{
		seq,
		rep.SourcePath,
		rep.Filter,
		rep.Timestamp.Format(time.RFC3339Nano),
		temp,
		rep.Position(),
		rep.Fitting,
		rep.Method,
		rep.AutoFocuserName,
		rep.StarDetectorName,
		rep.RSquares != nil,
		hyp, quad, left, right,
	}
}

// nullable maps absent and non-finite scores to NULL; SQLite has no NaN.
func nullable(v *models.Float) any {
	if v == nil {
		return nil
	}
	f := v.Value()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func scanReport(rows *sql.Rows) (models.Report, error) {
	var (
		rep                    models.Report
		ts                     string
		temp                   sql.NullFloat64
		method, foc, det       sql.NullString
		hasR2                  bool
		hyp, quad, left, right sql.NullFloat64
	)
	if err := rows.Scan(
		&rep.SourcePath,
		&rep.Filter,
		&ts,
		&temp,
		&rep.CalculatedFocusPoint.Position,
		&rep.Fitting,
		&method,
		&foc,
		&det,
		&hasR2,
		&hyp, &quad, &left, &right,
	); err != nil {
		return models.Report{}, fmt.Errorf("scan report: %w", err)
	}

	parsed, err := models.ParseTimestamp(ts)
	if err != nil {
		return models.Report{}, fmt.Errorf("parse stored timestamp %q: %w", ts, err)
	}
	rep.Timestamp = models.Timestamp{Time: parsed}

	rep.Temperature = models.Float(math.NaN())
	if temp.Valid {
		rep.Temperature = models.Float(temp.Float64)
	}
	rep.Method, rep.AutoFocuserName, rep.StarDetectorName = method.String, foc.String, det.String

	if hasR2 {
		rep.RSquares = &models.RSquares{
			Hyperbolic: fromNull(hyp),
			Quadratic:  fromNull(quad),
			LeftTrend:  fromNull(left),
			RightTrend: fromNull(right),
		}
	}
	return rep, nil
}

func fromNull(v sql.NullFloat64) *models.Float {
	if !v.Valid {
		return nil
	}
	f := models.Float(v.Float64)
	return &f
}
