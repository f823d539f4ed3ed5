package analysis

import (
	"testing"
	"time"

	"autofocus_analysis/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func f64(v float64) *models.Float {
	f := models.Float(v)
	return &f
}

// newObservedLogger returns a sugared logger whose entries can be inspected.
func newObservedLogger(t *testing.T) (*zap.SugaredLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func nopLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// report builds a report that passes the default settings with filter "L".
func report(filter string, temp, pos float64, ts time.Time) models.Report {
	return models.Report{
		Filter:               filter,
		Timestamp:            models.Timestamp{Time: ts},
		Temperature:          models.Float(temp),
		Fitting:              "HYPERBOLIC",
		CalculatedFocusPoint: models.FocusPoint{Position: pos},
		RSquares:             &models.RSquares{Hyperbolic: f64(0.95)},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 21, 30, 0, 0, time.UTC)
}
