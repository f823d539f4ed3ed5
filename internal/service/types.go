package service

import (
	"time"

	"autofocus_analysis/internal/analysis"
)

// LogFilter supports journal filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "REPORTS_LOADED", "RECORD_SKIPPED", "FILTERS_CHANGED", "SNAPSHOT_RESTORED"
}

// LoadFailure names a report file that was skipped.
type LoadFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// LoadSummary describes the outcome of loading a folder or restoring a snapshot.
type LoadSummary struct {
	Dir      string            `json:"dir"`
	Loaded   int               `json:"loaded"`
	Failed   int               `json:"failed"`
	Failures []LoadFailure     `json:"failures,omitempty"`
	Analysis analysis.Snapshot `json:"analysis"`
}
