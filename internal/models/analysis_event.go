package models

import "time"

// Journal event types.
const (
	EventReportsLoaded  = "REPORTS_LOADED"
	EventRecordSkipped  = "RECORD_SKIPPED"
	EventFiltersChanged = "FILTERS_CHANGED"
	EventSnapshotLoaded = "SNAPSHOT_RESTORED"
)

// AnalysisEvent is a single analysis journal entry.
type AnalysisEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // REPORTS_LOADED | RECORD_SKIPPED | FILTERS_CHANGED | SNAPSHOT_RESTORED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
