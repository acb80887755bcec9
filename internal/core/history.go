package core

import (
	"context"
	"time"
)

// Import history statuses.
const (
	ImportStatusCompleted = "completed"
	ImportStatusPartial   = "partial"
	ImportStatusFailed    = "failed"
)

// ImportHistoryEntry records one import submission. Row contents are never stored.
type ImportHistoryEntry struct {
	ID               string    `json:"id"`
	FileName         string    `json:"fileName"`
	Operator         string    `json:"operator,omitempty"`
	RowCount         int       `json:"rowCount"`
	Imported         int       `json:"imported"`
	CreatedCustomers int       `json:"createdCustomers"`
	ErrorCount       int       `json:"errorCount"`
	Status           string    `json:"status"`
	Message          string    `json:"message,omitempty"`
	IPAddress        string    `json:"ipAddress,omitempty"`
	UserAgent        string    `json:"userAgent,omitempty"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// HistoryRecorder persists import submissions.
type HistoryRecorder interface {
	Record(ctx context.Context, entry ImportHistoryEntry) error
	Recent(ctx context.Context, limit int) ([]ImportHistoryEntry, error)
}

// NopHistory discards entries. It is used when no history database is configured.
type NopHistory struct{}

func (NopHistory) Record(context.Context, ImportHistoryEntry) error { return nil }

func (NopHistory) Recent(context.Context, int) ([]ImportHistoryEntry, error) {
	return []ImportHistoryEntry{}, nil
}

// importStatus classifies a finished submission.
func importStatus(result *ImportResult) string {
	switch {
	case result == nil:
		return ImportStatusFailed
	case len(result.Errors) == 0:
		return ImportStatusCompleted
	case result.Imported > 0:
		return ImportStatusPartial
	default:
		return ImportStatusFailed
	}
}
