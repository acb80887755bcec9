// Package history stores import submissions in PostgreSQL so the import screen
// can show what was sent, by whom and how it went. Row contents are never stored.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS import_history (
	id                UUID PRIMARY KEY,
	file_name         TEXT NOT NULL,
	operator          TEXT NOT NULL DEFAULT '',
	row_count         INTEGER NOT NULL,
	imported          INTEGER NOT NULL DEFAULT 0,
	created_customers INTEGER NOT NULL DEFAULT 0,
	error_count       INTEGER NOT NULL DEFAULT 0,
	status            TEXT NOT NULL,
	message           TEXT,
	ip_address        TEXT,
	user_agent        TEXT,
	submitted_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS import_history_submitted_at_idx ON import_history (submitted_at DESC);
`

// Recorder writes import history through a pgx pool.
type Recorder struct {
	pool *pgxpool.Pool
}

var _ core.HistoryRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder. Call EnsureSchema once before use.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// EnsureSchema creates the history table if it does not exist.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create import_history: %w", err)
	}
	return nil
}

// Record inserts one entry. A missing ID or timestamp is filled in.
func (r *Recorder) Record(ctx context.Context, e core.ImportHistoryEntry) error {
	id, err := toPgUUID(e.ID)
	if err != nil {
		return err
	}
	submitted := e.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}

	const q = `
		INSERT INTO import_history (
			id, file_name, operator, row_count, imported, created_customers,
			error_count, status, message, ip_address, user_agent, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.pool.Exec(ctx, q,
		id,
		e.FileName,
		e.Operator,
		e.RowCount,
		e.Imported,
		e.CreatedCustomers,
		e.ErrorCount,
		e.Status,
		toPgText(e.Message),
		toPgText(e.IPAddress),
		toPgText(e.UserAgent),
		pgtype.Timestamptz{Time: submitted, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert import_history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]core.ImportHistoryEntry, error) {
	const q = `
		SELECT id, file_name, operator, row_count, imported, created_customers,
			error_count, status, message, ip_address, user_agent, submitted_at
		FROM import_history
		ORDER BY submitted_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query import_history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("scan import_history: %w", err)
	}
	return entries, nil
}

// Prune deletes entries submitted before cutoff and reports how many went.
func (r *Recorder) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM import_history WHERE submitted_at < $1`,
		pgtype.Timestamptz{Time: cutoff, Valid: true})
	if err != nil {
		return 0, fmt.Errorf("prune import_history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanEntry(row pgx.CollectableRow) (core.ImportHistoryEntry, error) {
	var (
		e                   core.ImportHistoryEntry
		id                  pgtype.UUID
		message, ip, agent  pgtype.Text
		submitted           pgtype.Timestamptz
		rowCount, imported  int32
		created, errorCount int32
	)
	err := row.Scan(&id, &e.FileName, &e.Operator, &rowCount, &imported, &created,
		&errorCount, &e.Status, &message, &ip, &agent, &submitted)
	if err != nil {
		return e, err
	}

	e.ID = fromPgUUID(id)
	e.RowCount = int(rowCount)
	e.Imported = int(imported)
	e.CreatedCustomers = int(created)
	e.ErrorCount = int(errorCount)
	e.Message = message.String
	e.IPAddress = ip.String
	e.UserAgent = agent.String
	e.SubmittedAt = submitted.Time
	return e, nil
}

// toPgUUID parses id, generating a fresh one when it is empty.
func toPgUUID(id string) (pgtype.UUID, error) {
	if id == "" {
		return pgtype.UUID{Bytes: uuid.New(), Valid: true}, nil
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("history id %q: %w", id, err)
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}

func fromPgUUID(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// toPgText maps "" to NULL.
func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
