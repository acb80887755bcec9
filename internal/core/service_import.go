package core

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/JonMunkholm/crmdesk/internal/logging"
)

// Operator identifies who submits an import. Key scopes the import guard.
type Operator struct {
	Key  string
	Name string
}

// ImportMemberships decodes a membership CSV and submits it to the backend in
// a single batch. The backend's per-row errors are returned in the report, not
// as an error. Transport failures and rejected batches return an error wrapping
// ErrImportFailed and no partial result. view is the membership filter the
// operator is looking at; the refreshed list in the report honours it.
func (s *Service) ImportMemberships(ctx context.Context, op Operator, view MembershipFilter, fileName string, r io.Reader) (*ImportReport, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	// The guard covers the read too, so a second upload is refused before its
	// body is buffered.
	if err := s.guard.TryAcquire(op.Key); err != nil {
		return nil, err
	}
	defer s.guard.Release(op.Key)

	text, err := ReadText(r, s.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}

	rows := DecodeMembershipCSV(text)
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}

	log := logging.WithFields(ctx, "file", fileName, "rows", len(rows))
	entry := ImportHistoryEntry{
		ID:          uuid.New().String(),
		FileName:    fileName,
		Operator:    op.Name,
		RowCount:    len(rows),
		IPAddress:   IPAddressFromContext(ctx),
		UserAgent:   UserAgentFromContext(ctx),
		SubmittedAt: s.now(),
	}

	result, err := s.backend.ImportMemberships(ctx, rows)
	if err != nil {
		log.Warn("membership import failed", "error", err)
		entry.Status = ImportStatusFailed
		entry.Message = err.Error()
		s.recordHistory(ctx, entry)
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	report := s.buildReport(entry.ID, fileName, rows, result)
	log.Info("membership import submitted",
		"imported", report.Imported,
		"created_customers", report.CreatedCustomers,
		"errors", report.TotalErrors,
	)

	entry.Imported = report.Imported
	entry.CreatedCustomers = report.CreatedCustomers
	entry.ErrorCount = report.TotalErrors
	entry.Status = importStatus(result)
	entry.Message = report.Summary
	s.recordHistory(ctx, entry)

	// The backend is authoritative after an import, so the list is re-read
	// rather than patched with the submitted rows.
	memberships, err := s.backend.ListMemberships(ctx, view)
	if err != nil {
		log.Warn("refetch memberships after import", "error", err)
	} else {
		report.Memberships = memberships
	}

	return report, nil
}

func (s *Service) buildReport(id, fileName string, rows []ImportRow, result *ImportResult) *ImportReport {
	errs := make([]ImportError, len(result.Errors))
	for i, e := range result.Errors {
		// Backend rows count the header as row 1.
		if idx := e.Row - 2; idx >= 0 && idx < len(rows) {
			e.Line = rows[idx].Line
		}
		errs[i] = e
	}

	report := &ImportReport{
		ID:               id,
		FileName:         fileName,
		Submitted:        len(rows),
		Imported:         result.Imported,
		CreatedCustomers: result.CreatedCustomers,
		TotalErrors:      len(errs),
		Errors:           errs,
	}
	if len(errs) > s.errorPreview {
		report.Errors = errs[:s.errorPreview]
		report.MoreErrors = len(errs) - s.errorPreview
	}
	report.Summary = ImportSummary(report.Imported, report.CreatedCustomers)
	return report
}

func (s *Service) recordHistory(ctx context.Context, entry ImportHistoryEntry) {
	if err := s.history.Record(ctx, entry); err != nil {
		logging.FromContext(ctx).Error("record import history", "id", entry.ID, "error", err)
	}
}

// ImportSummary renders the success line of an import:
// "Imported 3 memberships, created 1 new customer(s)."
func ImportSummary(imported, createdCustomers int) string {
	s := "Imported " + strconv.Itoa(imported) + " membership"
	if imported != 1 {
		s += "s"
	}
	if createdCustomers > 0 {
		s += ", created " + strconv.Itoa(createdCustomers) + " new customer(s)."
	}
	return s
}

// ErrorLines renders the previewed per-row errors as "Row N: message", followed
// by "… and N more errors." when the list was truncated.
func (r *ImportReport) ErrorLines() []string {
	lines := make([]string, 0, len(r.Errors)+1)
	for _, e := range r.Errors {
		lines = append(lines, fmt.Sprintf("Row %d: %s", e.Row, e.Message))
	}
	if r.MoreErrors > 0 {
		lines = append(lines, fmt.Sprintf("… and %d more errors.", r.MoreErrors))
	}
	return lines
}
