package core

import (
	"context"
	"fmt"
)

// FilterSpecFor converts a list query into the predicates of the local filter.
func (s *Service) FilterSpecFor(q ListQuery) (FilterSpec, error) {
	from, to, err := ParseDateRange(q.From, q.To, s.location)
	if err != nil {
		return FilterSpec{}, fmt.Errorf("date range %q..%q: %w", q.From, q.To, err)
	}

	spec := FilterSpec{Query: q.Query, From: from, To: to}
	if q.Branch != "" || q.Status != "" {
		spec.Categories = map[string]string{}
		if q.Branch != "" {
			spec.Categories["branch"] = q.Branch
		}
		if q.Status != "" {
			spec.Categories["status"] = q.Status
		}
	}
	return spec, nil
}

// List returns one page of a screen. Rows are re-fetched from the backend on
// every call; filtering and paging happen locally.
func (s *Service) List(ctx context.Context, screen string, q ListQuery) (*ListPage, error) {
	sc, ok := GetScreen(screen)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScreen, screen)
	}

	spec, err := s.FilterSpecFor(q)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if q.PrevKey != "" && q.PrevKey != spec.Key() {
		page = 1
	}

	return sc.page(ctx, s.env(), q, spec, page)
}

// ListTable returns one page of a screen with its rows rendered as display
// cells, the way an export would show them. Paging follows List.
func (s *Service) ListTable(ctx context.Context, screen string, q ListQuery, viewer *User) (*ListPage, ExportTable, error) {
	sc, ok := GetScreen(screen)
	if !ok {
		return nil, ExportTable{}, fmt.Errorf("%w: %s", ErrUnknownScreen, screen)
	}

	spec, err := s.FilterSpecFor(q)
	if err != nil {
		return nil, ExportTable{}, err
	}

	page := q.Page
	if q.PrevKey != "" && q.PrevKey != spec.Key() {
		page = 1
	}

	return sc.table(ctx, s.env(), q, spec, page, viewer)
}

// Export renders every row of a screen that matches q, ignoring paging.
// viewer decides role-dependent columns.
func (s *Service) Export(ctx context.Context, screen string, q ListQuery, viewer *User) (ExportTable, error) {
	sc, ok := GetScreen(screen)
	if !ok {
		return ExportTable{}, fmt.Errorf("%w: %s", ErrUnknownScreen, screen)
	}

	spec, err := s.FilterSpecFor(q)
	if err != nil {
		return ExportTable{}, err
	}

	return sc.export(ctx, s.env(), q, spec, viewer)
}

// SettlementSummary returns the backend's per branch-pair settlement totals.
func (s *Service) SettlementSummary(ctx context.Context) ([]SettlementSummaryRow, error) {
	_, summary, err := s.backend.ListSettlements(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settlement summary: %w", err)
	}
	if summary == nil {
		summary = []SettlementSummaryRow{}
	}
	return summary, nil
}
