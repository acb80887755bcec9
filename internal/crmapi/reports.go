package crmapi

import (
	"context"
	"net/url"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// SalesQuery narrows the sales dashboard.
type SalesQuery struct {
	BranchID        string
	From            string
	To              string
	ServiceCategory string
}

// OwnerOverview is the owner's cross-branch activity report.
type OwnerOverview struct {
	Overview []core.OwnerOverviewBranch `json:"overview"`
	Branches []core.Branch              `json:"branches"`
}

// ListSettlements returns settlements and the per branch-pair summary.
// Amounts are computed by the backend.
func (c *Client) ListSettlements(ctx context.Context) ([]core.Settlement, []core.SettlementSummaryRow, error) {
	var out struct {
		Settlements []core.Settlement           `json:"settlements"`
		Summary     []core.SettlementSummaryRow `json:"summary"`
	}
	if err := c.get(ctx, "/reports/settlements", nil, &out); err != nil {
		return nil, nil, err
	}
	return nonNil(out.Settlements), nonNil(out.Summary), nil
}

// UpdateSettlementStatus marks a settlement, e.g. as settled.
func (c *Client) UpdateSettlementStatus(ctx context.Context, id, status string) (*core.Settlement, error) {
	var out struct {
		Settlement *core.Settlement `json:"settlement"`
	}
	if err := c.patch(ctx, "/reports/settlements/"+url.PathEscape(id), map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return required(out.Settlement)
}

// SalesDashboard returns the sales report for the query.
func (c *Client) SalesDashboard(ctx context.Context, q SalesQuery) (*core.SalesDashboard, error) {
	query := url.Values{}
	setIf(query, "branchId", q.BranchID)
	setIf(query, "from", q.From)
	setIf(query, "to", q.To)
	setIf(query, "serviceCategory", q.ServiceCategory)

	var out core.SalesDashboard
	if err := c.get(ctx, "/reports/sales-dashboard", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OwnerOverview returns per-branch activity for owners.
func (c *Client) OwnerOverview(ctx context.Context) (*OwnerOverview, error) {
	var out OwnerOverview
	if err := c.get(ctx, "/reports/owner-overview", nil, &out); err != nil {
		return nil, err
	}
	out.Overview = nonNil(out.Overview)
	out.Branches = nonNil(out.Branches)
	return &out, nil
}
