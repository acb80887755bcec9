package crmapi

import (
	"context"
	"net/url"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// ListPackages returns sellable packages. includeInactive also returns retired ones.
func (c *Client) ListPackages(ctx context.Context, includeInactive bool) ([]core.PackageItem, error) {
	var query url.Values
	if includeInactive {
		query = url.Values{"all": {"true"}}
	}

	var out struct {
		Packages []core.PackageItem `json:"packages"`
	}
	if err := c.get(ctx, "/packages", query, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Packages), nil
}

// Loyalty returns a customer's point balance and ledger.
func (c *Client) Loyalty(ctx context.Context, customerID string) (*core.LoyaltyBalance, error) {
	var out core.LoyaltyBalance
	if err := c.get(ctx, "/loyalty/"+url.PathEscape(customerID), nil, &out); err != nil {
		return nil, err
	}
	out.Transactions = nonNil(out.Transactions)
	return &out, nil
}
