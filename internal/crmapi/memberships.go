package crmapi

import (
	"context"
	"net/url"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// MembershipDetail is a membership with its usage history.
type MembershipDetail struct {
	Membership   core.Membership        `json:"membership"`
	UsageHistory []core.MembershipUsage `json:"usageHistory"`
}

// UsageForm records credits used against a membership.
type UsageForm struct {
	CreditsUsed    int    `json:"creditsUsed,omitempty" validate:"gte=0"`
	Notes          string `json:"notes,omitempty"`
	ServiceDetails string `json:"serviceDetails,omitempty"`
	UsedAtBranchID string `json:"usedAtBranchId,omitempty"`
}

// MembershipUpdate is the editable part of a membership.
type MembershipUpdate struct {
	UsedCredits *int   `json:"usedCredits,omitempty"`
	Status      string `json:"status,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
}

// ListMemberships returns memberships, narrowed by the filter's non-empty fields.
func (c *Client) ListMemberships(ctx context.Context, f core.MembershipFilter) ([]core.Membership, error) {
	query := url.Values{}
	setIf(query, "branchId", f.BranchID)
	setIf(query, "customerId", f.CustomerID)
	setIf(query, "status", f.Status)

	var out struct {
		Memberships []core.Membership `json:"memberships"`
	}
	if err := c.get(ctx, "/memberships", query, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Memberships), nil
}

// GetMembership returns one membership with its usage history.
func (c *Client) GetMembership(ctx context.Context, id string) (*MembershipDetail, error) {
	var out struct {
		Membership   *core.Membership       `json:"membership"`
		UsageHistory []core.MembershipUsage `json:"usageHistory"`
	}
	if err := c.get(ctx, "/memberships/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	m, err := required(out.Membership)
	if err != nil {
		return nil, err
	}
	return &MembershipDetail{Membership: *m, UsageHistory: nonNil(out.UsageHistory)}, nil
}

// CreateMembership sells a membership.
func (c *Client) CreateMembership(ctx context.Context, form core.MembershipForm) (*core.Membership, error) {
	var out struct {
		Membership *core.Membership `json:"membership"`
	}
	if err := c.post(ctx, "/memberships", form, &out); err != nil {
		return nil, err
	}
	return required(out.Membership)
}

// UseMembership records a credit redemption.
func (c *Client) UseMembership(ctx context.Context, id string, form UsageForm) (*core.MembershipUsage, error) {
	var out struct {
		Usage *core.MembershipUsage `json:"usage"`
	}
	if err := c.post(ctx, "/memberships/"+url.PathEscape(id)+"/use", form, &out); err != nil {
		return nil, err
	}
	return required(out.Usage)
}

// UpdateMembership patches a membership.
func (c *Client) UpdateMembership(ctx context.Context, id string, update MembershipUpdate) (*core.Membership, error) {
	var out struct {
		Membership *core.Membership `json:"membership"`
	}
	if err := c.patch(ctx, "/memberships/"+url.PathEscape(id), update, &out); err != nil {
		return nil, err
	}
	return required(out.Membership)
}

// ListMembershipTypes returns the membership catalog.
func (c *Client) ListMembershipTypes(ctx context.Context) ([]core.MembershipType, error) {
	var out struct {
		MembershipTypes []core.MembershipType `json:"membershipTypes"`
	}
	if err := c.get(ctx, "/membership-types", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.MembershipTypes), nil
}

// ImportMemberships submits decoded rows in one request. Per-row failures are
// part of the result; a response without an imported count is an APIError.
func (c *Client) ImportMemberships(ctx context.Context, rows []core.ImportRow) (*core.ImportResult, error) {
	var out struct {
		Message          string             `json:"message"`
		Imported         *int               `json:"imported"`
		CreatedCustomers int                `json:"createdCustomers"`
		Errors           []core.ImportError `json:"errors"`
	}
	if err := c.post(ctx, "/memberships/import", map[string]any{"rows": rows}, &out); err != nil {
		return nil, err
	}
	if out.Imported == nil {
		msg := out.Message
		if msg == "" {
			msg = "Import failed."
		}
		return nil, &APIError{Status: 200, Message: msg}
	}
	return &core.ImportResult{
		Imported:         *out.Imported,
		CreatedCustomers: out.CreatedCustomers,
		Errors:           nonNil(out.Errors),
	}, nil
}
