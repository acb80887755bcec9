package crmapi

import (
	"context"
	"net/url"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// LeadUpdate is the editable part of a lead.
type LeadUpdate struct {
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// ListLeads returns leads, narrowed by branch and status when set.
func (c *Client) ListLeads(ctx context.Context, f core.LeadFilter) ([]core.Lead, error) {
	query := url.Values{}
	setIf(query, "branchId", f.BranchID)
	setIf(query, "status", f.Status)

	var out struct {
		Leads []core.Lead `json:"leads"`
	}
	if err := c.get(ctx, "/leads", query, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Leads), nil
}

// GetLead returns one lead with its follow-ups.
func (c *Client) GetLead(ctx context.Context, id string) (*core.Lead, error) {
	var out struct {
		Lead *core.Lead `json:"lead"`
	}
	if err := c.get(ctx, "/leads/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return required(out.Lead)
}

// CreateLead creates a lead.
func (c *Client) CreateLead(ctx context.Context, form core.LeadForm) (*core.Lead, error) {
	var out struct {
		Lead *core.Lead `json:"lead"`
	}
	if err := c.post(ctx, "/leads", form, &out); err != nil {
		return nil, err
	}
	return required(out.Lead)
}

// UpdateLead changes a lead's status or notes.
func (c *Client) UpdateLead(ctx context.Context, id string, update LeadUpdate) (*core.Lead, error) {
	var out struct {
		Lead *core.Lead `json:"lead"`
	}
	if err := c.patch(ctx, "/leads/"+url.PathEscape(id), update, &out); err != nil {
		return nil, err
	}
	return required(out.Lead)
}

// AddFollowUp records a note against a lead and returns the lead's follow-ups.
func (c *Client) AddFollowUp(ctx context.Context, id, note string) ([]core.FollowUp, error) {
	var out struct {
		FollowUps []core.FollowUp `json:"followUps"`
	}
	if err := c.post(ctx, "/leads/"+url.PathEscape(id)+"/follow-up", map[string]string{"note": note}, &out); err != nil {
		return nil, err
	}
	return nonNil(out.FollowUps), nil
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
