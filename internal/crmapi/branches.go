package crmapi

import (
	"context"
	"net/url"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// ListBranches returns the branches visible to the operator.
func (c *Client) ListBranches(ctx context.Context) ([]core.Branch, error) {
	return c.listBranches(ctx, nil)
}

// ListAllBranches returns every branch, including ones the operator is not assigned to.
func (c *Client) ListAllBranches(ctx context.Context) ([]core.Branch, error) {
	return c.listBranches(ctx, url.Values{"all": {"true"}})
}

func (c *Client) listBranches(ctx context.Context, query url.Values) ([]core.Branch, error) {
	var out struct {
		Branches []core.Branch `json:"branches"`
	}
	if err := c.get(ctx, "/branches", query, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Branches), nil
}

// CreateBranch creates a branch.
func (c *Client) CreateBranch(ctx context.Context, form core.BranchForm) (*core.Branch, error) {
	var out struct {
		Branch *core.Branch `json:"branch"`
	}
	if err := c.post(ctx, "/branches", form, &out); err != nil {
		return nil, err
	}
	return required(out.Branch)
}

// UpdateBranch replaces a branch's editable fields.
func (c *Client) UpdateBranch(ctx context.Context, id string, form core.BranchForm) (*core.Branch, error) {
	var out struct {
		Branch *core.Branch `json:"branch"`
	}
	if err := c.patch(ctx, "/branches/"+url.PathEscape(id), form, &out); err != nil {
		return nil, err
	}
	return required(out.Branch)
}

// DeleteBranch removes a branch.
func (c *Client) DeleteBranch(ctx context.Context, id string) error {
	return c.delete(ctx, "/branches/"+url.PathEscape(id), nil)
}
