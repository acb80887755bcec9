package crmapi

import (
	"context"
	"net/url"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// ListCustomers returns every customer visible to the operator.
func (c *Client) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	var out struct {
		Customers []core.Customer `json:"customers"`
	}
	if err := c.get(ctx, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Customers), nil
}

// GetCustomer returns one customer.
func (c *Client) GetCustomer(ctx context.Context, id string) (*core.Customer, error) {
	var out struct {
		Customer *core.Customer `json:"customer"`
	}
	if err := c.get(ctx, "/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return required(out.Customer)
}

// CreateCustomer creates a customer.
func (c *Client) CreateCustomer(ctx context.Context, form core.CustomerForm) (*core.Customer, error) {
	var out struct {
		Customer *core.Customer `json:"customer"`
	}
	if err := c.post(ctx, "/customers", form, &out); err != nil {
		return nil, err
	}
	return required(out.Customer)
}

// UpdateCustomer patches a customer with the given fields.
func (c *Client) UpdateCustomer(ctx context.Context, id string, fields map[string]any) (*core.Customer, error) {
	var out struct {
		Customer *core.Customer `json:"customer"`
	}
	if err := c.patch(ctx, "/customers/"+url.PathEscape(id), fields, &out); err != nil {
		return nil, err
	}
	return required(out.Customer)
}

// nonNil turns a missing list into an empty one.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// required reports a 2xx answer that lacks its payload as an APIError.
func required[T any](v *T) (*T, error) {
	if v == nil {
		return nil, &APIError{Status: 200, Message: DefaultMessage}
	}
	return v, nil
}
