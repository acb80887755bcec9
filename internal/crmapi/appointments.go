package crmapi

import (
	"context"
	"net/url"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// AppointmentForm books an appointment.
type AppointmentForm struct {
	CustomerID  string `json:"customerId" validate:"required"`
	BranchID    string `json:"branchId,omitempty"`
	StaffUserID string `json:"staffUserId,omitempty"`
	ServiceID   string `json:"serviceId,omitempty"`
	ScheduledAt string `json:"scheduledAt" validate:"required"`
	Status      string `json:"status,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// AppointmentUpdate is the editable part of an appointment.
type AppointmentUpdate struct {
	ScheduledAt string `json:"scheduledAt,omitempty"`
	Status      string `json:"status,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ListAppointments returns appointments narrowed by the filter's non-empty fields.
func (c *Client) ListAppointments(ctx context.Context, f core.AppointmentFilter) ([]core.Appointment, error) {
	query := url.Values{}
	setIf(query, "branchId", f.BranchID)
	setIf(query, "customerId", f.CustomerID)
	setIf(query, "date", f.Date)
	setIf(query, "from", f.From)
	setIf(query, "to", f.To)

	var out struct {
		Appointments []core.Appointment `json:"appointments"`
	}
	if err := c.get(ctx, "/appointments", query, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Appointments), nil
}

// CreateAppointment books an appointment.
func (c *Client) CreateAppointment(ctx context.Context, form AppointmentForm) (*core.Appointment, error) {
	var out struct {
		Appointment *core.Appointment `json:"appointment"`
	}
	if err := c.post(ctx, "/appointments", form, &out); err != nil {
		return nil, err
	}
	return required(out.Appointment)
}

// UpdateAppointment reschedules an appointment or changes its status.
func (c *Client) UpdateAppointment(ctx context.Context, id string, update AppointmentUpdate) (*core.Appointment, error) {
	var out struct {
		Appointment *core.Appointment `json:"appointment"`
	}
	if err := c.patch(ctx, "/appointments/"+url.PathEscape(id), update, &out); err != nil {
		return nil, err
	}
	return required(out.Appointment)
}
