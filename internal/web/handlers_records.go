package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/JonMunkholm/crmdesk/internal/crmapi"
	"github.com/go-chi/chi/v5"
)

// Records is the part of the backend behind the detail, report and small
// mutation screens. Its answers are relayed as-is.
type Records interface {
	GetCustomer(ctx context.Context, id string) (*core.Customer, error)
	Loyalty(ctx context.Context, customerID string) (*core.LoyaltyBalance, error)

	GetMembership(ctx context.Context, id string) (*crmapi.MembershipDetail, error)
	UseMembership(ctx context.Context, id string, form crmapi.UsageForm) (*core.MembershipUsage, error)
	ListMembershipTypes(ctx context.Context) ([]core.MembershipType, error)

	GetLead(ctx context.Context, id string) (*core.Lead, error)
	UpdateLead(ctx context.Context, id string, update crmapi.LeadUpdate) (*core.Lead, error)
	AddFollowUp(ctx context.Context, id, note string) ([]core.FollowUp, error)

	CreateAppointment(ctx context.Context, form crmapi.AppointmentForm) (*core.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, update crmapi.AppointmentUpdate) (*core.Appointment, error)

	UpdateBranch(ctx context.Context, id string, form core.BranchForm) (*core.Branch, error)
	DeleteBranch(ctx context.Context, id string) error

	UpdateSettlementStatus(ctx context.Context, id, status string) (*core.Settlement, error)
	ListPackages(ctx context.Context, includeInactive bool) ([]core.PackageItem, error)
	SalesDashboard(ctx context.Context, q crmapi.SalesQuery) (*core.SalesDashboard, error)
	OwnerOverview(ctx context.Context) (*crmapi.OwnerOverview, error)
}

// followUpForm adds a note to a lead.
type followUpForm struct {
	Note string `json:"note" validate:"required,max=2000"`
}

// settlementStatusForm moves a settlement between pending and settled.
type settlementStatusForm struct {
	Status string `json:"status" validate:"required,oneof=pending settled"`
}

func (s *Server) setupRecordRoutes(r chi.Router) {
	r.Get("/customers/{id}", s.handleGetCustomer)
	r.Get("/customers/{id}/loyalty", s.handleLoyalty)

	r.Get("/memberships/{id}", s.handleGetMembership)
	r.Post("/memberships/{id}/use", s.handleUseMembership)
	r.Get("/membership-types", s.handleMembershipTypes)

	r.Get("/leads/{id}", s.handleGetLead)
	r.Patch("/leads/{id}", s.handleUpdateLead)
	r.Post("/leads/{id}/follow-ups", s.handleAddFollowUp)

	r.Post("/appointments", s.handleCreateAppointment)
	r.Patch("/appointments/{id}", s.handleUpdateAppointment)

	r.Patch("/branches/{id}", s.handleUpdateBranch)
	r.Delete("/branches/{id}", s.handleDeleteBranch)

	r.Patch("/settlements/{id}", s.handleSettlementStatus)
	r.Get("/packages", s.handlePackages)

	r.Get("/reports/sales", s.handleSalesDashboard)
	r.Get("/reports/owner-overview", s.handleOwnerOverview)
}

// relay writes the backend's answer, or the mapped error.
func relay[T any](s *Server, w http.ResponseWriter, r *http.Request, v T, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// decodeValid decodes a JSON body into form and validates it.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, form any) error {
	if err := decodeJSON(w, r, form); err != nil {
		return err
	}
	return s.service.Validator().Validate(form)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.records.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	relay(s, w, r, c, err)
}

func (s *Server) handleLoyalty(w http.ResponseWriter, r *http.Request) {
	b, err := s.records.Loyalty(r.Context(), chi.URLParam(r, "id"))
	relay(s, w, r, b, err)
}

func (s *Server) handleGetMembership(w http.ResponseWriter, r *http.Request) {
	m, err := s.records.GetMembership(r.Context(), chi.URLParam(r, "id"))
	relay(s, w, r, m, err)
}

func (s *Server) handleUseMembership(w http.ResponseWriter, r *http.Request) {
	var form crmapi.UsageForm
	if err := s.decodeValid(w, r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	if form.CreditsUsed == 0 {
		form.CreditsUsed = 1
	}
	u, err := s.records.UseMembership(r.Context(), chi.URLParam(r, "id"), form)
	relay(s, w, r, u, err)
}

func (s *Server) handleMembershipTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.records.ListMembershipTypes(r.Context())
	relay(s, w, r, map[string]any{"membershipTypes": types}, err)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	l, err := s.records.GetLead(r.Context(), chi.URLParam(r, "id"))
	relay(s, w, r, l, err)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var update crmapi.LeadUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.records.UpdateLead(r.Context(), chi.URLParam(r, "id"), update)
	relay(s, w, r, l, err)
}

func (s *Server) handleAddFollowUp(w http.ResponseWriter, r *http.Request) {
	var form followUpForm
	if err := s.decodeValid(w, r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	followUps, err := s.records.AddFollowUp(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(form.Note))
	relay(s, w, r, map[string]any{"followUps": followUps}, err)
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var form crmapi.AppointmentForm
	if err := s.decodeValid(w, r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.records.CreateAppointment(r.Context(), form)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, a)
}

func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var update crmapi.AppointmentUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.records.UpdateAppointment(r.Context(), chi.URLParam(r, "id"), update)
	relay(s, w, r, a, err)
}

func (s *Server) handleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	var form core.BranchForm
	if err := s.decodeValid(w, r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.records.UpdateBranch(r.Context(), chi.URLParam(r, "id"), form)
	relay(s, w, r, b, err)
}

func (s *Server) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	err := s.records.DeleteBranch(r.Context(), chi.URLParam(r, "id"))
	relay(s, w, r, map[string]bool{"success": true}, err)
}

func (s *Server) handleSettlementStatus(w http.ResponseWriter, r *http.Request) {
	var form settlementStatusForm
	if err := decodeJSON(w, r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	form.Status = strings.ToLower(strings.TrimSpace(form.Status))
	if err := s.service.Validator().Validate(form); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.records.UpdateSettlementStatus(r.Context(), chi.URLParam(r, "id"), form.Status)
	relay(s, w, r, st, err)
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.records.ListPackages(r.Context(), r.URL.Query().Get("all") == "true")
	relay(s, w, r, map[string]any{"packages": pkgs}, err)
}

// handleSalesDashboard validates the optional date bounds before asking the backend.
func (s *Server) handleSalesDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := crmapi.SalesQuery{
		BranchID:        q.Get("branch"),
		From:            strings.TrimSpace(q.Get("from")),
		To:              strings.TrimSpace(q.Get("to")),
		ServiceCategory: q.Get("serviceCategory"),
	}
	if _, _, err := core.ParseDateRange(query.From, query.To, s.service.Location()); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.records.SalesDashboard(r.Context(), query)
	relay(s, w, r, d, err)
}

func (s *Server) handleOwnerOverview(w http.ResponseWriter, r *http.Request) {
	o, err := s.records.OwnerOverview(r.Context())
	relay(s, w, r, o, err)
}
