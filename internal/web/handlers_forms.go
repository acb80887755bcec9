package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// createHandler decodes a form of type F and relays it through create.
func createHandler[F any, T any](s *Server, create func(context.Context, F) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form F
		if err := decodeJSON(w, r, &form); err != nil {
			s.fail(w, r, err)
			return
		}
		created, err := create(r.Context(), form)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, created)
	}
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	createHandler[core.CustomerForm](s, s.service.CreateCustomer)(w, r)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	createHandler[core.LeadForm](s, s.service.CreateLead)(w, r)
}

func (s *Server) handleCreateMembership(w http.ResponseWriter, r *http.Request) {
	createHandler[core.MembershipForm](s, s.service.CreateMembership)(w, r)
}

func (s *Server) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	createHandler[core.BranchForm](s, s.service.CreateBranch)(w, r)
}
