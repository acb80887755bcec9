package core

import (
	"context"
	"strings"
)

// CreateCustomer validates form and relays it to the backend.
func (s *Service) CreateCustomer(ctx context.Context, form CustomerForm) (*Customer, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}
	return s.backend.CreateCustomer(ctx, form)
}

// CreateLead validates form and relays it to the backend.
func (s *Service) CreateLead(ctx context.Context, form LeadForm) (*Lead, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}
	return s.backend.CreateLead(ctx, form)
}

// CreateMembership validates form and relays it to the backend.
func (s *Service) CreateMembership(ctx context.Context, form MembershipForm) (*Membership, error) {
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}
	return s.backend.CreateMembership(ctx, form)
}

// CreateBranch validates form and relays it to the backend.
func (s *Service) CreateBranch(ctx context.Context, form BranchForm) (*Branch, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Code = strings.TrimSpace(form.Code)
	if err := s.validator.Validate(form); err != nil {
		return nil, err
	}
	return s.backend.CreateBranch(ctx, form)
}
