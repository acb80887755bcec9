package web

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/JonMunkholm/crmdesk/internal/core"
	"github.com/JonMunkholm/crmdesk/internal/crmapi"
	"github.com/JonMunkholm/crmdesk/internal/session"
)

// recordsFake overrides the Records methods these tests exercise.
type recordsFake struct {
	*fakeBackend

	followUps   []string
	settlements map[string]string
	usages      []crmapi.UsageForm
	salesQuery  *crmapi.SalesQuery
	loyaltyErr  error
}

func (f *recordsFake) Loyalty(_ context.Context, customerID string) (*core.LoyaltyBalance, error) {
	if f.loyaltyErr != nil {
		return nil, f.loyaltyErr
	}
	return &core.LoyaltyBalance{
		Points:       120,
		Transactions: []core.LoyaltyTransaction{{ID: "t1", Points: 120, Type: "earn", CreatedAt: "2024-04-01"}},
	}, nil
}

func (f *recordsFake) AddFollowUp(_ context.Context, id, note string) ([]core.FollowUp, error) {
	f.followUps = append(f.followUps, id+":"+note)
	return []core.FollowUp{{Note: note, At: "2024-05-01T12:00:00Z"}}, nil
}

func (f *recordsFake) UpdateSettlementStatus(_ context.Context, id, status string) (*core.Settlement, error) {
	if f.settlements == nil {
		f.settlements = map[string]string{}
	}
	f.settlements[id] = status
	return &core.Settlement{ID: id, Status: status}, nil
}

func (f *recordsFake) UseMembership(_ context.Context, id string, form crmapi.UsageForm) (*core.MembershipUsage, error) {
	f.usages = append(f.usages, form)
	return &core.MembershipUsage{ID: "u-" + id, CreditsUsed: form.CreditsUsed}, nil
}

func (f *recordsFake) CreateAppointment(_ context.Context, form crmapi.AppointmentForm) (*core.Appointment, error) {
	return &core.Appointment{ID: "a-new", ScheduledAt: form.ScheduledAt, Status: "scheduled"}, nil
}

func (f *recordsFake) SalesDashboard(_ context.Context, q crmapi.SalesQuery) (*core.SalesDashboard, error) {
	f.salesQuery = &q
	return &core.SalesDashboard{From: q.From, To: q.To, TotalRevenue: 1250}, nil
}

func newRecordsServer(t *testing.T, api *recordsFake) *Server {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore())
	if err := sessions.Update(context.Background(), "tok", &core.User{ID: "u1", Role: core.RoleAdmin}); err != nil {
		t.Fatalf("sessions.Update() error = %v", err)
	}
	service := core.NewService(api.fakeBackend, core.Options{Location: time.UTC})
	return NewServer(service, api, sessions, testConfig())
}

func TestServer_Loyalty(t *testing.T) {
	t.Run("balance", func(t *testing.T) {
		s := newRecordsServer(t, &recordsFake{fakeBackend: &fakeBackend{}})
		rec := do(t, s, http.MethodGet, "/api/customers/c1/loyalty", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if got := decodeBody[core.LoyaltyBalance](t, rec).Points; got != 120 {
			t.Errorf("points = %d, want 120", got)
		}
	})

	t.Run("backend not found", func(t *testing.T) {
		s := newRecordsServer(t, &recordsFake{
			fakeBackend: &fakeBackend{},
			loyaltyErr:  &crmapi.APIError{Status: http.StatusNotFound, Message: "Customer not found"},
		})
		rec := do(t, s, http.MethodGet, "/api/customers/c9/loyalty", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if got := decodeBody[ErrorResponse](t, rec).Error; got != "Customer not found" {
			t.Errorf("error = %q, want the backend message", got)
		}
	})
}

func TestServer_AddFollowUp(t *testing.T) {
	api := &recordsFake{fakeBackend: &fakeBackend{}}
	s := newRecordsServer(t, api)

	rec := do(t, s, http.MethodPost, "/api/leads/l1/follow-ups", `{"note":""}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty note status = %d, want 422", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/leads/l1/follow-ups", `{"note":"  Called back  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if len(api.followUps) != 1 || api.followUps[0] != "l1:Called back" {
		t.Errorf("follow-ups sent = %v, want [l1:Called back]", api.followUps)
	}
}

func TestServer_SettlementStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantSent   string
	}{
		{name: "settled", body: `{"status":"settled"}`, wantStatus: http.StatusOK, wantSent: "settled"},
		{name: "case folded", body: `{"status":" Pending "}`, wantStatus: http.StatusOK, wantSent: "pending"},
		{name: "unknown status", body: `{"status":"paid"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "missing status", body: `{}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &recordsFake{fakeBackend: &fakeBackend{}}
			s := newRecordsServer(t, api)

			rec := do(t, s, http.MethodPatch, "/api/settlements/s1", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body)
			}
			if got := api.settlements["s1"]; got != tt.wantSent {
				t.Errorf("status sent = %q, want %q", got, tt.wantSent)
			}
		})
	}
}

func TestServer_UseMembershipDefaultsToOneCredit(t *testing.T) {
	api := &recordsFake{fakeBackend: &fakeBackend{}}
	s := newRecordsServer(t, api)

	rec := do(t, s, http.MethodPost, "/api/memberships/m1/use", `{"notes":"eyebrows"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if len(api.usages) != 1 || api.usages[0].CreditsUsed != 1 {
		t.Errorf("usages = %+v, want one usage of 1 credit", api.usages)
	}

	rec = do(t, s, http.MethodPost, "/api/memberships/m1/use", `{"creditsUsed":-2}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("negative credits status = %d, want 422", rec.Code)
	}
}

func TestServer_CreateAppointment(t *testing.T) {
	s := newRecordsServer(t, &recordsFake{fakeBackend: &fakeBackend{}})

	rec := do(t, s, http.MethodPost, "/api/appointments", `{"customerId":"c1"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing time status = %d, want 422", rec.Code)
	}
	if _, ok := decodeBody[ErrorResponse](t, rec).Fields["scheduledAt"]; !ok {
		t.Errorf("fields = %s, want scheduledAt", rec.Body)
	}

	rec = do(t, s, http.MethodPost, "/api/appointments", `{"customerId":"c1","scheduledAt":"2024-05-02T10:00:00Z"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestServer_SalesDashboard(t *testing.T) {
	api := &recordsFake{fakeBackend: &fakeBackend{}}
	s := newRecordsServer(t, api)

	rec := do(t, s, http.MethodGet, "/api/reports/sales?from=someday", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", rec.Code)
	}
	if api.salesQuery != nil {
		t.Error("backend was called with an invalid date range")
	}

	rec = do(t, s, http.MethodGet, "/api/reports/sales?from=2024-04-01&to=2024-04-30&branch=b1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if api.salesQuery == nil || api.salesQuery.BranchID != "b1" || api.salesQuery.From != "2024-04-01" {
		t.Errorf("sales query = %+v", api.salesQuery)
	}
	if got := decodeBody[core.SalesDashboard](t, rec).TotalRevenue; got != 1250 {
		t.Errorf("totalRevenue = %v, want 1250", got)
	}
}
