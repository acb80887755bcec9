package crmapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// newTestClient starts a backend that answers every request with handler.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", 5*time.Second, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, 200, map[string]any{"success": true, "branches": []core.Branch{{ID: "b1", Name: "Main"}}})
	}, WithTokenSource(func() string { return "tok-123" }))

	branches, err := client.ListBranches(context.Background())
	if err != nil {
		t.Fatalf("ListBranches() error = %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotPath != "/api/branches" {
		t.Errorf("path = %q, want /api/branches", gotPath)
	}
	if len(branches) != 1 || branches[0].Name != "Main" {
		t.Errorf("branches = %+v", branches)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		writeJSON(w, 200, map[string]any{"success": true})
	})

	if _, err := client.ListCustomers(context.Background()); err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if hasAuth {
		t.Error("Authorization header sent without a token")
	}
}

func TestClient_MissingListIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true})
	})

	leads, err := client.ListLeads(context.Background(), core.LeadFilter{})
	if err != nil {
		t.Fatalf("ListLeads() error = %v", err)
	}
	if leads == nil || len(leads) != 0 {
		t.Errorf("ListLeads() = %#v, want empty slice", leads)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]any
		wantBlocked  bool
		wantMessage  string
		wantRedirect string
	}{
		{
			name:         "expired",
			body:         map[string]any{"success": false, "message": "Token expired"},
			wantMessage:  "Token expired",
			wantRedirect: "/login",
		},
		{
			name:         "blocked",
			body:         map[string]any{"success": false, "message": "Your account is BLOCKED"},
			wantBlocked:  true,
			wantMessage:  "Your account is BLOCKED",
			wantRedirect: "/login?blocked=1",
		},
		{
			name:         "deactivated",
			body:         map[string]any{"message": "Account deactivated"},
			wantBlocked:  true,
			wantMessage:  "Account deactivated",
			wantRedirect: "/login?blocked=1",
		},
		{
			name:         "no message",
			body:         map[string]any{},
			wantMessage:  DefaultMessage,
			wantRedirect: "/login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hookCalls int
			var hookBlocked bool
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, tt.body)
			}, WithUnauthorizedHook(func(_ context.Context, blocked bool) {
				hookCalls++
				hookBlocked = blocked
			}))

			_, err := client.Me(context.Background())

			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("Me() error = %v, want *AuthError", err)
			}
			if authErr.Blocked != tt.wantBlocked || authErr.Message != tt.wantMessage {
				t.Errorf("AuthError = %+v, want Blocked=%v Message=%q", authErr, tt.wantBlocked, tt.wantMessage)
			}
			if got := authErr.RedirectTarget(); got != tt.wantRedirect {
				t.Errorf("RedirectTarget() = %q, want %q", got, tt.wantRedirect)
			}
			if !errors.Is(err, core.ErrUnauthorized) {
				t.Error("AuthError should unwrap to core.ErrUnauthorized")
			}
			if errors.Is(err, core.ErrAccountBlocked) != tt.wantBlocked {
				t.Errorf("errors.Is(ErrAccountBlocked) = %v, want %v", !tt.wantBlocked, tt.wantBlocked)
			}
			if hookCalls != 1 || hookBlocked != tt.wantBlocked {
				t.Errorf("hook called %d times with blocked=%v, want once with %v", hookCalls, hookBlocked, tt.wantBlocked)
			}
		})
	}
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "message from body", status: 400, body: `{"success":false,"message":"Phone already exists"}`, wantMessage: "Phone already exists"},
		{name: "default message", status: 500, body: `{}`, wantMessage: DefaultMessage},
		{name: "non JSON body", status: 502, body: `<html>Bad Gateway</html>`, wantMessage: DefaultMessage},
		{name: "success false on 200", status: 200, body: `{"success":false,"message":"Branch name taken"}`, wantMessage: "Branch name taken"},
		{name: "success false without message", status: 201, body: `{"success":false}`, wantMessage: DefaultMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.CreateBranch(context.Background(), core.BranchForm{Name: "X"})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("CreateBranch() error = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMessage {
				t.Errorf("APIError = %+v, want Status=%d Message=%q", apiErr, tt.status, tt.wantMessage)
			}
			if !errors.Is(err, core.ErrBackendRejected) {
				t.Error("APIError should unwrap to core.ErrBackendRejected")
			}
		})
	}
}

func TestClient_SuccessFalseImportIsRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": false, "message": "Import disabled for this branch", "imported": 0})
	})

	result, err := client.ImportMemberships(context.Background(), []core.ImportRow{{CustomerName: "Ann"}})
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Import disabled for this branch" {
		t.Errorf("error = %v, want APIError with the backend message", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL + "/api"
	srv.Close()

	client := New(base, time.Second)
	_, err := client.ListMemberships(context.Background(), core.MembershipFilter{})

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("ListMemberships() error = %v, want *NetworkError", err)
	}
	if err.Error() != NetworkMessage {
		t.Errorf("Error() = %q, want %q", err.Error(), NetworkMessage)
	}
	if !errors.Is(err, core.ErrNetwork) {
		t.Error("NetworkError should unwrap to core.ErrNetwork")
	}
	if got := core.MapError(err).Code; got != "NET001" {
		t.Errorf("MapError code = %s, want NET001", got)
	}
}

func TestClient_ListMembershipsQuery(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, 200, map[string]any{"success": true, "memberships": []core.Membership{{ID: "m1"}}})
	})

	_, err := client.ListMemberships(context.Background(), core.MembershipFilter{BranchID: "b 1", Status: "active"})
	if err != nil {
		t.Fatalf("ListMemberships() error = %v", err)
	}
	if gotQuery != "branchId=b+1&status=active" {
		t.Errorf("query = %q, want %q", gotQuery, "branchId=b+1&status=active")
	}
}

func TestClient_ImportMemberships(t *testing.T) {
	var got struct {
		Rows []map[string]any `json:"rows"`
	}
	var gotMethod string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, 200, map[string]any{
			"success":          true,
			"imported":         1,
			"createdCustomers": 1,
			"errors":           []map[string]any{{"row": 3, "message": "Branch not found"}},
		})
	})

	price := 1250.0
	rows := []core.ImportRow{
		{CustomerName: "Ann", CustomerPhone: "555", TotalCredits: 5, SoldAtBranch: "Main", PackagePrice: &price, Line: 2},
		{CustomerName: "Bo", CustomerPhone: "556", TotalCredits: 1, SoldAtBranch: "Nowhere", Line: 3},
	}
	result, err := client.ImportMemberships(context.Background(), rows)
	if err != nil {
		t.Fatalf("ImportMemberships() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("sent %d rows, want 2", len(got.Rows))
	}
	if _, ok := got.Rows[0]["Line"]; ok {
		t.Error("line number leaked onto the wire")
	}
	if got.Rows[0]["packagePrice"] != 1250.0 || got.Rows[0]["customerName"] != "Ann" {
		t.Errorf("row 0 = %v", got.Rows[0])
	}
	if _, ok := got.Rows[1]["packagePrice"]; ok {
		t.Error("absent packagePrice should be omitted")
	}

	if result.Imported != 1 || result.CreatedCustomers != 1 || len(result.Errors) != 1 || result.Errors[0].Row != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestClient_ImportMembershipsWithoutCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true})
	})

	_, err := client.ImportMemberships(context.Background(), []core.ImportRow{{CustomerName: "Ann"}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Import failed." {
		t.Errorf("error = %v, want APIError %q", err, "Import failed.")
	}
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path != "/api/auth/login" || body["email"] != "ops@example.com" {
			writeJSON(w, 400, map[string]any{"message": "bad request"})
			return
		}
		writeJSON(w, 200, map[string]any{
			"success": true,
			"token":   "tok",
			"user":    map[string]any{"id": "u1", "name": "Ops", "email": "ops@example.com", "role": "admin"},
		})
	})

	res, err := client.Login(context.Background(), "ops@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Token != "tok" || !res.User.IsAdmin() {
		t.Errorf("Login() = %+v", res)
	}
}

func TestClient_UpdatesUsePatch(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = strings.TrimSpace(string(data))
		writeJSON(w, 200, map[string]any{"settlement": map[string]any{"id": "s1", "status": "settled"}})
	})

	s, err := client.UpdateSettlementStatus(context.Background(), "s1", "settled")
	if err != nil {
		t.Fatalf("UpdateSettlementStatus() error = %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/reports/settlements/s1" || gotBody != `{"status":"settled"}` {
		t.Errorf("request = %s %s %s", gotMethod, gotPath, gotBody)
	}
	if s.Status != "settled" {
		t.Errorf("status = %q, want settled", s.Status)
	}
}

func TestClient_RecordRoutes(t *testing.T) {
	tests := []struct {
		name      string
		call      func(c *Client) error
		wantPath  string
		wantQuery string
		reply     map[string]any
	}{
		{
			name:     "loyalty",
			call:     func(c *Client) error { _, err := c.Loyalty(context.Background(), "c 1"); return err },
			wantPath: "/api/loyalty/c 1",
			reply:    map[string]any{"points": 10},
		},
		{
			name:      "packages including inactive",
			call:      func(c *Client) error { _, err := c.ListPackages(context.Background(), true); return err },
			wantPath:  "/api/packages",
			wantQuery: "all=true",
			reply:     map[string]any{"packages": []any{}},
		},
		{
			name: "sales dashboard",
			call: func(c *Client) error {
				_, err := c.SalesDashboard(context.Background(), SalesQuery{BranchID: "b1", From: "2024-04-01"})
				return err
			},
			wantPath:  "/api/reports/sales-dashboard",
			wantQuery: "branchId=b1&from=2024-04-01",
			reply:     map[string]any{"totalRevenue": 10},
		},
		{
			name: "appointments by customer",
			call: func(c *Client) error {
				_, err := c.ListAppointments(context.Background(), core.AppointmentFilter{CustomerID: "c1"})
				return err
			},
			wantPath:  "/api/appointments",
			wantQuery: "customerId=c1",
			reply:     map[string]any{"appointments": []any{}},
		},
		{
			name:     "membership detail",
			call:     func(c *Client) error { _, err := c.GetMembership(context.Background(), "m1"); return err },
			wantPath: "/api/memberships/m1",
			reply:    map[string]any{"membership": map[string]any{"id": "m1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQuery string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.RawQuery
				writeJSON(w, 200, tt.reply)
			})

			if err := tt.call(client); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", gotQuery, tt.wantQuery)
			}
		})
	}
}

func TestClient_MissingRecordIsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": true})
	})

	_, err := client.GetCustomer(context.Background(), "c1")
	if !errors.Is(err, core.ErrBackendRejected) {
		t.Errorf("GetCustomer() error = %v, want ErrBackendRejected", err)
	}
}
