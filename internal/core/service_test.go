package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeBackend serves canned rows and records the calls it receives.
type fakeBackend struct {
	mu sync.Mutex

	customers    []Customer
	branches     []Branch
	leads        []Lead
	memberships  []Membership
	appointments []Appointment
	settlements  []Settlement
	summary      []SettlementSummaryRow

	importResult *ImportResult
	importErr    error
	listErr      error

	importCalls    int
	importedRows   []ImportRow
	membershipCall []MembershipFilter
	createdLeads   []LeadForm

	// block, when set, holds ImportMemberships until closed.
	block chan struct{}
}

func (f *fakeBackend) ListCustomers(context.Context) ([]Customer, error) {
	return f.customers, f.listErr
}

func (f *fakeBackend) ListBranches(context.Context) ([]Branch, error) {
	return f.branches, f.listErr
}

func (f *fakeBackend) ListLeads(context.Context, LeadFilter) ([]Lead, error) {
	return f.leads, f.listErr
}

func (f *fakeBackend) ListMemberships(_ context.Context, filter MembershipFilter) ([]Membership, error) {
	f.mu.Lock()
	f.membershipCall = append(f.membershipCall, filter)
	f.mu.Unlock()
	return f.memberships, f.listErr
}

func (f *fakeBackend) ListAppointments(context.Context, AppointmentFilter) ([]Appointment, error) {
	return f.appointments, f.listErr
}

func (f *fakeBackend) ListSettlements(context.Context) ([]Settlement, []SettlementSummaryRow, error) {
	return f.settlements, f.summary, f.listErr
}

func (f *fakeBackend) ImportMemberships(_ context.Context, rows []ImportRow) (*ImportResult, error) {
	f.mu.Lock()
	f.importCalls++
	f.importedRows = rows
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.importResult, f.importErr
}

func (f *fakeBackend) CreateCustomer(_ context.Context, form CustomerForm) (*Customer, error) {
	return &Customer{ID: "c-new", Name: form.Name, Phone: form.Phone}, nil
}

func (f *fakeBackend) CreateLead(_ context.Context, form LeadForm) (*Lead, error) {
	f.createdLeads = append(f.createdLeads, form)
	return &Lead{ID: "l-new", Name: form.Name}, nil
}

func (f *fakeBackend) CreateMembership(_ context.Context, form MembershipForm) (*Membership, error) {
	return &Membership{ID: "m-new", TotalCredits: form.TotalCredits}, nil
}

func (f *fakeBackend) CreateBranch(_ context.Context, form BranchForm) (*Branch, error) {
	return &Branch{ID: "b-new", Name: form.Name}, nil
}

// memoryHistory keeps recorded entries in memory.
type memoryHistory struct {
	mu      sync.Mutex
	entries []ImportHistoryEntry
}

func (h *memoryHistory) Record(_ context.Context, e ImportHistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

func (h *memoryHistory) Recent(_ context.Context, limit int) ([]ImportHistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit > len(h.entries) {
		limit = len(h.entries)
	}
	return h.entries[:limit], nil
}

func newTestService(b Backend, h HistoryRecorder) *Service {
	return NewService(b, Options{
		Location: time.UTC,
		History:  h,
		Now:      func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func sampleMemberships(n int) []Membership {
	out := make([]Membership, n)
	for i := range out {
		out[i] = Membership{
			ID:             fmt.Sprintf("m%d", i),
			Customer:       &MembershipCustomer{Name: fmt.Sprintf("Customer %02d", i), Phone: fmt.Sprintf("555-%04d", i)},
			TotalCredits:   10,
			UsedCredits:    i % 10,
			SoldAtBranch:   "Main",
			SoldAtBranchID: "b1",
			PurchaseDate:   fmt.Sprintf("2024-01-%02dT10:00:00Z", i%28+1),
			Status:         "active",
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// List
// ----------------------------------------------------------------------------

func TestService_List(t *testing.T) {
	backend := &fakeBackend{memberships: sampleMemberships(23)}
	svc := newTestService(backend, nil)

	page, err := svc.List(context.Background(), ScreenMemberships, ListQuery{Page: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalPages != 3 || page.Page != 3 || page.PageSize != DefaultPageSize {
		t.Errorf("page = %d of %d (size %d), want 3 of 3 (size 10)", page.Page, page.TotalPages, page.PageSize)
	}
	rows, ok := page.Rows.([]Membership)
	if !ok || len(rows) != 3 || rows[0].ID != "m20" {
		t.Errorf("Rows = %v, want m20..m22", page.Rows)
	}
}

func TestService_List_PassesFiltersToBackend(t *testing.T) {
	backend := &fakeBackend{memberships: sampleMemberships(3)}
	svc := newTestService(backend, nil)

	_, err := svc.List(context.Background(), ScreenMemberships, ListQuery{Branch: "b1", Status: "active"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := MembershipFilter{BranchID: "b1", Status: "active"}
	if len(backend.membershipCall) != 1 || backend.membershipCall[0] != want {
		t.Errorf("backend filters = %+v, want %+v", backend.membershipCall, want)
	}
}

func TestService_List_ResetsPageWhenFiltersChange(t *testing.T) {
	memberships := sampleMemberships(50)
	memberships[7].SoldAtBranchID = "b2"
	svc := newTestService(&fakeBackend{memberships: memberships}, nil)
	ctx := context.Background()

	first, err := svc.List(ctx, ScreenMemberships, ListQuery{Page: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if first.Page != 4 || first.TotalPages != 5 {
		t.Fatalf("unfiltered = page %d of %d, want 4 of 5", first.Page, first.TotalPages)
	}

	second, err := svc.List(ctx, ScreenMemberships, ListQuery{Branch: "b2", Page: 4, PrevKey: first.FilterKey})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if second.Page != 1 || second.TotalPages != 1 || second.TotalMatched != 1 {
		t.Errorf("filtered = page %d of %d (%d matched), want page 1 of 1 (1 matched)",
			second.Page, second.TotalPages, second.TotalMatched)
	}

	// Same filters keep the requested page.
	third, err := svc.List(ctx, ScreenMemberships, ListQuery{Page: 2, PrevKey: first.FilterKey})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if third.Page != 2 {
		t.Errorf("unchanged filters page = %d, want 2", third.Page)
	}
}

func TestService_List_Errors(t *testing.T) {
	svc := newTestService(&fakeBackend{listErr: ErrNetwork}, nil)
	ctx := context.Background()

	if _, err := svc.List(ctx, "invoices", ListQuery{}); !errors.Is(err, ErrUnknownScreen) {
		t.Errorf("List(unknown) error = %v, want ErrUnknownScreen", err)
	}
	if _, err := svc.List(ctx, ScreenLeads, ListQuery{From: "last tuesday"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("List(bad date) error = %v, want ErrInvalidDate", err)
	}
	if _, err := svc.List(ctx, ScreenLeads, ListQuery{}); !errors.Is(err, ErrNetwork) {
		t.Errorf("List(backend down) error = %v, want ErrNetwork", err)
	}
}

func TestService_List_AppointmentsSoonestFirst(t *testing.T) {
	backend := &fakeBackend{appointments: []Appointment{
		{ID: "late", ScheduledAt: "2024-05-03T09:00:00Z"},
		{ID: "early", ScheduledAt: "2024-05-01T09:00:00Z"},
		{ID: "middle", ScheduledAt: "2024-05-02T09:00:00Z"},
	}}
	svc := newTestService(backend, nil)

	page, err := svc.List(context.Background(), ScreenAppointments, ListQuery{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	rows := page.Rows.([]Appointment)
	got := []string{rows[0].ID, rows[1].ID, rows[2].ID}
	if strings.Join(got, ",") != "early,middle,late" {
		t.Errorf("order = %v, want early,middle,late", got)
	}
}

func TestService_List_SettlementStatusFoldsCase(t *testing.T) {
	backend := &fakeBackend{settlements: []Settlement{
		{ID: "s1", Status: "Pending"},
		{ID: "s2", Status: "settled"},
	}}
	svc := newTestService(backend, nil)

	page, err := svc.List(context.Background(), ScreenSettlements, ListQuery{Status: "pending"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalMatched != 1 {
		t.Errorf("TotalMatched = %d, want 1", page.TotalMatched)
	}
}

// ----------------------------------------------------------------------------
// Export
// ----------------------------------------------------------------------------

func TestService_ExportMemberships(t *testing.T) {
	price, discount := 1250.0, 250.0
	remaining := 2
	backend := &fakeBackend{memberships: []Membership{
		{
			Customer:         &MembershipCustomer{Name: `O'Brien, "Jay"`, Phone: "555-0100"},
			TotalCredits:     5,
			UsedCredits:      1,
			RemainingCredits: &remaining,
			PackagePrice:     &price,
			DiscountAmount:   &discount,
			SoldAtBranch:     "Main",
			PurchaseDate:     "2024-01-15T10:00:00Z",
			Status:           "active",
		},
	}}
	svc := newTestService(backend, nil)

	table, err := svc.Export(context.Background(), ScreenMemberships, ListQuery{}, nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := "Customer,Phone,Email,Total credits,Used,Remaining,Package price,Sold at,Purchase date,Expiry,Status\r\n" +
		`"O'Brien, ""Jay""",555-0100,—,5,1,2,"$1,000.00 ($250.00 off)",Main,2024-01-15,—,active`
	if got := table.CSV(); got != want {
		t.Errorf("CSV() =\n%q\nwant\n%q", got, want)
	}
}

func TestService_ExportIgnoresPaging(t *testing.T) {
	svc := newTestService(&fakeBackend{memberships: sampleMemberships(23)}, nil)

	table, err := svc.Export(context.Background(), ScreenMemberships, ListQuery{Page: 2}, nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(table.Rows) != 23 {
		t.Errorf("exported %d rows, want 23", len(table.Rows))
	}
}

func TestService_ListTable(t *testing.T) {
	svc := newTestService(&fakeBackend{memberships: sampleMemberships(23)}, nil)

	page, table, err := svc.ListTable(context.Background(), ScreenMemberships, ListQuery{Page: 3}, nil)
	if err != nil {
		t.Fatalf("ListTable() error = %v", err)
	}
	if page.Page != 3 || page.TotalMatched != 23 {
		t.Errorf("page = %d (%d matched), want 3 (23)", page.Page, page.TotalMatched)
	}
	if len(table.Rows) != 3 || table.Rows[0][0] != "Customer 20" {
		t.Errorf("rows = %v, want the three rows of page 3", table.Rows)
	}
	if len(table.Headers) != len(MembershipExportHeaders) {
		t.Errorf("headers = %v, want %v", table.Headers, MembershipExportHeaders)
	}

	if _, _, err := svc.ListTable(context.Background(), "nope", ListQuery{}, nil); !errors.Is(err, ErrUnknownScreen) {
		t.Errorf("unknown screen error = %v, want ErrUnknownScreen", err)
	}
}

func TestService_ExportCustomersByRole(t *testing.T) {
	price := 99.0
	backend := &fakeBackend{customers: []Customer{{
		MembershipCardID:     "CARD-1",
		Name:                 "Ann",
		Phone:                "555",
		CustomerPackage:      "Gold",
		CustomerPackagePrice: &price,
		PrimaryBranch:        "North",
	}}}
	svc := newTestService(backend, nil)
	ctx := context.Background()

	admin, err := svc.Export(ctx, ScreenCustomers, ListQuery{}, &User{Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Export(admin) error = %v", err)
	}
	if got := strings.Join(admin.Headers, ","); got != "Card ID,Name,Phone,Email,Package,Price,Expiry,Branch" {
		t.Errorf("admin headers = %s", got)
	}
	if got := strings.Join(admin.Rows[0], "|"); got != "CARD-1|Ann|555|—|Gold|$99.00|—|North" {
		t.Errorf("admin row = %s", got)
	}

	vendor, err := svc.Export(ctx, ScreenCustomers, ListQuery{}, &User{Role: RoleVendor})
	if err != nil {
		t.Fatalf("Export(vendor) error = %v", err)
	}
	if got := strings.Join(vendor.Headers, ","); got != "Card ID,Name,Phone,Email,Branch" {
		t.Errorf("vendor headers = %s", got)
	}
	if got := len(vendor.Rows[0]); got != 5 {
		t.Errorf("vendor row has %d cells, want 5", got)
	}
}

// ----------------------------------------------------------------------------
// Import
// ----------------------------------------------------------------------------

const importCSV = "Customer,Phone,Total credits,Sold at\n" +
	"Ann,555-0001,5,Main\n" +
	",,3,Main\n" +
	"Bo,555-0002,abc,North\n"

func TestService_ImportMemberships(t *testing.T) {
	backend := &fakeBackend{
		memberships: sampleMemberships(2),
		importResult: &ImportResult{
			Imported:         1,
			CreatedCustomers: 1,
			Errors:           []ImportError{{Row: 3, Message: "Branch not found"}},
		},
	}
	history := &memoryHistory{}
	svc := newTestService(backend, history)

	report, err := svc.ImportMemberships(context.Background(), Operator{Key: "op1", Name: "Ops"}, MembershipFilter{}, "members.csv", strings.NewReader(importCSV))
	if err != nil {
		t.Fatalf("ImportMemberships() error = %v", err)
	}

	if backend.importCalls != 1 {
		t.Errorf("import calls = %d, want 1", backend.importCalls)
	}
	if len(backend.importedRows) != 2 {
		t.Fatalf("submitted %d rows, want 2 (blank row skipped)", len(backend.importedRows))
	}
	if backend.importedRows[1].TotalCredits != 1 {
		t.Errorf("unparseable credits submitted as %d, want 1", backend.importedRows[1].TotalCredits)
	}

	if report.Submitted != 2 || report.Imported != 1 || report.CreatedCustomers != 1 {
		t.Errorf("report = %+v", report)
	}
	if report.Summary != "Imported 1 membership, created 1 new customer(s)." {
		t.Errorf("Summary = %q", report.Summary)
	}

	// Backend row 3 is the second submitted row, which sits on file line 4.
	if len(report.Errors) != 1 || report.Errors[0].Row != 3 || report.Errors[0].Line != 4 {
		t.Errorf("Errors = %+v, want row 3 on line 4", report.Errors)
	}
	if got := report.ErrorLines(); len(got) != 1 || got[0] != "Row 3: Branch not found" {
		t.Errorf("ErrorLines() = %v", got)
	}

	if len(report.Memberships) != 2 {
		t.Errorf("refetched %d memberships, want 2", len(report.Memberships))
	}

	if len(history.entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history.entries))
	}
	entry := history.entries[0]
	if entry.Status != ImportStatusPartial || entry.RowCount != 2 || entry.ErrorCount != 1 || entry.FileName != "members.csv" {
		t.Errorf("history entry = %+v", entry)
	}
	if entry.ID != report.ID || entry.ID == "" {
		t.Errorf("history ID %q does not match report ID %q", entry.ID, report.ID)
	}
}

func TestService_ImportMemberships_FirstDataLineIsRowTwo(t *testing.T) {
	backend := &fakeBackend{importResult: &ImportResult{
		Errors: []ImportError{{Row: 2, Message: "Invalid phone"}},
	}}
	svc := newTestService(backend, nil)

	report, err := svc.ImportMemberships(context.Background(), Operator{Key: "op"}, MembershipFilter{}, "f.csv",
		strings.NewReader("Customer,Phone\nAnn,x\n"))
	if err != nil {
		t.Fatalf("ImportMemberships() error = %v", err)
	}
	if report.Errors[0].Row != 2 || report.Errors[0].Line != 2 {
		t.Errorf("error = %+v, want row 2 on line 2", report.Errors[0])
	}
	if report.Summary != "Imported 0 memberships" {
		t.Errorf("Summary = %q, want %q", report.Summary, "Imported 0 memberships")
	}
}

func TestService_ImportMemberships_ErrorPreview(t *testing.T) {
	errs := make([]ImportError, 13)
	for i := range errs {
		errs[i] = ImportError{Row: i + 2, Message: "bad"}
	}
	backend := &fakeBackend{importResult: &ImportResult{Imported: 0, Errors: errs}}
	svc := newTestService(backend, nil)

	report, err := svc.ImportMemberships(context.Background(), Operator{Key: "op"}, MembershipFilter{}, "f.csv", strings.NewReader(importCSV))
	if err != nil {
		t.Fatalf("ImportMemberships() error = %v", err)
	}
	if len(report.Errors) != 10 || report.MoreErrors != 3 || report.TotalErrors != 13 {
		t.Errorf("preview = %d errors + %d more (total %d), want 10 + 3 (13)",
			len(report.Errors), report.MoreErrors, report.TotalErrors)
	}

	lines := report.ErrorLines()
	if last := lines[len(lines)-1]; last != "… and 3 more errors." {
		t.Errorf("last line = %q", last)
	}
}

func TestService_ImportMemberships_NoValidRows(t *testing.T) {
	backend := &fakeBackend{}
	svc := newTestService(backend, nil)

	inputs := []string{
		"",
		"Customer,Phone\n",
		"Customer,Phone\n,\n , \n",
	}
	for _, in := range inputs {
		_, err := svc.ImportMemberships(context.Background(), Operator{Key: "op"}, MembershipFilter{}, "f.csv", strings.NewReader(in))
		if !errors.Is(err, ErrNoValidRows) {
			t.Errorf("ImportMemberships(%q) error = %v, want ErrNoValidRows", in, err)
		}
	}
	if backend.importCalls != 0 {
		t.Errorf("backend import calls = %d, want 0", backend.importCalls)
	}
}

func TestService_ImportMemberships_BackendFailure(t *testing.T) {
	backend := &fakeBackend{importErr: fmt.Errorf("POST /memberships/import: %w", ErrNetwork)}
	history := &memoryHistory{}
	svc := newTestService(backend, history)

	report, err := svc.ImportMemberships(context.Background(), Operator{Key: "op"}, MembershipFilter{}, "f.csv", strings.NewReader(importCSV))
	if report != nil {
		t.Errorf("report = %+v, want nil", report)
	}
	if !errors.Is(err, ErrImportFailed) || !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrImportFailed wrapping ErrNetwork", err)
	}
	if got := MapError(err).Code; got != "NET001" {
		t.Errorf("MapError code = %s, want NET001", got)
	}
	if len(backend.membershipCall) != 0 {
		t.Error("memberships refetched after a failed import")
	}
	if len(history.entries) != 1 || history.entries[0].Status != ImportStatusFailed {
		t.Errorf("history = %+v, want one failed entry", history.entries)
	}
	if svc.Guard().InProgress("op") {
		t.Error("guard still held after failure")
	}
}

func TestService_ImportMemberships_OneInFlightPerOperator(t *testing.T) {
	backend := &fakeBackend{
		importResult: &ImportResult{Imported: 2},
		block:        make(chan struct{}),
	}
	svc := newTestService(backend, nil)
	op := Operator{Key: "op"}

	done := make(chan error, 1)
	go func() {
		_, err := svc.ImportMemberships(context.Background(), op, MembershipFilter{}, "a.csv", strings.NewReader(importCSV))
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !svc.Guard().InProgress("op") {
		if time.Now().After(deadline) {
			t.Fatal("first import never acquired the guard")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, err := svc.ImportMemberships(context.Background(), op, MembershipFilter{}, "b.csv", strings.NewReader(importCSV))
	if !errors.Is(err, ErrImportInProgress) {
		t.Errorf("second import error = %v, want ErrImportInProgress", err)
	}

	close(backend.block)
	if err := <-done; err != nil {
		t.Errorf("first import error = %v", err)
	}
	if backend.importCalls != 1 {
		t.Errorf("backend import calls = %d, want 1", backend.importCalls)
	}
}

// countingReader records whether the import body was read at all.
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func TestService_ImportMemberships_RejectedBeforeRead(t *testing.T) {
	backend := &fakeBackend{}
	history := &memoryHistory{}
	svc := newTestService(backend, history)

	if err := svc.Guard().TryAcquire("op"); err != nil {
		t.Fatalf("TryAcquire() error = %v", err)
	}
	defer svc.Guard().Release("op")

	body := &countingReader{r: strings.NewReader(importCSV)}
	_, err := svc.ImportMemberships(context.Background(), Operator{Key: "op"}, MembershipFilter{}, "b.csv", body)
	if !errors.Is(err, ErrImportInProgress) {
		t.Fatalf("error = %v, want ErrImportInProgress", err)
	}
	if body.reads != 0 {
		t.Errorf("body read %d times while another import was in flight", body.reads)
	}
	if len(history.entries) != 0 {
		t.Errorf("history = %+v, want nothing recorded for a refused import", history.entries)
	}
}

func TestService_ImportMemberships_RefetchKeepsView(t *testing.T) {
	backend := &fakeBackend{
		memberships:  sampleMemberships(2),
		importResult: &ImportResult{Imported: 2},
	}
	svc := newTestService(backend, nil)

	view := MembershipFilter{BranchID: "b2", Status: "active"}
	if _, err := svc.ImportMemberships(context.Background(), Operator{Key: "op"}, view, "f.csv", strings.NewReader(importCSV)); err != nil {
		t.Fatalf("ImportMemberships() error = %v", err)
	}
	if len(backend.membershipCall) != 1 || backend.membershipCall[0] != view {
		t.Errorf("refetch filters = %+v, want [%+v]", backend.membershipCall, view)
	}
}

func TestService_ImportMemberships_FileTooLarge(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, Options{MaxFileSize: 16})

	_, err := svc.ImportMemberships(context.Background(), Operator{Key: "op"}, MembershipFilter{}, "big.csv", strings.NewReader(importCSV))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}
}

func TestImportSummary(t *testing.T) {
	tests := []struct {
		imported, created int
		want              string
	}{
		{0, 0, "Imported 0 memberships"},
		{1, 0, "Imported 1 membership"},
		{3, 2, "Imported 3 memberships, created 2 new customer(s)."},
	}
	for _, tt := range tests {
		if got := ImportSummary(tt.imported, tt.created); got != tt.want {
			t.Errorf("ImportSummary(%d, %d) = %q, want %q", tt.imported, tt.created, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Forms
// ----------------------------------------------------------------------------

func TestService_CreateLead(t *testing.T) {
	backend := &fakeBackend{}
	svc := newTestService(backend, nil)

	if _, err := svc.CreateLead(context.Background(), LeadForm{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("CreateLead(blank) error = %v, want ErrValidation", err)
	}
	if len(backend.createdLeads) != 0 {
		t.Error("invalid lead reached the backend")
	}

	lead, err := svc.CreateLead(context.Background(), LeadForm{Name: " Walk-in ", Source: "walk-in"})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	if lead.Name != "Walk-in" {
		t.Errorf("lead name = %q, want trimmed", lead.Name)
	}
}
