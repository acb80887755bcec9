package core

import (
	"context"
	"errors"
)

// Sentinel errors. Transport implementations wrap these so callers can use errors.Is
// without knowing the concrete error types.
var (
	// ErrNetwork means the backend could not be reached at all.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized means the backend answered 401; the session has been torn down.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAccountBlocked is an ErrUnauthorized whose message says the account is blocked or deactivated.
	ErrAccountBlocked = errors.New("account blocked")

	// ErrBackendRejected means the backend answered with a non-2xx status other than 401.
	ErrBackendRejected = errors.New("backend rejected request")

	// ErrNoValidRows means an import file decoded to zero usable rows.
	ErrNoValidRows = errors.New("no valid rows to import")

	// ErrImportInProgress means the operator already has an import in flight.
	ErrImportInProgress = errors.New("import already in progress")

	// ErrUnknownScreen means the requested list screen is not registered.
	ErrUnknownScreen = errors.New("unknown screen")

	// ErrInvalidDate means a date filter bound could not be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrFileTooLarge means an import file exceeded the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile means an import request carried no file.
	ErrNoFile = errors.New("no file provided")

	// ErrImportFailed marks an import submission the backend did not accept.
	ErrImportFailed = errors.New("import failed")

	// ErrValidation marks client-side form validation failures.
	ErrValidation = errors.New("validation failed")
)

// Backend is the subset of the CRM REST API the list, export and import flows consume.
// Every method returns either a decoded payload or an error; there is no third state.
type Backend interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
	ListBranches(ctx context.Context) ([]Branch, error)
	ListLeads(ctx context.Context, f LeadFilter) ([]Lead, error)
	ListMemberships(ctx context.Context, f MembershipFilter) ([]Membership, error)
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error)
	ListSettlements(ctx context.Context) ([]Settlement, []SettlementSummaryRow, error)

	ImportMemberships(ctx context.Context, rows []ImportRow) (*ImportResult, error)

	CreateCustomer(ctx context.Context, form CustomerForm) (*Customer, error)
	CreateLead(ctx context.Context, form LeadForm) (*Lead, error)
	CreateMembership(ctx context.Context, form MembershipForm) (*Membership, error)
	CreateBranch(ctx context.Context, form BranchForm) (*Branch, error)
}
