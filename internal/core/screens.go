package core

import (
	"context"
	"strconv"
	"time"
)

// Screen keys.
const (
	ScreenCustomers    = "customers"
	ScreenMemberships  = "memberships"
	ScreenLeads        = "leads"
	ScreenBranches     = "branches"
	ScreenSettlements  = "settlements"
	ScreenAppointments = "appointments"
)

// MembershipExportHeaders are the column headers of a membership export.
var MembershipExportHeaders = []string{
	"Customer", "Phone", "Email", "Total credits", "Used", "Remaining",
	"Package price", "Sold at", "Purchase date", "Expiry", "Status",
}

func init() {
	RegisterScreen(defineScreen(membershipScreen))
	RegisterScreen(defineScreen(customerScreen))
	RegisterScreen(defineScreen(leadScreen))
	RegisterScreen(defineScreen(branchScreen))
	RegisterScreen(defineScreen(settlementScreen))
	RegisterScreen(defineScreen(appointmentScreen))
}

func membershipCustomer(m Membership) MembershipCustomer {
	if m.Customer == nil {
		return MembershipCustomer{}
	}
	return *m.Customer
}

var membershipScreen = screenDef[Membership]{
	Key:    ScreenMemberships,
	Label:  "Memberships",
	Entity: "memberships",
	Fetch: func(ctx context.Context, b Backend, q ListQuery) ([]Membership, error) {
		return b.ListMemberships(ctx, MembershipFilter{BranchID: q.Branch, Status: q.Status})
	},
	Fields: ScreenFields[Membership]{
		Search: []func(Membership) string{
			func(m Membership) string { return membershipCustomer(m).Name },
			func(m Membership) string { return membershipCustomer(m).Phone },
			func(m Membership) string { return membershipCustomer(m).Email },
			func(m Membership) string { return m.TypeName },
			func(m Membership) string { return m.SoldAtBranch },
			func(m Membership) string { return m.Status },
			func(m Membership) string { return m.PurchaseDate },
			func(m Membership) string { return m.ExpiryDate },
		},
		Date: func(m Membership) string { return m.PurchaseDate },
		Categories: map[string]Category[Membership]{
			"branch": {Value: func(m Membership) string { return m.SoldAtBranchID }},
			"status": {Value: func(m Membership) string { return m.Status }},
		},
	},
	Headers: func(*User) []string { return MembershipExportHeaders },
	Cells: func(_ *User, loc *time.Location) func(Membership) []string {
		return func(m Membership) []string {
			c := membershipCustomer(m)
			return []string{
				OrPlaceholder(c.Name),
				OrPlaceholder(c.Phone),
				OrPlaceholder(c.Email),
				strconv.Itoa(m.TotalCredits),
				strconv.Itoa(m.UsedCredits),
				strconv.Itoa(m.Remaining()),
				FormatPrice(m.PackagePrice, m.DiscountAmount),
				OrPlaceholder(m.SoldAtBranch),
				FormatDate(m.PurchaseDate, loc),
				FormatDate(m.ExpiryDate, loc),
				OrPlaceholder(m.Status),
			}
		}
	},
}

var customerScreen = screenDef[Customer]{
	Key:    ScreenCustomers,
	Label:  "Customers",
	Entity: "customers",
	Fetch: func(ctx context.Context, b Backend, _ ListQuery) ([]Customer, error) {
		return b.ListCustomers(ctx)
	},
	Fields: ScreenFields[Customer]{
		Search: []func(Customer) string{
			func(c Customer) string { return c.MembershipCardID },
			func(c Customer) string { return c.Name },
			func(c Customer) string { return c.Phone },
			func(c Customer) string { return c.Email },
		},
		Date: func(c Customer) string { return c.CreatedAt },
		Categories: map[string]Category[Customer]{
			"branch": {Value: func(c Customer) string { return c.PrimaryBranchID }},
		},
	},
	Headers: func(viewer *User) []string {
		if viewer.IsAdmin() {
			return []string{"Card ID", "Name", "Phone", "Email", "Package", "Price", "Expiry", "Branch"}
		}
		return []string{"Card ID", "Name", "Phone", "Email", "Branch"}
	},
	Cells: func(viewer *User, loc *time.Location) func(Customer) []string {
		admin := viewer.IsAdmin()
		return func(c Customer) []string {
			cells := []string{
				OrPlaceholder(c.MembershipCardID),
				OrPlaceholder(c.Name),
				OrPlaceholder(c.Phone),
				OrPlaceholder(c.Email),
			}
			if admin {
				price := Placeholder
				if c.CustomerPackagePrice != nil {
					price = FormatMoney(*c.CustomerPackagePrice)
				}
				cells = append(cells,
					OrPlaceholder(c.CustomerPackage),
					price,
					FormatDate(c.CustomerPackageExpiry, loc),
				)
			}
			return append(cells, OrPlaceholder(c.PrimaryBranch))
		}
	},
}

var leadScreen = screenDef[Lead]{
	Key:    ScreenLeads,
	Label:  "Leads",
	Entity: "leads",
	Fetch: func(ctx context.Context, b Backend, q ListQuery) ([]Lead, error) {
		return b.ListLeads(ctx, LeadFilter{BranchID: q.Branch, Status: q.Status})
	},
	Fields: ScreenFields[Lead]{
		Search: []func(Lead) string{
			func(l Lead) string { return l.Name },
			func(l Lead) string { return l.Phone },
			func(l Lead) string { return l.Email },
			func(l Lead) string { return l.Source },
			func(l Lead) string { return l.Status },
		},
		Date: func(l Lead) string { return l.CreatedAt },
		Categories: map[string]Category[Lead]{
			"branch": {Value: func(l Lead) string { return l.BranchID }},
			"status": {Value: func(l Lead) string { return l.Status }},
		},
	},
	Headers: func(*User) []string {
		return []string{"Name", "Phone", "Email", "Source", "Branch", "Status", "Follow-ups", "Created"}
	},
	Cells: func(_ *User, loc *time.Location) func(Lead) []string {
		return func(l Lead) []string {
			followUps := l.FollowUpsCount
			if followUps == 0 {
				followUps = len(l.FollowUps)
			}
			return []string{
				OrPlaceholder(l.Name),
				OrPlaceholder(l.Phone),
				OrPlaceholder(l.Email),
				OrPlaceholder(l.Source),
				OrPlaceholder(l.Branch),
				OrPlaceholder(l.Status),
				strconv.Itoa(followUps),
				FormatDate(l.CreatedAt, loc),
			}
		}
	},
}

var branchScreen = screenDef[Branch]{
	Key:    ScreenBranches,
	Label:  "Branches",
	Entity: "branches",
	Fetch: func(ctx context.Context, b Backend, _ ListQuery) ([]Branch, error) {
		return b.ListBranches(ctx)
	},
	Fields: ScreenFields[Branch]{
		Search: []func(Branch) string{
			func(b Branch) string { return b.Name },
			func(b Branch) string { return b.Code },
			func(b Branch) string { return b.Address },
			func(b Branch) string { return b.ZipCode },
		},
	},
	Headers: func(*User) []string { return []string{"Name", "Code", "Address", "Zip code"} },
	Cells: func(*User, *time.Location) func(Branch) []string {
		return func(b Branch) []string {
			return []string{
				OrPlaceholder(b.Name),
				OrPlaceholder(b.Code),
				OrPlaceholder(b.Address),
				OrPlaceholder(b.ZipCode),
			}
		}
	},
}

var settlementScreen = screenDef[Settlement]{
	Key:    ScreenSettlements,
	Label:  "Settlements",
	Entity: "settlements",
	Fetch: func(ctx context.Context, b Backend, _ ListQuery) ([]Settlement, error) {
		rows, _, err := b.ListSettlements(ctx)
		return rows, err
	},
	Fields: ScreenFields[Settlement]{
		Search: []func(Settlement) string{
			func(s Settlement) string { return s.FromBranch },
			func(s Settlement) string { return s.ToBranch },
			func(s Settlement) string { return s.Reason },
		},
		Date: func(s Settlement) string { return s.CreatedAt },
		Categories: map[string]Category[Settlement]{
			"status": {Value: func(s Settlement) string { return s.Status }, FoldCase: true},
		},
	},
	Headers: func(*User) []string { return []string{"From", "To", "Amount", "Reason", "Status", "Created"} },
	Cells: func(_ *User, loc *time.Location) func(Settlement) []string {
		return func(s Settlement) []string {
			return []string{
				OrPlaceholder(s.FromBranch),
				OrPlaceholder(s.ToBranch),
				FormatMoney(s.Amount),
				OrPlaceholder(s.Reason),
				OrPlaceholder(s.Status),
				FormatDate(s.CreatedAt, loc),
			}
		}
	},
}

func appointmentCustomer(a Appointment) AppointmentCustomer {
	if a.Customer == nil {
		return AppointmentCustomer{}
	}
	return *a.Customer
}

// appointmentTime orders appointments; unparseable times sort first.
func appointmentTime(a Appointment) time.Time {
	t, _ := ParseTimestamp(a.ScheduledAt, time.UTC)
	return t
}

var appointmentScreen = screenDef[Appointment]{
	Key:    ScreenAppointments,
	Label:  "Appointments",
	Entity: "appointments",
	Fetch: func(ctx context.Context, b Backend, q ListQuery) ([]Appointment, error) {
		return b.ListAppointments(ctx, AppointmentFilter{BranchID: q.Branch})
	},
	Fields: ScreenFields[Appointment]{
		Search: []func(Appointment) string{
			func(a Appointment) string { return appointmentCustomer(a).Name },
			func(a Appointment) string { return appointmentCustomer(a).Phone },
			func(a Appointment) string { return a.Service },
			func(a Appointment) string { return a.Staff },
			func(a Appointment) string { return a.Branch },
		},
		Date: func(a Appointment) string { return a.ScheduledAt },
		Categories: map[string]Category[Appointment]{
			"branch": {Value: func(a Appointment) string { return a.BranchID }},
			"status": {Value: func(a Appointment) string { return a.Status }},
		},
	},
	Sort: func(a, b Appointment) bool {
		return appointmentTime(a).Before(appointmentTime(b))
	},
	Headers: func(*User) []string {
		return []string{"Customer", "Phone", "Service", "Staff", "Branch", "Scheduled", "Status"}
	},
	Cells: func(_ *User, loc *time.Location) func(Appointment) []string {
		return func(a Appointment) []string {
			c := appointmentCustomer(a)
			return []string{
				OrPlaceholder(c.Name),
				OrPlaceholder(c.Phone),
				OrPlaceholder(a.Service),
				OrPlaceholder(a.Staff),
				OrPlaceholder(a.Branch),
				formatDateTime(a.ScheduledAt, loc),
				OrPlaceholder(a.Status),
			}
		}
	},
}

// formatDateTime renders a timestamp as "YYYY-MM-DD HH:MM" in loc.
func formatDateTime(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t, ok := ParseTimestamp(raw, loc)
	if !ok {
		return OrPlaceholder(raw)
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
