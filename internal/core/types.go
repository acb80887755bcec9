package core

// Role is the operator's role as reported by the backend.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
)

// User is the authenticated operator.
type User struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	VendorName     string  `json:"vendorName,omitempty"`
	ApprovalStatus string  `json:"approvalStatus,omitempty"`
	BranchID       *string `json:"branchId,omitempty"`
	BranchName     *string `json:"branchName,omitempty"`
}

// IsAdmin reports whether the user sees admin-only columns and screens.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Branch is one location of the chain.
type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// Customer is a client record.
type Customer struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Phone                 string   `json:"phone"`
	Email                 string   `json:"email,omitempty"`
	MembershipCardID      string   `json:"membershipCardId,omitempty"`
	PrimaryBranch         string   `json:"primaryBranch,omitempty"`
	PrimaryBranchID       string   `json:"primaryBranchId,omitempty"`
	CustomerPackage       string   `json:"customerPackage,omitempty"`
	CustomerPackagePrice  *float64 `json:"customerPackagePrice,omitempty"`
	CustomerPackageExpiry string   `json:"customerPackageExpiry,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
	CreatedAt             string   `json:"createdAt,omitempty"`
}

// MembershipCustomer is the customer summary embedded in a membership.
type MembershipCustomer struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email,omitempty"`
	MembershipCardID string `json:"membershipCardId,omitempty"`
}

// Membership is a prepaid credit package sold to a customer.
type Membership struct {
	ID               string              `json:"id"`
	Customer         *MembershipCustomer `json:"customer,omitempty"`
	TypeName         string              `json:"typeName,omitempty"`
	TotalCredits     int                 `json:"totalCredits"`
	UsedCredits      int                 `json:"usedCredits"`
	RemainingCredits *int                `json:"remainingCredits,omitempty"`
	SoldAtBranch     string              `json:"soldAtBranch,omitempty"`
	SoldAtBranchID   string              `json:"soldAtBranchId,omitempty"`
	PurchaseDate     string              `json:"purchaseDate"`
	ExpiryDate       string              `json:"expiryDate,omitempty"`
	Status           string              `json:"status"`
	PackagePrice     *float64            `json:"packagePrice,omitempty"`
	DiscountAmount   *float64            `json:"discountAmount,omitempty"`
}

// Remaining returns the backend's remaining count, or total minus used when absent.
func (m Membership) Remaining() int {
	if m.RemainingCredits != nil {
		return *m.RemainingCredits
	}
	return m.TotalCredits - m.UsedCredits
}

// MembershipType is a catalog entry memberships are sold from.
type MembershipType struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	TotalCredits    int      `json:"totalCredits"`
	Price           *float64 `json:"price,omitempty"`
	ServiceCategory string   `json:"serviceCategory,omitempty"`
	ValidityDays    int      `json:"validityDays,omitempty"`
}

// MembershipUsage is one credit redemption.
type MembershipUsage struct {
	ID             string `json:"id"`
	UsedAtBranch   string `json:"usedAtBranch,omitempty"`
	UsedBy         string `json:"usedBy,omitempty"`
	CreditsUsed    int    `json:"creditsUsed"`
	UsedAt         string `json:"usedAt"`
	Notes          string `json:"notes,omitempty"`
	ServiceDetails string `json:"serviceDetails,omitempty"`
}

// FollowUp is a note recorded against a lead.
type FollowUp struct {
	Note     string `json:"note"`
	At       string `json:"at"`
	ByUserID string `json:"byUserId,omitempty"`
}

// Lead is a prospective customer.
type Lead struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Source         string     `json:"source"`
	Branch         string     `json:"branch,omitempty"`
	BranchID       string     `json:"branchId,omitempty"`
	Status         string     `json:"status"`
	FollowUps      []FollowUp `json:"followUps,omitempty"`
	FollowUpsCount int        `json:"followUpsCount,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      string     `json:"createdAt"`
}

// AppointmentCustomer is the customer summary embedded in an appointment.
type AppointmentCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Appointment is a scheduled visit.
type Appointment struct {
	ID          string               `json:"id"`
	Customer    *AppointmentCustomer `json:"customer,omitempty"`
	Branch      string               `json:"branch,omitempty"`
	BranchID    string               `json:"branchId,omitempty"`
	Staff       string               `json:"staff,omitempty"`
	Service     string               `json:"service,omitempty"`
	ServiceID   string               `json:"serviceId,omitempty"`
	ScheduledAt string               `json:"scheduledAt"`
	Status      string               `json:"status"`
	Notes       string               `json:"notes,omitempty"`
}

// Settlement is an amount one branch owes another. Amounts are computed server-side.
type Settlement struct {
	ID         string  `json:"id"`
	FromBranch string  `json:"fromBranch"`
	ToBranch   string  `json:"toBranch"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
}

// SettlementSummaryRow aggregates settlements between two branches.
type SettlementSummaryRow struct {
	From          string   `json:"from"`
	To            string   `json:"to"`
	Amount        float64  `json:"amount"`
	PendingAmount *float64 `json:"pendingAmount,omitempty"`
	SettledAmount *float64 `json:"settledAmount,omitempty"`
}

// PackageItem is a sellable customer package.
type PackageItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// LoyaltyTransaction is one earn or redeem entry.
type LoyaltyTransaction struct {
	ID         string `json:"id"`
	Points     int    `json:"points"`
	Type       string `json:"type"`
	Reason     string `json:"reason,omitempty"`
	BranchName string `json:"branchName,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// LoyaltyBalance is a customer's point balance and ledger.
type LoyaltyBalance struct {
	Points       int                  `json:"points"`
	Transactions []LoyaltyTransaction `json:"transactions"`
}

// SalesDashboard is the backend's sales report. Figures are server-computed.
type SalesDashboard struct {
	From                  string              `json:"from"`
	To                    string              `json:"to"`
	TotalRevenue          float64             `json:"totalRevenue"`
	TotalSales            *float64            `json:"totalSales,omitempty"`
	ActiveMembershipCount *int                `json:"activeMembershipCount,omitempty"`
	TotalMemberships      int                 `json:"totalMemberships"`
	ByBranch              []BranchRevenue     `json:"byBranch"`
	ByService             []ServiceRevenue    `json:"byService"`
	Breakdown             []SalesBreakdownRow `json:"breakdown,omitempty"`
	Branches              []Branch            `json:"branches"`
}

// BranchRevenue is one row of the per-branch sales breakdown.
type BranchRevenue struct {
	Branch          string   `json:"branch"`
	Sales           *float64 `json:"sales,omitempty"`
	Revenue         float64  `json:"revenue"`
	MembershipCount *int     `json:"membershipCount,omitempty"`
}

// ServiceRevenue is one row of the per-category sales breakdown.
type ServiceRevenue struct {
	ServiceCategory string  `json:"serviceCategory"`
	Revenue         float64 `json:"revenue"`
}

// SalesBreakdownRow is one sale in the dashboard breakdown.
type SalesBreakdownRow struct {
	CustomerName string  `json:"customerName"`
	PackageName  string  `json:"packageName"`
	Price        float64 `json:"price"`
}

// OwnerOverviewBranch is the per-branch activity summary for owners.
type OwnerOverviewBranch struct {
	BranchID              string `json:"branchId"`
	BranchName            string `json:"branchName"`
	MembershipsSold       int    `json:"membershipsSold"`
	Leads                 int    `json:"leads"`
	LeadsBooked           int    `json:"leadsBooked"`
	AppointmentsThisMonth int    `json:"appointmentsThisMonth"`
	AppointmentsCompleted int    `json:"appointmentsCompleted"`
}

// ImportRow is one decoded, not yet submitted membership from an import file.
type ImportRow struct {
	CustomerName    string   `json:"customerName"`
	CustomerPhone   string   `json:"customerPhone"`
	CustomerEmail   string   `json:"customerEmail,omitempty"`
	TotalCredits    int      `json:"totalCredits"`
	SoldAtBranch    string   `json:"soldAtBranch"`
	PurchaseDate    string   `json:"purchaseDate,omitempty"`
	ExpiryDate      string   `json:"expiryDate,omitempty"`
	PackagePrice    *float64 `json:"packagePrice,omitempty"`
	DiscountAmount  *float64 `json:"discountAmount,omitempty"`
	CustomerPackage string   `json:"customerPackage,omitempty"`

	// Line is the 1-based physical line in the source file where the record starts.
	Line int `json:"-"`
}

// ImportError is a per-row failure reported by the backend.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`

	// Line is the physical file line of the rejected record, when it can be resolved.
	Line int `json:"line,omitempty"`
}

// ImportResult is the backend's answer to one import submission.
type ImportResult struct {
	Imported         int           `json:"imported"`
	CreatedCustomers int           `json:"createdCustomers"`
	Errors           []ImportError `json:"errors"`
}

// ImportReport is what the import screen shows after a submission.
type ImportReport struct {
	ID               string        `json:"id"`
	FileName         string        `json:"fileName"`
	Submitted        int           `json:"submitted"`
	Imported         int           `json:"imported"`
	CreatedCustomers int           `json:"createdCustomers"`
	Errors           []ImportError `json:"errors"`
	MoreErrors       int           `json:"moreErrors"`
	TotalErrors      int           `json:"totalErrors"`
	Summary          string        `json:"summary"`

	// Memberships is the list as re-fetched from the backend after the import.
	Memberships []Membership `json:"memberships,omitempty"`
}

// MembershipFilter narrows the backend membership list.
type MembershipFilter struct {
	BranchID   string
	CustomerID string
	Status     string
}

// LeadFilter narrows the backend lead list.
type LeadFilter struct {
	BranchID string
	Status   string
}

// AppointmentFilter narrows the backend appointment list.
type AppointmentFilter struct {
	BranchID   string
	CustomerID string
	Date       string
	From       string
	To         string
}
