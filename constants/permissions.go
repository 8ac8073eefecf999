package constants

// Back-office permissions carried in the token's "permissions" claim
const (
	PermAdminFull      = "rental-booking.admin.full-permit"
	PermManagerFull    = "rental-booking.manager.full-permit"
	PermAgentFull      = "rental-booking.agent.full-permit"
	PermAccountantFull = "rental-booking.accountant.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	// FrontDeskPermissions may book, check in, check out and take payments.
	FrontDeskPermissions = []string{
		PermAdminFull,
		PermManagerFull,
		PermAgentFull,
	}

	// AccountingPermissions may correct payments, set rates and read reports.
	AccountingPermissions = []string{
		PermAdminFull,
		PermManagerFull,
		PermAccountantFull,
	}

	// AdministrationPermissions may change rooms, blacklist tenants and delete bookings.
	AdministrationPermissions = []string{
		PermAdminFull,
		PermManagerFull,
	}
)
