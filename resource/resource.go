package resource

import "rental-booking/constants"

// ModuleResponse is a back-office screen the client shows when the agent holds its permission.
type ModuleResponse struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Route        string   `json:"route"`
	Permissions  []string `json:"permissions"`
	IsActive     bool     `json:"is_active"`
	Serializable int      `json:"serializable"`
}

var staffPermissions = append(append([]string{}, constants.FrontDeskPermissions...), constants.PermAccountantFull)

var Modules = []ModuleResponse{
	{ID: 1, Name: "Room board", Route: "/rooms", Permissions: staffPermissions, IsActive: true, Serializable: 1},
	{ID: 2, Name: "Bookings", Route: "/bookings", Permissions: constants.FrontDeskPermissions, IsActive: true, Serializable: 2},
	{ID: 3, Name: "Tenants", Route: "/tenants", Permissions: constants.FrontDeskPermissions, IsActive: true, Serializable: 3},
	{ID: 4, Name: "Payments", Route: "/payments", Permissions: staffPermissions, IsActive: true, Serializable: 4},
	{ID: 5, Name: "Exchange rates", Route: "/exchange-rates", Permissions: constants.AccountingPermissions, IsActive: true, Serializable: 5},
	{ID: 6, Name: "Reports", Route: "/reports", Permissions: constants.AccountingPermissions, IsActive: true, Serializable: 6},
	{ID: 7, Name: "Room administration", Route: "/admin/rooms", Permissions: constants.AdministrationPermissions, IsActive: true, Serializable: 7},
}

// ForPermissions returns the active modules any of perms unlocks, in display order.
func ForPermissions(perms map[string]bool) []ModuleResponse {
	out := make([]ModuleResponse, 0, len(Modules))
	for _, m := range Modules {
		if !m.IsActive {
			continue
		}
		for _, p := range m.Permissions {
			if perms[p] {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
