package tenant

import (
	"rental-booking/controllers/base"
	"rental-booking/logger"
	tenantService "rental-booking/services/tenant"
	tenantTypes "rental-booking/types/tenant"

	"github.com/gofiber/fiber/v2"
)

type TenantController struct {
	base.Controller
	Tenants *tenantService.Service
}

func NewTenantController(tenants *tenantService.Service, asyncLogger *logger.AsyncLogger) *TenantController {
	return &TenantController{Controller: base.New(asyncLogger), Tenants: tenants}
}

func (tc *TenantController) Store(c *fiber.Ctx) error {
	var req tenantTypes.TenantCreateRequest
	if err := tc.Parse(c, &req); err != nil {
		return tc.Fail(c, "Invalid request body", err)
	}
	t, err := tc.Tenants.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return tc.Fail(c, "Failed to create tenant", err)
	}
	return tc.Created(c, "Tenant created successfully", t)
}

// Selectable lists tenants a booking may be made for. ?search= filters by name or phone.
func (tc *TenantController) Selectable(c *fiber.Ctx) error {
	tenants, err := tc.Tenants.ListSelectable(c.UserContext(), c.Query("search"))
	if err != nil {
		return tc.Fail(c, "Failed to list tenants", err)
	}
	return tc.OK(c, "Tenants fetched successfully", tenants)
}

func (tc *TenantController) Blacklist(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return tc.Fail(c, "Invalid tenant id", err)
	}
	var req tenantTypes.BlacklistRequest
	if err := tc.Parse(c, &req); err != nil {
		return tc.Fail(c, "Invalid request body", err)
	}
	t, err := tc.Tenants.SetBlacklisted(c.UserContext(), id, req.Blacklisted, req.Reason)
	if err != nil {
		return tc.Fail(c, "Failed to update tenant", err)
	}
	return tc.OK(c, "Tenant updated successfully", t)
}
