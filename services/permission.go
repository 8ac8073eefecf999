package services

import (
	"rental-booking/constants"
	"rental-booking/middleware"
	"rental-booking/types"

	"github.com/gofiber/fiber/v2"
)

// PermissionService answers permission questions inside handlers, for rules finer than a route's gate.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// CheckPermission checks if the current user has a specific permission
func (ps *PermissionService) CheckPermission(c *fiber.Ctx, permission string) bool {
	return middleware.CheckPermissionInController(c, permission)
}

// CheckAnyPermission checks if the current user has any of the specified permissions
func (ps *PermissionService) CheckAnyPermission(c *fiber.Ctx, permissions ...string) bool {
	userPermissions := middleware.GetUserPermissions(c)

	for _, permission := range permissions {
		if userPermissions[permission] {
			return true
		}
	}
	return false
}

// RequireAnyPermission writes a 403 response and returns false if the user has none of the permissions.
func (ps *PermissionService) RequireAnyPermission(c *fiber.Ctx, permissions ...string) (bool, error) {
	if ps.CheckAnyPermission(c, permissions...) {
		return true, nil
	}
	return false, c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
		Message: "Insufficient permissions",
		Status:  fiber.StatusForbidden,
	})
}

// GetUsername returns username from JWT claims
func (ps *PermissionService) GetUsername(c *fiber.Ctx) (string, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return "", false
	}
	username, ok := claims["username"].(string)
	return username, ok
}

// IsAdmin checks if user has admin privileges
func (ps *PermissionService) IsAdmin(c *fiber.Ctx) bool {
	return ps.CheckAnyPermission(c, constants.AdministrationPermissions...)
}

// CanOverrideAmounts reports whether the user may set an exchange rate or an overdue charge by hand
// instead of taking the configured or computed one.
func (ps *PermissionService) CanOverrideAmounts(c *fiber.Ctx) bool {
	return ps.CheckAnyPermission(c, constants.AccountingPermissions...)
}
