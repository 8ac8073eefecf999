package user

import (
	"rental-booking/controllers/base"
	"rental-booking/logger"
	"rental-booking/middleware"
	"rental-booking/resource"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	base.Controller
}

func NewUserController(asyncLogger *logger.AsyncLogger) *UserController {
	return &UserController{Controller: base.New(asyncLogger)}
}

// Profile returns the calling agent as mirrored from the token.
func (uc *UserController) Profile(c *fiber.Ctx) error {
	agent, ok := middleware.CurrentAgent(c)
	if !ok {
		return uc.Unauthorized(c)
	}

	userInfo := map[string]interface{}{
		"id":          agent.ID,
		"uid":         agent.Uuid,
		"username":    agent.Username,
		"legal_name":  agent.LegalName,
		"permissions": agent.Permissions,
		"modules":     resource.ForPermissions(middleware.GetUserPermissions(c)),
		"created_at":  agent.CreatedAt.Format("2006-01-02 15:04:05"),
		"updated_at":  agent.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	logger.Success("User fetched successfully")
	return uc.OK(c, "User fetched successfully", userInfo)
}
