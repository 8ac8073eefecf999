package middleware

import (
	"errors"
	"fmt"
	"sort"

	"rental-booking/logger"
	"rental-booking/models/user"
	"rental-booking/types"
	"rental-booking/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResolveAgent mirrors the authenticated agent into the users table and stores it in Locals("agent").
// It must run after IsAuthenticated.
func ResolveAgent(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Invalid user claims",
				Status:  fiber.StatusUnauthorized,
			})
		}
		agent, err := SyncAgent(db.WithContext(c.UserContext()), claims)
		if err != nil {
			logger.Error("Failed to sync agent from token", err)
			status := fiber.StatusInternalServerError
			var missing *missingClaimError
			if errors.As(err, &missing) {
				status = fiber.StatusUnauthorized
			}
			return c.Status(status).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  status,
			})
		}
		c.Locals("agent", agent)
		return c.Next()
	}
}

type missingClaimError struct {
	claim string
}

func (e *missingClaimError) Error() string {
	return fmt.Sprintf("User %s not found in token", e.claim)
}

// SyncAgent upserts the user identified by the token's uuid claim and returns the stored row.
func SyncAgent(db *gorm.DB, claims jwt.MapClaims) (*user.User, error) {
	uuid, _ := claims["uuid"].(string)
	if uuid == "" {
		return nil, &missingClaimError{claim: "UUID"}
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return nil, &missingClaimError{claim: "username"}
	}
	legalName, _ := claims["legal_name"].(string)

	perms := make([]string, 0)
	for p := range extractUserPermissionsFromClaims(claims) {
		perms = append(perms, p)
	}
	sort.Strings(perms)

	agent := user.User{
		Uuid:        uuid,
		Username:    username,
		LegalName:   legalName,
		Permissions: user.StringSlice(perms),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "legal_name", "permissions", "updated_at"}),
	}).Create(&agent).Error
	if err != nil {
		return nil, fmt.Errorf("upsert agent %s: %w", uuid, err)
	}

	stored, err := utils.GetUserByUUID(db, uuid)
	if err != nil {
		return nil, fmt.Errorf("load agent %s: %w", uuid, err)
	}
	return stored, nil
}

// CurrentAgent returns the agent stored by ResolveAgent.
func CurrentAgent(c *fiber.Ctx) (*user.User, bool) {
	agent, ok := c.Locals("agent").(*user.User)
	return agent, ok && agent != nil
}
