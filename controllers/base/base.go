// Package base holds what every controller shares: the response envelope with request logging, request
// parsing and the mapping from domain errors to HTTP status.
package base

import (
	"errors"
	"fmt"
	"strconv"

	"rental-booking/apperror"
	"rental-booking/logger"
	"rental-booking/middleware"
	"rental-booking/types"
	"rental-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Logger *logger.AsyncLogger
}

func New(asyncLogger *logger.AsyncLogger) Controller {
	return Controller{Logger: asyncLogger}
}

// logAPIRequest queues the request and its response on the async logger
func (b Controller) logAPIRequest(c *fiber.Ctx) {
	if b.Logger == nil {
		return
	}
	actorID := ""
	if claims, ok := middleware.GetClaims(c); ok {
		actorID, _ = claims["uuid"].(string)
	}
	b.Logger.Log(utils.CreateSanitizedLogEntry(c, actorID))
}

// Send writes the response and logs the exchange in one call
func (b Controller) Send(c *fiber.Ctx, status int, response types.ApiResponse) error {
	response.Status = status
	result := c.Status(status).JSON(response)
	b.logAPIRequest(c)
	return result
}

func (b Controller) OK(c *fiber.Ctx, message string, data interface{}) error {
	return b.Send(c, fiber.StatusOK, types.ApiResponse{Message: message, Data: data})
}

func (b Controller) Created(c *fiber.Ctx, message string, data interface{}) error {
	return b.Send(c, fiber.StatusCreated, types.ApiResponse{Message: message, Data: data})
}

// Fail maps err to its HTTP status. Domain errors carry their own message; anything else is logged and
// answered with action.
func (b Controller) Fail(c *fiber.Ctx, action string, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.Error(action, err)
		return b.Send(c, status, types.ApiResponse{Message: action})
	}
	return b.Send(c, status, types.ApiResponse{Message: err.Error(), Data: ErrorDetail(err)})
}

// StatusFor returns the HTTP status for a domain error.
func StatusFor(err error) int {
	var (
		conflict    *apperror.ConflictError
		notTerminal *apperror.NotTerminalError
		transition  *apperror.StateTransitionError
		badRange    *apperror.InvalidRangeError
		validation  *apperror.ValidationError
		rate        *apperror.RateUnavailableError
		notFound    *apperror.NotFoundError
	)
	switch {
	case errors.As(err, &conflict), errors.As(err, &notTerminal), errors.As(err, &transition):
		return fiber.StatusConflict
	case errors.As(err, &badRange), errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &rate):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorDetail exposes the data of the failed rule so a client can correct the request.
func ErrorDetail(err error) fiber.Map {
	var (
		conflict    *apperror.ConflictError
		notTerminal *apperror.NotTerminalError
		transition  *apperror.StateTransitionError
		badRange    *apperror.InvalidRangeError
		validation  *apperror.ValidationError
		notFound    *apperror.NotFoundError
	)
	switch {
	case errors.As(err, &conflict):
		return fiber.Map{
			"error":               "conflict",
			"room_id":             conflict.RoomID,
			"start":               conflict.Start.Format(utils.DateLayout),
			"end":                 conflict.End.Format(utils.DateLayout),
			"conflict_booking_id": conflict.ConflictBookingID,
		}
	case errors.As(err, &notTerminal):
		detail := fiber.Map{"error": "not_terminal", "booking_id": notTerminal.BookingID, "status": notTerminal.Status}
		if notTerminal.PaidInvoiceID != 0 {
			detail["paid_invoice_id"] = notTerminal.PaidInvoiceID
		}
		return detail
	case errors.As(err, &transition):
		return fiber.Map{"error": "state_transition", "booking_id": transition.BookingID, "from": transition.From, "action": transition.Action}
	case errors.As(err, &badRange):
		return fiber.Map{"error": "invalid_range", "field": badRange.Field}
	case errors.As(err, &validation):
		return fiber.Map{"error": "validation", "field": validation.Field}
	case errors.As(err, &notFound):
		return fiber.Map{"error": "not_found", "entity": notFound.Entity, "id": notFound.ID}
	default:
		return fiber.Map{"error": "rate_unavailable"}
	}
}

// Parse decodes the body into req and runs its validate tags.
func (b Controller) Parse(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return &apperror.ValidationError{Field: "body", Reason: "Invalid request body"}
	}
	return utils.ValidateStruct(req)
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &apperror.ValidationError{Field: name, Reason: fmt.Sprintf("invalid id %q", c.Params(name))}
	}
	return uint(id), nil
}

// Agent returns the agent resolved by middleware.ResolveAgent. Its uuid is the actor recorded on writes.
func (b Controller) Agent(c *fiber.Ctx) (id uint, actor string, ok bool) {
	agent, found := middleware.CurrentAgent(c)
	if !found {
		return 0, "", false
	}
	return agent.ID, agent.Uuid, true
}

// Unauthorized answers a request that reached a handler without a resolved agent.
func (b Controller) Unauthorized(c *fiber.Ctx) error {
	return b.Send(c, fiber.StatusUnauthorized, types.ApiResponse{Message: "User not found"})
}

// Validate runs the validate tags of an already decoded value, such as a parsed query.
func (b Controller) Validate(v interface{}) error {
	return utils.ValidateStruct(v)
}
