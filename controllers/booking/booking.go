package booking

import (
	"fmt"

	"rental-booking/controllers/base"
	"rental-booking/logger"
	"rental-booking/services"
	bookingService "rental-booking/services/booking"
	"rental-booking/types"
	bookingTypes "rental-booking/types/booking"

	"github.com/gofiber/fiber/v2"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	base.Controller
	Bookings    *bookingService.Service
	Permissions *services.PermissionService
}

// NewBookingController creates a new booking controller
func NewBookingController(bookings *bookingService.Service, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		Controller:  base.New(asyncLogger),
		Bookings:    bookings,
		Permissions: services.NewPermissionService(),
	}
}

// Store creates a booking with its invoice and an optional first payment
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := bc.Parse(c, &req); err != nil {
		return bc.Fail(c, "Invalid request body", err)
	}

	agentID, actor, ok := bc.Agent(c)
	if !ok {
		return bc.Unauthorized(c)
	}
	if req.ExchangeRate != nil && !bc.Permissions.CanOverrideAmounts(c) {
		return bc.Send(c, fiber.StatusForbidden, types.ApiResponse{Message: "Only accounting may set the exchange rate of a payment"})
	}

	in, err := req.ToInput(agentID, actor)
	if err != nil {
		return bc.Fail(c, "Invalid request body", err)
	}
	result, err := bc.Bookings.CreateBooking(c.UserContext(), in)
	if err != nil {
		return bc.Fail(c, "Failed to save booking", err)
	}
	return bc.Created(c, "Booking created successfully", result)
}

// CheckConflict reports whether a stay would overlap an existing booking of the room
func (bc *BookingController) CheckConflict(c *fiber.Ctx) error {
	var req bookingTypes.ConflictCheckRequest
	if err := bc.Parse(c, &req); err != nil {
		return bc.Fail(c, "Invalid request body", err)
	}
	start, end, err := req.Dates()
	if err != nil {
		return bc.Fail(c, "Invalid request body", err)
	}
	check, err := bc.Bookings.CheckConflict(c.UserContext(), req.RoomID, start, end)
	if err != nil {
		return bc.Fail(c, "Failed to check availability", err)
	}
	msg := "Room is free for the requested stay"
	if check.Conflict {
		msg = fmt.Sprintf("Room overlaps booking %d", *check.ConflictBookingID)
	}
	return bc.OK(c, msg, check)
}

// Show returns the booking with its invoices, payments, balance and projected overdue debt
func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return bc.Fail(c, "Invalid booking id", err)
	}
	detail, err := bc.Bookings.GetBooking(c.UserContext(), id)
	if err != nil {
		return bc.Fail(c, "Failed to load booking", err)
	}
	return bc.OK(c, "Booking fetched successfully", detail)
}

// Index lists bookings, optionally filtered by room, tenant or status
func (bc *BookingController) Index(c *fiber.Ctx) error {
	var q bookingTypes.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return bc.Send(c, fiber.StatusBadRequest, types.ApiResponse{Message: "Invalid query parameters"})
	}
	if err := bc.Validate(q); err != nil {
		return bc.Fail(c, "Invalid query parameters", err)
	}
	filter, err := q.Filter()
	if err != nil {
		return bc.Fail(c, "Invalid query parameters", err)
	}
	rows, err := bc.Bookings.ListBookings(c.UserContext(), filter)
	if err != nil {
		return bc.Fail(c, "Failed to list bookings", err)
	}
	return bc.OK(c, "Bookings fetched successfully", rows)
}

func (bc *BookingController) CheckIn(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return bc.Fail(c, "Invalid booking id", err)
	}
	_, actor, ok := bc.Agent(c)
	if !ok {
		return bc.Unauthorized(c)
	}
	b, err := bc.Bookings.CheckIn(c.UserContext(), id, actor)
	if err != nil {
		return bc.Fail(c, "Failed to check in", err)
	}
	return bc.OK(c, "Guest checked in", b)
}

// Departure closes the stay, bills any overdue nights and opens the cleaning task
func (bc *BookingController) Departure(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return bc.Fail(c, "Invalid booking id", err)
	}
	var req bookingTypes.DepartureRequest
	if len(c.Body()) > 0 {
		if err := bc.Parse(c, &req); err != nil {
			return bc.Fail(c, "Invalid request body", err)
		}
	}
	_, actor, ok := bc.Agent(c)
	if !ok {
		return bc.Unauthorized(c)
	}
	if (req.DebtAmount != nil || req.OverdueDays != nil) && !bc.Permissions.CanOverrideAmounts(c) {
		return bc.Send(c, fiber.StatusForbidden, types.ApiResponse{Message: "Only accounting may override the overdue charge"})
	}
	result, err := bc.Bookings.ConfirmDeparture(c.UserContext(), id, req.ToInput(actor))
	if err != nil {
		return bc.Fail(c, "Failed to confirm departure", err)
	}
	return bc.OK(c, "Departure confirmed", result)
}

func (bc *BookingController) Extend(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return bc.Fail(c, "Invalid booking id", err)
	}
	var req bookingTypes.ExtendRequest
	if err := bc.Parse(c, &req); err != nil {
		return bc.Fail(c, "Invalid request body", err)
	}
	_, actor, ok := bc.Agent(c)
	if !ok {
		return bc.Unauthorized(c)
	}
	in, err := req.ToInput(actor)
	if err != nil {
		return bc.Fail(c, "Invalid request body", err)
	}
	result, err := bc.Bookings.ExtendStay(c.UserContext(), id, in)
	if err != nil {
		return bc.Fail(c, "Failed to extend stay", err)
	}
	return bc.OK(c, "Stay extended", result)
}

func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return bc.Fail(c, "Invalid booking id", err)
	}
	var req bookingTypes.CancelRequest
	if err := bc.Parse(c, &req); err != nil {
		return bc.Fail(c, "Invalid request body", err)
	}
	_, actor, ok := bc.Agent(c)
	if !ok {
		return bc.Unauthorized(c)
	}
	b, err := bc.Bookings.CancelBooking(c.UserContext(), id, req.Reason, actor)
	if err != nil {
		return bc.Fail(c, "Failed to cancel booking", err)
	}
	return bc.OK(c, "Booking cancelled", b)
}

// Destroy soft-deletes a terminal booking together with its invoices and payments
func (bc *BookingController) Destroy(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return bc.Fail(c, "Invalid booking id", err)
	}
	_, actor, ok := bc.Agent(c)
	if !ok {
		return bc.Unauthorized(c)
	}
	if err := bc.Bookings.DeleteBooking(c.UserContext(), id, actor); err != nil {
		return bc.Fail(c, "Failed to delete booking", err)
	}
	return bc.OK(c, "Booking deleted", fiber.Map{"booking_id": id})
}

// CompleteCleaning closes a housekeeping task so the room becomes available again
func (bc *BookingController) CompleteCleaning(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return bc.Fail(c, "Invalid task id", err)
	}
	_, actor, ok := bc.Agent(c)
	if !ok {
		return bc.Unauthorized(c)
	}
	task, err := bc.Bookings.CompleteCleaning(c.UserContext(), id, actor)
	if err != nil {
		return bc.Fail(c, "Failed to complete cleaning", err)
	}
	return bc.OK(c, "Cleaning completed", task)
}
