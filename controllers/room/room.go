package room

import (
	"rental-booking/controllers/base"
	"rental-booking/logger"
	bookingService "rental-booking/services/booking"
	roomService "rental-booking/services/room"
	roomTypes "rental-booking/types/room"

	"github.com/gofiber/fiber/v2"
)

type RoomController struct {
	base.Controller
	Rooms    *roomService.Service
	Bookings *bookingService.Service
}

func NewRoomController(rooms *roomService.Service, bookings *bookingService.Service, asyncLogger *logger.AsyncLogger) *RoomController {
	return &RoomController{
		Controller: base.New(asyncLogger),
		Rooms:      rooms,
		Bookings:   bookings,
	}
}

func (rc *RoomController) Store(c *fiber.Ctx) error {
	var req roomTypes.RoomCreateRequest
	if err := rc.Parse(c, &req); err != nil {
		return rc.Fail(c, "Invalid request body", err)
	}
	room, err := rc.Rooms.Create(c.UserContext(), req.ToInput())
	if err != nil {
		return rc.Fail(c, "Failed to create room", err)
	}
	return rc.Created(c, "Room created successfully", room)
}

// Index returns every room with its effective status for today
func (rc *RoomController) Index(c *fiber.Ctx) error {
	board, err := rc.Bookings.RoomBoard(c.UserContext())
	if err != nil {
		return rc.Fail(c, "Failed to load rooms", err)
	}
	return rc.OK(c, "Rooms fetched successfully", board)
}

// Availability ranks rooms by when they next become free
func (rc *RoomController) Availability(c *fiber.Ctx) error {
	ranked, err := rc.Bookings.RankedAvailability(c.UserContext())
	if err != nil {
		return rc.Fail(c, "Failed to rank availability", err)
	}
	return rc.OK(c, "Availability fetched successfully", ranked)
}

func (rc *RoomController) Status(c *fiber.Ctx) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return rc.Fail(c, "Invalid room id", err)
	}
	view, err := rc.Bookings.RoomStatus(c.UserContext(), id)
	if err != nil {
		return rc.Fail(c, "Failed to load room status", err)
	}
	return rc.OK(c, "Room status fetched successfully", view)
}

func (rc *RoomController) SetMaintenance(c *fiber.Ctx) error {
	return rc.maintenance(c, true)
}

func (rc *RoomController) ClearMaintenance(c *fiber.Ctx) error {
	return rc.maintenance(c, false)
}

func (rc *RoomController) maintenance(c *fiber.Ctx, on bool) error {
	id, err := base.ParamID(c, "id")
	if err != nil {
		return rc.Fail(c, "Invalid room id", err)
	}
	room, err := rc.Rooms.SetMaintenance(c.UserContext(), id, on)
	if err != nil {
		return rc.Fail(c, "Failed to update room", err)
	}
	msg := "Room is back in service"
	if on {
		msg = "Room placed under maintenance"
	}
	return rc.OK(c, msg, room)
}
