package booking

import (
	"fmt"
	"time"

	bookingModel "rental-booking/models/booking"
	"rental-booking/models/housekeeping"
	roomModel "rental-booking/models/room"
	"rental-booking/utils"

	"github.com/shopspring/decimal"
)

// RoomState is a room's effective status with the fact that produced it.
type RoomState struct {
	Status    roomModel.RoomStatus `json:"status"`
	Reason    string               `json:"reason"`
	BookingID *uint                `json:"booking_id,omitempty"`
	TaskID    *uint                `json:"task_id,omitempty"`
}

// EffectiveRoomStatus derives what a room is doing today from its administrative flag, its bookings and
// its housekeeping tasks. The first rule that matches wins:
//
//	MAINTENANCE       administrative flag
//	OCCUPIED          CONFIRMED or IN_PROGRESS booking with start <= today <= end
//	PENDING_CHECKOUT  checked-in booking past its planned end without a confirmed departure
//	BOOKED            CONFIRMED or PENDING booking starting after today
//	PENDING_CLEANING  pending housekeeping task
//	AVAILABLE
func EffectiveRoomStatus(room roomModel.Room, bookings []bookingModel.Booking, tasks []housekeeping.Task, today time.Time) RoomState {
	today = calendarDay(today)
	if room.Status == roomModel.RoomStatusMaintenance {
		return RoomState{Status: roomModel.RoomStatusMaintenance, Reason: "room is under maintenance"}
	}

	for i := range bookings {
		b := &bookings[i]
		if b.RoomID != room.ID || b.CheckOutActual != nil {
			continue
		}
		if b.Status != bookingModel.BookingStatusConfirmed && b.Status != bookingModel.BookingStatusInProgress {
			continue
		}
		start, end := calendarDay(b.PlannedStart), calendarDay(b.PlannedEnd)
		if !start.After(today) && !today.After(end) {
			id := b.ID
			return RoomState{Status: roomModel.RoomStatusOccupied, BookingID: &id,
				Reason: fmt.Sprintf("booking %d runs %s to %s", b.ID, start.Format(utils.DateLayout), end.Format(utils.DateLayout))}
		}
	}

	for i := range bookings {
		b := &bookings[i]
		if b.RoomID != room.ID || !b.IsCheckedIn() || b.Status.IsTerminal() {
			continue
		}
		if today.After(calendarDay(b.PlannedEnd)) {
			id := b.ID
			return RoomState{Status: roomModel.RoomStatusPendingCheckout, BookingID: &id,
				Reason: fmt.Sprintf("booking %d was due out on %s", b.ID, b.PlannedEnd.Format(utils.DateLayout))}
		}
	}

	var next *bookingModel.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.RoomID != room.ID {
			continue
		}
		if b.Status != bookingModel.BookingStatusConfirmed && b.Status != bookingModel.BookingStatusPending {
			continue
		}
		if calendarDay(b.PlannedStart).After(today) && (next == nil || b.PlannedStart.Before(next.PlannedStart)) {
			next = b
		}
	}
	if next != nil {
		id := next.ID
		return RoomState{Status: roomModel.RoomStatusBooked, BookingID: &id,
			Reason: fmt.Sprintf("booking %d arrives on %s", next.ID, next.PlannedStart.Format(utils.DateLayout))}
	}

	for i := range tasks {
		t := &tasks[i]
		if t.RoomID == room.ID && t.Status == housekeeping.TaskStatusPending {
			id := t.ID
			return RoomState{Status: roomModel.RoomStatusPendingCleaning, TaskID: &id,
				Reason: fmt.Sprintf("cleaning pending after booking %d", t.BookingID)}
		}
	}

	return RoomState{Status: roomModel.RoomStatusAvailable, Reason: "no active booking"}
}

// EffectiveBookingStatus reads a checked-in booking as IN_PROGRESS while the stay runs and as
// PENDING_CHECKOUT from its planned end until the departure is confirmed. Other bookings read as stored.
func EffectiveBookingStatus(b bookingModel.Booking, today time.Time) bookingModel.BookingStatus {
	if !b.IsCheckedIn() {
		return b.Status
	}
	switch b.Status {
	case bookingModel.BookingStatusConfirmed, bookingModel.BookingStatusInProgress:
		if !calendarDay(today).Before(calendarDay(b.PlannedEnd)) {
			return bookingModel.BookingStatusPendingCheckout
		}
		return bookingModel.BookingStatusInProgress
	}
	return b.Status
}

// OverdueCharge is the debt of nights spent past the planned end.
type OverdueCharge struct {
	LateNights int             `json:"late_nights"`
	DailyRate  decimal.Decimal `json:"daily_rate"`
	Amount     decimal.Decimal `json:"amount"`
}

// OverdueDebt charges each night between the planned end and today at the booking's nightly average:
// total price over the current night count. Extensions add to both, so an extended stay keeps its average.
// A booking already checked out owes nothing here.
func OverdueDebt(b bookingModel.Booking, today time.Time) OverdueCharge {
	charge := OverdueCharge{DailyRate: decimal.Zero, Amount: decimal.Zero}
	if nights := b.Nights(); nights > 0 {
		charge.DailyRate = b.TotalPrice.DivRound(decimal.NewFromInt(int64(nights)), 4)
	}
	if b.CheckOutActual != nil {
		return charge
	}
	late := utils.DaysBetween(b.PlannedEnd, calendarDay(today))
	if late <= 0 {
		return charge
	}
	charge.LateNights = late
	charge.Amount = charge.DailyRate.Mul(decimal.NewFromInt(int64(late))).Round(2)
	return charge
}
