package booking

import (
	"testing"
	"time"

	bookingModel "rental-booking/models/booking"
	"rental-booking/models/housekeeping"
	roomModel "rental-booking/models/room"

	"github.com/stretchr/testify/assert"
)

func stay(id uint, start, end int, status bookingModel.BookingStatus) bookingModel.Booking {
	return bookingModel.Booking{ID: id, RoomID: 1, PlannedStart: day(start), PlannedEnd: day(end), Status: status}
}

func checkedIn(b bookingModel.Booking) bookingModel.Booking {
	at := b.PlannedStart.Add(14 * time.Hour)
	b.CheckInActual = &at
	return b
}

func TestEffectiveRoomStatus(t *testing.T) {
	room := roomModel.Room{ID: 1, Status: roomModel.RoomStatusAvailable}
	maintenance := roomModel.Room{ID: 1, Status: roomModel.RoomStatusMaintenance}
	pendingTask := []housekeeping.Task{{ID: 9, RoomID: 1, BookingID: 3, Status: housekeeping.TaskStatusPending}}
	doneTask := []housekeeping.Task{{ID: 9, RoomID: 1, BookingID: 3, Status: housekeeping.TaskStatusDone}}

	tests := []struct {
		name     string
		room     roomModel.Room
		bookings []bookingModel.Booking
		tasks    []housekeeping.Task
		want     roomModel.RoomStatus
	}{
		{"maintenance wins", maintenance, []bookingModel.Booking{stay(1, -1, 2, bookingModel.BookingStatusConfirmed)}, pendingTask, roomModel.RoomStatusMaintenance},
		{"confirmed stay covering today", room, []bookingModel.Booking{stay(1, -1, 2, bookingModel.BookingStatusConfirmed)}, nil, roomModel.RoomStatusOccupied},
		{"departure day still occupied", room, []bookingModel.Booking{checkedIn(stay(1, -3, 0, bookingModel.BookingStatusConfirmed))}, nil, roomModel.RoomStatusOccupied},
		{"in progress", room, []bookingModel.Booking{stay(1, 0, 1, bookingModel.BookingStatusInProgress)}, nil, roomModel.RoomStatusOccupied},
		{"overstay", room, []bookingModel.Booking{checkedIn(stay(1, -4, -1, bookingModel.BookingStatusConfirmed))}, nil, roomModel.RoomStatusPendingCheckout},
		{"pending stay covering today is not occupied", room, []bookingModel.Booking{stay(1, 0, 2, bookingModel.BookingStatusPending)}, nil, roomModel.RoomStatusAvailable},
		{"future pending", room, []bookingModel.Booking{stay(1, 2, 4, bookingModel.BookingStatusPending)}, nil, roomModel.RoomStatusBooked},
		{"booked beats cleaning", room, []bookingModel.Booking{stay(1, 2, 4, bookingModel.BookingStatusConfirmed)}, pendingTask, roomModel.RoomStatusBooked},
		{"pending cleaning", room, []bookingModel.Booking{stay(1, -3, -1, bookingModel.BookingStatusCompleted)}, pendingTask, roomModel.RoomStatusPendingCleaning},
		{"cleaned", room, nil, doneTask, roomModel.RoomStatusAvailable},
		{"cancelled ignored", room, []bookingModel.Booking{stay(1, -1, 2, bookingModel.BookingStatusCancelled)}, nil, roomModel.RoomStatusAvailable},
		{"other room ignored", room, []bookingModel.Booking{{ID: 1, RoomID: 2, PlannedStart: day(-1), PlannedEnd: day(2), Status: bookingModel.BookingStatusConfirmed}}, nil, roomModel.RoomStatusAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveRoomStatus(tt.room, tt.bookings, tt.tasks, day0.Add(9*time.Hour))
			assert.Equal(t, tt.want, got.Status, got.Reason)
		})
	}
}

func TestEffectiveRoomStatus_ReportsCause(t *testing.T) {
	room := roomModel.Room{ID: 1, Status: roomModel.RoomStatusAvailable}
	got := EffectiveRoomStatus(room, []bookingModel.Booking{stay(4, 3, 5, bookingModel.BookingStatusPending), stay(7, 1, 2, bookingModel.BookingStatusConfirmed)}, nil, day0)
	assert.Equal(t, roomModel.RoomStatusBooked, got.Status)
	if assert.NotNil(t, got.BookingID) {
		assert.Equal(t, uint(7), *got.BookingID, "the nearest arrival is reported")
	}
}

func TestEffectiveBookingStatus(t *testing.T) {
	pending := stay(1, 0, 3, bookingModel.BookingStatusPending)
	assert.Equal(t, bookingModel.BookingStatusPending, EffectiveBookingStatus(pending, day(1)))

	confirmed := stay(1, 0, 3, bookingModel.BookingStatusConfirmed)
	assert.Equal(t, bookingModel.BookingStatusConfirmed, EffectiveBookingStatus(confirmed, day(1)))

	running := checkedIn(confirmed)
	assert.Equal(t, bookingModel.BookingStatusInProgress, EffectiveBookingStatus(running, day(2)))
	assert.Equal(t, bookingModel.BookingStatusPendingCheckout, EffectiveBookingStatus(running, day(3)))
	assert.Equal(t, bookingModel.BookingStatusPendingCheckout, EffectiveBookingStatus(running, day(5)))

	done := running
	out := day(3)
	done.CheckOutActual = &out
	done.Status = bookingModel.BookingStatusCompleted
	assert.Equal(t, bookingModel.BookingStatusCompleted, EffectiveBookingStatus(done, day(5)))
}

func TestOverdueDebt(t *testing.T) {
	b := checkedIn(stay(1, 0, 3, bookingModel.BookingStatusConfirmed))
	b.TotalPrice = dec("150")

	charge := OverdueDebt(b, day(5))
	assert.Equal(t, 2, charge.LateNights)
	assert.True(t, charge.DailyRate.Equal(dec("50")))
	assert.True(t, charge.Amount.Equal(dec("100")))

	onTime := OverdueDebt(b, day(3))
	assert.Zero(t, onTime.LateNights)
	assert.True(t, onTime.Amount.IsZero())

	out := day(5)
	b.CheckOutActual = &out
	assert.True(t, OverdueDebt(b, day(9)).Amount.IsZero())
}

func TestOverdueDebt_ExtendedStayKeepsNightlyAverage(t *testing.T) {
	b := checkedIn(stay(1, 0, 5, bookingModel.BookingStatusConfirmed))
	b.TotalPrice = dec("230") // 150 for three nights, 80 for two extension nights

	charge := OverdueDebt(b, day(6))
	assert.Equal(t, 1, charge.LateNights)
	assert.True(t, charge.DailyRate.Equal(dec("46")))
	assert.True(t, charge.Amount.Equal(dec("46")))
}
