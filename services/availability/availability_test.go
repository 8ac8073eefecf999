package availability

import (
	"errors"
	"testing"
	"time"

	"rental-booking/apperror"
	bookingModel "rental-booking/models/booking"
	roomModel "rental-booking/models/room"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func stay(id uint, start, end int, status bookingModel.BookingStatus) bookingModel.Booking {
	return bookingModel.Booking{ID: id, RoomID: 1, PlannedStart: day(start), PlannedEnd: day(end), Status: status}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		newS, newE int
		bS, bE     int
		want       bool
	}{
		{"back-to-back turnover after existing", 3, 5, 0, 3, false},
		{"back-to-back turnover before existing", 0, 3, 3, 6, false},
		{"candidate inside existing", 1, 2, 0, 3, true},
		{"candidate covers existing", -1, 5, 0, 3, true},
		{"shares first night", 0, 1, 0, 3, true},
		{"shares last night", 2, 4, 0, 3, true},
		{"far apart", 10, 12, 0, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(day(tt.newS), day(tt.newE), day(tt.bS), day(tt.bE)))
			// the rule is symmetric
			assert.Equal(t, tt.want, Overlaps(day(tt.bS), day(tt.bE), day(tt.newS), day(tt.newE)))
		})
	}
}

func TestOverlaps_IgnoresTimeOfDay(t *testing.T) {
	lateCheckout := day(3).Add(11 * time.Hour)
	assert.False(t, Overlaps(day(3), day(5), day(0), lateCheckout))
}

func TestFindConflict_OnlyParticipatingStatuses(t *testing.T) {
	bookings := []bookingModel.Booking{
		stay(1, 0, 3, bookingModel.BookingStatusCancelled),
		stay(2, 0, 3, bookingModel.BookingStatusCompleted),
	}
	got, err := FindConflict(bookings, day(1), day(2), 0)
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, s := range bookingModel.ParticipatingStatuses() {
		got, err = FindConflict([]bookingModel.Booking{stay(3, 0, 3, s)}, day(1), day(2), 0)
		require.NoError(t, err)
		require.NotNil(t, got, "status %s should conflict", s)
		assert.Equal(t, uint(3), got.ID)
	}
}

func TestFindConflict_ExcludesSelf(t *testing.T) {
	bookings := []bookingModel.Booking{stay(7, 0, 3, bookingModel.BookingStatusConfirmed)}
	got, err := FindConflict(bookings, day(0), day(5), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckConflict_RejectsInvertedRangeFirst(t *testing.T) {
	bookings := []bookingModel.Booking{stay(1, 0, 3, bookingModel.BookingStatusConfirmed)}

	err := CheckConflict(1, bookings, day(2), day(2), 0)
	var rerr *apperror.InvalidRangeError
	assert.True(t, errors.As(err, &rerr))

	err = CheckConflict(1, bookings, day(2), day(1), 0)
	assert.True(t, errors.As(err, &rerr))
}

func TestCheckConflict_ReportsRoomAndBooking(t *testing.T) {
	bookings := []bookingModel.Booking{stay(4, 0, 3, bookingModel.BookingStatusPending)}

	err := CheckConflict(9, bookings, day(1), day(2), 0)
	var cerr *apperror.ConflictError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, uint(9), cerr.RoomID)
	assert.Equal(t, uint(4), cerr.ConflictBookingID)
	assert.Contains(t, err.Error(), "2026-10-18")
}

func TestNextAvailable(t *testing.T) {
	assert.Equal(t, day(0), NextAvailable(nil, day(0)))

	// the later booking wins even though another ends sooner
	bookings := []bookingModel.Booking{
		stay(1, 0, 2, bookingModel.BookingStatusConfirmed),
		stay(2, 1, 6, bookingModel.BookingStatusPending),
		stay(3, 0, 9, bookingModel.BookingStatusCancelled),
	}
	assert.Equal(t, day(6), NextAvailable(bookings, day(0)))

	// a stale booking that ended in the past never pushes the date backwards
	stale := []bookingModel.Booking{stay(1, -5, -2, bookingModel.BookingStatusPending)}
	assert.Equal(t, day(0), NextAvailable(stale, day(0)))
}

func TestRank(t *testing.T) {
	rooms := []roomModel.Room{
		{ID: 1, Number: "101"},
		{ID: 2, Number: "102"},
		{ID: 3, Number: "103"},
		{ID: 4, Number: "104", Status: roomModel.RoomStatusMaintenance},
	}
	byRoom := map[uint][]bookingModel.Booking{
		1: {stay(1, 0, 5, bookingModel.BookingStatusConfirmed)},
		2: {stay(2, 0, 2, bookingModel.BookingStatusConfirmed)},
	}

	ranked := Rank(rooms, byRoom, day(0))
	require.Len(t, ranked, 4)

	assert.Equal(t, "103", ranked[0].Room.Number)
	assert.True(t, ranked[0].AvailableNow)
	assert.Equal(t, "102", ranked[1].Room.Number)
	assert.Equal(t, 2, ranked[1].DaysUntilAvailable)
	assert.Equal(t, "101", ranked[2].Room.Number)
	assert.Equal(t, 5, ranked[2].DaysUntilAvailable)
	assert.Equal(t, "104", ranked[3].Room.Number)
	assert.True(t, ranked[3].UnderMaintenance)
	assert.False(t, ranked[3].AvailableNow)
}
