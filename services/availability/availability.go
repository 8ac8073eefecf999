// Package availability answers overlap and next-free-date questions for a room from its bookings.
// Every function here is pure: callers load the bookings, these functions decide.
package availability

import (
	"sort"
	"time"

	"rental-booking/apperror"
	bookingModel "rental-booking/models/booking"
	roomModel "rental-booking/models/room"
	"rental-booking/utils"
)

// Overlaps reports whether [newStart, newEnd) and [bStart, bEnd) share a night.
// Both boundaries are exclusive in the same way: a stay ending on day D and one starting on D do not
// conflict, whichever of the two is the candidate.
func Overlaps(newStart, newEnd, bStart, bEnd time.Time) bool {
	newStart, newEnd = utils.DateOf(newStart, time.UTC), utils.DateOf(newEnd, time.UTC)
	bStart, bEnd = utils.DateOf(bStart, time.UTC), utils.DateOf(bEnd, time.UTC)
	return newStart.Before(bEnd) && bStart.Before(newEnd)
}

// ValidateRange rejects candidate dates whose end is not after their start.
func ValidateRange(start, end time.Time) error {
	if !utils.DateOf(end, time.UTC).After(utils.DateOf(start, time.UTC)) {
		return &apperror.InvalidRangeError{Start: start, End: end}
	}
	return nil
}

// FindConflict returns the first participating booking overlapping [start, end), or nil.
// excludeID skips one booking, used when a booking is checked against its own room mates.
func FindConflict(bookings []bookingModel.Booking, start, end time.Time, excludeID uint) (*bookingModel.Booking, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	for i := range bookings {
		b := &bookings[i]
		if b.ID == excludeID && excludeID != 0 {
			continue
		}
		if !b.Status.IsParticipating() {
			continue
		}
		if Overlaps(start, end, b.PlannedStart, b.PlannedEnd) {
			return b, nil
		}
	}
	return nil, nil
}

// CheckConflict wraps FindConflict into a ConflictError for the given room.
func CheckConflict(roomID uint, bookings []bookingModel.Booking, start, end time.Time, excludeID uint) error {
	conflict, err := FindConflict(bookings, start, end, excludeID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &apperror.ConflictError{
			RoomID:            roomID,
			Start:             utils.DateOf(start, time.UTC),
			End:               utils.DateOf(end, time.UTC),
			ConflictBookingID: conflict.ID,
		}
	}
	return nil
}

// NextAvailable is today when no participating booking exists, otherwise the latest planned end among them.
// The latest end is used, not the soonest: a short booking ending early does not free a room that another
// booking holds for longer. The result is never before today.
func NextAvailable(bookings []bookingModel.Booking, today time.Time) time.Time {
	today = utils.DateOf(today, time.UTC)
	next := today
	for _, b := range bookings {
		if !b.Status.IsParticipating() {
			continue
		}
		end := utils.DateOf(b.PlannedEnd, time.UTC)
		if end.After(next) {
			next = end
		}
	}
	return next
}

// RoomAvailability is one row of the ranked availability list.
type RoomAvailability struct {
	Room               roomModel.Room `json:"room"`
	AvailableNow       bool           `json:"available_now"`
	UnderMaintenance   bool           `json:"under_maintenance"`
	NextAvailable      time.Time      `json:"next_available"`
	DaysUntilAvailable int            `json:"days_until_available"`
}

// Rank orders rooms available-now first, then by ascending days until available. Rooms under
// maintenance have no predictable free date and go last.
func Rank(rooms []roomModel.Room, bookingsByRoom map[uint][]bookingModel.Booking, today time.Time) []RoomAvailability {
	today = utils.DateOf(today, time.UTC)
	out := make([]RoomAvailability, 0, len(rooms))
	for _, r := range rooms {
		next := NextAvailable(bookingsByRoom[r.ID], today)
		days := utils.DaysBetween(today, next)
		maintenance := r.Status == roomModel.RoomStatusMaintenance
		out = append(out, RoomAvailability{
			Room:               r,
			AvailableNow:       days == 0 && !maintenance,
			UnderMaintenance:   maintenance,
			NextAvailable:      next,
			DaysUntilAvailable: days,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.UnderMaintenance != b.UnderMaintenance {
			return !a.UnderMaintenance
		}
		if a.AvailableNow != b.AvailableNow {
			return a.AvailableNow
		}
		if a.DaysUntilAvailable != b.DaysUntilAvailable {
			return a.DaysUntilAvailable < b.DaysUntilAvailable
		}
		return a.Room.Number < b.Room.Number
	})
	return out
}
