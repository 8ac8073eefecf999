package booking

import "fmt"

// BookingStatus is the stored lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "PENDING"
	BookingStatusConfirmed       BookingStatus = "CONFIRMED"
	BookingStatusInProgress      BookingStatus = "IN_PROGRESS"
	BookingStatusPendingCheckout BookingStatus = "PENDING_CHECKOUT"
	BookingStatusCompleted       BookingStatus = "COMPLETED"
	BookingStatusCancelled       BookingStatus = "CANCELLED"
)

var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:         {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:       {BookingStatusInProgress, BookingStatusPendingCheckout, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusInProgress:      {BookingStatusPendingCheckout, BookingStatusCompleted},
	BookingStatusPendingCheckout: {BookingStatusCompleted},
	BookingStatusCompleted:       {},
	BookingStatusCancelled:       {},
}

// participatingStatuses can block a new booking on the same room.
var participatingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	_, ok := validTransitions[bs]
	return ok
}

// CanTransitionTo reports whether the state machine has an edge from bs to target.
func (bs BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[bs] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true for COMPLETED and CANCELLED.
func (bs BookingStatus) IsTerminal() bool {
	allowed, ok := validTransitions[bs]
	return ok && len(allowed) == 0
}

// IsParticipating reports whether a booking in this status blocks other bookings of its room.
func (bs BookingStatus) IsParticipating() bool {
	for _, s := range participatingStatuses {
		if s == bs {
			return true
		}
	}
	return false
}

// ParticipatingStatuses returns the statuses used by overlap queries.
func ParticipatingStatuses() []BookingStatus {
	out := make([]BookingStatus, len(participatingStatuses))
	copy(out, participatingStatuses)
	return out
}

// ParseBookingStatus accepts only the stored statuses.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
