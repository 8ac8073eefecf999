// Package apperror holds the errors the booking core rejects requests with. Each one carries the data
// of the invariant that failed so callers can correct the request and retry.
package apperror

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ConflictError reports a candidate stay that overlaps an existing participating booking.
type ConflictError struct {
	RoomID            uint
	Start             time.Time
	End               time.Time
	ConflictBookingID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %d is not free for [%s, %s): overlaps booking %d",
		e.RoomID, e.Start.Format(dateLayout), e.End.Format(dateLayout), e.ConflictBookingID)
}

// InvalidRangeError reports dates where the end does not come after the start.
type InvalidRangeError struct {
	Field string
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	field := e.Field
	if field == "" {
		field = "stay"
	}
	return fmt.Sprintf("invalid %s range: end %s must be after start %s",
		field, e.End.Format(dateLayout), e.Start.Format(dateLayout))
}

// RateUnavailableError reports a missing or non-positive exchange rate.
type RateUnavailableError struct {
	Rate decimal.Decimal
}

func (e *RateUnavailableError) Error() string {
	if e.Rate.IsZero() {
		return "no exchange rate is configured"
	}
	return fmt.Sprintf("exchange rate %s is not usable: must be positive", e.Rate.String())
}

// NotTerminalError reports a deletion attempt on a booking that is still active or already paid.
type NotTerminalError struct {
	BookingID     uint
	Status        string
	PaidInvoiceID uint
}

func (e *NotTerminalError) Error() string {
	if e.PaidInvoiceID != 0 {
		return fmt.Sprintf("booking %d cannot be deleted: invoice %d is paid", e.BookingID, e.PaidInvoiceID)
	}
	return fmt.Sprintf("booking %d cannot be deleted while %s", e.BookingID, e.Status)
}

// StateTransitionError reports an action the booking's current state does not allow.
type StateTransitionError struct {
	BookingID uint
	From      string
	Action    string
	Reason    string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking %d in status %s: %s", e.Action, e.BookingID, e.From, e.Reason)
}

// ValidationError reports a field that failed an input rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
