package base

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"rental-booking/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", &apperror.ConflictError{RoomID: 1, Start: day, End: day.AddDate(0, 0, 2), ConflictBookingID: 7}, fiber.StatusConflict},
		{"not terminal", &apperror.NotTerminalError{BookingID: 1, Status: "CONFIRMED"}, fiber.StatusConflict},
		{"state transition", &apperror.StateTransitionError{BookingID: 1, From: "COMPLETED", Action: "extend"}, fiber.StatusConflict},
		{"invalid range", &apperror.InvalidRangeError{Start: day, End: day}, fiber.StatusBadRequest},
		{"validation", &apperror.ValidationError{Field: "amount_usd", Reason: "must not be negative"}, fiber.StatusBadRequest},
		{"rate", &apperror.RateUnavailableError{}, fiber.StatusUnprocessableEntity},
		{"not found", &apperror.NotFoundError{Entity: "booking", ID: 9}, fiber.StatusNotFound},
		{"wrapped", fmt.Errorf("create: %w", &apperror.NotFoundError{Entity: "room", ID: 2}), fiber.StatusNotFound},
		{"other", errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestErrorDetail_Conflict(t *testing.T) {
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	detail := ErrorDetail(&apperror.ConflictError{RoomID: 3, Start: day, End: day.AddDate(0, 0, 2), ConflictBookingID: 7})
	assert.Equal(t, "conflict", detail["error"])
	assert.Equal(t, uint(7), detail["conflict_booking_id"])
	assert.Equal(t, "2026-10-19", detail["end"])

	detail = ErrorDetail(&apperror.NotTerminalError{BookingID: 4, Status: "COMPLETED", PaidInvoiceID: 11})
	assert.Equal(t, uint(11), detail["paid_invoice_id"])
}
