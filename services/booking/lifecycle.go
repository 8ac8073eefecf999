package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-booking/apperror"
	"rental-booking/logger"
	bookingModel "rental-booking/models/booking"
	"rental-booking/models/housekeeping"
	invoiceModel "rental-booking/models/invoice"
	"rental-booking/services/booking_event"
	"rental-booking/services/pricing"
	"rental-booking/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckIn records the tenant's arrival on a PENDING or CONFIRMED booking whose stay has started.
func (s *Service) CheckIn(ctx context.Context, bookingID uint, actor string) (*bookingModel.Booking, error) {
	today := s.Today()
	var out bookingModel.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := loadBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		from := b.Status
		if from != bookingModel.BookingStatusPending && from != bookingModel.BookingStatusConfirmed {
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "check in",
				Reason: "only PENDING or CONFIRMED bookings can check in"}
		}
		if b.CheckInActual != nil {
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "check in",
				Reason: fmt.Sprintf("already checked in at %s", b.CheckInActual.Format(time.RFC3339))}
		}
		if calendarDay(b.PlannedStart).After(today) {
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "check in",
				Reason: fmt.Sprintf("stay starts on %s", b.PlannedStart.Format(utils.DateLayout))}
		}

		now := s.Now()
		b.CheckInActual = &now
		b.Status = bookingModel.BookingStatusConfirmed
		b.UpdatedBy = actor
		if err := tx.Save(b).Error; err != nil {
			return fmt.Errorf("update booking %d: %w", b.ID, err)
		}
		if err := booking_event.RecordStatusEvent(tx, b, from, booking_event.EventCheckedIn, actor, nil); err != nil {
			return fmt.Errorf("record booking event: %w", err)
		}
		out = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Success(fmt.Sprintf("Booking %d checked in to room %d", out.ID, out.RoomID))
	return &out, nil
}

// DepartureInput lets the operator override the computed overdue debt.
// OverdueDays replaces the late-night count; DebtAmount replaces the amount outright.
type DepartureInput struct {
	DebtAmount  *decimal.Decimal
	OverdueDays *int
	Actor       string
}

type DepartureResult struct {
	Booking        bookingModel.Booking  `json:"booking"`
	CleaningTask   housekeeping.Task     `json:"cleaning_task"`
	Overdue        OverdueCharge         `json:"overdue"`
	OverdueInvoice *invoiceModel.Invoice `json:"overdue_invoice,omitempty"`
}

// ConfirmDeparture closes a stay: it stamps the checkout, opens a cleaning task for the room and, when the
// tenant stayed past the planned end, raises an OVERDUE invoice for the late nights. The original invoices
// are left untouched.
func (s *Service) ConfirmDeparture(ctx context.Context, bookingID uint, in DepartureInput) (*DepartureResult, error) {
	if in.DebtAmount != nil && in.DebtAmount.IsNegative() {
		return nil, &apperror.ValidationError{Field: "debt_amount", Reason: "must not be negative"}
	}
	if in.OverdueDays != nil && *in.OverdueDays < 0 {
		return nil, &apperror.ValidationError{Field: "overdue_days", Reason: "must not be negative"}
	}

	today := s.Today()
	var result DepartureResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := loadBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		from := b.Status
		switch from {
		case bookingModel.BookingStatusConfirmed, bookingModel.BookingStatusInProgress, bookingModel.BookingStatusPendingCheckout:
		default:
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "confirm departure of",
				Reason: "the stay is not in progress"}
		}
		if b.CheckInActual == nil {
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "confirm departure of",
				Reason: "no check-in was recorded"}
		}
		if b.CheckOutActual != nil {
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "confirm departure of",
				Reason: fmt.Sprintf("departure already recorded at %s", b.CheckOutActual.Format(time.RFC3339))}
		}

		charge := OverdueDebt(*b, today)
		if in.OverdueDays != nil {
			charge.LateNights = *in.OverdueDays
			charge.Amount = charge.DailyRate.Mul(decimal.NewFromInt(int64(*in.OverdueDays))).Round(2)
		}
		if in.DebtAmount != nil {
			charge.Amount = in.DebtAmount.Round(2)
		}

		now := s.Now()
		b.CheckOutActual = &now
		b.Status = bookingModel.BookingStatusCompleted
		b.UpdatedBy = in.Actor
		if err := tx.Save(b).Error; err != nil {
			return fmt.Errorf("update booking %d: %w", b.ID, err)
		}

		task := housekeeping.Task{RoomID: b.RoomID, BookingID: b.ID, Status: housekeeping.TaskStatusPending}
		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("create cleaning task: %w", err)
		}

		if charge.Amount.IsPositive() {
			inv := invoiceModel.Invoice{
				Number:      invoiceNumber(today),
				BookingID:   b.ID,
				Kind:        invoiceModel.InvoiceKindOverdue,
				Nights:      charge.LateNights,
				Total:       charge.Amount,
				DueDate:     today,
				Status:      invoiceModel.InvoiceStatusIssued,
				Description: fmt.Sprintf("%d late night(s) after %s", charge.LateNights, b.PlannedEnd.Format(utils.DateLayout)),
			}
			if err := tx.Create(&inv).Error; err != nil {
				return fmt.Errorf("create overdue invoice: %w", err)
			}
			result.OverdueInvoice = &inv
		}

		if err := booking_event.RecordStatusEvent(tx, b, from, booking_event.EventDeparted, in.Actor, nil); err != nil {
			return fmt.Errorf("record booking event: %w", err)
		}
		result.Booking = *b
		result.CleaningTask = task
		result.Overdue = charge
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Success(fmt.Sprintf("Departure confirmed for booking %d, overdue debt %s", result.Booking.ID, result.Overdue.Amount))
	return &result, nil
}

// ExtendInput moves a stay's planned end later. NewTotal, when set, is the booking's total after the
// extension and replaces the computed price of the added nights.
type ExtendInput struct {
	NewEnd            time.Time
	NewTotal          *decimal.Decimal
	ExtensionDiscount decimal.Decimal
	Actor             string
}

type ExtendResult struct {
	Booking          bookingModel.Booking `json:"booking"`
	ExtensionInvoice invoiceModel.Invoice `json:"extension_invoice"`
	Quote            pricing.Quote        `json:"quote"`
}

// ExtendStay prices the added nights, adds them to the booking total and bills them on a new EXTENSION
// invoice. The added nights must be free on the room.
func (s *Service) ExtendStay(ctx context.Context, bookingID uint, in ExtendInput) (*ExtendResult, error) {
	if in.ExtensionDiscount.IsNegative() {
		return nil, &apperror.ValidationError{Field: "extension_discount", Reason: "must not be negative"}
	}
	current, err := loadBooking(s.DB.WithContext(ctx), bookingID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, current.RoomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	newEnd := calendarDay(in.NewEnd)
	var result ExtendResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, current.RoomID)
		if err != nil {
			return err
		}
		b, err := loadBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return &apperror.StateTransitionError{BookingID: b.ID, From: b.Status.String(), Action: "extend",
				Reason: "the booking is closed"}
		}
		oldEnd := calendarDay(b.PlannedEnd)
		if !newEnd.After(oldEnd) {
			return &apperror.InvalidRangeError{Field: "extension", Start: oldEnd, End: newEnd}
		}
		if err := conflictTx(tx, room.ID, oldEnd, newEnd, b.ID); err != nil {
			return err
		}

		quote, err := pricing.PriceStay(oldEnd, newEnd, room.BaseRate, in.ExtensionDiscount)
		if err != nil {
			return err
		}
		amount := quote.Total
		if in.NewTotal != nil {
			amount = in.NewTotal.Sub(b.TotalPrice).Round(2)
			if amount.IsNegative() {
				return &apperror.ValidationError{Field: "new_total",
					Reason: fmt.Sprintf("%s is below the current total %s", in.NewTotal.String(), b.TotalPrice.String())}
			}
			quote.Total = amount
		}

		b.PlannedEnd = newEnd
		b.TotalPrice = b.TotalPrice.Add(amount)
		b.UpdatedBy = in.Actor
		if err := tx.Save(b).Error; err != nil {
			return fmt.Errorf("update booking %d: %w", b.ID, err)
		}

		inv := invoiceModel.Invoice{
			Number:      invoiceNumber(oldEnd),
			BookingID:   b.ID,
			Kind:        invoiceModel.InvoiceKindExtension,
			Nights:      quote.Nights,
			Total:       amount,
			DueDate:     oldEnd,
			Status:      invoiceModel.InvoiceStatusIssued,
			Description: fmt.Sprintf("Extension of room %s, %d night(s) to %s", room.Number, quote.Nights, newEnd.Format(utils.DateLayout)),
		}
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("create extension invoice: %w", err)
		}

		note := fmt.Sprintf("planned end %s -> %s", oldEnd.Format(utils.DateLayout), newEnd.Format(utils.DateLayout))
		if err := booking_event.RecordStatusEvent(tx, b, b.Status, booking_event.EventExtended, in.Actor, &note); err != nil {
			return fmt.Errorf("record booking event: %w", err)
		}
		result.Booking = *b
		result.ExtensionInvoice = inv
		result.Quote = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Success(fmt.Sprintf("Booking %d extended to %s, extension invoice %s", result.Booking.ID,
		newEnd.Format(utils.DateLayout), result.ExtensionInvoice.Total))
	return &result, nil
}

// CancelBooking cancels a booking nobody has checked in to. Its unpaid invoices are cancelled with it.
func (s *Service) CancelBooking(ctx context.Context, bookingID uint, reason, actor string) (*bookingModel.Booking, error) {
	var out bookingModel.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := loadBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		from := b.Status
		if !from.CanTransitionTo(bookingModel.BookingStatusCancelled) {
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "cancel",
				Reason: "only PENDING or CONFIRMED bookings can be cancelled"}
		}
		if b.CheckInActual != nil {
			return &apperror.StateTransitionError{BookingID: b.ID, From: from.String(), Action: "cancel",
				Reason: fmt.Sprintf("tenant checked in at %s", b.CheckInActual.Format(time.RFC3339))}
		}

		b.Status = bookingModel.BookingStatusCancelled
		b.UpdatedBy = actor
		if err := tx.Save(b).Error; err != nil {
			return fmt.Errorf("update booking %d: %w", b.ID, err)
		}
		err = tx.Model(&invoiceModel.Invoice{}).
			Where("booking_id = ? AND status IN ?", b.ID, []invoiceModel.InvoiceStatus{invoiceModel.InvoiceStatusDraft, invoiceModel.InvoiceStatusIssued}).
			Update("status", invoiceModel.InvoiceStatusCancelled).Error
		if err != nil {
			return fmt.Errorf("cancel invoices of booking %d: %w", b.ID, err)
		}

		var note *string
		if reason != "" {
			note = &reason
		}
		if err := booking_event.RecordStatusEvent(tx, b, from, booking_event.EventCancelled, actor, note); err != nil {
			return fmt.Errorf("record booking event: %w", err)
		}
		out = *b
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Success(fmt.Sprintf("Booking %d cancelled", out.ID))
	return &out, nil
}

// DeleteBooking soft-deletes a COMPLETED or CANCELLED booking with its invoices and payments.
// A booking with a paid invoice is kept.
func (s *Service) DeleteBooking(ctx context.Context, bookingID uint, actor string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := loadBookingForUpdate(tx, bookingID)
		if err != nil {
			return err
		}
		if !b.Status.IsTerminal() {
			return &apperror.NotTerminalError{BookingID: b.ID, Status: b.Status.String()}
		}
		var paid invoiceModel.Invoice
		err = tx.Where("booking_id = ? AND status = ?", b.ID, invoiceModel.InvoiceStatusPaid).Limit(1).Find(&paid).Error
		if err != nil {
			return fmt.Errorf("load invoices of booking %d: %w", b.ID, err)
		}
		if paid.ID != 0 {
			return &apperror.NotTerminalError{BookingID: b.ID, Status: b.Status.String(), PaidInvoiceID: paid.ID}
		}

		if err := s.Ledger.DeleteBookingPaymentsTx(tx, b.ID, actor); err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", b.ID).Delete(&invoiceModel.Invoice{}).Error; err != nil {
			return fmt.Errorf("delete invoices of booking %d: %w", b.ID, err)
		}
		if err := booking_event.RecordStatusEvent(tx, b, b.Status, booking_event.EventDeleted, actor, nil); err != nil {
			return fmt.Errorf("record booking event: %w", err)
		}
		if err := tx.Delete(b).Error; err != nil {
			return fmt.Errorf("delete booking %d: %w", b.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Success(fmt.Sprintf("Booking %d deleted", bookingID))
	return nil
}

// CompleteCleaning closes a pending housekeeping task.
func (s *Service) CompleteCleaning(ctx context.Context, taskID uint, actor string) (*housekeeping.Task, error) {
	var task housekeeping.Task
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperror.NotFoundError{Entity: "housekeeping task", ID: taskID}
			}
			return fmt.Errorf("load housekeeping task %d: %w", taskID, err)
		}
		if task.Status != housekeeping.TaskStatusPending {
			return &apperror.ValidationError{Field: "task_id", Reason: fmt.Sprintf("task %d is already %s", taskID, task.Status)}
		}
		now := s.Now()
		task.Status = housekeeping.TaskStatusDone
		task.CompletedAt = &now
		task.CompletedBy = &actor
		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("update housekeeping task %d: %w", taskID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Success(fmt.Sprintf("Room %d cleaned (task %d)", task.RoomID, task.ID))
	return &task, nil
}
