// Package booking owns the booking lifecycle: creation under a per-room lock, check-in, departure,
// extension, cancellation and deletion, plus the read models derived from stored facts.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-booking/apperror"
	"rental-booking/logger"
	bookingModel "rental-booking/models/booking"
	invoiceModel "rental-booking/models/invoice"
	paymentModel "rental-booking/models/payment"
	roomModel "rental-booking/models/room"
	tenantModel "rental-booking/models/tenant"
	userModel "rental-booking/models/user"
	"rental-booking/services/availability"
	"rental-booking/services/booking_event"
	"rental-booking/services/exchange_rate"
	"rental-booking/services/ledger"
	"rental-booking/services/locker"
	"rental-booking/services/pricing"
	"rental-booking/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB     *gorm.DB
	Ledger *ledger.Ledger
	Rates  *exchange_rate.Service
	Locker locker.RoomLocker
	// Location is the business timezone; it decides which calendar day "today" is.
	Location *time.Location
	Now      func() time.Time
}

func NewService(db *gorm.DB, l *ledger.Ledger, rates *exchange_rate.Service, lk locker.RoomLocker, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{DB: db, Ledger: l, Rates: rates, Locker: lk, Location: loc, Now: time.Now}
}

// Today is the current calendar day in the business timezone.
func (s *Service) Today() time.Time {
	return utils.DateOf(s.Now(), s.Location)
}

// calendarDay drops the time of a date that is already a calendar day, such as a parsed YYYY-MM-DD.
func calendarDay(t time.Time) time.Time {
	return utils.DateOf(t, time.UTC)
}

// CreateInput is a booking request. End may be left zero when Nights is given; when both are set they must agree.
type CreateInput struct {
	RoomID   uint
	TenantID uint
	AgentID  uint
	Start    time.Time
	End      time.Time
	Nights   int

	DiscountPerNight decimal.Decimal
	DepositCollected decimal.Decimal
	Notes            *string

	InitialPaymentUSD decimal.Decimal
	InitialPaymentCDF decimal.Decimal
	// ExchangeRate overrides the configured rate when set.
	ExchangeRate *decimal.Decimal
	Method       paymentModel.PaymentMethod

	// Immediate records the arrival now; the stay must start today.
	Immediate bool
	Actor     string
}

type CreateResult struct {
	Booking bookingModel.Booking  `json:"booking"`
	Invoice invoiceModel.Invoice  `json:"invoice"`
	Payment *paymentModel.Payment `json:"payment,omitempty"`
	Quote   pricing.Quote         `json:"quote"`
}

// CreateBooking inserts a booking, its original invoice and an optional first payment as one unit.
// The overlap check and the insert run under the room's lock and inside one transaction that also
// row-locks the room, so two overlapping requests for one room cannot both succeed.
func (s *Service) CreateBooking(ctx context.Context, in CreateInput) (*CreateResult, error) {
	today := s.Today()
	start := calendarDay(in.Start)
	end := calendarDay(in.End)
	if in.End.IsZero() && in.Nights > 0 {
		end = pricing.EndFor(start, in.Nights)
	}
	if err := availability.ValidateRange(start, end); err != nil {
		return nil, err
	}
	if !in.End.IsZero() && in.Nights > 0 {
		if nights, _ := pricing.Nights(start, end); nights != in.Nights {
			return nil, &apperror.ValidationError{
				Field:  "nights",
				Reason: fmt.Sprintf("%d nights do not match a stay ending on %s (%d nights)", in.Nights, end.Format(utils.DateLayout), nights),
			}
		}
	}

	if start.Before(today) {
		return nil, &apperror.ValidationError{
			Field:  "start",
			Reason: fmt.Sprintf("stay cannot start on %s, before today %s", start.Format(utils.DateLayout), today.Format(utils.DateLayout)),
		}
	}
	if in.Immediate && !start.Equal(today) {
		return nil, &apperror.ValidationError{
			Field:  "immediate",
			Reason: fmt.Sprintf("immediate check-in needs a stay starting today, not %s", start.Format(utils.DateLayout)),
		}
	}
	if in.DiscountPerNight.IsNegative() {
		return nil, &apperror.ValidationError{Field: "discount_per_night", Reason: "must not be negative"}
	}
	if in.DepositCollected.IsNegative() {
		return nil, &apperror.ValidationError{Field: "deposit_collected", Reason: "must not be negative"}
	}
	if in.InitialPaymentUSD.IsNegative() || in.InitialPaymentCDF.IsNegative() {
		return nil, &apperror.ValidationError{Field: "initial_payment", Reason: "amounts must not be negative"}
	}
	withPayment := in.InitialPaymentUSD.IsPositive() || in.InitialPaymentCDF.IsPositive()
	method := in.Method
	if method == "" {
		method = paymentModel.PaymentMethodCash
	}

	rate, err := s.Rates.Resolve(ctx, in.ExchangeRate)
	if err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result CreateResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, in.RoomID)
		if err != nil {
			return err
		}
		if room.Status == roomModel.RoomStatusMaintenance {
			return &apperror.ValidationError{Field: "room_id", Reason: fmt.Sprintf("room %s is under maintenance", room.Number)}
		}
		if err := checkTenant(tx, in.TenantID); err != nil {
			return err
		}
		if err := checkAgent(tx, in.AgentID); err != nil {
			return err
		}
		if err := conflictTx(tx, room.ID, start, end, 0); err != nil {
			return err
		}

		quote, err := pricing.PriceStay(start, end, room.BaseRate, in.DiscountPerNight)
		if err != nil {
			return err
		}

		status := bookingModel.BookingStatusPending
		if start.Equal(today) {
			status = bookingModel.BookingStatusConfirmed
		}
		b := bookingModel.Booking{
			RoomID:           room.ID,
			TenantID:         in.TenantID,
			AgentID:          in.AgentID,
			PlannedStart:     start,
			PlannedEnd:       end,
			TotalPrice:       quote.Total,
			DiscountPerNight: in.DiscountPerNight,
			DepositCollected: in.DepositCollected,
			Notes:            in.Notes,
			Status:           status,
			CreatedBy:        in.Actor,
		}
		if in.Immediate {
			now := s.Now()
			b.CheckInActual = &now
		}
		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		inv := invoiceModel.Invoice{
			Number:      invoiceNumber(start),
			BookingID:   b.ID,
			Kind:        invoiceModel.InvoiceKindOriginal,
			Nights:      quote.Nights,
			Total:       quote.Total,
			DueDate:     start,
			Status:      invoiceModel.InvoiceStatusIssued,
			Description: fmt.Sprintf("Room %s, %d night(s) from %s", room.Number, quote.Nights, start.Format(utils.DateLayout)),
		}
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		if withPayment {
			p, err := s.Ledger.RecordPaymentTx(tx, ledger.PaymentInput{
				BookingID: b.ID,
				InvoiceID: &inv.ID,
				AmountUSD: in.InitialPaymentUSD,
				AmountCDF: in.InitialPaymentCDF,
				Rate:      rate,
				Method:    method,
				Actor:     in.Actor,
			})
			if err != nil {
				return err
			}
			result.Payment = p
			if err := tx.First(&inv, inv.ID).Error; err != nil {
				return fmt.Errorf("reload invoice %d: %w", inv.ID, err)
			}
		}

		if err := booking_event.RecordStatusEvent(tx, &b, "", booking_event.EventCreated, in.Actor, nil); err != nil {
			return fmt.Errorf("record booking event: %w", err)
		}

		result.Booking = b
		result.Invoice = inv
		result.Quote = quote
		return nil
	})
	if err != nil {
		if apperror.IsConflict(err) {
			logger.Warning(err.Error())
		}
		return nil, err
	}

	logger.Success(fmt.Sprintf("Booking %d created for room %d [%s, %s), total %s",
		result.Booking.ID, result.Booking.RoomID, start.Format(utils.DateLayout), end.Format(utils.DateLayout), result.Booking.TotalPrice))
	return &result, nil
}

// ConflictCheck is the answer of CheckConflict.
type ConflictCheck struct {
	RoomID            uint      `json:"room_id"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	Conflict          bool      `json:"conflict"`
	ConflictBookingID *uint     `json:"conflict_booking_id,omitempty"`
}

// CheckConflict tests [start, end) on a room without writing. It evaluates the same query and predicate
// CreateBooking enforces.
func (s *Service) CheckConflict(ctx context.Context, roomID uint, start, end time.Time) (ConflictCheck, error) {
	start, end = calendarDay(start), calendarDay(end)
	out := ConflictCheck{RoomID: roomID, Start: start, End: end}
	if err := availability.ValidateRange(start, end); err != nil {
		return out, err
	}

	db := s.DB.WithContext(ctx)
	if _, err := loadRoom(db, roomID); err != nil {
		return out, err
	}
	err := conflictTx(db, roomID, start, end, 0)
	var conflict *apperror.ConflictError
	if errors.As(err, &conflict) {
		out.Conflict = true
		out.ConflictBookingID = &conflict.ConflictBookingID
		return out, nil
	}
	return out, err
}

// conflictTx loads the participating bookings of the room that may overlap [start, end) and applies the
// overlap predicate to them.
func conflictTx(tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) error {
	var candidates []bookingModel.Booking
	err := tx.Where("room_id = ? AND status IN ? AND planned_start < ? AND planned_end > ?",
		roomID, bookingModel.ParticipatingStatuses(), end, start).
		Order("planned_start ASC").
		Find(&candidates).Error
	if err != nil {
		return fmt.Errorf("load bookings of room %d: %w", roomID, err)
	}
	return availability.CheckConflict(roomID, candidates, start, end, excludeID)
}

func lockRoom(tx *gorm.DB, roomID uint) (*roomModel.Room, error) {
	return loadRoom(tx.Clauses(clause.Locking{Strength: "UPDATE"}), roomID)
}

func loadRoom(db *gorm.DB, roomID uint) (*roomModel.Room, error) {
	var r roomModel.Room
	if err := db.First(&r, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "room", ID: roomID}
		}
		return nil, fmt.Errorf("load room %d: %w", roomID, err)
	}
	return &r, nil
}

func checkTenant(tx *gorm.DB, tenantID uint) error {
	var t tenantModel.Tenant
	if err := tx.First(&t, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperror.NotFoundError{Entity: "tenant", ID: tenantID}
		}
		return fmt.Errorf("load tenant %d: %w", tenantID, err)
	}
	if t.Blacklisted {
		return &apperror.ValidationError{Field: "tenant_id", Reason: fmt.Sprintf("tenant %d is blacklisted", tenantID)}
	}
	return nil
}

func checkAgent(tx *gorm.DB, agentID uint) error {
	var u userModel.User
	if err := tx.First(&u, agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperror.NotFoundError{Entity: "agent", ID: agentID}
		}
		return fmt.Errorf("load agent %d: %w", agentID, err)
	}
	return nil
}

// loadBookingForUpdate row-locks a booking for the rest of the transaction.
func loadBookingForUpdate(tx *gorm.DB, bookingID uint) (*bookingModel.Booking, error) {
	return loadBooking(tx.Clauses(clause.Locking{Strength: "UPDATE"}), bookingID)
}

func loadBooking(db *gorm.DB, bookingID uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := db.First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "booking", ID: bookingID}
		}
		return nil, fmt.Errorf("load booking %d: %w", bookingID, err)
	}
	return &b, nil
}

func invoiceNumber(day time.Time) string {
	return fmt.Sprintf("INV-%s-%s", day.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
