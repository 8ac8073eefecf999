package booking

import (
	"time"

	"rental-booking/apperror"
	bookingModel "rental-booking/models/booking"
	paymentModel "rental-booking/models/payment"
	bookingService "rental-booking/services/booking"
	"rental-booking/utils"

	"github.com/shopspring/decimal"
)

// BookingCreateRequest is the payload of POST /bookings. Either end_date or nights defines the stay.
type BookingCreateRequest struct {
	RoomID    uint   `json:"room_id" validate:"required"`
	TenantID  uint   `json:"tenant_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Nights    int    `json:"nights" validate:"omitempty,min=1,max=3650"`

	DiscountPerNight decimal.Decimal `json:"discount_per_night"`
	DepositCollected decimal.Decimal `json:"deposit_collected"`
	Notes            *string         `json:"notes" validate:"omitempty,max=1000"`

	InitialPaymentUSD decimal.Decimal  `json:"initial_payment_usd"`
	InitialPaymentCDF decimal.Decimal  `json:"initial_payment_cdf"`
	ExchangeRate      *decimal.Decimal `json:"exchange_rate"`
	PaymentMethod     string           `json:"payment_method" validate:"omitempty,oneof=CASH MOBILE_MONEY BANK_TRANSFER CARD"`

	Immediate bool `json:"immediate"`
}

// ToInput converts the request for the booking service. agentID and actor come from the caller's token.
func (r BookingCreateRequest) ToInput(agentID uint, actor string) (bookingService.CreateInput, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return bookingService.CreateInput{}, &apperror.ValidationError{Field: "start_date", Reason: err.Error()}
	}
	var end time.Time
	if r.EndDate != "" {
		if end, err = utils.ParseDate(r.EndDate); err != nil {
			return bookingService.CreateInput{}, &apperror.ValidationError{Field: "end_date", Reason: err.Error()}
		}
	} else if r.Nights == 0 {
		return bookingService.CreateInput{}, &apperror.ValidationError{Field: "end_date", Reason: "end_date or nights is required"}
	}
	return bookingService.CreateInput{
		RoomID:            r.RoomID,
		TenantID:          r.TenantID,
		AgentID:           agentID,
		Start:             start,
		End:               end,
		Nights:            r.Nights,
		DiscountPerNight:  r.DiscountPerNight,
		DepositCollected:  r.DepositCollected,
		Notes:             r.Notes,
		InitialPaymentUSD: r.InitialPaymentUSD,
		InitialPaymentCDF: r.InitialPaymentCDF,
		ExchangeRate:      r.ExchangeRate,
		Method:            paymentModel.PaymentMethod(r.PaymentMethod),
		Immediate:         r.Immediate,
		Actor:             actor,
	}, nil
}

// ConflictCheckRequest is the payload of POST /bookings/check-conflict.
type ConflictCheckRequest struct {
	RoomID    uint   `json:"room_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (r ConflictCheckRequest) Dates() (time.Time, time.Time, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, &apperror.ValidationError{Field: "start_date", Reason: err.Error()}
	}
	end, err := utils.ParseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, &apperror.ValidationError{Field: "end_date", Reason: err.Error()}
	}
	return start, end, nil
}

// DepartureRequest lets the operator override the computed overdue charge.
type DepartureRequest struct {
	DebtAmount  *decimal.Decimal `json:"debt_amount"`
	OverdueDays *int             `json:"overdue_days" validate:"omitempty,min=0"`
}

func (r DepartureRequest) ToInput(actor string) bookingService.DepartureInput {
	return bookingService.DepartureInput{
		DebtAmount:  r.DebtAmount,
		OverdueDays: r.OverdueDays,
		Actor:       actor,
	}
}

// ExtendRequest is the payload of POST /bookings/:id/extend.
type ExtendRequest struct {
	NewEndDate        string           `json:"new_end_date" validate:"required,datetime=2006-01-02"`
	NewTotal          *decimal.Decimal `json:"new_total"`
	ExtensionDiscount decimal.Decimal  `json:"extension_discount"`
}

func (r ExtendRequest) ToInput(actor string) (bookingService.ExtendInput, error) {
	newEnd, err := utils.ParseDate(r.NewEndDate)
	if err != nil {
		return bookingService.ExtendInput{}, &apperror.ValidationError{Field: "new_end_date", Reason: err.Error()}
	}
	return bookingService.ExtendInput{
		NewEnd:            newEnd,
		NewTotal:          r.NewTotal,
		ExtensionDiscount: r.ExtensionDiscount,
		Actor:             actor,
	}, nil
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// ListQuery holds the filters of GET /bookings.
type ListQuery struct {
	RoomID   uint   `query:"room_id"`
	TenantID uint   `query:"tenant_id"`
	Status   string `query:"status" validate:"omitempty,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
}

func (q ListQuery) Filter() (bookingService.BookingFilter, error) {
	filter := bookingService.BookingFilter{RoomID: q.RoomID, TenantID: q.TenantID}
	if q.Status != "" {
		status, err := bookingModel.ParseBookingStatus(q.Status)
		if err != nil {
			return bookingService.BookingFilter{}, &apperror.ValidationError{Field: "status", Reason: err.Error()}
		}
		filter.Status = status
	}
	return filter, nil
}
