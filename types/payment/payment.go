package payment

import (
	"time"

	"rental-booking/apperror"
	paymentModel "rental-booking/models/payment"
	"rental-booking/services/ledger"

	"github.com/shopspring/decimal"
)

// PaymentCreateRequest records money received for a booking. payment_date is RFC3339 and defaults to now.
type PaymentCreateRequest struct {
	BookingID    uint             `json:"booking_id" validate:"required"`
	InvoiceID    *uint            `json:"invoice_id"`
	AmountUSD    decimal.Decimal  `json:"amount_usd"`
	AmountCDF    decimal.Decimal  `json:"amount_cdf"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
	Method       string           `json:"method" validate:"required,oneof=CASH MOBILE_MONEY BANK_TRANSFER CARD"`
	PaymentDate  string           `json:"payment_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r PaymentCreateRequest) ToInput(rate decimal.Decimal, actor string) (ledger.PaymentInput, error) {
	at, err := paymentDate(r.PaymentDate)
	if err != nil {
		return ledger.PaymentInput{}, err
	}
	return ledger.PaymentInput{
		BookingID:   r.BookingID,
		InvoiceID:   r.InvoiceID,
		AmountUSD:   r.AmountUSD,
		AmountCDF:   r.AmountCDF,
		Rate:        rate,
		Method:      paymentModel.PaymentMethod(r.Method),
		PaymentDate: at,
		Actor:       actor,
	}, nil
}

// PaymentUpdateRequest corrects a recorded payment. Without exchange_rate the payment keeps its recorded rate.
type PaymentUpdateRequest struct {
	InvoiceID    *uint            `json:"invoice_id"`
	AmountUSD    decimal.Decimal  `json:"amount_usd"`
	AmountCDF    decimal.Decimal  `json:"amount_cdf"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
	Method       string           `json:"method" validate:"required,oneof=CASH MOBILE_MONEY BANK_TRANSFER CARD"`
	PaymentDate  string           `json:"payment_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r PaymentUpdateRequest) ToCorrection(actor string) (ledger.PaymentCorrection, error) {
	at, err := paymentDate(r.PaymentDate)
	if err != nil {
		return ledger.PaymentCorrection{}, err
	}
	return ledger.PaymentCorrection{
		InvoiceID:   r.InvoiceID,
		AmountUSD:   r.AmountUSD,
		AmountCDF:   r.AmountCDF,
		Rate:        r.ExchangeRate,
		Method:      paymentModel.PaymentMethod(r.Method),
		PaymentDate: at,
		Actor:       actor,
	}, nil
}

func paymentDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	at, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &apperror.ValidationError{Field: "payment_date", Reason: "expected RFC3339 timestamp"}
	}
	return at, nil
}
