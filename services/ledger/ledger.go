// Package ledger records payments against bookings and invoices and answers balance questions.
//
// A payment may arrive in USD, CDF or both. Its canonical USD value is computed once, at insert, from the
// rate in force at that moment, and stored next to the physical amounts and the rate. Balances are always
// summed from those stored canonical values; no rate is ever re-applied to an existing payment.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"rental-booking/apperror"
	bookingModel "rental-booking/models/booking"
	invoiceModel "rental-booking/models/invoice"
	paymentModel "rental-booking/models/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultEpsilon absorbs rounding when deciding whether something is paid.
var DefaultEpsilon = decimal.RequireFromString("0.01")

// canonicalPlaces is the precision canonical totals are stored with.
const canonicalPlaces = 4

type Ledger struct {
	DB      *gorm.DB
	Epsilon decimal.Decimal
	Now     func() time.Time
}

func New(db *gorm.DB, epsilon decimal.Decimal) *Ledger {
	return &Ledger{DB: db, Epsilon: epsilon, Now: time.Now}
}

// PaymentInput describes money received for a booking.
type PaymentInput struct {
	BookingID   uint
	InvoiceID   *uint
	AmountUSD   decimal.Decimal
	AmountCDF   decimal.Decimal
	Rate        decimal.Decimal
	Method      paymentModel.PaymentMethod
	PaymentDate time.Time
	Actor       string
}

// Canonical converts a split payment to USD: usd + cdf / rate.
func Canonical(usd, cdf, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, &apperror.RateUnavailableError{Rate: rate}
	}
	return usd.Add(cdf.Div(rate)).Round(canonicalPlaces), nil
}

func validateAmounts(usd, cdf decimal.Decimal) error {
	if usd.IsNegative() {
		return &apperror.ValidationError{Field: "amount_usd", Reason: fmt.Sprintf("%s must not be negative", usd)}
	}
	if cdf.IsNegative() {
		return &apperror.ValidationError{Field: "amount_cdf", Reason: fmt.Sprintf("%s must not be negative", cdf)}
	}
	if !usd.IsPositive() && !cdf.IsPositive() {
		return &apperror.ValidationError{Field: "amount", Reason: "a payment needs a positive amount in USD or CDF"}
	}
	return nil
}

// RecordPayment appends a payment in its own transaction.
func (l *Ledger) RecordPayment(ctx context.Context, in PaymentInput) (*paymentModel.Payment, error) {
	var out *paymentModel.Payment
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := l.RecordPaymentTx(tx, in)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordPaymentTx appends a payment inside the caller's transaction, so booking creation can insert
// booking, invoice and first payment as one unit.
func (l *Ledger) RecordPaymentTx(tx *gorm.DB, in PaymentInput) (*paymentModel.Payment, error) {
	if err := validateAmounts(in.AmountUSD, in.AmountCDF); err != nil {
		return nil, err
	}
	if !in.Method.IsValid() {
		return nil, &apperror.ValidationError{Field: "method", Reason: fmt.Sprintf("unknown payment method %q", in.Method)}
	}
	canonical, err := Canonical(in.AmountUSD, in.AmountCDF, in.Rate)
	if err != nil {
		return nil, err
	}
	if _, err := l.loadBooking(tx, in.BookingID); err != nil {
		return nil, err
	}
	if in.InvoiceID != nil {
		if _, err := l.lockInvoiceOf(tx, *in.InvoiceID, in.BookingID); err != nil {
			return nil, err
		}
	}

	paidAt := in.PaymentDate
	if paidAt.IsZero() {
		paidAt = l.Now()
	}
	p := paymentModel.Payment{
		Reference:      uuid.NewString(),
		BookingID:      in.BookingID,
		InvoiceID:      in.InvoiceID,
		AmountUSD:      in.AmountUSD,
		AmountCDF:      in.AmountCDF,
		CanonicalTotal: canonical,
		ExchangeRate:   in.Rate,
		Method:         in.Method,
		PaymentDate:    paidAt.UTC(),
		RecordedBy:     in.Actor,
	}
	if err := tx.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	if p.InvoiceID != nil {
		if err := l.refreshInvoiceTx(tx, *p.InvoiceID); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// PaymentCorrection replaces the values of an existing payment. A nil Rate keeps the rate the payment
// was recorded at.
type PaymentCorrection struct {
	InvoiceID   *uint
	AmountUSD   decimal.Decimal
	AmountCDF   decimal.Decimal
	Rate        *decimal.Decimal
	Method      paymentModel.PaymentMethod
	PaymentDate time.Time
	Actor       string
}

// UpdatePayment corrects one payment and recomputes the invoices it touched. Other payments keep their rates.
func (l *Ledger) UpdatePayment(ctx context.Context, paymentID uint, in PaymentCorrection) (*paymentModel.Payment, error) {
	if err := validateAmounts(in.AmountUSD, in.AmountCDF); err != nil {
		return nil, err
	}
	if !in.Method.IsValid() {
		return nil, &apperror.ValidationError{Field: "method", Reason: fmt.Sprintf("unknown payment method %q", in.Method)}
	}

	var out paymentModel.Payment
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := l.lockPayment(tx, paymentID)
		if err != nil {
			return err
		}
		rate := p.ExchangeRate
		if in.Rate != nil {
			rate = *in.Rate
		}
		canonical, err := Canonical(in.AmountUSD, in.AmountCDF, rate)
		if err != nil {
			return err
		}
		if err := l.lockInvoicesOf(tx, p.BookingID, p.InvoiceID, in.InvoiceID); err != nil {
			return err
		}
		if err := tx.Create(revisionOf(p, "updated", in.Actor)).Error; err != nil {
			return fmt.Errorf("save payment revision: %w", err)
		}

		previousInvoice := p.InvoiceID
		now := l.Now()
		p.InvoiceID = in.InvoiceID
		p.AmountUSD = in.AmountUSD
		p.AmountCDF = in.AmountCDF
		p.CanonicalTotal = canonical
		p.ExchangeRate = rate
		p.Method = in.Method
		if !in.PaymentDate.IsZero() {
			p.PaymentDate = in.PaymentDate.UTC()
		}
		p.CorrectedAt = &now
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("update payment %d: %w", paymentID, err)
		}

		if err := l.refreshInvoicesTx(tx, previousInvoice, p.InvoiceID); err != nil {
			return err
		}
		out = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePayment soft-deletes a payment, keeping a revision row, and recomputes its invoice.
func (l *Ledger) DeletePayment(ctx context.Context, paymentID uint, actor string) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := l.lockPayment(tx, paymentID)
		if err != nil {
			return err
		}
		if err := l.lockInvoicesOf(tx, p.BookingID, p.InvoiceID); err != nil {
			return err
		}
		if err := tx.Create(revisionOf(p, "deleted", actor)).Error; err != nil {
			return fmt.Errorf("save payment revision: %w", err)
		}
		if err := tx.Delete(p).Error; err != nil {
			return fmt.Errorf("delete payment %d: %w", paymentID, err)
		}
		return l.refreshInvoicesTx(tx, p.InvoiceID)
	})
}

func revisionOf(p *paymentModel.Payment, action, actor string) *paymentModel.PaymentRevision {
	return &paymentModel.PaymentRevision{
		PaymentID:      p.ID,
		Action:         action,
		InvoiceID:      p.InvoiceID,
		AmountUSD:      p.AmountUSD,
		AmountCDF:      p.AmountCDF,
		CanonicalTotal: p.CanonicalTotal,
		ExchangeRate:   p.ExchangeRate,
		Method:         p.Method,
		PaymentDate:    p.PaymentDate,
		ChangedBy:      actor,
	}
}

func (l *Ledger) refreshInvoicesTx(tx *gorm.DB, ids ...*uint) error {
	seen := make(map[uint]bool)
	for _, id := range ids {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		if err := l.refreshInvoiceTx(tx, *id); err != nil {
			return err
		}
	}
	return nil
}

// refreshInvoiceTx recomputes AmountPaid and the paid/issued status of one invoice from its payments.
func (l *Ledger) refreshInvoiceTx(tx *gorm.DB, invoiceID uint) error {
	var inv invoiceModel.Invoice
	if err := tx.First(&inv, invoiceID).Error; err != nil {
		return fmt.Errorf("load invoice %d: %w", invoiceID, err)
	}
	var payments []paymentModel.Payment
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&payments).Error; err != nil {
		return fmt.Errorf("load payments of invoice %d: %w", invoiceID, err)
	}

	paid := sumCanonical(payments)
	status := inv.Status
	if status != invoiceModel.InvoiceStatusCancelled {
		if Classify(paid, inv.Total, l.epsilon()) == PaymentStatusPaid && paid.IsPositive() {
			status = invoiceModel.InvoiceStatusPaid
		} else {
			status = invoiceModel.InvoiceStatusIssued
		}
	}
	return tx.Model(&inv).Updates(map[string]interface{}{
		"amount_paid": paid,
		"status":      status,
	}).Error
}

// InvoiceBalance reads one invoice's balance.
func (l *Ledger) InvoiceBalance(ctx context.Context, invoiceID uint) (InvoiceBalance, error) {
	db := l.DB.WithContext(ctx)
	var inv invoiceModel.Invoice
	if err := db.First(&inv, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceBalance{}, &apperror.NotFoundError{Entity: "invoice", ID: invoiceID}
		}
		return InvoiceBalance{}, fmt.Errorf("load invoice %d: %w", invoiceID, err)
	}
	var payments []paymentModel.Payment
	if err := db.Where("invoice_id = ?", invoiceID).Find(&payments).Error; err != nil {
		return InvoiceBalance{}, fmt.Errorf("load payments of invoice %d: %w", invoiceID, err)
	}
	return invoiceBalanceOf(inv, payments, l.epsilon()), nil
}

// BookingBalance reads the balance of every invoice of a booking and of the booking as a whole.
func (l *Ledger) BookingBalance(ctx context.Context, bookingID uint) (BalanceSummary, error) {
	return l.BookingBalanceTx(l.DB.WithContext(ctx), bookingID)
}

func (l *Ledger) BookingBalanceTx(tx *gorm.DB, bookingID uint) (BalanceSummary, error) {
	if _, err := l.loadBooking(tx, bookingID); err != nil {
		return BalanceSummary{}, err
	}
	invoices, payments, err := l.LoadBookingFinancials(tx, bookingID)
	if err != nil {
		return BalanceSummary{}, err
	}
	return Summarize(bookingID, invoices, payments, l.epsilon()), nil
}

// LoadBookingFinancials returns the live invoices and payments of a booking.
func (l *Ledger) LoadBookingFinancials(tx *gorm.DB, bookingID uint) ([]invoiceModel.Invoice, []paymentModel.Payment, error) {
	var invoices []invoiceModel.Invoice
	if err := tx.Where("booking_id = ?", bookingID).Order("id ASC").Find(&invoices).Error; err != nil {
		return nil, nil, fmt.Errorf("load invoices of booking %d: %w", bookingID, err)
	}
	var payments []paymentModel.Payment
	if err := tx.Where("booking_id = ?", bookingID).Order("payment_date ASC").Order("id ASC").Find(&payments).Error; err != nil {
		return nil, nil, fmt.Errorf("load payments of booking %d: %w", bookingID, err)
	}
	return invoices, payments, nil
}

func (l *Ledger) epsilon() decimal.Decimal {
	if l.Epsilon.IsZero() {
		return DefaultEpsilon
	}
	return l.Epsilon
}

func (l *Ledger) loadBooking(tx *gorm.DB, bookingID uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := tx.First(&b, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "booking", ID: bookingID}
		}
		return nil, fmt.Errorf("load booking %d: %w", bookingID, err)
	}
	return &b, nil
}

// lockInvoicesOf row-locks the given invoices of a booking in id order, so concurrent writers
// refresh AmountPaid one after the other.
func (l *Ledger) lockInvoicesOf(tx *gorm.DB, bookingID uint, ids ...*uint) error {
	var unique []uint
	for _, id := range ids {
		if id != nil && !slices.Contains(unique, *id) {
			unique = append(unique, *id)
		}
	}
	slices.Sort(unique)
	for _, id := range unique {
		if _, err := l.lockInvoiceOf(tx, id, bookingID); err != nil {
			return err
		}
	}
	return nil
}

// lockInvoiceOf loads an invoice of the booking and holds its row lock until the transaction ends.
func (l *Ledger) lockInvoiceOf(tx *gorm.DB, invoiceID, bookingID uint) (*invoiceModel.Invoice, error) {
	var inv invoiceModel.Invoice
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "invoice", ID: invoiceID}
		}
		return nil, fmt.Errorf("load invoice %d: %w", invoiceID, err)
	}
	if inv.BookingID != bookingID {
		return nil, &apperror.ValidationError{
			Field:  "invoice_id",
			Reason: fmt.Sprintf("invoice %d belongs to booking %d, not %d", invoiceID, inv.BookingID, bookingID),
		}
	}
	return &inv, nil
}

// lockPayment loads a payment and holds its row lock until the transaction ends.
func (l *Ledger) lockPayment(tx *gorm.DB, paymentID uint) (*paymentModel.Payment, error) {
	var p paymentModel.Payment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "payment", ID: paymentID}
		}
		return nil, fmt.Errorf("load payment %d: %w", paymentID, err)
	}
	return &p, nil
}

// DeleteBookingPaymentsTx soft-deletes every payment of a booking inside the caller's transaction,
// leaving a revision row for each.
func (l *Ledger) DeleteBookingPaymentsTx(tx *gorm.DB, bookingID uint, actor string) error {
	var payments []paymentModel.Payment
	if err := tx.Where("booking_id = ?", bookingID).Find(&payments).Error; err != nil {
		return fmt.Errorf("load payments of booking %d: %w", bookingID, err)
	}
	for i := range payments {
		p := &payments[i]
		if err := tx.Create(revisionOf(p, "deleted", actor)).Error; err != nil {
			return fmt.Errorf("save payment revision: %w", err)
		}
		if err := tx.Delete(p).Error; err != nil {
			return fmt.Errorf("delete payment %d: %w", p.ID, err)
		}
	}
	return nil
}
