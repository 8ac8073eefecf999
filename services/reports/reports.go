// Package reports builds the accounting views over the ledger: monthly takings and open balances.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	bookingModel "rental-booking/models/booking"
	invoiceModel "rental-booking/models/invoice"
	paymentModel "rental-booking/models/payment"
	"rental-booking/services/ledger"
	"rental-booking/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Epsilon  decimal.Decimal
	Location *time.Location
}

func NewService(db *gorm.DB, epsilon decimal.Decimal, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{DB: db, Epsilon: epsilon, Location: loc}
}

// MethodTotal is the takings of one payment method.
type MethodTotal struct {
	Method    paymentModel.PaymentMethod `json:"method"`
	Count     int                        `json:"count"`
	AmountUSD decimal.Decimal            `json:"amount_usd"`
	AmountCDF decimal.Decimal            `json:"amount_cdf"`
	Canonical decimal.Decimal            `json:"canonical_usd"`
}

// RevenueReport totals payments dated in a month. Physical amounts are what was counted at the desk;
// Canonical is their USD value at the rates stored on each payment.
type RevenueReport struct {
	Month     string          `json:"month"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Count     int             `json:"count"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	AmountCDF decimal.Decimal `json:"amount_cdf"`
	Canonical decimal.Decimal `json:"canonical_usd"`
	Invoiced  decimal.Decimal `json:"invoiced_usd"`
	ByMethod  []MethodTotal   `json:"by_method"`
}

// MonthlyRevenue reports the month containing month, in the business timezone.
func (s *Service) MonthlyRevenue(ctx context.Context, month time.Time) (*RevenueReport, error) {
	from, to := utils.MonthRange(month)
	db := s.DB.WithContext(ctx)

	// payment dates are instants; widen by a day and keep those whose business day falls in the month
	var payments []paymentModel.Payment
	err := db.Where("payment_date >= ? AND payment_date < ?", from.AddDate(0, 0, -1), to.AddDate(0, 0, 1)).
		Order("payment_date ASC").Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	report := &RevenueReport{
		Month:     from.Format("2006-01"),
		From:      from,
		To:        to,
		AmountUSD: decimal.Zero,
		AmountCDF: decimal.Zero,
		Canonical: decimal.Zero,
		Invoiced:  decimal.Zero,
	}
	byMethod := make(map[paymentModel.PaymentMethod]*MethodTotal)
	for _, p := range payments {
		d := utils.DateOf(p.PaymentDate, s.Location)
		if d.Before(from) || !d.Before(to) {
			continue
		}
		report.Count++
		report.AmountUSD = report.AmountUSD.Add(p.AmountUSD)
		report.AmountCDF = report.AmountCDF.Add(p.AmountCDF)
		report.Canonical = report.Canonical.Add(p.CanonicalTotal)

		mt, ok := byMethod[p.Method]
		if !ok {
			mt = &MethodTotal{Method: p.Method, AmountUSD: decimal.Zero, AmountCDF: decimal.Zero, Canonical: decimal.Zero}
			byMethod[p.Method] = mt
		}
		mt.Count++
		mt.AmountUSD = mt.AmountUSD.Add(p.AmountUSD)
		mt.AmountCDF = mt.AmountCDF.Add(p.AmountCDF)
		mt.Canonical = mt.Canonical.Add(p.CanonicalTotal)
	}
	for _, mt := range byMethod {
		report.ByMethod = append(report.ByMethod, *mt)
	}
	sort.Slice(report.ByMethod, func(i, j int) bool { return report.ByMethod[i].Method < report.ByMethod[j].Method })

	var invoices []invoiceModel.Invoice
	err = db.Where("due_date >= ? AND due_date < ? AND status IN ?", from, to,
		[]invoiceModel.InvoiceStatus{invoiceModel.InvoiceStatusIssued, invoiceModel.InvoiceStatusPaid}).
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	for _, inv := range invoices {
		report.Invoiced = report.Invoiced.Add(inv.Total)
	}
	return report, nil
}

// OutstandingBalance is a booking that still owes money.
type OutstandingBalance struct {
	BookingID    uint                       `json:"booking_id"`
	RoomNumber   string                     `json:"room_number"`
	TenantName   string                     `json:"tenant_name"`
	Status       bookingModel.BookingStatus `json:"status"`
	PlannedStart time.Time                  `json:"planned_start"`
	PlannedEnd   time.Time                  `json:"planned_end"`
	Owed         decimal.Decimal            `json:"owed"`
	Paid         decimal.Decimal            `json:"paid"`
	BalanceDue   decimal.Decimal            `json:"balance_due"`
	Payment      ledger.PaymentStatus       `json:"payment_status"`
}

// OutstandingBalances lists bookings whose balance is above epsilon, largest first.
func (s *Service) OutstandingBalances(ctx context.Context) ([]OutstandingBalance, error) {
	db := s.DB.WithContext(ctx)
	var bookings []bookingModel.Booking
	if err := db.Preload("Room").Preload("Tenant").Order("id ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	if len(bookings) == 0 {
		return []OutstandingBalance{}, nil
	}

	ids := make([]uint, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	var invoices []invoiceModel.Invoice
	if err := db.Where("booking_id IN ?", ids).Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	var payments []paymentModel.Payment
	if err := db.Where("booking_id IN ?", ids).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	invByBooking := make(map[uint][]invoiceModel.Invoice)
	for _, inv := range invoices {
		invByBooking[inv.BookingID] = append(invByBooking[inv.BookingID], inv)
	}
	payByBooking := make(map[uint][]paymentModel.Payment)
	for _, p := range payments {
		payByBooking[p.BookingID] = append(payByBooking[p.BookingID], p)
	}

	out := []OutstandingBalance{}
	for _, b := range bookings {
		sum := ledger.Summarize(b.ID, invByBooking[b.ID], payByBooking[b.ID], s.Epsilon)
		if !sum.BalanceDue.GreaterThan(s.Epsilon) {
			continue
		}
		row := OutstandingBalance{
			BookingID:    b.ID,
			Status:       b.Status,
			PlannedStart: b.PlannedStart,
			PlannedEnd:   b.PlannedEnd,
			Owed:         sum.Owed,
			Paid:         sum.Paid,
			BalanceDue:   sum.BalanceDue,
			Payment:      sum.Status,
		}
		if b.Room != nil {
			row.RoomNumber = b.Room.Number
		}
		if b.Tenant != nil {
			row.TenantName = b.Tenant.FullName
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BalanceDue.GreaterThan(out[j].BalanceDue) })
	return out, nil
}
