package ledger

import (
	invoiceModel "rental-booking/models/invoice"
	paymentModel "rental-booking/models/payment"

	"github.com/shopspring/decimal"
)

// PaymentStatus classifies how much of an amount owed has been paid.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
)

// Classify is PAID when paid >= owed - epsilon, PARTIAL when something was paid, UNPAID otherwise.
func Classify(paid, owed, epsilon decimal.Decimal) PaymentStatus {
	if paid.GreaterThanOrEqual(owed.Sub(epsilon)) {
		return PaymentStatusPaid
	}
	if paid.IsPositive() {
		return PaymentStatusPartial
	}
	return PaymentStatusUnpaid
}

// InvoiceBalance is the read model of one invoice.
type InvoiceBalance struct {
	InvoiceID     uint                       `json:"invoice_id"`
	Number        string                     `json:"number"`
	Kind          invoiceModel.InvoiceKind   `json:"kind"`
	InvoiceStatus invoiceModel.InvoiceStatus `json:"invoice_status"`
	Total         decimal.Decimal            `json:"total"`
	Paid          decimal.Decimal            `json:"paid"`
	// BalanceDue is signed; negative means overpaid.
	BalanceDue     decimal.Decimal `json:"balance_due"`
	DisplayBalance decimal.Decimal `json:"display_balance"`
	Status         PaymentStatus   `json:"payment_status"`
}

// BalanceSummary is the read model of a booking's account.
type BalanceSummary struct {
	BookingID      uint             `json:"booking_id"`
	Owed           decimal.Decimal  `json:"owed"`
	Paid           decimal.Decimal  `json:"paid"`
	BalanceDue     decimal.Decimal  `json:"balance_due"`
	DisplayBalance decimal.Decimal  `json:"display_balance"`
	Overpaid       bool             `json:"overpaid"`
	Status         PaymentStatus    `json:"payment_status"`
	Invoices       []InvoiceBalance `json:"invoices"`
}

func sumCanonical(payments []paymentModel.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.CanonicalTotal)
	}
	return total
}

// displayBalance is what is shown as still owed: zero once the amount counts as paid, otherwise the
// balance floored to cents.
func displayBalance(balance decimal.Decimal, status PaymentStatus, epsilon decimal.Decimal) decimal.Decimal {
	if status == PaymentStatusPaid || balance.LessThanOrEqual(epsilon) {
		return decimal.Zero
	}
	return balance.RoundFloor(2)
}

func invoiceBalanceOf(inv invoiceModel.Invoice, payments []paymentModel.Payment, epsilon decimal.Decimal) InvoiceBalance {
	var linked []paymentModel.Payment
	for _, p := range payments {
		if p.InvoiceID != nil && *p.InvoiceID == inv.ID {
			linked = append(linked, p)
		}
	}
	paid := sumCanonical(linked)
	balance := inv.Total.Sub(paid)
	status := Classify(paid, inv.Total, epsilon)
	return InvoiceBalance{
		InvoiceID:      inv.ID,
		Number:         inv.Number,
		Kind:           inv.Kind,
		InvoiceStatus:  inv.Status,
		Total:          inv.Total,
		Paid:           paid,
		BalanceDue:     balance,
		DisplayBalance: displayBalance(balance, status, epsilon),
		Status:         status,
	}
}

// Summarize computes a booking's balance: the totals of its live invoices (original, extensions and any
// overdue line) minus every payment made for the booking, linked to an invoice or not.
func Summarize(bookingID uint, invoices []invoiceModel.Invoice, payments []paymentModel.Payment, epsilon decimal.Decimal) BalanceSummary {
	owed := decimal.Zero
	lines := make([]InvoiceBalance, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Counts() {
			owed = owed.Add(inv.Total)
		}
		lines = append(lines, invoiceBalanceOf(inv, payments, epsilon))
	}
	paid := sumCanonical(payments)
	balance := owed.Sub(paid)
	status := Classify(paid, owed, epsilon)

	return BalanceSummary{
		BookingID:      bookingID,
		Owed:           owed,
		Paid:           paid,
		BalanceDue:     balance,
		DisplayBalance: displayBalance(balance, status, epsilon),
		Overpaid:       balance.LessThan(epsilon.Neg()),
		Status:         status,
		Invoices:       lines,
	}
}
