// Package pricing computes stay prices from night count, nightly rate and per-night discount.
package pricing

import (
	"time"

	"rental-booking/apperror"
	"rental-booking/utils"

	"github.com/shopspring/decimal"
)

// Quote is the breakdown of a stay price. All amounts are canonical currency.
type Quote struct {
	Nights           int             `json:"nights"`
	BaseRate         decimal.Decimal `json:"base_rate"`
	DiscountPerNight decimal.Decimal `json:"discount_per_night"`
	Gross            decimal.Decimal `json:"gross"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
}

// Price computes max(0, nights*rate - nights*discount).
func Price(nights int, baseRate, discountPerNight decimal.Decimal) (Quote, error) {
	if nights < 1 {
		return Quote{}, &apperror.ValidationError{Field: "nights", Reason: "must be at least 1"}
	}
	if baseRate.IsNegative() {
		return Quote{}, &apperror.ValidationError{Field: "base_rate", Reason: "must not be negative"}
	}
	if discountPerNight.IsNegative() {
		return Quote{}, &apperror.ValidationError{Field: "discount_per_night", Reason: "must not be negative"}
	}

	n := decimal.NewFromInt(int64(nights))
	gross := n.Mul(baseRate)
	discount := n.Mul(discountPerNight)
	total := gross.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Nights:           nights,
		BaseRate:         baseRate,
		DiscountPerNight: discountPerNight,
		Gross:            gross,
		Discount:         discount,
		Total:            total.Round(2),
	}, nil
}

// Total is Price without the breakdown.
func Total(nights int, baseRate, discountPerNight decimal.Decimal) (decimal.Decimal, error) {
	q, err := Price(nights, baseRate, discountPerNight)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Total, nil
}

// Nights returns the night count of [start, end), rejecting ranges that do not move forward.
func Nights(start, end time.Time) (int, error) {
	nights := utils.DaysBetween(start, end)
	if nights < 1 {
		return 0, &apperror.InvalidRangeError{Start: start, End: end}
	}
	return nights, nil
}

// EndFor keeps end date and night count consistent: end = start + nights.
func EndFor(start time.Time, nights int) time.Time {
	return utils.AddDays(utils.DateOf(start, time.UTC), nights)
}

// PriceStay prices [start, end).
func PriceStay(start, end time.Time, baseRate, discountPerNight decimal.Decimal) (Quote, error) {
	nights, err := Nights(start, end)
	if err != nil {
		return Quote{}, err
	}
	return Price(nights, baseRate, discountPerNight)
}
