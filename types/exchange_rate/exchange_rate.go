package exchange_rate

import (
	"time"

	"rental-booking/apperror"

	"github.com/shopspring/decimal"
)

// RateSetRequest stores a new CDF per USD rate. effective_from is RFC3339 and defaults to now.
type RateSetRequest struct {
	Rate          decimal.Decimal `json:"rate"`
	EffectiveFrom string          `json:"effective_from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r RateSetRequest) From() (*time.Time, error) {
	if r.EffectiveFrom == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, r.EffectiveFrom)
	if err != nil {
		return nil, &apperror.ValidationError{Field: "effective_from", Reason: "expected RFC3339 timestamp"}
	}
	return &t, nil
}
