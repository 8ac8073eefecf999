package exchange_rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-booking/apperror"
	rateModel "rental-booking/models/exchange_rate"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service reads and writes the configured CDF-per-USD rate.
type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Now: time.Now}
}

// Current returns the newest rate already in effect. It never substitutes a default.
func (s *Service) Current(ctx context.Context) (*rateModel.ExchangeRate, error) {
	return s.current(s.DB.WithContext(ctx))
}

func (s *Service) current(db *gorm.DB) (*rateModel.ExchangeRate, error) {
	var rate rateModel.ExchangeRate
	err := db.Where("effective_from <= ?", s.Now().UTC()).
		Order("effective_from DESC").Order("id DESC").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperror.RateUnavailableError{}
	}
	if err != nil {
		return nil, fmt.Errorf("load exchange rate: %w", err)
	}
	if !rate.Rate.IsPositive() {
		return nil, &apperror.RateUnavailableError{Rate: rate.Rate}
	}
	return &rate, nil
}

// Resolve returns the explicit rate of a request when given, otherwise the configured one.
// A non-positive explicit rate is rejected, not replaced.
func (s *Service) Resolve(ctx context.Context, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if explicit != nil {
		if !explicit.IsPositive() {
			return decimal.Zero, &apperror.RateUnavailableError{Rate: *explicit}
		}
		return *explicit, nil
	}
	rate, err := s.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return rate.Rate, nil
}

// Set records a new rate. Payments already written keep the rate they were recorded with.
func (s *Service) Set(ctx context.Context, rate decimal.Decimal, effectiveFrom *time.Time, setBy string) (*rateModel.ExchangeRate, error) {
	if !rate.IsPositive() {
		return nil, &apperror.RateUnavailableError{Rate: rate}
	}
	from := s.Now()
	if effectiveFrom != nil {
		from = *effectiveFrom
	}
	row := rateModel.ExchangeRate{Rate: rate, EffectiveFrom: from.UTC(), SetBy: setBy}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save exchange rate: %w", err)
	}
	return &row, nil
}
