package exchange_rate

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a configured CDF-per-USD rate. The newest row by EffectiveFrom is current.
type ExchangeRate struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Rate          decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"rate"`
	EffectiveFrom time.Time       `gorm:"not null;index" json:"effective_from"`
	SetBy         string          `gorm:"type:varchar(255);not null" json:"set_by"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
