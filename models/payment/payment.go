package payment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodBankTransfer, PaymentMethodCard:
		return true
	default:
		return false
	}
}

// Payment is money physically received, possibly split across USD and CDF.
// CanonicalTotal and ExchangeRate are fixed when the row is written and only change through a correction,
// which records the rate it used.
type Payment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference string `gorm:"type:varchar(64);not null;unique" json:"reference"`
	BookingID uint   `gorm:"not null;index" json:"booking_id"`
	InvoiceID *uint  `gorm:"index" json:"invoice_id,omitempty"`

	AmountUSD      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"amount_usd"`
	AmountCDF      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount_cdf"`
	CanonicalTotal decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"canonical_total"`
	// ExchangeRate is CDF per one USD at the moment of payment.
	ExchangeRate decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"exchange_rate"`

	Method      PaymentMethod `gorm:"type:varchar(30);not null" json:"method"`
	PaymentDate time.Time     `gorm:"not null;index" json:"payment_date"`
	RecordedBy  string        `gorm:"type:varchar(255);not null" json:"recorded_by"`
	CorrectedAt *time.Time    `json:"corrected_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PaymentRevision keeps the values a payment held before a correction or deletion.
type PaymentRevision struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID      uint            `gorm:"not null;index" json:"payment_id"`
	Action         string          `gorm:"type:varchar(20);not null" json:"action"` // updated, deleted
	InvoiceID      *uint           `json:"invoice_id,omitempty"`
	AmountUSD      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount_usd"`
	AmountCDF      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount_cdf"`
	CanonicalTotal decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"canonical_total"`
	ExchangeRate   decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"exchange_rate"`
	Method         PaymentMethod   `gorm:"type:varchar(30);not null" json:"method"`
	PaymentDate    time.Time       `gorm:"not null" json:"payment_date"`
	ChangedBy      string          `gorm:"type:varchar(255);not null" json:"changed_by"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentRevision) TableName() string {
	return "payment_revisions"
}
