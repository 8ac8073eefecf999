package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceKind tells why an invoice exists. A booking owns one ORIGINAL invoice, one EXTENSION invoice per
// stay extension and at most one OVERDUE invoice raised when a late departure is confirmed.
type InvoiceKind string

const (
	InvoiceKindOriginal  InvoiceKind = "ORIGINAL"
	InvoiceKindExtension InvoiceKind = "EXTENSION"
	InvoiceKindOverdue   InvoiceKind = "OVERDUE"
)

// Invoice amounts are in the canonical currency (USD).
type Invoice struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Number      string          `gorm:"type:varchar(64);not null;unique" json:"number"`
	BookingID   uint            `gorm:"not null;index" json:"booking_id"`
	Kind        InvoiceKind     `gorm:"type:varchar(20);not null" json:"kind"`
	Nights      int             `gorm:"not null;default:0" json:"nights"`
	Total       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0" json:"amount_paid"`
	DueDate     time.Time       `gorm:"type:date;not null" json:"due_date"`
	Status      InvoiceStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Description string          `gorm:"type:text" json:"description"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Counts reports whether the invoice adds to what the booking owes.
func (i Invoice) Counts() bool {
	return i.Status != InvoiceStatusCancelled && i.Status != InvoiceStatusDraft
}
