package receipt_parser

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiptParseRequest tracks one payment-receipt image sent for extraction.
type ReceiptParseRequest struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID        string `json:"request_id" gorm:"type:varchar(24);uniqueIndex;not null"`
	OriginalFileName string `json:"original_file_name" gorm:"type:varchar(255);not null"`
	FileHash         string `json:"file_hash" gorm:"type:varchar(128);index"` // SHA256 hash
	FileSize         int64  `json:"file_size" gorm:"not null"`
	MimeType         string `json:"mime_type" gorm:"type:varchar(100);not null"`
	Status           string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"` // processing, success, failed
	ProcessingTimeMs int64  `json:"processing_time_ms" gorm:"default:0"`

	// Extracted fields, to be confirmed by the operator
	AmountUSD   *decimal.Decimal `json:"amount_usd,omitempty" gorm:"type:decimal(14,2)"`
	AmountCDF   *decimal.Decimal `json:"amount_cdf,omitempty" gorm:"type:decimal(18,2)"`
	Method      string           `json:"method" gorm:"type:varchar(30);default:''"`
	PaymentDate *time.Time       `json:"payment_date,omitempty"`
	Reference   string           `json:"reference" gorm:"type:varchar(100);default:''"`

	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`
	RequestedBy  string `json:"requested_by" gorm:"type:varchar(255);default:''"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ReceiptParseRequest) TableName() string {
	return "receipt_parse_requests"
}

// BeforeCreate hook to set default values
func (r *ReceiptParseRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = "processing"
	}
	return nil
}

// ReceiptSuggestion is what the parser read off a receipt.
type ReceiptSuggestion struct {
	RequestID        string          `json:"request_id"`
	AmountUSD        decimal.Decimal `json:"amount_usd"`
	AmountCDF        decimal.Decimal `json:"amount_cdf"`
	Method           string          `json:"method"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	Reference        string          `json:"reference"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

// MarkAsSuccess stores the extracted fields on the request.
func (r *ReceiptParseRequest) MarkAsSuccess(db *gorm.DB, s *ReceiptSuggestion) error {
	r.Status = "success"
	r.AmountUSD = &s.AmountUSD
	r.AmountCDF = &s.AmountCDF
	r.Method = s.Method
	r.PaymentDate = s.PaymentDate
	r.Reference = s.Reference
	r.ProcessingTimeMs = s.ProcessingTimeMs
	return db.Save(r).Error
}

// MarkAsFailed marks the request as failed with error message
func (r *ReceiptParseRequest) MarkAsFailed(db *gorm.DB, errorMsg string, processingTime int64) error {
	r.Status = "failed"
	r.ErrorMessage = errorMsg
	r.ProcessingTimeMs = processingTime
	return db.Save(r).Error
}
