package booking

import (
	"time"
)

// BookingStatusEvent represents a status change event for a booking
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint `gorm:"not null;index" json:"booking_id"`

	FromStatus BookingStatus `gorm:"type:varchar(30)" json:"from_status"`
	Status     BookingStatus `gorm:"type:varchar(30);not null" json:"status"`
	EventType  string        `gorm:"type:varchar(50);not null;index" json:"event_type"` // created, checked_in, departed, extended, cancelled, deleted
	Note       *string       `gorm:"type:text" json:"note,omitempty"`
	CreatedBy  string        `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
