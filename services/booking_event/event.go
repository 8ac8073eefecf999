package booking_event

import (
	bookingModel "rental-booking/models/booking"

	"gorm.io/gorm"
)

const (
	EventCreated   = "created"
	EventCheckedIn = "checked_in"
	EventDeparted  = "departed"
	EventExtended  = "extended"
	EventCancelled = "cancelled"
	EventDeleted   = "deleted"
)

// RecordStatusEvent appends a status-change row for b inside the caller's transaction.
// from is the status before the change; b.Status is the status after it.
func RecordStatusEvent(tx *gorm.DB, b *bookingModel.Booking, from bookingModel.BookingStatus, eventType, actor string, note *string) error {
	ev := bookingModel.BookingStatusEvent{
		BookingID:  b.ID,
		FromStatus: from,
		Status:     b.Status,
		EventType:  eventType,
		Note:       note,
		CreatedBy:  actor,
	}
	return tx.Create(&ev).Error
}
