package room

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomStatus is both the administrative flag stored on a room and the effective status derived on read.
type RoomStatus string

const (
	RoomStatusAvailable       RoomStatus = "AVAILABLE"
	RoomStatusBooked          RoomStatus = "BOOKED"
	RoomStatusOccupied        RoomStatus = "OCCUPIED"
	RoomStatusPendingCheckout RoomStatus = "PENDING_CHECKOUT"
	RoomStatusPendingCleaning RoomStatus = "PENDING_CLEANING"
	RoomStatusMaintenance     RoomStatus = "MAINTENANCE"
)

func (s RoomStatus) String() string {
	return string(s)
}

// IsAdministrative reports whether an operator may store this status on the room directly.
// Every other status is derived from bookings and housekeeping tasks.
func (s RoomStatus) IsAdministrative() bool {
	return s == RoomStatusAvailable || s == RoomStatusMaintenance
}

// Room is a rentable unit.
type Room struct {
	ID       uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Number   string          `gorm:"type:varchar(50);not null;unique" json:"number"`
	Category string          `gorm:"type:varchar(100);not null" json:"category"`
	Capacity int             `gorm:"not null;default:1" json:"capacity"`
	BaseRate decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"base_rate"`

	// Status only ever holds AVAILABLE or MAINTENANCE.
	Status RoomStatus `gorm:"type:varchar(30);not null;default:AVAILABLE" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
