package booking

import (
	"time"

	"rental-booking/models/room"
	"rental-booking/models/tenant"
	"rental-booking/models/user"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking is a tenant's stay in a room. PlannedEnd is exclusive: a booking for [D, D+3) spans three nights.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RoomID   uint           `gorm:"not null;index" json:"room_id"`
	Room     *room.Room     `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	TenantID uint           `gorm:"not null;index" json:"tenant_id"`
	Tenant   *tenant.Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	AgentID  uint           `gorm:"not null;index" json:"agent_id"`
	Agent    *user.User     `gorm:"foreignKey:AgentID" json:"agent,omitempty"`

	PlannedStart time.Time `gorm:"type:date;not null;index" json:"planned_start"`
	PlannedEnd   time.Time `gorm:"type:date;not null;index" json:"planned_end"`

	CheckInActual  *time.Time `json:"check_in_actual,omitempty"`
	CheckOutActual *time.Time `json:"check_out_actual,omitempty"`

	TotalPrice       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_price"`
	DiscountPerNight decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"discount_per_night"`
	DepositCollected decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"deposit_collected"`
	Notes            *string         `gorm:"type:text" json:"notes,omitempty"`

	Status BookingStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	CreatedBy string         `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string         `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Nights is the current length of the stay, including extensions.
func (b Booking) Nights() int {
	return int(b.PlannedEnd.Sub(b.PlannedStart).Hours() / 24)
}

// IsCheckedIn reports a recorded arrival without a recorded departure.
func (b Booking) IsCheckedIn() bool {
	return b.CheckInActual != nil && b.CheckOutActual == nil
}
