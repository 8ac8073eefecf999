package tenant

import (
	"time"
)

// Tenant is the counter-party of a booking.
type Tenant struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName        string  `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone           string  `gorm:"type:varchar(30);not null;index" json:"phone"`
	Email           *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	IDDocument      *string `gorm:"type:varchar(100)" json:"id_document,omitempty"`
	Blacklisted     bool    `gorm:"not null;default:false;index" json:"blacklisted"`
	BlacklistReason *string `gorm:"type:text" json:"blacklist_reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
