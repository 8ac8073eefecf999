package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// User is a back-office agent, mirrored from the identity provider's token claims.
type User struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid        string      `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Username    string      `gorm:"type:varchar(255);not null;unique" json:"username"`
	LegalName   string      `gorm:"type:varchar(255)" json:"legal_name"`
	Phone       *string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email       *string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Permissions StringSlice `gorm:"type:json" json:"permissions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// StringSlice is a custom type to handle JSON serialization for PostgreSQL
type StringSlice []string

// Scan implements the Scanner interface for database deserialization
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return errors.New("type assertion to []byte failed")
	}
}

// Value implements the driver Valuer interface for database serialization
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
