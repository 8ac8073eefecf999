package housekeeping

import "time"

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusDone    TaskStatus = "DONE"
)

// Task is a cleaning job opened when a departure is confirmed.
type Task struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID      uint       `gorm:"not null;index" json:"room_id"`
	BookingID   uint       `gorm:"not null;index" json:"booking_id"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *string    `gorm:"type:varchar(255)" json:"completed_by,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Task) TableName() string {
	return "housekeeping_tasks"
}
