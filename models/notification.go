package models

import "time"

// Notification types. The recalculation engine only ever emits
// NotificationOrderUpdate; anything else comes from users or external
// integrations.
const (
	NotificationOrderUpdate = "order_update"
	NotificationInfo        = "info"
)

// Notification is a dashboard notification. The single synthetic entry
// (Synthetic=true) is owned by the recalculation engine and replaced on every
// recalculation; user-created notifications are append-only and never touched
// by recalculation.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"not null;default:'info'" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Synthetic bool      `gorm:"index" json:"synthetic"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
