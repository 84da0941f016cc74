package entity

import (
	"time"

	"github.com/google/uuid"
)

// Recurrence represents how a reminder's due date advances after delivery
type Recurrence string

const (
	RecurrenceNone    Recurrence = "None"
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
	RecurrenceCustom  Recurrence = "Custom"
)

// NotificationChannels selects how a reminder is delivered
type NotificationChannels struct {
	Push  bool `gorm:"not null;default:true" json:"push"`
	Email bool `gorm:"not null;default:false" json:"email"`
	SMS   bool `gorm:"not null;default:false" json:"sms"`
}

// Reminder represents a scheduled notification owned by a patient.
//
// Sent is true only between the delivery of a due occurrence and the
// computation of the next one. For a non-recurring reminder it therefore
// stays true forever once delivered; for recurring reminders the advance
// resets it and moves Date to the next undelivered occurrence. The
// false-to-true transition of Sent is also the serialization point that keeps
// overlapping dispatcher ticks from double-delivering.
type Reminder struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	Date          time.Time            `gorm:"not null;index:idx_reminders_due" json:"date"` // date and clock time merged into one instant
	Recurrence    Recurrence           `gorm:"type:varchar(10);not null;default:'None'" json:"recurrence"`
	CustomDays    int                  `gorm:"not null;default:0" json:"custom_days"`
	Notifications NotificationChannels `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`
	Message       string               `gorm:"type:text;not null" json:"message"`
	Sent          bool                 `gorm:"not null;default:false;index:idx_reminders_due" json:"sent"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User Patient `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// IsRecurring checks if the reminder advances to a next occurrence after delivery
func (r *Reminder) IsRecurring() bool {
	return r.Recurrence != RecurrenceNone && r.Recurrence != ""
}
