package service

import (
	"time"

	"github.com/khallude/healthify-booking/internal/domain/entity"
)

// ReminderEngine holds the pure scheduling rules for reminders: when one
// is due and where its date moves after a delivery. Persistence and
// delivery live in the dispatcher.
type ReminderEngine struct{}

func NewReminderEngine() *ReminderEngine {
	return &ReminderEngine{}
}

// IsDue reports whether the reminder should be delivered at now. A
// reminder scheduled exactly at now is due; one already claimed for
// delivery is not.
func (e *ReminderEngine) IsDue(reminder *entity.Reminder, now time.Time) bool {
	return !reminder.Sent && !reminder.Date.After(now)
}

// Advance computes the reminder's state after a successful delivery and
// mutates it in place. The next occurrence is anchored to the previous
// scheduled instant, not to delivery time, so a late tick does not drift
// the schedule. Recurring reminders come back unsent; one-shot reminders
// stay sent forever.
func (e *ReminderEngine) Advance(reminder *entity.Reminder) {
	switch reminder.Recurrence {
	case entity.RecurrenceDaily:
		reminder.Date = reminder.Date.AddDate(0, 0, 1)
	case entity.RecurrenceWeekly:
		reminder.Date = reminder.Date.AddDate(0, 0, 7)
	case entity.RecurrenceMonthly:
		reminder.Date = reminder.Date.AddDate(0, 1, 0)
	case entity.RecurrenceCustom:
		days := reminder.CustomDays
		if days < 1 {
			days = 1
		}
		reminder.Date = reminder.Date.AddDate(0, 0, days)
	default:
		reminder.Sent = true
		return
	}
	reminder.Sent = false
}
