package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type NotificationChannelsRequest struct {
	Push  bool `json:"push"`
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

type CreateReminderRequest struct {
	Date          string                      `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string                      `json:"time" validate:"required,datetime=15:04"`
	Message       string                      `json:"message" validate:"required,max=2000"`
	Recurrence    string                      `json:"recurrence" validate:"omitempty,oneof=None Daily Weekly Monthly Custom"`
	CustomDays    int                         `json:"custom_days" validate:"omitempty,min=1,max=365"`
	Notifications NotificationChannelsRequest `json:"notifications"`
}

// Response DTOs

type ReminderResponse struct {
	ID            uuid.UUID                   `json:"id"`
	UserID        uuid.UUID                   `json:"user_id"`
	Date          time.Time                   `json:"date"`
	Recurrence    string                      `json:"recurrence"`
	CustomDays    int                         `json:"custom_days,omitempty"`
	Notifications NotificationChannelsRequest `json:"notifications"`
	Message       string                      `json:"message"`
	Sent          bool                        `json:"sent"`
	CreatedAt     time.Time                   `json:"created_at"`
}

type ReminderListResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
	Total     int                `json:"total"`
}
