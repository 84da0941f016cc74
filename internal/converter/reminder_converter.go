package converter

import (
	"github.com/khallude/healthify-booking/internal/delivery/dto"
	"github.com/khallude/healthify-booking/internal/domain/entity"
)

// ReminderToResponse converts a Reminder entity to ReminderResponse DTO
func ReminderToResponse(reminder *entity.Reminder) *dto.ReminderResponse {
	if reminder == nil {
		return nil
	}

	return &dto.ReminderResponse{
		ID:         reminder.ID,
		UserID:     reminder.UserID,
		Date:       reminder.Date,
		Recurrence: string(reminder.Recurrence),
		CustomDays: reminder.CustomDays,
		Notifications: dto.NotificationChannelsRequest{
			Push:  reminder.Notifications.Push,
			Email: reminder.Notifications.Email,
			SMS:   reminder.Notifications.SMS,
		},
		Message:   reminder.Message,
		Sent:      reminder.Sent,
		CreatedAt: reminder.CreatedAt,
	}
}

// RemindersToResponses converts a slice of Reminder entities to slice of ReminderResponse DTOs
func RemindersToResponses(reminders []entity.Reminder) []dto.ReminderResponse {
	responses := make([]dto.ReminderResponse, len(reminders))
	for i, reminder := range reminders {
		resp := ReminderToResponse(&reminder)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
