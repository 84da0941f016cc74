package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khallude/healthify-booking/internal/converter"
	"github.com/khallude/healthify-booking/internal/delivery/dto"
	"github.com/khallude/healthify-booking/internal/delivery/http/middleware"
	"github.com/khallude/healthify-booking/internal/domain/entity"
	"github.com/khallude/healthify-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrReminderNotOwned  = errors.New("reminder does not belong to you")
	ErrInvalidReminderAt = errors.New("reminder date or time is invalid")
)

type ReminderUsecase interface {
	CreateReminder(ctx context.Context, req *dto.CreateReminderRequest) (*dto.ReminderResponse, error)
	GetMyReminders(ctx context.Context) (*dto.ReminderListResponse, error)
	DeleteReminder(ctx context.Context, reminderID uuid.UUID) error
}

type reminderUsecase struct {
	log          *logrus.Logger
	reminderRepo repository.ReminderRepository
	patientRepo  repository.PatientRepository
}

func NewReminderUsecase(
	log *logrus.Logger,
	reminderRepo repository.ReminderRepository,
	patientRepo repository.PatientRepository,
) ReminderUsecase {
	return &reminderUsecase{
		log:          log,
		reminderRepo: reminderRepo,
		patientRepo:  patientRepo,
	}
}

// CreateReminder schedules a reminder for the logged-in patient. Date and
// clock time arrive as separate fields and are merged into one instant;
// both must parse strictly, so "25:00" or "2024-02-30" never reach the
// dispatcher.
func (u *reminderUsecase) CreateReminder(ctx context.Context, req *dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patient, err := u.patientRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", userID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	at, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", req.Date, req.Time))
	if err != nil {
		return nil, ErrInvalidReminderAt
	}

	recurrence := entity.Recurrence(req.Recurrence)
	if recurrence == "" {
		recurrence = entity.RecurrenceNone
	}

	reminder := &entity.Reminder{
		ID:         uuid.New(),
		UserID:     patient.ID,
		Date:       at,
		Recurrence: recurrence,
		CustomDays: req.CustomDays,
		Notifications: entity.NotificationChannels{
			Push:  req.Notifications.Push,
			Email: req.Notifications.Email,
			SMS:   req.Notifications.SMS,
		},
		Message: req.Message,
	}

	if err := u.reminderRepo.Create(ctx, reminder); err != nil {
		u.log.Warnf("Failed to create reminder for user %s: %+v", userID, err)
		return nil, err
	}

	return converter.ReminderToResponse(reminder), nil
}

// GetMyReminders returns all reminders for the logged-in patient
func (u *reminderUsecase) GetMyReminders(ctx context.Context) (*dto.ReminderListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	reminders, err := u.reminderRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find reminders for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.ReminderListResponse{
		Reminders: converter.RemindersToResponses(reminders),
		Total:     len(reminders),
	}, nil
}

// DeleteReminder removes a reminder owned by the logged-in patient
func (u *reminderUsecase) DeleteReminder(ctx context.Context, reminderID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	reminder, err := u.reminderRepo.FindByID(ctx, reminderID)
	if err != nil {
		u.log.Warnf("Failed to find reminder %s: %+v", reminderID, err)
		return err
	}
	if reminder == nil {
		return ErrReminderNotFound
	}
	if reminder.UserID != userID {
		return ErrReminderNotOwned
	}

	if err := u.reminderRepo.Delete(ctx, reminderID); err != nil {
		u.log.Warnf("Failed to delete reminder %s: %+v", reminderID, err)
		return err
	}
	return nil
}
