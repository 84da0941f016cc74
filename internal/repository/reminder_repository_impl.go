package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khallude/healthify-booking/internal/domain/entity"
	domainRepo "github.com/khallude/healthify-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) domainRepo.ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("%w: create reminder: %v", domainRepo.ErrTransient, err)
	}
	return nil
}

func (r *reminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reminder, error) {
	var reminder entity.Reminder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find reminder %s: %v", domainRepo.ErrTransient, id, err)
	}
	return &reminder, nil
}

func (r *reminderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find reminders for user %s: %v", domainRepo.ErrTransient, userID, err)
	}
	return reminders, nil
}

func (r *reminderRepository) FindDue(ctx context.Context, now time.Time) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := r.db.WithContext(ctx).
		Where("sent = ? AND date <= ?", false, now).
		Order("date ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find due reminders: %v", domainRepo.ErrTransient, err)
	}
	return reminders, nil
}

// MarkSent flips sent from false to true only if nobody else did first.
// Rows affected 1 means this caller owns the delivery; 0 means another tick
// already claimed it. Same conditional-update shape as appointment status
// transitions.
func (r *reminderRepository) MarkSent(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Reminder{}).
		Where("id = ? AND sent = ?", id, false).
		Update("sent", true)
	if result.Error != nil {
		return false, fmt.Errorf("%w: mark reminder %s sent: %v", domainRepo.ErrTransient, id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *reminderRepository) Update(ctx context.Context, reminder *entity.Reminder) error {
	if err := r.db.WithContext(ctx).Save(reminder).Error; err != nil {
		return fmt.Errorf("%w: update reminder %s: %v", domainRepo.ErrTransient, reminder.ID, err)
	}
	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entity.Reminder{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%w: delete reminder %s: %v", domainRepo.ErrTransient, id, err)
	}
	return nil
}
