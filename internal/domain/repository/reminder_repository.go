package repository

import (
	"context"
	"time"

	"github.com/khallude/healthify-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *entity.Reminder) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reminder, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Reminder, error)
	// FindDue returns reminders with sent=false whose instant is at or before now.
	FindDue(ctx context.Context, now time.Time) ([]entity.Reminder, error)
	// MarkSent atomically flips sent from false to true. Returns false when the
	// reminder was already claimed, which lets overlapping dispatcher ticks
	// skip instead of double-delivering.
	MarkSent(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, reminder *entity.Reminder) error
	Delete(ctx context.Context, id uuid.UUID) error
}
