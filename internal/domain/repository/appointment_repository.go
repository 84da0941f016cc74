package repository

import (
	"context"

	"github.com/khallude/healthify-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	// Create persists a new appointment. Returns ErrDuplicateSlot when the
	// (doctor, date, time) slot is already taken.
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindBySlot(ctx context.Context, doctorID uuid.UUID, date, time string) (*entity.Appointment, error)
	FindTimesByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
	ExistsByCode(ctx context.Context, code int) (bool, error)
	// Update persists field changes. Returns ErrDuplicateSlot when the new
	// (doctor, date, time) collides with another appointment.
	Update(ctx context.Context, appointment *entity.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
