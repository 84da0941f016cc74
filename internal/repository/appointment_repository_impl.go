package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/khallude/healthify-booking/internal/domain/entity"
	domainRepo "github.com/khallude/healthify-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainRepo.ErrDuplicateSlot
		}
		return fmt.Errorf("%w: create appointment: %v", domainRepo.ErrTransient, err)
	}
	return nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find appointment %s: %v", domainRepo.ErrTransient, id, err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date ASC, created_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find appointments for patient %s: %v", domainRepo.ErrTransient, patientID, err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBySlot(ctx context.Context, doctorID uuid.UUID, date, time string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time = ?", doctorID, date, time).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find slot %s %s %s: %v", domainRepo.ErrTransient, doctorID, date, time, err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindTimesByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Pluck("time", &times).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find booked times for doctor %s on %s: %v", domainRepo.ErrTransient, doctorID, date, err)
	}
	return times, nil
}

func (r *appointmentRepository) ExistsByCode(ctx context.Context, code int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: count appointments with code %d: %v", domainRepo.ErrTransient, code, err)
	}
	return count > 0, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	if err := r.db.WithContext(ctx).Save(appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainRepo.ErrDuplicateSlot
		}
		return fmt.Errorf("%w: update appointment %s: %v", domainRepo.ErrTransient, appointment.ID, err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entity.Appointment{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%w: delete appointment %s: %v", domainRepo.ErrTransient, id, err)
	}
	return nil
}
