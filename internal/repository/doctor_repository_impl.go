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

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find doctor %s: %v", domainRepo.ErrTransient, id, err)
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find doctors: %v", domainRepo.ErrTransient, err)
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	if err := r.db.WithContext(ctx).Save(doctor).Error; err != nil {
		return fmt.Errorf("%w: update doctor %s: %v", domainRepo.ErrTransient, doctor.ID, err)
	}
	return nil
}
