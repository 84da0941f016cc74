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

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find patient %s: %v", domainRepo.ErrTransient, id, err)
	}
	return &patient, nil
}
