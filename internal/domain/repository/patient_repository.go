package repository

import (
	"context"

	"github.com/khallude/healthify-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
}
