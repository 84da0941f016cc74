package repository

import (
	"context"

	"github.com/khallude/healthify-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
}
