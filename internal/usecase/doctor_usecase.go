package usecase

import (
	"context"
	"errors"

	"github.com/khallude/healthify-booking/internal/converter"
	"github.com/khallude/healthify-booking/internal/delivery/dto"
	"github.com/khallude/healthify-booking/internal/delivery/http/middleware"
	"github.com/khallude/healthify-booking/internal/domain/entity"
	"github.com/khallude/healthify-booking/internal/domain/repository"
	"github.com/khallude/healthify-booking/pkg/clocktime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidWorkingHours = errors.New("working hours are not valid clock times")
	ErrHoursOutOfOrder     = errors.New("end of working hours must be after the start")
)

type DoctorUsecase interface {
	GetDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateMySchedule(ctx context.Context, req *dto.UpdateScheduleRequest) (*dto.DoctorResponse, error)
	UpdateDoctorStatus(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorStatusRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	log        *logrus.Logger
	doctorRepo repository.DoctorRepository
}

func NewDoctorUsecase(log *logrus.Logger, doctorRepo repository.DoctorRepository) DoctorUsecase {
	return &doctorUsecase{log: log, doctorRepo: doctorRepo}
}

// GetDoctors lists doctors who currently accept appointments
func (u *doctorUsecase) GetDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	approved := make([]entity.Doctor, 0, len(doctors))
	for _, doctor := range doctors {
		if doctor.IsApproved() {
			approved = append(approved, doctor)
		}
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(approved),
		Total:   len(approved),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

// UpdateMySchedule updates the logged-in doctor's working configuration.
// Clock strings are validated on the way in so the booking path can trust
// whatever it reads back.
func (u *doctorUsecase) UpdateMySchedule(ctx context.Context, req *dto.UpdateScheduleRequest) (*dto.DoctorResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	startTime, endTime := doctor.StartTime, doctor.EndTime
	if req.StartTime != "" {
		startTime = req.StartTime
	}
	if req.EndTime != "" {
		endTime = req.EndTime
	}
	if startTime != "" && endTime != "" {
		start, err := clocktime.Parse(startTime)
		if err != nil {
			return nil, ErrInvalidWorkingHours
		}
		end, err := clocktime.Parse(endTime)
		if err != nil {
			return nil, ErrInvalidWorkingHours
		}
		if end <= start {
			return nil, ErrHoursOutOfOrder
		}
	}

	if req.LunchBreak != "" {
		if _, _, err := clocktime.ParseRange(req.LunchBreak); err != nil {
			return nil, ErrInvalidLunchBreak
		}
		doctor.LunchBreak = req.LunchBreak
	}

	doctor.StartTime = startTime
	doctor.EndTime = endTime
	if req.WorkingDays != nil {
		doctor.WorkingDays = req.WorkingDays
	}

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s schedule: %+v", doctorID, err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// UpdateDoctorStatus is the admin-side account review: approving a doctor
// opens them up for booking, banning or rejecting closes them.
func (u *doctorUsecase) UpdateDoctorStatus(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorStatusRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	doctor.Status = entity.DoctorStatus(req.Status)
	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s status: %+v", doctorID, err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}
