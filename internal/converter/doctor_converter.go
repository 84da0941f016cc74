package converter

import (
	"github.com/khallude/healthify-booking/internal/delivery/dto"
	"github.com/khallude/healthify-booking/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:          doctor.ID,
		FullName:    doctor.FullName,
		Email:       doctor.Email,
		Phone:       doctor.Phone,
		Specialty:   doctor.Specialty,
		Status:      string(doctor.Status),
		WorkingDays: doctor.WorkingDays,
		StartTime:   doctor.StartTime,
		EndTime:     doctor.EndTime,
		LunchBreak:  doctor.LunchBreak,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp := DoctorToResponse(&doctor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
