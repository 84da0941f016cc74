package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string    `json:"time" validate:"required"`
	Notes    string    `json:"notes" validate:"max=1000"`
}

// EditAppointmentRequest carries a partial update: empty date and time mean
// keep the current slot, a nil notes pointer means keep the current notes.
type EditAppointmentRequest struct {
	Date  string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time  string  `json:"time"`
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      int             `json:"code"`
	PatientID uuid.UUID       `json:"patient_id"`
	DoctorID  uuid.UUID       `json:"doctor_id"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Notes     string          `json:"notes,omitempty"`
	Status    string          `json:"status"`
	Doctor    *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailableSlotsResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
	Message  string    `json:"message,omitempty"`
}
