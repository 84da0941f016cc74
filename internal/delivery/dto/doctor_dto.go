package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// UpdateScheduleRequest carries a doctor's working configuration. Times are
// clock strings in 12-hour ("9:00 AM") or 24-hour ("09:00") form; the lunch
// break is a 24-hour "start-end" window.
type UpdateScheduleRequest struct {
	WorkingDays []string `json:"working_days" validate:"omitempty,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	LunchBreak  string   `json:"lunch_break"`
}

type UpdateDoctorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Approved Rejected Banned"`
}

// Response DTOs

type DoctorResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Specialty   string    `json:"specialty,omitempty"`
	Status      string    `json:"status"`
	WorkingDays []string  `json:"working_days,omitempty"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	LunchBreak  string    `json:"lunch_break,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
