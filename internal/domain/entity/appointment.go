package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "Pending"
	AppointmentStatusApproved AppointmentStatus = "Approved"
	AppointmentStatusRejected AppointmentStatus = "Rejected"
)

// Appointment represents a booked slot with a doctor. The composite unique
// index on (doctor_id, date, time) is the authoritative guard against double
// booking: two concurrent requests for the same slot cannot both insert.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code      int               `gorm:"uniqueIndex;not null" json:"code"` // human-facing 6-digit id
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_appointments_slot" json:"doctor_id"`
	Date      string            `gorm:"type:varchar(10);not null;uniqueIndex:idx_appointments_slot" json:"date"` // YYYY-MM-DD
	Time      string            `gorm:"type:varchar(10);not null;uniqueIndex:idx_appointments_slot" json:"time"` // canonical 12-hour form
	Notes     string            `gorm:"type:text" json:"notes"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if the appointment still awaits the doctor's decision
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// Approve transitions the appointment to its terminal Approved state
func (a *Appointment) Approve() {
	a.Status = AppointmentStatusApproved
}

// Reject transitions the appointment to its terminal Rejected state
func (a *Appointment) Reject() {
	a.Status = AppointmentStatusRejected
}
