package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorStatus represents the operational state of a doctor account
type DoctorStatus string

const (
	DoctorStatusPending  DoctorStatus = "Pending"
	DoctorStatusApproved DoctorStatus = "Approved"
	DoctorStatusRejected DoctorStatus = "Rejected"
	DoctorStatusBanned   DoctorStatus = "Banned"
)

// Doctor represents a doctor together with the schedule configuration the
// booking engine validates against. Working days and hours are set by the
// doctor; only Approved doctors accept appointments.
type Doctor struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName    string       `gorm:"type:varchar(255);not null" json:"full_name"`
	Email       string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string       `gorm:"type:varchar(50)" json:"phone"`
	Specialty   string       `gorm:"type:varchar(255)" json:"specialty"`
	Status      DoctorStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	WorkingDays []string     `gorm:"serializer:json" json:"working_days"`
	StartTime   string       `gorm:"type:varchar(10)" json:"start_time"` // e.g. "09:00 AM"
	EndTime     string       `gorm:"type:varchar(10)" json:"end_time"`   // e.g. "05:00 PM"
	// LunchBreak is a free-form "start-end" window in 24-hour clock, e.g.
	// "12:30-13:00". Empty means no lunch exclusion.
	LunchBreak string    `gorm:"type:varchar(20)" json:"lunch_break"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// IsApproved checks if the doctor may accept appointments
func (d *Doctor) IsApproved() bool {
	return d.Status == DoctorStatusApproved
}

// HasCompleteHours checks if both ends of the working window are configured
func (d *Doctor) HasCompleteHours() bool {
	return d.StartTime != "" && d.EndTime != ""
}
