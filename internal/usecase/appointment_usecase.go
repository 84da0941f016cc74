package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/khallude/healthify-booking/internal/converter"
	"github.com/khallude/healthify-booking/internal/delivery/dto"
	"github.com/khallude/healthify-booking/internal/delivery/http/middleware"
	"github.com/khallude/healthify-booking/internal/domain/entity"
	"github.com/khallude/healthify-booking/internal/domain/repository"
	"github.com/khallude/healthify-booking/internal/service"
	"github.com/khallude/healthify-booking/pkg/clocktime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPatientNotFound         = errors.New("patient not found")
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrDoctorNotApproved       = errors.New("doctor is not accepting appointments")
	ErrScheduleIncomplete      = errors.New("doctor has not configured working hours")
	ErrInvalidLunchBreak       = errors.New("doctor lunch break is misconfigured")
	ErrInvalidDate             = errors.New("date must be in YYYY-MM-DD format")
	ErrPastDate                = errors.New("cannot use a past date")
	ErrInvalidTime             = errors.New("time is outside the doctor's working hours")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotOwned     = errors.New("appointment does not belong to you")
	ErrAppointmentDecided      = errors.New("appointment has already been decided")
	ErrCodeAllocationExhausted = errors.New("could not allocate a unique appointment code")
)

// NoSlotsMessage is returned alongside an empty slot list for a fully
// booked day.
const NoSlotsMessage = "No available slots today."

// maxAlternatives caps the free slots suggested on a booking collision.
const maxAlternatives = 4

// codeAttempts bounds retries when the random appointment code collides.
const codeAttempts = 5

// SlotTakenError reports a booking collision together with up to
// maxAlternatives later free slots on the same day.
type SlotTakenError struct {
	Alternatives []string
}

func (e *SlotTakenError) Error() string {
	return "slot is already booked"
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	EditAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.EditAppointmentRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, appointmentID uuid.UUID) error
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	slotService     *service.SlotService
	cache           service.BookedTimesCache
	mailer          service.Mailer
	opsEmail        string
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	slotService *service.SlotService,
	cache service.BookedTimesCache,
	mailer service.Mailer,
	opsEmail string,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		slotService:     slotService,
		cache:           cache,
		mailer:          mailer,
		opsEmail:        opsEmail,
		now:             time.Now,
	}
}

// schedule is a doctor's working window resolved into minutes, with the
// lunch interval already parsed. A doctor without a lunch break gets a
// degenerate interval that excludes nothing.
type schedule struct {
	start, end           clocktime.Minutes
	lunchStart, lunchEnd clocktime.Minutes
}

func (u *appointmentUsecase) resolveSchedule(doctor *entity.Doctor) (*schedule, error) {
	if !doctor.HasCompleteHours() {
		return nil, ErrScheduleIncomplete
	}

	start, err := clocktime.Parse(doctor.StartTime)
	if err != nil {
		return nil, ErrScheduleIncomplete
	}
	end, err := clocktime.Parse(doctor.EndTime)
	if err != nil {
		return nil, ErrScheduleIncomplete
	}

	sched := &schedule{start: start, end: end}
	if doctor.LunchBreak != "" {
		sched.lunchStart, sched.lunchEnd, err = clocktime.ParseRange(doctor.LunchBreak)
		if err != nil {
			u.log.Warnf("Doctor %s has unparseable lunch break %q", doctor.ID, doctor.LunchBreak)
			return nil, ErrInvalidLunchBreak
		}
	}
	return sched, nil
}

func (u *appointmentUsecase) loadBookableDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.Doctor, *schedule, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, nil, err
	}
	if doctor == nil {
		return nil, nil, ErrDoctorNotFound
	}
	if !doctor.IsApproved() {
		return nil, nil, ErrDoctorNotApproved
	}

	sched, err := u.resolveSchedule(doctor)
	if err != nil {
		return nil, nil, err
	}
	return doctor, sched, nil
}

// checkDate validates the YYYY-MM-DD format and rejects days before today.
// The comparison is on the date only, so booking later today stays allowed.
func (u *appointmentUsecase) checkDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	if date < u.now().Format("2006-01-02") {
		return ErrPastDate
	}
	return nil
}

// bookedTimes reads the booked times for a doctor-day through the advisory
// cache, falling back to the database on a miss.
func (u *appointmentUsecase) bookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if times, ok := u.cache.Get(ctx, doctorID, date); ok {
		return times, nil
	}

	times, err := u.appointmentRepo.FindTimesByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	u.cache.Put(ctx, doctorID, date, times)
	return times, nil
}

// slotTaken builds the collision error with later free slots on the same
// day. A failure while gathering alternatives degrades to an empty list
// rather than masking the conflict.
func (u *appointmentUsecase) slotTaken(ctx context.Context, doctorID uuid.UUID, sched *schedule, date string, requested clocktime.Minutes) error {
	booked, err := u.bookedTimes(ctx, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to gather alternatives for doctor %s on %s: %+v", doctorID, date, err)
		return &SlotTakenError{Alternatives: []string{}}
	}

	slots := u.slotService.GenerateSlots(sched.start, sched.end, sched.lunchStart, sched.lunchEnd)
	free := u.slotService.SubtractBooked(slots, booked)
	return &SlotTakenError{Alternatives: u.slotService.AlternativesAfter(free, requested, maxAlternatives)}
}

func (u *appointmentUsecase) allocateCode(ctx context.Context) (int, error) {
	for i := 0; i < codeAttempts; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return 0, fmt.Errorf("generate appointment code: %w", err)
		}
		code := 100000 + int(n.Int64())

		exists, err := u.appointmentRepo.ExistsByCode(ctx, code)
		if err != nil {
			return 0, err
		}
		if !exists {
			return code, nil
		}
	}
	return 0, ErrCodeAllocationExhausted
}

// BookAppointment books a slot with a doctor for the logged-in patient.
//
// The pre-check against existing bookings gives fast feedback with
// alternative slots; the composite unique index on (doctor, date, time) is
// what actually guarantees that two concurrent requests cannot both win.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patient, err := u.patientRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", userID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, sched, err := u.loadBookableDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	if err := u.checkDate(req.Date); err != nil {
		return nil, err
	}

	requested, err := clocktime.Parse(req.Time)
	if err != nil {
		return nil, ErrInvalidTime
	}
	if !clocktime.InWindow(requested, sched.start, sched.end, sched.lunchStart, sched.lunchEnd) {
		return nil, ErrInvalidTime
	}

	// One canonical rendering from here on: persistence, conflict checks
	// and responses all agree on the same string.
	slotTime := requested.Format()

	existing, err := u.appointmentRepo.FindBySlot(ctx, req.DoctorID, req.Date, slotTime)
	if err != nil {
		u.log.Warnf("Failed to check slot for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if existing != nil {
		return nil, u.slotTaken(ctx, req.DoctorID, sched, req.Date, requested)
	}

	code, err := u.allocateCode(ctx)
	if err != nil {
		u.log.Warnf("Failed to allocate appointment code: %+v", err)
		return nil, err
	}

	appointment := &entity.Appointment{
		ID:        uuid.New(),
		Code:      code,
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      req.Date,
		Time:      slotTime,
		Notes:     req.Notes,
		Status:    entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			// Lost the race for the slot after the pre-check passed.
			return nil, u.slotTaken(ctx, req.DoctorID, sched, req.Date, requested)
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, doctor.ID, req.Date)

	subject := fmt.Sprintf("Appointment #%d confirmed", appointment.Code)
	detail := fmt.Sprintf("%s at %s with Dr. %s", appointment.Date, appointment.Time, doctor.FullName)
	service.SendAsync(u.mailer, u.log, patient.Email, subject,
		fmt.Sprintf("Hi %s,\n\nYour appointment is booked: %s.\n\nReference code: %d", patient.FullName, detail, appointment.Code))
	service.SendAsync(u.mailer, u.log, doctor.Email, fmt.Sprintf("New appointment #%d", appointment.Code),
		fmt.Sprintf("Dr. %s,\n\n%s booked %s.", doctor.FullName, patient.FullName, detail))
	if u.opsEmail != "" {
		service.SendAsync(u.mailer, u.log, u.opsEmail, fmt.Sprintf("Appointment #%d created", appointment.Code),
			fmt.Sprintf("Patient %s booked doctor %s: %s.", patient.ID, doctor.ID, detail))
	}

	appointment.Doctor = *doctor
	return converter.AppointmentToResponse(appointment), nil
}

// EditAppointment reschedules or annotates an appointment owned by the
// logged-in patient. Empty fields keep their current values; a changed
// slot goes through the same validation and conflict checks as a new
// booking.
func (u *appointmentUsecase) EditAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.EditAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != userID {
		return nil, ErrAppointmentNotOwned
	}

	oldDate := appointment.Date
	newDate, newTime := appointment.Date, appointment.Time

	if req.Date != "" {
		if err := u.checkDate(req.Date); err != nil {
			return nil, err
		}
		newDate = req.Date
	}

	var requested clocktime.Minutes
	slotChanged := newDate != appointment.Date

	if req.Time != "" {
		_, sched, err := u.loadBookableDoctor(ctx, appointment.DoctorID)
		if err != nil {
			return nil, err
		}

		requested, err = clocktime.Parse(req.Time)
		if err != nil {
			return nil, ErrInvalidTime
		}
		if !clocktime.InWindow(requested, sched.start, sched.end, sched.lunchStart, sched.lunchEnd) {
			return nil, ErrInvalidTime
		}
		newTime = requested.Format()
		slotChanged = slotChanged || newTime != appointment.Time
	} else if slotChanged {
		requested, err = clocktime.Parse(appointment.Time)
		if err != nil {
			return nil, ErrInvalidTime
		}
	}

	if slotChanged {
		existing, err := u.appointmentRepo.FindBySlot(ctx, appointment.DoctorID, newDate, newTime)
		if err != nil {
			u.log.Warnf("Failed to check slot for doctor %s: %+v", appointment.DoctorID, err)
			return nil, err
		}
		if existing != nil && existing.ID != appointment.ID {
			_, sched, schedErr := u.loadBookableDoctor(ctx, appointment.DoctorID)
			if schedErr != nil {
				return nil, schedErr
			}
			return nil, u.slotTaken(ctx, appointment.DoctorID, sched, newDate, requested)
		}
	}

	appointment.Date = newDate
	appointment.Time = newTime
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if err := u.appointmentRepo.Update(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			_, sched, schedErr := u.loadBookableDoctor(ctx, appointment.DoctorID)
			if schedErr != nil {
				return nil, schedErr
			}
			return nil, u.slotTaken(ctx, appointment.DoctorID, sched, newDate, requested)
		}
		u.log.Warnf("Failed to update appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	u.cache.Invalidate(ctx, appointment.DoctorID, oldDate)
	if newDate != oldDate {
		u.cache.Invalidate(ctx, appointment.DoctorID, newDate)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// DeleteAppointment cancels an appointment owned by the logged-in patient
func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.PatientID != userID {
		return ErrAppointmentNotOwned
	}

	if err := u.appointmentRepo.Delete(ctx, appointmentID); err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", appointmentID, err)
		return err
	}

	u.cache.Invalidate(ctx, appointment.DoctorID, appointment.Date)
	return nil
}

// GetAvailableSlots lists the free slots for a doctor-day. A fully booked
// day returns an empty list with NoSlotsMessage rather than an error.
func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	_, sched, err := u.loadBookableDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if err := u.checkDate(date); err != nil {
		return nil, err
	}

	booked, err := u.bookedTimes(ctx, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to load booked times for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	slots := u.slotService.GenerateSlots(sched.start, sched.end, sched.lunchStart, sched.lunchEnd)
	free := u.slotService.SubtractBooked(slots, booked)

	resp := &dto.AvailableSlotsResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    free,
	}
	if len(free) == 0 {
		resp.Message = NoSlotsMessage
	}
	return resp, nil
}

// GetMyAppointments returns all appointments for the logged-in patient
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointments, err := u.appointmentRepo.FindByPatientID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateAppointmentStatus lets the logged-in doctor approve or reject a
// pending appointment. Approved and Rejected are terminal.
func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	doctorID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrAppointmentNotOwned
	}
	if !appointment.IsPending() {
		return nil, ErrAppointmentDecided
	}

	switch req.Status {
	case string(entity.AppointmentStatusApproved):
		appointment.Approve()
	case string(entity.AppointmentStatusRejected):
		appointment.Reject()
	}

	if err := u.appointmentRepo.Update(ctx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, err
	}

	if patient, err := u.patientRepo.FindByID(ctx, appointment.PatientID); err == nil && patient != nil {
		service.SendAsync(u.mailer, u.log, patient.Email,
			fmt.Sprintf("Appointment #%d %s", appointment.Code, appointment.Status),
			fmt.Sprintf("Hi %s,\n\nYour appointment on %s at %s was %s.", patient.FullName, appointment.Date, appointment.Time, appointment.Status))
	}

	return converter.AppointmentToResponse(appointment), nil
}
