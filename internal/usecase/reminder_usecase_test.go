package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/khallude/healthify-booking/internal/delivery/dto"
	"github.com/khallude/healthify-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]*entity.Reminder
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: map[uuid.UUID]*entity.Reminder{}}
}

func (f *fakeReminderRepo) Create(ctx context.Context, r *entity.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.reminders[r.ID] = &cp
	return nil
}

func (f *fakeReminderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReminderRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) FindDue(ctx context.Context, now time.Time) ([]entity.Reminder, error) {
	return nil, nil
}

func (f *fakeReminderRepo) MarkSent(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, r *entity.Reminder) error {
	return f.Create(ctx, r)
}

func (f *fakeReminderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reminders, id)
	return nil
}

type reminderFixture struct {
	usecase ReminderUsecase
	repo    *fakeReminderRepo
	patient *entity.Patient
}

func newReminderFixture(t *testing.T) *reminderFixture {
	t.Helper()

	patient := &entity.Patient{ID: uuid.New(), FullName: "Amina Yusuf", Email: "amina@example.com"}
	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := newFakeReminderRepo()

	uc := NewReminderUsecase(log, repo, &fakePatientRepo{
		patients: map[uuid.UUID]*entity.Patient{patient.ID: patient},
	})
	return &reminderFixture{usecase: uc, repo: repo, patient: patient}
}

func TestCreateReminder_MergesDateAndTime(t *testing.T) {
	fx := newReminderFixture(t)

	resp, err := fx.usecase.CreateReminder(asPatient(fx.patient.ID), &dto.CreateReminderRequest{
		Date:          "2024-06-10",
		Time:          "08:30",
		Message:       "Take your medication",
		Recurrence:    "Daily",
		Notifications: dto.NotificationChannelsRequest{Email: true},
	})
	if err != nil {
		t.Fatalf("CreateReminder: %v", err)
	}

	want := time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC)
	if !resp.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", resp.Date, want)
	}
	if resp.Recurrence != "Daily" {
		t.Errorf("Recurrence = %s, want Daily", resp.Recurrence)
	}
	if resp.Sent {
		t.Error("new reminder must start unsent")
	}
}

func TestCreateReminder_DefaultsToNone(t *testing.T) {
	fx := newReminderFixture(t)

	resp, err := fx.usecase.CreateReminder(asPatient(fx.patient.ID), &dto.CreateReminderRequest{
		Date:    "2024-06-10",
		Time:    "08:30",
		Message: "One-off checkup",
	})
	if err != nil {
		t.Fatalf("CreateReminder: %v", err)
	}
	if resp.Recurrence != string(entity.RecurrenceNone) {
		t.Errorf("Recurrence = %s, want None", resp.Recurrence)
	}
}

func TestCreateReminder_RejectsBadInstants(t *testing.T) {
	fx := newReminderFixture(t)

	tests := []struct {
		name string
		date string
		time string
	}{
		{"impossible day", "2024-02-30", "08:30"},
		{"impossible hour", "2024-06-10", "25:00"},
		{"wrong date shape", "10-06-2024", "08:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.usecase.CreateReminder(asPatient(fx.patient.ID), &dto.CreateReminderRequest{
				Date: tt.date, Time: tt.time, Message: "x",
			})
			if !errors.Is(err, ErrInvalidReminderAt) {
				t.Errorf("err = %v, want ErrInvalidReminderAt", err)
			}
		})
	}
}

func TestCreateReminder_UnknownUser(t *testing.T) {
	fx := newReminderFixture(t)

	_, err := fx.usecase.CreateReminder(asPatient(uuid.New()), &dto.CreateReminderRequest{
		Date: "2024-06-10", Time: "08:30", Message: "x",
	})
	if !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}
}

func TestDeleteReminder_Ownership(t *testing.T) {
	fx := newReminderFixture(t)

	resp, err := fx.usecase.CreateReminder(asPatient(fx.patient.ID), &dto.CreateReminderRequest{
		Date: "2024-06-10", Time: "08:30", Message: "Take your medication",
	})
	if err != nil {
		t.Fatalf("CreateReminder: %v", err)
	}

	if err := fx.usecase.DeleteReminder(asPatient(uuid.New()), resp.ID); !errors.Is(err, ErrReminderNotOwned) {
		t.Errorf("foreign delete: err = %v, want ErrReminderNotOwned", err)
	}
	if err := fx.usecase.DeleteReminder(asPatient(fx.patient.ID), resp.ID); err != nil {
		t.Fatalf("DeleteReminder: %v", err)
	}
	if err := fx.usecase.DeleteReminder(asPatient(fx.patient.ID), resp.ID); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("second delete: err = %v, want ErrReminderNotFound", err)
	}
}

func TestGetMyReminders(t *testing.T) {
	fx := newReminderFixture(t)

	for _, msg := range []string{"Morning dose", "Evening dose"} {
		if _, err := fx.usecase.CreateReminder(asPatient(fx.patient.ID), &dto.CreateReminderRequest{
			Date: "2024-06-10", Time: "08:30", Message: msg,
		}); err != nil {
			t.Fatalf("CreateReminder: %v", err)
		}
	}

	resp, err := fx.usecase.GetMyReminders(asPatient(fx.patient.ID))
	if err != nil {
		t.Fatalf("GetMyReminders: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}
