package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/khallude/healthify-booking/internal/domain/entity"
	domainRepo "github.com/khallude/healthify-booking/internal/domain/repository"
	"github.com/khallude/healthify-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]*entity.Reminder
	dueErrs   int // FindDue fails this many times before succeeding
	dueCalls  int
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: map[uuid.UUID]*entity.Reminder{}}
}

func (f *fakeReminderRepo) add(r *entity.Reminder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.reminders[r.ID] = &cp
}

func (f *fakeReminderRepo) get(id uuid.UUID) entity.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.reminders[id]
}

func (f *fakeReminderRepo) Create(ctx context.Context, r *entity.Reminder) error {
	f.add(r)
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
	return nil, nil
}

func (f *fakeReminderRepo) FindDue(ctx context.Context, now time.Time) ([]entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dueCalls++
	if f.dueErrs > 0 {
		f.dueErrs--
		return nil, domainRepo.ErrTransient
	}

	var due []entity.Reminder
	for _, r := range f.reminders {
		if !r.Sent && !r.Date.After(now) {
			due = append(due, *r)
		}
	}
	return due, nil
}

func (f *fakeReminderRepo) MarkSent(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok || r.Sent {
		return false, nil
	}
	r.Sent = true
	return true, nil
}

func (f *fakeReminderRepo) Update(ctx context.Context, r *entity.Reminder) error {
	f.add(r)
	return nil
}

func (f *fakeReminderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reminders, id)
	return nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*entity.Patient
}

func (f *fakePatientRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string // recipient addresses in send order
	fail  bool
	bodys []string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, to)
	f.bodys = append(f.bodys, body)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestDispatcher(reminders *fakeReminderRepo, patients *fakePatientRepo, mailer *fakeMailer) *Dispatcher {
	return NewDispatcher(quietLogger(), reminders, patients, service.NewReminderEngine(), mailer)
}

func testPatient() *entity.Patient {
	return &entity.Patient{ID: uuid.New(), FullName: "Amina Yusuf", Email: "amina@example.com"}
}

func TestRunTick_DeliversAndAdvancesDaily(t *testing.T) {
	patient := testPatient()
	reminders := newFakeReminderRepo()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{patient.ID: patient}}
	mailer := &fakeMailer{}
	d := newTestDispatcher(reminders, patients, mailer)

	scheduled := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	reminder := &entity.Reminder{
		ID:            uuid.New(),
		UserID:        patient.ID,
		Date:          scheduled,
		Recurrence:    entity.RecurrenceDaily,
		Notifications: entity.NotificationChannels{Email: true},
		Message:       "Take your medication",
	}
	reminders.add(reminder)

	now := scheduled.Add(5 * time.Minute)
	d.RunTick(context.Background(), now)

	if mailer.count() != 1 {
		t.Fatalf("sent %d emails, want 1", mailer.count())
	}
	got := reminders.get(reminder.ID)
	if got.Sent {
		t.Error("recurring reminder should be unsent after advance")
	}
	if want := scheduled.AddDate(0, 0, 1); !got.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", got.Date, want)
	}

	// The advanced occurrence is in the future: the next tick is a no-op.
	d.RunTick(context.Background(), now.Add(time.Minute))
	if mailer.count() != 1 {
		t.Errorf("sent %d emails after second tick, want still 1", mailer.count())
	}
}

func TestRunTick_OneShotDeliversExactlyOnce(t *testing.T) {
	patient := testPatient()
	reminders := newFakeReminderRepo()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{patient.ID: patient}}
	mailer := &fakeMailer{}
	d := newTestDispatcher(reminders, patients, mailer)

	reminder := &entity.Reminder{
		ID:            uuid.New(),
		UserID:        patient.ID,
		Date:          time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC),
		Recurrence:    entity.RecurrenceNone,
		Notifications: entity.NotificationChannels{Email: true},
		Message:       "Bring referral letter",
	}
	reminders.add(reminder)

	now := reminder.Date.Add(time.Hour)
	d.RunTick(context.Background(), now)
	d.RunTick(context.Background(), now.Add(time.Minute))
	d.RunTick(context.Background(), now.Add(24*time.Hour))

	if mailer.count() != 1 {
		t.Fatalf("sent %d emails, want exactly 1", mailer.count())
	}
	got := reminders.get(reminder.ID)
	if !got.Sent {
		t.Error("one-shot reminder must stay sent")
	}
}

func TestRunTick_ClaimLostSkipsDelivery(t *testing.T) {
	patient := testPatient()
	reminders := newFakeReminderRepo()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{patient.ID: patient}}
	mailer := &fakeMailer{}
	d := newTestDispatcher(reminders, patients, mailer)

	reminder := &entity.Reminder{
		ID:            uuid.New(),
		UserID:        patient.ID,
		Date:          time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC),
		Recurrence:    entity.RecurrenceNone,
		Notifications: entity.NotificationChannels{Email: true},
		Message:       "Fasting bloodwork at 9",
	}
	reminders.add(reminder)

	// Another tick claims it between the due query and this tick's claim.
	now := reminder.Date.Add(time.Minute)
	if claimed, _ := reminders.MarkSent(context.Background(), reminder.ID); !claimed {
		t.Fatal("setup claim failed")
	}

	d.RunTick(context.Background(), now)

	if mailer.count() != 0 {
		t.Errorf("sent %d emails, want 0 after losing the claim", mailer.count())
	}
}

func TestRunTick_SendFailureStillAdvances(t *testing.T) {
	patient := testPatient()
	reminders := newFakeReminderRepo()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{patient.ID: patient}}
	mailer := &fakeMailer{fail: true}
	d := newTestDispatcher(reminders, patients, mailer)

	scheduled := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	reminder := &entity.Reminder{
		ID:            uuid.New(),
		UserID:        patient.ID,
		Date:          scheduled,
		Recurrence:    entity.RecurrenceWeekly,
		Notifications: entity.NotificationChannels{Email: true},
		Message:       "Physio session",
	}
	reminders.add(reminder)

	d.RunTick(context.Background(), scheduled.Add(time.Minute))

	got := reminders.get(reminder.ID)
	if want := scheduled.AddDate(0, 0, 7); !got.Date.Equal(want) {
		t.Errorf("Date = %v, want %v despite send failure", got.Date, want)
	}
	if got.Sent {
		t.Error("recurring reminder should be unsent after advance")
	}
}

func TestRunTick_DueQueryRetriesAreBounded(t *testing.T) {
	reminders := newFakeReminderRepo()
	reminders.dueErrs = dueQueryAttempts + 2
	patients := &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{}}
	mailer := &fakeMailer{}
	d := newTestDispatcher(reminders, patients, mailer)

	d.RunTick(context.Background(), time.Now())

	if reminders.dueCalls != dueQueryAttempts {
		t.Errorf("due query called %d times, want %d", reminders.dueCalls, dueQueryAttempts)
	}
}

func TestRunTick_DisabledEmailChannelStillAdvances(t *testing.T) {
	patient := testPatient()
	reminders := newFakeReminderRepo()
	patients := &fakePatientRepo{patients: map[uuid.UUID]*entity.Patient{patient.ID: patient}}
	mailer := &fakeMailer{}
	d := newTestDispatcher(reminders, patients, mailer)

	scheduled := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	reminder := &entity.Reminder{
		ID:            uuid.New(),
		UserID:        patient.ID,
		Date:          scheduled,
		Recurrence:    entity.RecurrenceDaily,
		Notifications: entity.NotificationChannels{Push: true},
		Message:       "Evening walk",
	}
	reminders.add(reminder)

	d.RunTick(context.Background(), scheduled.Add(time.Minute))

	if mailer.count() != 0 {
		t.Errorf("sent %d emails for push-only reminder, want 0", mailer.count())
	}
	got := reminders.get(reminder.ID)
	if want := scheduled.AddDate(0, 0, 1); !got.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", got.Date, want)
	}
}
