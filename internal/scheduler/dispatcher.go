package scheduler

import (
	"context"
	"time"

	"github.com/khallude/healthify-booking/internal/domain/entity"
	"github.com/khallude/healthify-booking/internal/domain/repository"
	"github.com/khallude/healthify-booking/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// dueQueryAttempts bounds retries of the due query inside one tick. After
// the last failure the tick gives up; the next tick starts fresh.
const dueQueryAttempts = 3

// Dispatcher periodically delivers due reminders and advances recurring
// ones to their next occurrence. Claiming a reminder is a conditional
// update on its sent flag, so overlapping ticks cannot deliver the same
// occurrence twice.
type Dispatcher struct {
	log          *logrus.Logger
	reminderRepo repository.ReminderRepository
	patientRepo  repository.PatientRepository
	engine       *service.ReminderEngine
	mailer       service.Mailer
	cron         *cron.Cron
}

func NewDispatcher(
	log *logrus.Logger,
	reminderRepo repository.ReminderRepository,
	patientRepo repository.PatientRepository,
	engine *service.ReminderEngine,
	mailer service.Mailer,
) *Dispatcher {
	return &Dispatcher{
		log:          log,
		reminderRepo: reminderRepo,
		patientRepo:  patientRepo,
		engine:       engine,
		mailer:       mailer,
		cron:         cron.New(),
	}
}

// Start schedules ticks on the given cron spec, e.g. "@every 60s".
func (d *Dispatcher) Start(spec string) error {
	_, err := d.cron.AddFunc(spec, func() {
		d.RunTick(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}
	d.cron.Start()
	d.log.Infof("Reminder dispatcher started (%s)", spec)
	return nil
}

// Stop halts the tick schedule and waits for a running tick to finish.
func (d *Dispatcher) Stop() {
	<-d.cron.Stop().Done()
	d.log.Info("Reminder dispatcher stopped")
}

// RunTick processes every reminder due at now. A reminder that was due for
// several ticks (downtime, earlier failures) is caught up here: it is
// delivered once and advanced past now on subsequent ticks one occurrence
// at a time.
func (d *Dispatcher) RunTick(ctx context.Context, now time.Time) {
	var due []entity.Reminder
	var err error
	for attempt := 1; attempt <= dueQueryAttempts; attempt++ {
		due, err = d.reminderRepo.FindDue(ctx, now)
		if err == nil {
			break
		}
		d.log.Warnf("Due reminder query failed (attempt %d/%d): %+v", attempt, dueQueryAttempts, err)
	}
	if err != nil {
		return
	}

	for i := range due {
		reminder := &due[i]
		if !d.engine.IsDue(reminder, now) {
			continue
		}

		claimed, err := d.reminderRepo.MarkSent(ctx, reminder.ID)
		if err != nil {
			d.log.Warnf("Failed to claim reminder %s: %+v", reminder.ID, err)
			continue
		}
		if !claimed {
			// Another tick won the claim.
			continue
		}
		reminder.Sent = true

		d.deliver(ctx, reminder)

		// The schedule advances whether or not delivery succeeded: a
		// broken mail relay must not make the dispatcher hammer the same
		// occurrence forever.
		d.engine.Advance(reminder)
		if err := d.reminderRepo.Update(ctx, reminder); err != nil {
			d.log.Warnf("Failed to advance reminder %s: %+v", reminder.ID, err)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, reminder *entity.Reminder) {
	if reminder.Notifications.Push {
		d.log.Infof("Reminder %s queued for push delivery", reminder.ID)
	}
	if reminder.Notifications.SMS {
		d.log.Infof("Reminder %s queued for SMS delivery", reminder.ID)
	}
	if !reminder.Notifications.Email {
		return
	}

	patient, err := d.patientRepo.FindByID(ctx, reminder.UserID)
	if err != nil || patient == nil {
		d.log.Warnf("No deliverable address for reminder %s (user %s): %+v", reminder.ID, reminder.UserID, err)
		return
	}

	if err := d.mailer.Send(patient.Email, "Reminder", reminder.Message); err != nil {
		d.log.Warnf("Failed to deliver reminder %s to %s: %+v", reminder.ID, patient.Email, err)
	}
}
