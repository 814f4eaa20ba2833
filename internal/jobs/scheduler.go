// Package jobs runs the recurring background work: the daily cycle catch-up
// that advances card and loan balances across completed monthly boundaries,
// and the due-date reminder dispatch.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/paydown/finance-tracker/internal/config"
	"github.com/paydown/finance-tracker/internal/service"
	"github.com/paydown/finance-tracker/internal/utils/email"
)

// Scheduler owns the cron runner and its job wiring.
type Scheduler struct {
	cfg    *config.Config
	svc    *service.Service
	sender *email.Sender
	log    *logrus.Logger
	cron   *cron.Cron
}

// NewScheduler creates a scheduler with the cycle and reminder jobs registered.
func NewScheduler(cfg *config.Config, svc *service.Service, sender *email.Sender, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cfg:    cfg,
		svc:    svc,
		sender: sender,
		log:    log,
		cron:   cron.New(),
	}

	if _, err := s.cron.AddFunc(cfg.CycleCronSpec, s.runCycles); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(cfg.ReminderCronSpec, s.sendReminders); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Infof("Starting scheduler: cycles %q, reminders %q", s.cfg.CycleCronSpec, s.cfg.ReminderCronSpec)
	s.cron.Start()
}

// Stop halts the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runCycles() {
	if err := s.svc.RunMonthlyCycles(time.Now()); err != nil {
		s.log.Errorf("Cycle run failed: %v", err)
	}
}

func (s *Scheduler) sendReminders() {
	reminders, err := s.svc.UpcomingDueReminders(time.Now())
	if err != nil {
		s.log.Errorf("Failed to collect due reminders: %v", err)
		return
	}
	for _, reminder := range reminders {
		if err := s.sender.SendDueReminder(reminder.Email, reminder.Username, reminder.AccountName, reminder.DueDate, reminder.Amount); err != nil {
			s.log.WithFields(logrus.Fields{"email": reminder.Email, "account": reminder.AccountName}).Errorf("Reminder delivery failed: %v", err)
		}
	}
	s.log.WithFields(logrus.Fields{"count": len(reminders)}).Info("Reminder pass complete")
}
