package service

import (
	"time"

	"github.com/paydown/finance-tracker/internal/engine"
	"github.com/paydown/finance-tracker/internal/models"
)

// DueReminder is one upcoming-payment notification to deliver.
type DueReminder struct {
	Email       string
	Username    string
	AccountName string
	DueDate     time.Time
	Amount      float64
}

// nextDueDate resolves an account's due day into its next concrete date on
// or after today, clamping to short months.
func nextDueDate(dueDay int, now time.Time) time.Time {
	if dueDay < 1 {
		dueDay = 1
	}
	year, month, _ := now.Date()
	day := dueDay
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, now.Location()).Day(); day > last {
		day = last
	}
	due := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	if due.Before(time.Date(year, month, now.Day(), 0, 0, 0, 0, now.Location())) {
		due = engine.AddMonthClamped(due)
	}
	return due
}

// UpcomingDueReminders collects the cards and loans whose due date falls
// within the configured reminder window.
func (s *Service) UpcomingDueReminders(now time.Time) ([]DueReminder, error) {
	cards, err := s.repo.ListCardAccounts(0)
	if err != nil {
		return nil, err
	}
	loans, err := s.repo.ListLoans(0)
	if err != nil {
		return nil, err
	}

	cutoff := now.AddDate(0, 0, s.config.ReminderDays)
	users := map[int64]*models.User{}
	lookup := func(id int64) (*models.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		u, err := s.repo.FindUserByID(id)
		if err != nil {
			return nil, err
		}
		users[id] = u
		return u, nil
	}

	var reminders []DueReminder
	for _, card := range cards {
		if card.DueDay == 0 || card.MinimumPayment <= 0 {
			continue
		}
		due := nextDueDate(card.DueDay, now)
		if due.After(cutoff) {
			continue
		}
		user, err := lookup(card.UserID)
		if err != nil {
			continue
		}
		reminders = append(reminders, DueReminder{
			Email:       user.Email,
			Username:    user.Username,
			AccountName: card.Name,
			DueDate:     due,
			Amount:      card.MinimumPayment,
		})
	}
	for _, loan := range loans {
		if loan.DueDay == 0 || loan.MinimumPayment <= 0 || loan.Outstanding() <= 0 {
			continue
		}
		due := nextDueDate(loan.DueDay, now)
		if due.After(cutoff) {
			continue
		}
		user, err := lookup(loan.UserID)
		if err != nil {
			continue
		}
		reminders = append(reminders, DueReminder{
			Email:       user.Email,
			Username:    user.Username,
			AccountName: loan.Name,
			DueDate:     due,
			Amount:      loan.MinimumPayment,
		})
	}
	return reminders, nil
}
