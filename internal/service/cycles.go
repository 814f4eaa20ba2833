package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/paydown/finance-tracker/internal/engine"
	"github.com/paydown/finance-tracker/internal/models"
	"github.com/paydown/finance-tracker/internal/repository"
)

// cycleKey identifies the boundary a cycle batch advances an account to.
// Re-running the job for the same month produces the same key, which the
// cycle_runs unique constraint rejects.
func cycleKey(kind string, accountID int64, anchor time.Time) string {
	return fmt.Sprintf("%s:%d:%s", kind, accountID, anchor.Format("2006-01-02"))
}

// advanceCycleAnchor moves an account's last-cycle timestamp forward by the
// applied number of clamped calendar months.
func advanceCycleAnchor(last time.Time, cycles int) time.Time {
	for i := 0; i < cycles; i++ {
		last = engine.AddMonthClamped(last)
	}
	return last
}

// splitLoanBalance distributes a loan's post-cycle balance back into its
// stored principal/interest breakdown. Payments settle interest before
// principal.
func splitLoanBalance(principal, interest, interestAccrued, paymentsApplied, newBalance float64) (float64, float64) {
	interestPool := engine.RoundCurrency(interest + interestAccrued)
	interestPaid := paymentsApplied
	if interestPaid > interestPool {
		interestPaid = interestPool
	}
	newInterest := engine.RoundCurrency(interestPool - interestPaid)
	if newInterest > newBalance {
		newInterest = newBalance
	}
	newPrincipal := engine.RoundCurrency(newBalance - newInterest)
	if newPrincipal < 0 {
		newPrincipal = 0
	}
	return newPrincipal, newInterest
}

// RunMonthlyCycles catches every account up to now, applying one batch of
// monthly cycles per account that has crossed at least one boundary. A user
// who has not opened the app for three months gets all three cycles in one
// deterministic batch. Each application is guarded by an idempotency key so
// concurrent or repeated job runs mutate nothing twice.
func (s *Service) RunMonthlyCycles(now time.Time) error {
	cards, err := s.repo.ListCardAccounts(0)
	if err != nil {
		return err
	}
	loans, err := s.repo.ListLoans(0)
	if err != nil {
		return err
	}

	applied := 0
	for _, card := range cards {
		ok, err := s.runCardCycles(card, now)
		if err != nil {
			s.log.WithFields(logrus.Fields{"card_id": card.ID}).Errorf("Card cycle failed: %v", err)
			continue
		}
		if ok {
			applied++
		}
	}
	for _, loan := range loans {
		ok, err := s.runLoanCycles(loan, now)
		if err != nil {
			s.log.WithFields(logrus.Fields{"loan_id": loan.ID}).Errorf("Loan cycle failed: %v", err)
			continue
		}
		if ok {
			applied++
		}
	}

	s.log.WithFields(logrus.Fields{"accounts": len(cards) + len(loans), "applied": applied}).Info("Monthly cycle run complete")
	return nil
}

func (s *Service) runCardCycles(card models.CardAccount, now time.Time) (bool, error) {
	cycles := engine.CountCompletedMonthlyCycles(card.LastCycleAt, now)
	if cycles == 0 {
		return false, nil
	}

	anchor := advanceCycleAnchor(card.LastCycleAt, cycles)
	result := engine.ApplyCardMonthlyLifecycle(cardCycleInput(card), cycles)

	run := &models.CycleRun{
		AccountKind:     models.AccountKindCard,
		AccountID:       card.ID,
		CycleKey:        cycleKey(models.AccountKindCard, card.ID, anchor),
		Cycles:          cycles,
		InterestAccrued: result.InterestAccrued,
		PaymentsApplied: result.PaymentsApplied,
		NewBalance:      result.Balance,
	}
	if err := s.repo.CreateCycleRun(run); err != nil {
		if err == repository.ErrCycleAlreadyApplied {
			s.log.WithFields(logrus.Fields{"card_id": card.ID, "cycle_key": run.CycleKey}).Debug("Card cycle already applied")
			return false, nil
		}
		return false, err
	}

	if err := s.repo.UpdateCardCycleState(card.ID, result.StatementBalance, result.PendingCharges, anchor); err != nil {
		return false, err
	}

	s.log.WithFields(logrus.Fields{
		"card_id":  card.ID,
		"cycles":   cycles,
		"interest": result.InterestAccrued,
		"payments": result.PaymentsApplied,
		"balance":  result.Balance,
	}).Info("Card cycles applied")
	return true, nil
}

func (s *Service) runLoanCycles(loan models.Loan, now time.Time) (bool, error) {
	cycles := engine.CountCompletedMonthlyCycles(loan.LastCycleAt, now)
	if cycles == 0 {
		return false, nil
	}

	anchor := advanceCycleAnchor(loan.LastCycleAt, cycles)
	result := engine.ApplyLoanMonthlyLifecycle(engine.LoanCycleInput{
		Balance:        loan.Outstanding(),
		MinimumPayment: loan.MinimumPayment,
		InterestRate:   loan.InterestRate,
		Cadence:        engine.Cadence(loan.PaymentCadence),
		CustomInterval: loan.CustomInterval,
		CustomUnit:     engine.CustomUnit(loan.CustomUnit),
	}, cycles)

	run := &models.CycleRun{
		AccountKind:     models.AccountKindLoan,
		AccountID:       loan.ID,
		CycleKey:        cycleKey(models.AccountKindLoan, loan.ID, anchor),
		Cycles:          cycles,
		InterestAccrued: result.InterestAccrued,
		PaymentsApplied: result.PaymentsApplied,
		NewBalance:      result.Balance,
	}
	if err := s.repo.CreateCycleRun(run); err != nil {
		if err == repository.ErrCycleAlreadyApplied {
			s.log.WithFields(logrus.Fields{"loan_id": loan.ID, "cycle_key": run.CycleKey}).Debug("Loan cycle already applied")
			return false, nil
		}
		return false, err
	}

	newPrincipal, newInterest := splitLoanBalance(
		loan.PrincipalOutstanding, loan.InterestOutstanding,
		result.InterestAccrued, result.PaymentsApplied, result.Balance)

	subLeft := loan.SubscriptionPaymentsLeft - cycles
	if subLeft < 0 {
		subLeft = 0
	}
	if err := s.repo.UpdateLoanCycleState(loan.ID, newPrincipal, newInterest, subLeft, anchor); err != nil {
		return false, err
	}

	// The applied cycle joins the loan's history as an audit record.
	event := &models.LoanEvent{
		ID:         uuid.NewString(),
		UserID:     loan.UserID,
		LoanID:     loan.ID,
		Type:       models.LoanEventCycle,
		Amount:     result.PaymentsApplied,
		OccurredAt: anchor,
	}
	if err := s.repo.CreateLoanEvent(event); err != nil {
		return false, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":  loan.ID,
		"cycles":   cycles,
		"interest": result.InterestAccrued,
		"payments": result.PaymentsApplied,
		"balance":  result.Balance,
	}).Info("Loan cycles applied")
	return true, nil
}
