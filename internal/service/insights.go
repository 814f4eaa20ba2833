package service

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/paydown/finance-tracker/internal/engine"
	"github.com/paydown/finance-tracker/internal/models"
)

// loanSnapshot maps a persisted loan onto the engine's plain-data input.
func loanSnapshot(loan models.Loan) engine.LoanSnapshot {
	return engine.LoanSnapshot{
		ID:                       strconv.FormatInt(loan.ID, 10),
		Name:                     loan.Name,
		Balance:                  loan.Outstanding(),
		PrincipalOutstanding:     loan.PrincipalOutstanding,
		InterestOutstanding:      loan.InterestOutstanding,
		MinimumPayment:           loan.MinimumPayment,
		InterestRate:             loan.InterestRate,
		Cadence:                  engine.Cadence(loan.PaymentCadence),
		CustomInterval:           loan.CustomInterval,
		CustomUnit:               engine.CustomUnit(loan.CustomUnit),
		ExtraPayment:             loan.ExtraPayment,
		DueDay:                   loan.DueDay,
		SubscriptionCost:         loan.SubscriptionCost,
		SubscriptionPaymentsLeft: loan.SubscriptionPaymentsLeft,
	}
}

// cardCycleInput maps a persisted card onto the engine's plain-data input.
func cardCycleInput(card models.CardAccount) engine.CardCycleInput {
	return engine.CardCycleInput{
		UsedLimit:             card.UsedLimit,
		StatementBalance:      card.StatementBalance,
		PendingCharges:        card.PendingCharges,
		SpendPerMonth:         card.SpendPerMonth,
		MinimumPayment:        card.MinimumPayment,
		MinimumPaymentType:    engine.MinimumPaymentType(card.MinimumPaymentType),
		MinimumPaymentPercent: card.MinimumPaymentPercent,
		ExtraPayment:          card.ExtraPayment,
		InterestRate:          card.InterestRate,
	}
}

// cardSnapshot maps a persisted card onto the engine's strategy candidate.
func cardSnapshot(card models.CardAccount) engine.CardSnapshot {
	return engine.CardSnapshot{
		ID:             strconv.FormatInt(card.ID, 10),
		Name:           card.Name,
		CardCycleInput: cardCycleInput(card),
	}
}

func engineEvents(events []models.LoanEvent) []engine.LoanEvent {
	out := make([]engine.LoanEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, engine.LoanEvent{
			LoanID:     strconv.FormatInt(ev.LoanID, 10),
			Type:       ev.Type,
			Amount:     ev.Amount,
			OccurredAt: ev.OccurredAt,
		})
	}
	return out
}

func (s *Service) loadPortfolio(userID int64) ([]engine.LoanSnapshot, []engine.LoanEvent, error) {
	loans, err := s.repo.ListLoans(userID)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.repo.ListLoanEvents(userID)
	if err != nil {
		return nil, nil, err
	}

	snapshots := make([]engine.LoanSnapshot, 0, len(loans))
	for _, loan := range loans {
		snapshots = append(snapshots, loanSnapshot(loan))
	}
	return snapshots, engineEvents(events), nil
}

// BuildProjection runs the portfolio projector over a user's loans. The same
// engine call serves the API and the monthly job, so both surfaces see
// identical numbers for identical snapshots.
func (s *Service) BuildProjection(userID int64, maxMonths int) (engine.PortfolioProjection, error) {
	snapshots, events, err := s.loadPortfolio(userID)
	if err != nil {
		return engine.PortfolioProjection{}, err
	}
	return engine.BuildLoanPortfolioProjection(snapshots, engine.ProjectionOptions{
		MaxMonths: maxMonths,
		Events:    events,
	}), nil
}

// BuildStrategy ranks a user's debts, cards included, under the avalanche
// and snowball heuristics for the given monthly overpay budget.
func (s *Service) BuildStrategy(userID int64, overpayBudget float64) (engine.PayoffStrategy, error) {
	snapshots, events, err := s.loadPortfolio(userID)
	if err != nil {
		return engine.PayoffStrategy{}, err
	}
	cards, err := s.repo.ListCardAccounts(userID)
	if err != nil {
		return engine.PayoffStrategy{}, err
	}
	cardSnapshots := make([]engine.CardSnapshot, 0, len(cards))
	for _, card := range cards {
		cardSnapshots = append(cardSnapshots, cardSnapshot(card))
	}
	return engine.BuildPayoffStrategy(snapshots, cardSnapshots, events, overpayBudget), nil
}

// RunWhatIf diffs a scenario projection against the user's baseline.
func (s *Service) RunWhatIf(userID int64, req engine.WhatIfRequest) (engine.WhatIfResult, error) {
	snapshots, events, err := s.loadPortfolio(userID)
	if err != nil {
		return engine.WhatIfResult{}, err
	}
	return engine.RunLoanWhatIf(snapshots, events, req), nil
}

// AnalyzeRefinance compares a refinance offer against one loan's current path.
func (s *Service) AnalyzeRefinance(userID, loanID int64, offer engine.RefinanceOffer) (engine.RefinanceAnalysis, error) {
	loan, err := s.repo.FindLoanByID(userID, loanID)
	if err != nil {
		return engine.RefinanceAnalysis{}, err
	}
	return engine.AnalyzeLoanRefinance(loanSnapshot(*loan), offer), nil
}

// RecordLoanPayment appends a payment event to a loan's history and reduces
// its stored balance, interest first.
func (s *Service) RecordLoanPayment(userID, loanID int64, amount float64, occurredAt time.Time) (*models.LoanEvent, error) {
	loan, err := s.repo.FindLoanByID(userID, loanID)
	if err != nil {
		return nil, err
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	amount = engine.RoundCurrency(amount)

	interestPaid := amount
	if interestPaid > loan.InterestOutstanding {
		interestPaid = loan.InterestOutstanding
	}
	newInterest := engine.RoundCurrency(loan.InterestOutstanding - interestPaid)
	newPrincipal := engine.RoundCurrency(loan.PrincipalOutstanding - (amount - interestPaid))
	if newPrincipal < 0 {
		newPrincipal = 0
	}
	if err := s.repo.UpdateLoanCycleState(loan.ID, newPrincipal, newInterest, loan.SubscriptionPaymentsLeft, loan.LastCycleAt); err != nil {
		return nil, err
	}

	event := &models.LoanEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		LoanID:     loanID,
		Type:       models.LoanEventPayment,
		Amount:     amount,
		OccurredAt: occurredAt,
	}
	if err := s.repo.CreateLoanEvent(event); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"loan_id": loanID, "amount": amount}).Info("Loan payment recorded")
	return event, nil
}
