package engine

import (
	"sort"
	"time"
)

// DefaultProjectionMonths is the horizon used when the caller does not bound
// the projection. It covers the longest aggregation window (36 months).
const DefaultProjectionMonths = 36

// NeutralConsistencyScore marks a loan whose payment history is empty or
// all-zero: no score can be computed, which is different from scoring zero.
// Consumers treat it as "no data" rather than a poor score.
const NeutralConsistencyScore = -1

// EventTypePayment is the loan-event type counted by consistency scoring.
const EventTypePayment = "payment"

// LoanSnapshot is the engine-facing view of one persisted loan: the stored
// balance breakdown plus the payment terms needed to project it forward.
// ExtraPayment is a voluntary monthly overpayment added on top of the
// monthly-equivalent minimum; the strategy and what-if layers use it to
// model redirected budgets.
type LoanSnapshot struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	Balance                  float64    `json:"balance"`
	PrincipalOutstanding     float64    `json:"principal_outstanding"`
	InterestOutstanding      float64    `json:"interest_outstanding"`
	MinimumPayment           float64    `json:"minimum_payment"`
	InterestRate             float64    `json:"interest_rate"`
	Cadence                  Cadence    `json:"cadence"`
	CustomInterval           int        `json:"custom_interval"`
	CustomUnit               CustomUnit `json:"custom_unit"`
	ExtraPayment             float64    `json:"extra_payment"`
	DueDay                   int        `json:"due_day"`
	SubscriptionCost         float64    `json:"subscription_cost"`
	SubscriptionPaymentsLeft int        `json:"subscription_payments_left"`
}

// LoanEvent is one historical record from a loan's event stream, supplied
// read-only by the persistence layer. Only payment events participate in
// consistency scoring.
type LoanEvent struct {
	LoanID     string    `json:"loan_id"`
	Type       string    `json:"type"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProjectionRow is one simulated future month of a single loan.
type ProjectionRow struct {
	Month              int     `json:"month"`
	InterestAccrued    float64 `json:"interest_accrued"`
	TotalPayment       float64 `json:"total_payment"`
	EndingOutstanding  float64 `json:"ending_outstanding"`
	SubscriptionDue    float64 `json:"subscription_due"`
	PlannedLoanPayment float64 `json:"planned_loan_payment"`
}

// MonthlyConsistency is one point of a loan's payment-consistency trend.
type MonthlyConsistency struct {
	Month string  `json:"month"`
	Ratio float64 `json:"ratio"`
}

// LoanProjection is the month-by-month forward view of one loan plus its
// current stored breakdown and history-derived consistency score.
type LoanProjection struct {
	LoanID                         string               `json:"loan_id"`
	Name                           string               `json:"name"`
	CurrentOutstanding             float64              `json:"current_outstanding"`
	CurrentPrincipal               float64              `json:"current_principal"`
	CurrentInterest                float64              `json:"current_interest"`
	CurrentSubscriptionOutstanding float64              `json:"current_subscription_outstanding"`
	MonthlyPayment                 float64              `json:"monthly_payment"`
	DueDay                         int                  `json:"due_day"`
	Rows                           []ProjectionRow      `json:"rows"`
	PayoffMonth                    int                  `json:"payoff_month"`
	PaymentConsistencyScore        float64              `json:"payment_consistency_score"`
	ConsistencyTrend               []MonthlyConsistency `json:"consistency_trend"`
}

// ProjectionOptions bound a portfolio projection and carry the historical
// event stream used for consistency scoring.
type ProjectionOptions struct {
	MaxMonths int
	Events    []LoanEvent
}

// PortfolioProjection is the combined forward view of a set of loans with
// cumulative interest windows summed across the portfolio.
type PortfolioProjection struct {
	Models                         []LoanProjection `json:"models"`
	ProjectedNextMonthInterest     float64          `json:"projected_next_month_interest"`
	ProjectedAnnualInterest        float64          `json:"projected_annual_interest"`
	Projected24MonthInterest       float64          `json:"projected_24_month_interest"`
	Projected36MonthInterest       float64          `json:"projected_36_month_interest"`
	ProjectedAnnualPayments        float64          `json:"projected_annual_payments"`
	AveragePaymentConsistencyScore float64          `json:"average_payment_consistency_score"`
}

// snapshotLoanTerms normalizes a snapshot into cycle terms and a starting
// balance. The monthly payment is the cadence-converted minimum plus any
// extra payment, rounded once so the projector and the batch simulator see
// the same per-cycle payment.
func snapshotLoanTerms(l LoanSnapshot) (loanTerms, float64) {
	base := ToMonthlyAmount(nonNegative(finiteOrZero(l.MinimumPayment)), l.Cadence, l.CustomInterval, l.CustomUnit)
	extra := nonNegative(finiteOrZero(l.ExtraPayment))
	terms := loanTerms{
		monthlyPayment: RoundCurrency(nonNegative(base) + extra),
		rate:           monthlyRate(finiteOrZero(l.InterestRate)),
	}
	return terms, RoundCurrency(nonNegative(finiteOrZero(l.Balance)))
}

// BuildLoanPortfolioProjection builds a bounded month-by-month projection for
// every loan by repeated single-cycle simulation, derives each loan's payment
// consistency from its event history, and sums the portfolio-wide interest
// windows.
func BuildLoanPortfolioProjection(loans []LoanSnapshot, opts ProjectionOptions) PortfolioProjection {
	maxMonths := opts.MaxMonths
	if maxMonths <= 0 {
		maxMonths = DefaultProjectionMonths
	}
	if maxMonths > maxCycleIterations {
		maxMonths = maxCycleIterations
	}

	portfolio := PortfolioProjection{
		Models: make([]LoanProjection, 0, len(loans)),
	}

	scoreSum := 0.0
	scoreCount := 0

	for _, loan := range loans {
		model := projectLoan(loan, maxMonths)
		model.PaymentConsistencyScore, model.ConsistencyTrend = paymentConsistency(loan, model.MonthlyPayment, opts.Events)
		if model.PaymentConsistencyScore != NeutralConsistencyScore {
			scoreSum += model.PaymentConsistencyScore
			scoreCount++
		}

		for _, row := range model.Rows {
			if row.Month == 1 {
				portfolio.ProjectedNextMonthInterest += row.InterestAccrued
			}
			if row.Month <= 12 {
				portfolio.ProjectedAnnualInterest += row.InterestAccrued
				portfolio.ProjectedAnnualPayments += row.TotalPayment
			}
			if row.Month <= 24 {
				portfolio.Projected24MonthInterest += row.InterestAccrued
			}
			if row.Month <= 36 {
				portfolio.Projected36MonthInterest += row.InterestAccrued
			}
		}

		portfolio.Models = append(portfolio.Models, model)
	}

	portfolio.ProjectedNextMonthInterest = RoundCurrency(portfolio.ProjectedNextMonthInterest)
	portfolio.ProjectedAnnualInterest = RoundCurrency(portfolio.ProjectedAnnualInterest)
	portfolio.Projected24MonthInterest = RoundCurrency(portfolio.Projected24MonthInterest)
	portfolio.Projected36MonthInterest = RoundCurrency(portfolio.Projected36MonthInterest)
	portfolio.ProjectedAnnualPayments = RoundCurrency(portfolio.ProjectedAnnualPayments)

	if scoreCount > 0 {
		portfolio.AveragePaymentConsistencyScore = RoundCurrency(scoreSum / float64(scoreCount))
	} else {
		portfolio.AveragePaymentConsistencyScore = NeutralConsistencyScore
	}
	return portfolio
}

// projectLoan builds the row table for one loan, one cycle at a time.
// Subscription-style fees amortize by remaining payment count, independent
// of the interest-bearing balance. The table stops once both the balance and
// the subscription are exhausted.
func projectLoan(loan LoanSnapshot, maxMonths int) LoanProjection {
	terms, balance := snapshotLoanTerms(loan)
	subCost := RoundCurrency(nonNegative(finiteOrZero(loan.SubscriptionCost)))
	subLeft := loan.SubscriptionPaymentsLeft
	if subLeft < 0 {
		subLeft = 0
	}

	model := LoanProjection{
		LoanID:                         loan.ID,
		Name:                           loan.Name,
		CurrentOutstanding:             balance,
		CurrentPrincipal:               RoundCurrency(nonNegative(finiteOrZero(loan.PrincipalOutstanding))),
		CurrentInterest:                RoundCurrency(nonNegative(finiteOrZero(loan.InterestOutstanding))),
		CurrentSubscriptionOutstanding: RoundCurrency(subCost * float64(subLeft)),
		MonthlyPayment:                 terms.monthlyPayment,
		DueDay:                         loan.DueDay,
		Rows:                           make([]ProjectionRow, 0, maxMonths),
	}

	for month := 1; month <= maxMonths; month++ {
		next, delta := loanCycleStep(terms, balance)
		balance = next

		subDue := 0.0
		if subLeft > 0 {
			subDue = subCost
			subLeft--
		}

		model.Rows = append(model.Rows, ProjectionRow{
			Month:              month,
			InterestAccrued:    delta.interest,
			TotalPayment:       RoundCurrency(delta.payment + subDue),
			EndingOutstanding:  balance,
			SubscriptionDue:    subDue,
			PlannedLoanPayment: terms.monthlyPayment,
		})

		if balance == 0 && model.PayoffMonth == 0 && model.CurrentOutstanding > 0 {
			model.PayoffMonth = month
		}
		if balance == 0 && subLeft == 0 {
			break
		}
	}
	return model
}

// paymentConsistency scores how reliably a loan's planned payment was
// actually made, from its historical payment events. Actual payments are
// bucketed by calendar month and each month's actual-to-planned ratio is
// capped at 1 before averaging, so overpaying one month cannot mask a missed
// one. An empty or all-zero history is neutral, not zero.
func paymentConsistency(loan LoanSnapshot, plannedMonthly float64, events []LoanEvent) (float64, []MonthlyConsistency) {
	if plannedMonthly <= 0 {
		return NeutralConsistencyScore, nil
	}

	buckets := map[string]float64{}
	var months []string
	for _, ev := range events {
		if ev.LoanID != loan.ID || ev.Type != EventTypePayment {
			continue
		}
		amount := nonNegative(finiteOrZero(ev.Amount))
		key := ev.OccurredAt.Format("2006-01")
		if _, seen := buckets[key]; !seen {
			months = append(months, key)
		}
		buckets[key] += amount
	}

	total := 0.0
	for _, paid := range buckets {
		total += paid
	}
	if len(buckets) == 0 || total == 0 {
		return NeutralConsistencyScore, nil
	}

	sort.Strings(months)
	trend := make([]MonthlyConsistency, 0, len(months))
	ratioSum := 0.0
	for _, key := range months {
		ratio := buckets[key] / plannedMonthly
		if ratio > 1 {
			ratio = 1
		}
		ratioSum += ratio
		trend = append(trend, MonthlyConsistency{Month: key, Ratio: RoundCurrency(ratio)})
	}

	score := RoundCurrency(ratioSum / float64(len(months)) * 100)
	return clampPercent(score), trend
}
