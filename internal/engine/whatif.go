package engine

import "math"

// WhatIfScopeAll targets every loan in the portfolio. An unknown loan ID
// silently falls back to this scope.
const WhatIfScopeAll = "all"

// WhatIfRequest is the set of parameter deltas a scenario applies before
// re-projection. DueDayShift moves the displayed due day only; it does not
// change interest timing within this model.
type WhatIfRequest struct {
	LoanID            string  `json:"loan_id"`
	ExtraPaymentDelta float64 `json:"extra_payment_delta"`
	APRDelta          float64 `json:"apr_delta"`
	SubscriptionDelta float64 `json:"subscription_delta"`
	DueDayShift       int     `json:"due_day_shift"`
	MaxMonths         int     `json:"max_months"`
}

// WhatIfSummary is the cost of one projected path over the standard windows.
type WhatIfSummary struct {
	NextMonthInterest float64 `json:"next_month_interest"`
	AnnualInterest    float64 `json:"annual_interest"`
	AnnualPayments    float64 `json:"annual_payments"`
}

// WhatIfResult diffs a baseline projection against a scenario projection.
// Delta is scenario minus baseline: positive means the scenario costs or
// pays more.
type WhatIfResult struct {
	Baseline   WhatIfSummary       `json:"baseline"`
	Scenario   WhatIfSummary       `json:"scenario"`
	Delta      WhatIfSummary       `json:"delta"`
	Projection PortfolioProjection `json:"projection"`
}

// RunLoanWhatIf projects the portfolio twice, unmodified and with the
// request's deltas applied to the targeted loan (or all loans), and reports
// the signed cost difference.
func RunLoanWhatIf(loans []LoanSnapshot, events []LoanEvent, req WhatIfRequest) WhatIfResult {
	opts := ProjectionOptions{MaxMonths: req.MaxMonths, Events: events}

	baseline := BuildLoanPortfolioProjection(loans, opts)

	scope := req.LoanID
	if scope != WhatIfScopeAll && !containsLoan(loans, scope) {
		scope = WhatIfScopeAll
	}

	scenario := make([]LoanSnapshot, len(loans))
	copy(scenario, loans)
	for i := range scenario {
		if scope != WhatIfScopeAll && scenario[i].ID != scope {
			continue
		}
		scenario[i] = applyWhatIfDeltas(scenario[i], req)
	}
	projected := BuildLoanPortfolioProjection(scenario, opts)

	base := summarize(baseline)
	scen := summarize(projected)
	return WhatIfResult{
		Baseline: base,
		Scenario: scen,
		Delta: WhatIfSummary{
			NextMonthInterest: RoundCurrency(scen.NextMonthInterest - base.NextMonthInterest),
			AnnualInterest:    RoundCurrency(scen.AnnualInterest - base.AnnualInterest),
			AnnualPayments:    RoundCurrency(scen.AnnualPayments - base.AnnualPayments),
		},
		Projection: projected,
	}
}

func containsLoan(loans []LoanSnapshot, id string) bool {
	for _, l := range loans {
		if l.ID == id {
			return true
		}
	}
	return false
}

func applyWhatIfDeltas(l LoanSnapshot, req WhatIfRequest) LoanSnapshot {
	l.ExtraPayment = nonNegative(finiteOrZero(l.ExtraPayment) + finiteOrZero(req.ExtraPaymentDelta))
	l.InterestRate = nonNegative(finiteOrZero(l.InterestRate) + finiteOrZero(req.APRDelta))
	l.SubscriptionCost = nonNegative(finiteOrZero(l.SubscriptionCost) + finiteOrZero(req.SubscriptionDelta))
	if req.DueDayShift != 0 {
		day := l.DueDay + req.DueDayShift
		if day < 1 {
			day = 1
		}
		if day > 31 {
			day = 31
		}
		l.DueDay = day
	}
	return l
}

func summarize(p PortfolioProjection) WhatIfSummary {
	return WhatIfSummary{
		NextMonthInterest: p.ProjectedNextMonthInterest,
		AnnualInterest:    p.ProjectedAnnualInterest,
		AnnualPayments:    p.ProjectedAnnualPayments,
	}
}

// RefinanceOffer is a candidate replacement loan: new APR, one-time fees
// charged at month zero, and a fixed term.
type RefinanceOffer struct {
	APR        float64 `json:"apr"`
	Fees       float64 `json:"fees"`
	TermMonths int     `json:"term_months"`
}

// RefinanceAnalysis compares staying on the current path against taking the
// offer over the offer's term. A negative TotalCostDelta means refinancing
// wins. BreakEvenMonth is nil when the refinance path never becomes cheaper
// within the term.
type RefinanceAnalysis struct {
	MonthlyPayment                    float64 `json:"monthly_payment"`
	TotalRefinanceInterest            float64 `json:"total_refinance_interest"`
	BreakEvenMonth                    *int    `json:"break_even_month"`
	TotalRefinanceCost                float64 `json:"total_refinance_cost"`
	TotalCurrentCost                  float64 `json:"total_current_cost"`
	TotalCostDelta                    float64 `json:"total_cost_delta"`
	RemainingCurrentOutstandingAtTerm float64 `json:"remaining_current_outstanding_at_term"`
}

// amortizedMonthlyPayment is the standard fixed-term payment
// P*r*(1+r)^n / ((1+r)^n - 1), with an even split when the rate is zero.
func amortizedMonthlyPayment(principal, aprPercent float64, termMonths int) float64 {
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	r := monthlyRate(aprPercent)
	if r == 0 {
		return RoundCurrency(principal / float64(termMonths))
	}
	factor := math.Pow(1+r, float64(termMonths))
	return RoundCurrency(principal * r * factor / (factor - 1))
}

// AnalyzeLoanRefinance walks both cost curves month by month over the
// offer's term: the refinance path starts with the one-time fees and
// amortizes at the offer's rate, the current path keeps the loan's existing
// terms. The break-even month is the first at which the cumulative current
// cost exceeds the cumulative refinance cost.
func AnalyzeLoanRefinance(loan LoanSnapshot, offer RefinanceOffer) RefinanceAnalysis {
	principal := RoundCurrency(nonNegative(finiteOrZero(loan.Balance)))
	fees := RoundCurrency(nonNegative(finiteOrZero(offer.Fees)))
	term := offer.TermMonths
	if term <= 0 || principal == 0 {
		return RefinanceAnalysis{}
	}

	payment := amortizedMonthlyPayment(principal, nonNegative(finiteOrZero(offer.APR)), term)
	refiTerms := loanTerms{monthlyPayment: payment, rate: monthlyRate(nonNegative(finiteOrZero(offer.APR)))}
	currentTerms, currentBalance := snapshotLoanTerms(loan)

	analysis := RefinanceAnalysis{MonthlyPayment: payment}

	refiBalance := principal
	refiCost := fees
	currentCost := 0.0
	for month := 1; month <= term; month++ {
		var delta loanCycleDelta
		refiBalance, delta = loanCycleStep(refiTerms, refiBalance)
		refiCost = RoundCurrency(refiCost + delta.payment)
		analysis.TotalRefinanceInterest = RoundCurrency(analysis.TotalRefinanceInterest + delta.interest)

		currentBalance, delta = loanCycleStep(currentTerms, currentBalance)
		currentCost = RoundCurrency(currentCost + delta.payment)

		if analysis.BreakEvenMonth == nil && currentCost > refiCost {
			m := month
			analysis.BreakEvenMonth = &m
		}
	}

	analysis.TotalRefinanceCost = refiCost
	analysis.TotalCurrentCost = currentCost
	analysis.TotalCostDelta = RoundCurrency(refiCost - currentCost)
	analysis.RemainingCurrentOutstandingAtTerm = currentBalance
	return analysis
}
