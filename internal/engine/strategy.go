package engine

import "sort"

// Strategy modes.
const (
	StrategyAvalanche = "avalanche"
	StrategySnowball  = "snowball"
)

// Account kinds a strategy target can point at.
const (
	TargetKindLoan = "loan"
	TargetKindCard = "card"
)

// CardSnapshot is the engine-facing view of one persisted card account: its
// cycle input plus the identity needed to report it as a payoff target.
type CardSnapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CardCycleInput
}

// StrategyTarget is one candidate debt for an overpay budget, with the
// estimated annual-interest savings of directing the budget at it.
type StrategyTarget struct {
	AccountID             string  `json:"account_id"`
	Kind                  string  `json:"kind"`
	Name                  string  `json:"name"`
	Balance               float64 `json:"balance"`
	InterestRate          float64 `json:"interest_rate"`
	MonthlyInterest       float64 `json:"monthly_interest"`
	AnnualInterestSavings float64 `json:"annual_interest_savings"`
}

// PayoffStrategy is the outcome of ranking active balances under the
// avalanche and snowball heuristics. All targets are nil when the budget is
// non-positive or no balances are outstanding.
type PayoffStrategy struct {
	AvalancheTarget   *StrategyTarget `json:"avalanche_target"`
	SnowballTarget    *StrategyTarget `json:"snowball_target"`
	RecommendedTarget *StrategyTarget `json:"recommended_target"`
	RecommendedMode   string          `json:"recommended_mode"`
}

// BuildPayoffStrategy ranks the loans and card accounts with outstanding
// balance under both payoff heuristics and recommends whichever target saves
// more projected annual interest when the overpay budget is redirected to it.
// Ties break toward avalanche. A non-positive budget or an empty portfolio
// produces no recommendation; that is an answer, not an error.
func BuildPayoffStrategy(loans []LoanSnapshot, cards []CardSnapshot, events []LoanEvent, overpayBudget float64) PayoffStrategy {
	overpayBudget = finiteOrZero(overpayBudget)
	if overpayBudget <= 0 {
		return PayoffStrategy{}
	}

	var candidates []StrategyTarget
	for _, l := range loans {
		if target, ok := loanCandidate(l); ok {
			candidates = append(candidates, target)
		}
	}
	for _, c := range cards {
		if target, ok := cardCandidate(c); ok {
			candidates = append(candidates, target)
		}
	}
	if len(candidates) == 0 {
		return PayoffStrategy{}
	}

	avalanche := pickTarget(candidates, orderAvalanche)
	snowball := pickTarget(candidates, orderSnowball)

	baseline := BuildLoanPortfolioProjection(loans, ProjectionOptions{MaxMonths: 12, Events: events}).ProjectedAnnualInterest
	avalanche.AnnualInterestSavings = annualInterestSavingsFor(avalanche, loans, cards, events, overpayBudget, baseline)
	snowball.AnnualInterestSavings = annualInterestSavingsFor(snowball, loans, cards, events, overpayBudget, baseline)

	strategy := PayoffStrategy{
		AvalancheTarget: &avalanche,
		SnowballTarget:  &snowball,
	}
	if snowball.AnnualInterestSavings > avalanche.AnnualInterestSavings {
		strategy.RecommendedTarget = &snowball
		strategy.RecommendedMode = StrategySnowball
	} else {
		strategy.RecommendedTarget = &avalanche
		strategy.RecommendedMode = StrategyAvalanche
	}
	return strategy
}

// orderAvalanche ranks by APR descending, breaking ties by monthly interest,
// then balance, then name.
func orderAvalanche(a, b StrategyTarget) bool {
	if a.InterestRate != b.InterestRate {
		return a.InterestRate > b.InterestRate
	}
	if a.MonthlyInterest != b.MonthlyInterest {
		return a.MonthlyInterest > b.MonthlyInterest
	}
	if a.Balance != b.Balance {
		return a.Balance > b.Balance
	}
	return a.Name < b.Name
}

// orderSnowball ranks by balance ascending, breaking ties by APR, then
// monthly interest, then name.
func orderSnowball(a, b StrategyTarget) bool {
	if a.Balance != b.Balance {
		return a.Balance < b.Balance
	}
	if a.InterestRate != b.InterestRate {
		return a.InterestRate > b.InterestRate
	}
	if a.MonthlyInterest != b.MonthlyInterest {
		return a.MonthlyInterest > b.MonthlyInterest
	}
	return a.Name < b.Name
}

func loanCandidate(l LoanSnapshot) (StrategyTarget, bool) {
	balance := RoundCurrency(nonNegative(finiteOrZero(l.Balance)))
	if balance <= 0 {
		return StrategyTarget{}, false
	}
	rate := nonNegative(finiteOrZero(l.InterestRate))
	return StrategyTarget{
		AccountID:       l.ID,
		Kind:            TargetKindLoan,
		Name:            l.Name,
		Balance:         balance,
		InterestRate:    rate,
		MonthlyInterest: RoundCurrency(balance * monthlyRate(rate)),
	}, true
}

func cardCandidate(c CardSnapshot) (StrategyTarget, bool) {
	terms, state := normalizeCard(c.CardCycleInput)
	balance := RoundCurrency(state.statementBalance + state.pendingCharges)
	if balance <= 0 {
		return StrategyTarget{}, false
	}
	return StrategyTarget{
		AccountID:    c.ID,
		Kind:         TargetKindCard,
		Name:         c.Name,
		Balance:      balance,
		InterestRate: nonNegative(finiteOrZero(c.InterestRate)),
		// Interest accrues on the statement only; pending charges join the
		// next statement before they can accrue.
		MonthlyInterest: RoundCurrency(state.statementBalance * terms.rate),
	}, true
}

func pickTarget(candidates []StrategyTarget, less func(a, b StrategyTarget) bool) StrategyTarget {
	ranked := make([]StrategyTarget, len(candidates))
	copy(ranked, candidates)
	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	return ranked[0]
}

func annualInterestSavingsFor(target StrategyTarget, loans []LoanSnapshot, cards []CardSnapshot, events []LoanEvent, budget, baselineAnnualInterest float64) float64 {
	if target.Kind == TargetKindCard {
		for _, c := range cards {
			if c.ID == target.AccountID {
				return cardAnnualInterestSavings(c, budget)
			}
		}
		return 0
	}
	return loanAnnualInterestSavings(loans, events, target.AccountID, budget, baselineAnnualInterest)
}

// loanAnnualInterestSavings re-projects the portfolio with the budget applied
// as extra payment on the target loan and diffs the 12-month interest
// aggregate against the baseline.
func loanAnnualInterestSavings(loans []LoanSnapshot, events []LoanEvent, targetID string, budget, baselineAnnualInterest float64) float64 {
	scenario := make([]LoanSnapshot, len(loans))
	copy(scenario, loans)
	for i := range scenario {
		if scenario[i].ID == targetID {
			scenario[i].ExtraPayment = finiteOrZero(scenario[i].ExtraPayment) + budget
		}
	}
	projected := BuildLoanPortfolioProjection(scenario, ProjectionOptions{MaxMonths: 12, Events: events}).ProjectedAnnualInterest
	return RoundCurrency(nonNegative(baselineAnnualInterest - projected))
}

// cardAnnualInterestSavings re-runs the card simulator for a year with the
// budget added to the card's extra payment and diffs the accrued interest.
func cardAnnualInterestSavings(card CardSnapshot, budget float64) float64 {
	base := ApplyCardMonthlyLifecycle(card.CardCycleInput, 12).InterestAccrued
	boosted := card.CardCycleInput
	boosted.ExtraPayment = finiteOrZero(boosted.ExtraPayment) + budget
	projected := ApplyCardMonthlyLifecycle(boosted, 12).InterestAccrued
	return RoundCurrency(nonNegative(base - projected))
}
