package engine

// LoanCycleInput is the snapshot of one loan at the start of a cycle. The
// cadence describes how often the stated minimum payment is nominally due;
// it is only used to convert that payment into a monthly-equivalent amount.
type LoanCycleInput struct {
	Balance        float64    `json:"balance"`
	MinimumPayment float64    `json:"minimum_payment"`
	InterestRate   float64    `json:"interest_rate"`
	Cadence        Cadence    `json:"cadence"`
	CustomInterval int        `json:"custom_interval"`
	CustomUnit     CustomUnit `json:"custom_unit"`
}

// LoanCycleResult is the outcome of advancing a loan by N monthly cycles.
// Interest and payments are summed across all simulated cycles.
type LoanCycleResult struct {
	Balance         float64 `json:"balance"`
	InterestAccrued float64 `json:"interest_accrued"`
	PaymentsApplied float64 `json:"payments_applied"`
}

// loanTerms are the per-cycle constants of a normalized loan.
type loanTerms struct {
	monthlyPayment float64
	rate           float64
}

// loanCycleDelta is what one simulated cycle accrued and paid.
type loanCycleDelta struct {
	interest float64
	payment  float64
}

// normalizeLoan coerces the snapshot and converts the stated payment to its
// monthly equivalent once, up front.
func normalizeLoan(l LoanCycleInput) (loanTerms, float64) {
	payment := ToMonthlyAmount(nonNegative(finiteOrZero(l.MinimumPayment)), l.Cadence, l.CustomInterval, l.CustomUnit)
	terms := loanTerms{
		monthlyPayment: RoundCurrency(nonNegative(payment)),
		rate:           monthlyRate(finiteOrZero(l.InterestRate)),
	}
	return terms, RoundCurrency(nonNegative(finiteOrZero(l.Balance)))
}

// loanCycleStep advances one loan balance by exactly one monthly cycle:
// accrue interest, then post the monthly-equivalent payment, capped at the
// accrued balance so the loan never amortizes below zero. There is no
// extra-payment or minimum-percent concept at this layer; a caller wanting
// overpay-driven amortization passes a larger payment amount.
func loanCycleStep(terms loanTerms, balance float64) (float64, loanCycleDelta) {
	interest := RoundCurrency(balance * terms.rate)
	balance = RoundCurrency(balance + interest)

	payment := terms.monthlyPayment
	if payment > balance {
		payment = balance
	}
	payment = RoundCurrency(payment)
	balance = nonNegative(RoundCurrency(balance - payment))

	return balance, loanCycleDelta{interest: interest, payment: payment}
}

// ApplyLoanMonthlyLifecycle advances a loan snapshot by the given number of
// monthly cycles. Zero (or negative) cycles returns the balance unchanged
// apart from rounding and clamping normalization.
func ApplyLoanMonthlyLifecycle(loan LoanCycleInput, cycles int) LoanCycleResult {
	terms, balance := normalizeLoan(loan)

	var result LoanCycleResult
	for i := 0; i < cycles; i++ {
		next, delta := loanCycleStep(terms, balance)
		balance = next
		result.InterestAccrued = RoundCurrency(result.InterestAccrued + delta.interest)
		result.PaymentsApplied = RoundCurrency(result.PaymentsApplied + delta.payment)
	}

	result.Balance = balance
	return result
}
