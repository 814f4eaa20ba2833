package engine

// MinimumPaymentType selects how a card's minimum due is computed.
type MinimumPaymentType string

const (
	// MinimumPaymentFixed bills a fixed minimum amount each cycle.
	MinimumPaymentFixed MinimumPaymentType = "fixed"
	// MinimumPaymentPercentPlusInterest bills a percentage of the statement
	// balance plus the cycle's accrued interest.
	MinimumPaymentPercentPlusInterest MinimumPaymentType = "percent_plus_interest"
)

// CardCycleInput is the snapshot of one credit-card account at the start of
// a cycle. Numeric fields that are missing or non-finite are treated as
// zero. StatementBalance is a pointer because absence is meaningful: a card
// with no recorded statement defaults to its used limit, while an explicit
// zero means the last statement billed nothing.
type CardCycleInput struct {
	UsedLimit             float64            `json:"used_limit"`
	StatementBalance      *float64           `json:"statement_balance"`
	PendingCharges        float64            `json:"pending_charges"`
	SpendPerMonth         float64            `json:"spend_per_month"`
	MinimumPayment        float64            `json:"minimum_payment"`
	MinimumPaymentType    MinimumPaymentType `json:"minimum_payment_type"`
	MinimumPaymentPercent float64            `json:"minimum_payment_percent"`
	ExtraPayment          float64            `json:"extra_payment"`
	InterestRate          float64            `json:"interest_rate"`
}

// CardCycleResult is the outcome of advancing a card by N monthly cycles.
// InterestAccrued, PaymentsApplied and SpendAdded are summed across all
// simulated cycles; DueBalance is from the last cycle only. All values are
// currency-rounded and non-negative.
type CardCycleResult struct {
	Balance          float64 `json:"balance"`
	StatementBalance float64 `json:"statement_balance"`
	PendingCharges   float64 `json:"pending_charges"`
	DueBalance       float64 `json:"due_balance"`
	InterestAccrued  float64 `json:"interest_accrued"`
	PaymentsApplied  float64 `json:"payments_applied"`
	SpendAdded       float64 `json:"spend_added"`
}

// cardTerms are the per-cycle constants of a normalized card.
type cardTerms struct {
	spendPerMonth       float64
	minimumPayment      float64
	minimumPercent      float64
	extraPayment        float64
	rate                float64
	percentPlusInterest bool
}

// cardState is the balance state threaded between cycles.
type cardState struct {
	statementBalance float64
	pendingCharges   float64
}

// cardCycleDelta is what one simulated cycle accrued, paid and spent.
type cardCycleDelta struct {
	interest   float64
	payment    float64
	spend      float64
	dueBalance float64
}

// normalizeCard applies finite-or-zero coercion and clamping to a raw
// snapshot. A missing statement balance defaults to the used limit. Any
// minimum-payment type other than percent_plus_interest is treated as fixed.
func normalizeCard(c CardCycleInput) (cardTerms, cardState) {
	usedLimit := nonNegative(finiteOrZero(c.UsedLimit))

	statement := usedLimit
	if c.StatementBalance != nil {
		statement = nonNegative(finiteOrZero(*c.StatementBalance))
	}

	terms := cardTerms{
		spendPerMonth:       nonNegative(finiteOrZero(c.SpendPerMonth)),
		minimumPayment:      nonNegative(finiteOrZero(c.MinimumPayment)),
		minimumPercent:      clampPercent(finiteOrZero(c.MinimumPaymentPercent)),
		extraPayment:        nonNegative(finiteOrZero(c.ExtraPayment)),
		rate:                monthlyRate(finiteOrZero(c.InterestRate)),
		percentPlusInterest: c.MinimumPaymentType == MinimumPaymentPercentPlusInterest,
	}
	state := cardState{
		statementBalance: RoundCurrency(statement),
		pendingCharges:   RoundCurrency(nonNegative(finiteOrZero(c.PendingCharges))),
	}
	return terms, state
}

// cardCycleStep advances one card by exactly one monthly cycle: accrue
// interest on the statement balance, compute the minimum due, post the
// payment, then fold pending charges plus the month's new spend into the
// next statement. Both the batch simulator and the row-by-row projector run
// through this single transition so their numbers agree by construction.
func cardCycleStep(terms cardTerms, st cardState) (cardState, cardCycleDelta) {
	interest := RoundCurrency(st.statementBalance * terms.rate)
	dueBalance := RoundCurrency(st.statementBalance + interest)

	var minimumDue float64
	if terms.percentPlusInterest {
		minimumDue = st.statementBalance*(terms.minimumPercent/100) + interest
	} else {
		minimumDue = terms.minimumPayment
	}
	if minimumDue < 0 {
		minimumDue = 0
	}
	if minimumDue > dueBalance {
		minimumDue = dueBalance
	}

	payment := minimumDue + terms.extraPayment
	if payment > dueBalance {
		payment = dueBalance
	}
	payment = RoundCurrency(payment)

	carriedAfterDue := nonNegative(RoundCurrency(dueBalance - payment))
	spend := RoundCurrency(terms.spendPerMonth)
	pending := RoundCurrency(st.pendingCharges + spend)

	next := cardState{
		// Pending charges have now been billed; they fold into the next
		// statement and reset.
		statementBalance: RoundCurrency(carriedAfterDue + pending),
		pendingCharges:   0,
	}
	return next, cardCycleDelta{
		interest:   interest,
		payment:    payment,
		spend:      spend,
		dueBalance: dueBalance,
	}
}

// ApplyCardMonthlyLifecycle advances a card snapshot by the given number of
// monthly cycles. Zero (or negative) cycles returns the snapshot unchanged
// apart from rounding and clamping normalization. The function is total: it
// never fails, whatever the snapshot contains.
func ApplyCardMonthlyLifecycle(card CardCycleInput, cycles int) CardCycleResult {
	terms, state := normalizeCard(card)

	result := CardCycleResult{
		DueBalance: state.statementBalance,
	}
	for i := 0; i < cycles; i++ {
		next, delta := cardCycleStep(terms, state)
		state = next
		result.InterestAccrued = RoundCurrency(result.InterestAccrued + delta.interest)
		result.PaymentsApplied = RoundCurrency(result.PaymentsApplied + delta.payment)
		result.SpendAdded = RoundCurrency(result.SpendAdded + delta.spend)
		result.DueBalance = delta.dueBalance
	}

	result.StatementBalance = state.statementBalance
	result.PendingCharges = state.pendingCharges
	result.Balance = RoundCurrency(state.statementBalance + state.pendingCharges)
	return result
}
