package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydown/finance-tracker/internal/engine"
)

func fptr(v float64) *float64 { return &v }

func TestApplyCardMonthlyLifecycleSingleCycle(t *testing.T) {
	// 1000 owed at 24% APR with 100 of new monthly spend and a 50 minimum.
	card := engine.CardCycleInput{
		UsedLimit:      1000,
		SpendPerMonth:  100,
		MinimumPayment: 50,
		InterestRate:   24,
	}

	res := engine.ApplyCardMonthlyLifecycle(card, 1)

	assert.InDelta(t, 20.00, res.InterestAccrued, 0.001)
	assert.InDelta(t, 1020.00, res.DueBalance, 0.001)
	assert.InDelta(t, 50.00, res.PaymentsApplied, 0.001)
	assert.InDelta(t, 100.00, res.SpendAdded, 0.001)
	assert.InDelta(t, 1070.00, res.Balance, 0.001)
	// Pending charges were folded into the new statement.
	assert.Zero(t, res.PendingCharges)
	assert.InDelta(t, 1070.00, res.StatementBalance, 0.001)
}

func TestApplyCardMonthlyLifecyclePercentPlusInterest(t *testing.T) {
	card := engine.CardCycleInput{
		StatementBalance:      fptr(1000),
		MinimumPaymentType:    engine.MinimumPaymentPercentPlusInterest,
		MinimumPaymentPercent: 2,
		ExtraPayment:          15,
		InterestRate:          24,
	}

	res := engine.ApplyCardMonthlyLifecycle(card, 1)

	assert.InDelta(t, 1020.00, res.DueBalance, 0.001)
	assert.InDelta(t, 55.00, res.PaymentsApplied, 0.001)
	assert.InDelta(t, 965.00, res.Balance, 0.001)
}

func TestApplyCardMonthlyLifecycleZeroCycles(t *testing.T) {
	card := engine.CardCycleInput{
		UsedLimit:      1234.567,
		PendingCharges: 10.004,
		MinimumPayment: 50,
		InterestRate:   24,
	}

	res := engine.ApplyCardMonthlyLifecycle(card, 0)

	// Input unchanged apart from rounding normalization.
	assert.Equal(t, 1234.57, res.StatementBalance)
	assert.Equal(t, 10.00, res.PendingCharges)
	assert.Equal(t, 1244.57, res.Balance)
	assert.Zero(t, res.InterestAccrued)
	assert.Zero(t, res.PaymentsApplied)
	assert.Zero(t, res.SpendAdded)
}

func TestApplyCardMonthlyLifecycleStatementDefaultsToUsedLimit(t *testing.T) {
	implicit := engine.ApplyCardMonthlyLifecycle(engine.CardCycleInput{UsedLimit: 500, InterestRate: 12}, 1)
	explicit := engine.ApplyCardMonthlyLifecycle(engine.CardCycleInput{
		UsedLimit:        500,
		StatementBalance: fptr(500),
		InterestRate:     12,
	}, 1)
	assert.Equal(t, explicit, implicit)

	// An explicit zero statement is not the same as an absent one.
	zeroStatement := engine.ApplyCardMonthlyLifecycle(engine.CardCycleInput{
		UsedLimit:        500,
		StatementBalance: fptr(0),
		InterestRate:     12,
	}, 1)
	assert.Zero(t, zeroStatement.InterestAccrued)
}

func TestApplyCardMonthlyLifecycleMalformedInput(t *testing.T) {
	card := engine.CardCycleInput{
		UsedLimit:      math.NaN(),
		SpendPerMonth:  math.Inf(1),
		MinimumPayment: -40,
		InterestRate:   math.Inf(-1),
	}

	res := engine.ApplyCardMonthlyLifecycle(card, 3)

	// Finite-or-zero coercion: nothing to accrue, pay or spend.
	assert.Zero(t, res.Balance)
	assert.Zero(t, res.InterestAccrued)
	assert.Zero(t, res.PaymentsApplied)
	assert.Zero(t, res.SpendAdded)
}

func TestApplyCardMonthlyLifecyclePaymentCappedAtDueBalance(t *testing.T) {
	card := engine.CardCycleInput{
		UsedLimit:      30,
		MinimumPayment: 500,
		ExtraPayment:   100,
		InterestRate:   24,
	}

	res := engine.ApplyCardMonthlyLifecycle(card, 1)

	assert.InDelta(t, 30.60, res.DueBalance, 0.001)
	assert.InDelta(t, 30.60, res.PaymentsApplied, 0.001)
	assert.Zero(t, res.Balance)
}

func TestApplyCardMonthlyLifecycleAggregatesAcrossCycles(t *testing.T) {
	card := engine.CardCycleInput{
		UsedLimit:      2000,
		SpendPerMonth:  50,
		MinimumPayment: 80,
		InterestRate:   18,
	}

	// Aggregates over N cycles must equal the sum of N single steps.
	var wantInterest, wantPayments, wantSpend float64
	state := card
	for i := 0; i < 4; i++ {
		step := engine.ApplyCardMonthlyLifecycle(state, 1)
		wantInterest = engine.RoundCurrency(wantInterest + step.InterestAccrued)
		wantPayments = engine.RoundCurrency(wantPayments + step.PaymentsApplied)
		wantSpend = engine.RoundCurrency(wantSpend + step.SpendAdded)
		state = engine.CardCycleInput{
			UsedLimit:        step.Balance,
			StatementBalance: fptr(step.StatementBalance),
			PendingCharges:   step.PendingCharges,
			SpendPerMonth:    card.SpendPerMonth,
			MinimumPayment:   card.MinimumPayment,
			InterestRate:     card.InterestRate,
		}
	}

	batch := engine.ApplyCardMonthlyLifecycle(card, 4)
	require.Equal(t, wantInterest, batch.InterestAccrued)
	require.Equal(t, wantPayments, batch.PaymentsApplied)
	require.Equal(t, wantSpend, batch.SpendAdded)
	require.Equal(t, state.PendingCharges, batch.PendingCharges)
	require.Equal(t, *state.StatementBalance, batch.StatementBalance)
}

func TestApplyCardMonthlyLifecycleNonNegativity(t *testing.T) {
	cards := []engine.CardCycleInput{
		{UsedLimit: 100, MinimumPayment: 500, InterestRate: 30},
		{UsedLimit: 0, SpendPerMonth: 25, MinimumPayment: 10},
		{UsedLimit: 9999.99, MinimumPaymentType: engine.MinimumPaymentPercentPlusInterest, MinimumPaymentPercent: 150, InterestRate: 36},
	}
	for _, card := range cards {
		for _, cycles := range []int{0, 1, 5, 24} {
			res := engine.ApplyCardMonthlyLifecycle(card, cycles)
			assert.GreaterOrEqual(t, res.Balance, 0.0)
			assert.GreaterOrEqual(t, res.StatementBalance, 0.0)
			assert.GreaterOrEqual(t, res.PendingCharges, 0.0)
			assert.GreaterOrEqual(t, res.DueBalance, 0.0)
			assert.GreaterOrEqual(t, res.InterestAccrued, 0.0)
			assert.GreaterOrEqual(t, res.PaymentsApplied, 0.0)
			assert.GreaterOrEqual(t, res.SpendAdded, 0.0)
		}
	}
}

func TestApplyCardMonthlyLifecycleDeterministic(t *testing.T) {
	card := engine.CardCycleInput{
		UsedLimit:             3210.45,
		SpendPerMonth:         210.10,
		MinimumPaymentType:    engine.MinimumPaymentPercentPlusInterest,
		MinimumPaymentPercent: 3,
		ExtraPayment:          25,
		InterestRate:          21.99,
	}
	first := engine.ApplyCardMonthlyLifecycle(card, 36)
	second := engine.ApplyCardMonthlyLifecycle(card, 36)
	assert.Equal(t, first, second)
}
