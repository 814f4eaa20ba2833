package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paydown/finance-tracker/internal/engine"
)

func TestToMonthlyAmount(t *testing.T) {
	cases := []struct {
		name     string
		amount   float64
		cadence  engine.Cadence
		interval int
		unit     engine.CustomUnit
		want     float64
	}{
		{"weekly", 120, engine.CadenceWeekly, 0, "", 120 * 52.0 / 12.0},
		{"biweekly", 120, engine.CadenceBiweekly, 0, "", 120 * 26.0 / 12.0},
		{"monthly", 120, engine.CadenceMonthly, 0, "", 120},
		{"quarterly", 300, engine.CadenceQuarterly, 0, "", 100},
		{"yearly", 1200, engine.CadenceYearly, 0, "", 100},
		{"one time has no monthly equivalent", 500, engine.CadenceOneTime, 0, "", 0},
		{"custom months", 300, engine.CadenceCustom, 3, engine.UnitMonths, 100},
		{"custom years", 2400, engine.CadenceCustom, 2, engine.UnitYears, 100},
		{"custom days", 10, engine.CadenceCustom, 30, engine.UnitDays, 10 * 365.2425 / (30 * 12)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.ToMonthlyAmount(tc.amount, tc.cadence, tc.interval, tc.unit)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestToMonthlyAmountFourWeekCycle(t *testing.T) {
	// A 100 payment every 4 weeks is about 108.7 per month.
	got := engine.ToMonthlyAmount(100, engine.CadenceCustom, 4, engine.UnitWeeks)
	assert.InDelta(t, 108.7, got, 0.05)
}

func TestToMonthlyAmountDefensiveDefaults(t *testing.T) {
	t.Run("invalid custom interval", func(t *testing.T) {
		assert.Zero(t, engine.ToMonthlyAmount(100, engine.CadenceCustom, 0, engine.UnitWeeks))
		assert.Zero(t, engine.ToMonthlyAmount(100, engine.CadenceCustom, -2, engine.UnitMonths))
	})
	t.Run("unknown custom unit", func(t *testing.T) {
		assert.Zero(t, engine.ToMonthlyAmount(100, engine.CadenceCustom, 2, "fortnights"))
	})
	t.Run("unknown cadence passes amount through", func(t *testing.T) {
		assert.Equal(t, 100.0, engine.ToMonthlyAmount(100, "semiannual", 0, ""))
	})
	t.Run("non-finite amount coerces to zero", func(t *testing.T) {
		assert.Zero(t, engine.ToMonthlyAmount(math.NaN(), engine.CadenceMonthly, 0, ""))
		assert.Zero(t, engine.ToMonthlyAmount(math.Inf(1), engine.CadenceWeekly, 0, ""))
	})
}
