package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paydown/finance-tracker/internal/engine"
)

func TestRoundCurrency(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"already rounded", 10.25, 10.25},
		{"rounds up", 10.255, 10.26},
		{"rounds down", 10.254, 10.25},
		{"negative", -3.005, -3.01},
		{"zero", 0, 0},
		{"nan coerces to zero", math.NaN(), 0},
		{"positive infinity coerces to zero", math.Inf(1), 0},
		{"negative infinity coerces to zero", math.Inf(-1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.RoundCurrency(tc.in))
		})
	}
}

func TestRoundCurrencyIdempotent(t *testing.T) {
	// Re-applying currency rounding to an already-rounded value is a no-op.
	values := []float64{0, 0.01, 19.99, 1070, 1234.57, 999999.99, 3.33}
	for _, v := range values {
		once := engine.RoundCurrency(v)
		assert.Equal(t, once, engine.RoundCurrency(once), "value %v", v)
	}
}
