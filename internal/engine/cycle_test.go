package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paydown/finance-tracker/internal/engine"
)

func TestAddMonthClamped(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"jan 31 clamps to feb 28 in a non-leap year",
			time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"jan 31 clamps to feb 29 in a leap year",
			time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"mid-month day is preserved",
			time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC),
			time.Date(2026, time.February, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			"december rolls into january",
			time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			"may 31 clamps to jun 30",
			time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.AddMonthClamped(tc.in))
		})
	}
}

func TestCountCompletedMonthlyCycles(t *testing.T) {
	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	t.Run("boundary day counts as completed", func(t *testing.T) {
		now := time.Date(2026, time.February, 15, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, engine.CountCompletedMonthlyCycles(start, now))
	})

	t.Run("day before boundary does not count", func(t *testing.T) {
		now := time.Date(2026, time.February, 14, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, 0, engine.CountCompletedMonthlyCycles(start, now))
	})

	t.Run("three months elapsed", func(t *testing.T) {
		now := time.Date(2026, time.April, 20, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 3, engine.CountCompletedMonthlyCycles(start, now))
	})

	t.Run("start in the future yields zero", func(t *testing.T) {
		now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 0, engine.CountCompletedMonthlyCycles(start, now))
	})

	t.Run("corrupted ancient timestamp caps at 600", func(t *testing.T) {
		ancient := time.Date(1800, time.January, 1, 0, 0, 0, 0, time.UTC)
		now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 600, engine.CountCompletedMonthlyCycles(ancient, now))
	})

	t.Run("end-of-month start keeps counting through short months", func(t *testing.T) {
		jan31 := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
		// Jan 31 -> Feb 28 -> Mar 28; evaluated on Mar 28 both have passed.
		now := time.Date(2026, time.March, 28, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, 2, engine.CountCompletedMonthlyCycles(jan31, now))
	})
}
