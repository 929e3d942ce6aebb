package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// allWeek covers every weekday so date-range and time-of-day predicates
// can be tested in isolation.
var allWeek = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

func yearRule(id uint64, pct float64, startMin, endMin int, days []time.Weekday) model.PricingRule {
	return model.PricingRule{
		ID:           id,
		Name:         "rule",
		RuleType:     "TEST",
		StartMinutes: startMin,
		EndMinutes:   endMin,
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		SurchargePct: pct,
		TableTypeID:  1,
		IsActive:     true,
		Days:         days,
	}
}

func TestQuoteNoRules(t *testing.T) {
	f := newFixture()

	// 2 hours at 100/hour.
	q, err := f.engine.Pricing.Quote(context.Background(), 1, f.window(18*60, 20*60))
	require.NoError(t, err)
	assert.Equal(t, 200.0, q.BasePrice)
	assert.Equal(t, 200.0, q.TotalPrice)
}

func TestQuoteCompoundingSurcharges(t *testing.T) {
	f := newFixture()
	f.rules.rules = []model.PricingRule{
		yearRule(1, 10, 0, 24*60, allWeek),
		yearRule(2, 20, 0, 24*60, allWeek),
	}

	// 200 * 1.10 = 220, * 1.20 = 264.
	q, err := f.engine.Pricing.Quote(context.Background(), 1, f.window(18*60, 20*60))
	require.NoError(t, err)
	assert.Equal(t, 200.0, q.BasePrice)
	assert.Equal(t, 264.0, q.TotalPrice)
}

func TestQuoteRuleOrderIndependentOfStorage(t *testing.T) {
	f := newFixture()
	forward := []model.PricingRule{
		yearRule(1, 15, 0, 24*60, allWeek),
		yearRule(2, -10, 0, 24*60, allWeek),
		yearRule(3, 33, 0, 24*60, allWeek),
	}
	w := f.window(18*60, 20*60)

	f.rules.rules = forward
	first, err := f.engine.Pricing.Quote(context.Background(), 1, w)
	require.NoError(t, err)

	// Same rules returned in reverse storage order.
	f.rules.rules = []model.PricingRule{forward[2], forward[0], forward[1]}
	second, err := f.engine.Pricing.Quote(context.Background(), 1, w)
	require.NoError(t, err)

	assert.Equal(t, first.TotalPrice, second.TotalPrice)
}

func TestQuoteDiscount(t *testing.T) {
	f := newFixture()
	f.rules.rules = []model.PricingRule{yearRule(1, -50, 0, 24*60, allWeek)}

	q, err := f.engine.Pricing.Quote(context.Background(), 1, f.window(18*60, 20*60))
	require.NoError(t, err)
	assert.Equal(t, 100.0, q.TotalPrice)
}

func TestQuoteRoundsHalfUpPerStep(t *testing.T) {
	f := newFixture()
	f.types.rows[1].BasePricePerHour = 10.05

	// 90 minutes at 10.05/hour = 15.075, rounded to 15.08.
	q, err := f.engine.Pricing.Quote(context.Background(), 1, f.window(18*60, 19*60+30))
	require.NoError(t, err)
	assert.Equal(t, 15.08, q.BasePrice)

	// 15.08 * 1.10 = 16.588, rounded to 16.59.
	f.rules.rules = []model.PricingRule{yearRule(1, 10, 0, 24*60, allWeek)}
	q, err = f.engine.Pricing.Quote(context.Background(), 1, f.window(18*60, 19*60+30))
	require.NoError(t, err)
	assert.Equal(t, 16.59, q.TotalPrice)
}

func TestQuoteRuleFiltering(t *testing.T) {
	w := func(f *fixture) TimeWindow { return f.window(18*60, 20*60) } // Saturday 2026-03-14

	cases := []struct {
		name   string
		mutate func(*model.PricingRule)
		want   float64
	}{
		{"inactive rule skipped", func(r *model.PricingRule) { r.IsActive = false }, 200.0},
		{"wrong weekday skipped", func(r *model.PricingRule) { r.Days = []time.Weekday{time.Monday} }, 200.0},
		{"date range over skipped", func(r *model.PricingRule) {
			r.EndDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		}, 200.0},
		{"time of day disjoint skipped", func(r *model.PricingRule) {
			r.StartMinutes, r.EndMinutes = 8*60, 10*60
		}, 200.0},
		{"rule ending at window start skipped", func(r *model.PricingRule) {
			r.StartMinutes, r.EndMinutes = 16*60, 18*60
		}, 200.0},
		{"rule overlapping one minute applies", func(r *model.PricingRule) {
			r.StartMinutes, r.EndMinutes = 16*60, 18*60+1
		}, 220.0},
		{"inclusive end date applies", func(r *model.PricingRule) {
			r.EndDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		}, 220.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			rule := yearRule(1, 10, 0, 24*60, allWeek)
			tc.mutate(&rule)
			f.rules.rules = []model.PricingRule{rule}

			q, err := f.engine.Pricing.Quote(context.Background(), 1, w(f))
			require.NoError(t, err)
			assert.Equal(t, tc.want, q.TotalPrice)
		})
	}
}

func TestQuoteUnknownTable(t *testing.T) {
	f := newFixture()
	_, err := f.engine.Pricing.Quote(context.Background(), 99, f.window(18*60, 20*60))
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "not_found", de.Code)
	assert.Equal(t, "Table not found", de.Message)
}

func TestQuoteInvalidWindow(t *testing.T) {
	f := newFixture()
	_, err := f.engine.Pricing.Quote(context.Background(), 1, f.window(20*60, 18*60))
	de, ok := AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "validation", de.Code)
}

func TestRound2(t *testing.T) {
	// 0.125 and 0.375 are exactly representable, so the half-away-from-
	// zero behavior is observable without float noise.
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 0.38, Round2(0.375))
	assert.Equal(t, 15.07, Round2(15.074))
	assert.Equal(t, 200.0, Round2(200))
}
