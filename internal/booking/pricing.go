package booking

import (
    "context"
    "math"
    "sort"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Quote is the price pair computed for a table and time window.
type Quote struct {
    BasePrice  float64 `json:"base_price"`
    TotalPrice float64 `json:"total_price"`
}

// PricingEngine computes reservation prices from a table type's hourly
// rate and the surcharge rules scoped to it.
type PricingEngine struct {
    Tables TableStore
    Types  TableTypeStore
    Rules  PricingRuleStore
}

// NewPricingEngine constructs a PricingEngine; all stores must be non-nil.
func NewPricingEngine(tables TableStore, types TableTypeStore, rules PricingRuleStore) *PricingEngine {
    if tables == nil || types == nil || rules == nil {
        panic("nil store passed to NewPricingEngine")
    }
    return &PricingEngine{Tables: tables, Types: types, Rules: rules}
}

// Quote resolves the table and its type, computes the base price from
// the hourly rate and the window duration, then applies every matching
// active rule as a compounding multiplier in ascending rule-id order.
// An empty rule set simply yields a total equal to the base price.
func (p *PricingEngine) Quote(ctx context.Context, tableID uint64, w TimeWindow) (Quote, error) {
    if err := w.Validate(); err != nil {
        return Quote{}, err
    }
    table, err := p.Tables.GetByID(ctx, tableID)
    if err != nil {
        if err == ErrNotExists {
            return Quote{}, NotFound("Table not found")
        }
        return Quote{}, err
    }
    tt, err := p.Types.GetByID(ctx, table.TableTypeID)
    if err != nil {
        if err == ErrNotExists {
            return Quote{}, NotFound("Table type not found")
        }
        return Quote{}, err
    }

    hours := float64(w.DurationMinutes()) / 60.0
    base := Round2(tt.BasePricePerHour * hours)

    rules, err := p.Rules.GetApplicable(ctx, table.TableTypeID, w.Date)
    if err != nil {
        return Quote{}, err
    }
    applicable := make([]model.PricingRule, 0, len(rules))
    for _, r := range rules {
        if ruleMatches(&r, w) {
            applicable = append(applicable, r)
        }
    }
    // Stable application order independent of storage order.
    sort.Slice(applicable, func(i, j int) bool { return applicable[i].ID < applicable[j].ID })

    total := base
    for _, r := range applicable {
        total = Round2(total * (1 + r.SurchargePct/100))
    }
    return Quote{BasePrice: base, TotalPrice: total}, nil
}

// ruleMatches applies the full rule predicate: active flag, inclusive
// date range, day-of-week membership and time-of-day overlap with the
// requested window (half-open, same as reservation conflicts).
func ruleMatches(r *model.PricingRule, w TimeWindow) bool {
    if !r.IsActive {
        return false
    }
    if w.Date.Before(Midnight(r.StartDate)) || w.Date.After(Midnight(r.EndDate)) {
        return false
    }
    if !r.AppliesOn(w.Weekday()) {
        return false
    }
    return w.Start < r.EndMinutes && r.StartMinutes < w.End
}

// Round2 rounds to two decimal places, half away from zero.  All price
// arithmetic in the engine goes through this single helper so the
// rounding choice stays consistent.
func Round2(v float64) float64 {
    return math.Round(v*100) / 100
}
