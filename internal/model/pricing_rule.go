package model

import "time"

// PricingRule is a time- and day-scoped percentage adjustment applied on
// top of a table type's base rate.  A positive surcharge raises the
// price, a negative one is a discount.  Rules are soft-deleted by
// clearing IsActive so past reservations keep their audit trail.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – human-readable rule name.
//  RuleType     – free-text label such as "WEEKEND" or "HAPPY_HOUR".
//  StartMinutes – time-of-day window start, minutes from midnight.
//  EndMinutes   – time-of-day window end, minutes from midnight.
//  StartDate    – first calendar date the rule applies (inclusive).
//  EndDate      – last calendar date the rule applies (inclusive).
//  SurchargePct – percentage in [-100, 100]; negative means discount.
//  TableTypeID  – table type the rule attaches to.
//  IsActive     – whether the rule participates in pricing.
//  Days         – weekdays the rule applies on; never empty.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type PricingRule struct {
    ID           uint64         // pricing_rules.id
    Name         string         // pricing_rules.rule_name
    RuleType     string         // pricing_rules.rule_type
    StartMinutes int            // pricing_rules.start_time
    EndMinutes   int            // pricing_rules.end_time
    StartDate    time.Time      // pricing_rules.start_date
    EndDate      time.Time      // pricing_rules.end_date
    SurchargePct float64        // pricing_rules.surcharge_percentage
    TableTypeID  uint64         // pricing_rules.table_type_id
    IsActive     bool           // pricing_rules.is_active
    Days         []time.Weekday // pricing_rule_days rows
    CreatedAt    time.Time      // pricing_rules.created_at
    UpdatedAt    time.Time      // pricing_rules.updated_at
}

// AppliesOn reports whether the rule's day-of-week set contains d.
func (r *PricingRule) AppliesOn(d time.Weekday) bool {
    for _, day := range r.Days {
        if day == d {
            return true
        }
    }
    return false
}
