package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// PricingRuleRepo persists surcharge rules and their day-of-week rows.
// It implements booking.PricingRuleStore.  A rule owns its
// pricing_rule_days entries; both are written in one transaction.
// Rules are soft-deleted by clearing is_active.
type PricingRuleRepo struct {
    db *sql.DB
}

// NewPricingRuleRepo returns a PricingRuleRepo bound to the given database.
func NewPricingRuleRepo(db *sql.DB) *PricingRuleRepo { return &PricingRuleRepo{db: db} }

const ruleCols = `id, rule_name, rule_type,
       TIME_FORMAT(start_time,'%H:%i'), TIME_FORMAT(end_time,'%H:%i'),
       start_date, end_date, surcharge_percentage, table_type_id, is_active, created_at, updated_at`

// Create inserts a rule and its day rows, populating the generated ID
// and timestamps.
func (r *PricingRuleRepo) Create(ctx context.Context, rule *model.PricingRule) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const ins = `INSERT INTO pricing_rules
        (rule_name, rule_type, start_time, end_time, start_date, end_date, surcharge_percentage, table_type_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, ins,
        rule.Name, rule.RuleType, clock(rule.StartMinutes), clock(rule.EndMinutes),
        rule.StartDate, rule.EndDate, rule.SurchargePct, rule.TableTypeID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rule.ID = uint64(id)
    if err := insertDays(ctx, tx, rule.ID, rule.Days); err != nil {
        return err
    }
    sel := `SELECT ` + ruleCols + ` FROM pricing_rules WHERE id = ?`
    stored, err := scanRule(tx.QueryRowContext(ctx, sel, rule.ID))
    if err != nil {
        return err
    }
    stored.Days = rule.Days
    *rule = *stored
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// insertDays bulk-inserts the day-of-week rows for a rule.
func insertDays(ctx context.Context, tx *sql.Tx, ruleID uint64, days []time.Weekday) error {
    if len(days) == 0 {
        return nil
    }
    query := `INSERT INTO pricing_rule_days (rule_id, day_of_week) VALUES `
    args := make([]interface{}, 0, len(days)*2)
    for i, d := range days {
        if i > 0 {
            query += ","
        }
        query += "(?, ?)"
        args = append(args, ruleID, int(d))
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// GetByID loads one rule with its day set, mapping a missing row to
// booking.ErrNotExists.
func (r *PricingRuleRepo) GetByID(ctx context.Context, id uint64) (*model.PricingRule, error) {
    q := `SELECT ` + ruleCols + ` FROM pricing_rules WHERE id = ?`
    rule, err := scanRule(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotExists
    }
    if err != nil {
        return nil, err
    }
    if err := r.loadDays(ctx, []*model.PricingRule{rule}); err != nil {
        return nil, err
    }
    return rule, nil
}

// ListByType returns every rule attached to a table type, active or
// not, ordered by id.
func (r *PricingRuleRepo) ListByType(ctx context.Context, tableTypeID uint64) ([]model.PricingRule, error) {
    q := `SELECT ` + ruleCols + ` FROM pricing_rules WHERE table_type_id = ? ORDER BY id`
    return r.listQuery(ctx, q, tableTypeID)
}

// GetApplicable returns the active rules for a table type whose date
// range covers the given date.  Day-of-week and time-of-day matching is
// left to the pricing engine.
func (r *PricingRuleRepo) GetApplicable(ctx context.Context, tableTypeID uint64, date time.Time) ([]model.PricingRule, error) {
    q := `SELECT ` + ruleCols + ` FROM pricing_rules
          WHERE table_type_id = ? AND is_active = 1 AND start_date <= ? AND end_date >= ?
          ORDER BY id`
    return r.listQuery(ctx, q, tableTypeID, date, date)
}

func (r *PricingRuleRepo) listQuery(ctx context.Context, query string, args ...interface{}) ([]model.PricingRule, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    rules := make([]*model.PricingRule, 0)
    for rows.Next() {
        rule, err := scanRule(rows)
        if err != nil {
            return nil, err
        }
        rules = append(rules, rule)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if err := r.loadDays(ctx, rules); err != nil {
        return nil, err
    }
    out := make([]model.PricingRule, 0, len(rules))
    for _, rule := range rules {
        out = append(out, *rule)
    }
    return out, nil
}

// loadDays populates Days for every rule in one query.
func (r *PricingRuleRepo) loadDays(ctx context.Context, rules []*model.PricingRule) error {
    if len(rules) == 0 {
        return nil
    }
    index := make(map[uint64]*model.PricingRule, len(rules))
    query := `SELECT rule_id, day_of_week FROM pricing_rule_days WHERE rule_id IN (`
    args := make([]interface{}, 0, len(rules))
    for i, rule := range rules {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, rule.ID)
        index[rule.ID] = rule
    }
    query += `) ORDER BY rule_id, day_of_week`
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return err
    }
    defer rows.Close()
    for rows.Next() {
        var ruleID uint64
        var day int
        if err := rows.Scan(&ruleID, &day); err != nil {
            return err
        }
        if rule, ok := index[ruleID]; ok {
            rule.Days = append(rule.Days, time.Weekday(day))
        }
    }
    return rows.Err()
}

// Update writes the mutable rule fields and replaces the day set when
// days is non-nil.
func (r *PricingRuleRepo) Update(ctx context.Context, rule *model.PricingRule) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const q = `UPDATE pricing_rules
        SET rule_name = ?, rule_type = ?, start_time = ?, end_time = ?,
            start_date = ?, end_date = ?, surcharge_percentage = ?, is_active = ?,
            updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    res, err := tx.ExecContext(ctx, q,
        rule.Name, rule.RuleType, clock(rule.StartMinutes), clock(rule.EndMinutes),
        rule.StartDate, rule.EndDate, rule.SurchargePct, rule.IsActive, rule.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists bool
        if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pricing_rules WHERE id = ?)`, rule.ID).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return booking.ErrNotExists
        }
    }
    if rule.Days != nil {
        if _, err := tx.ExecContext(ctx, `DELETE FROM pricing_rule_days WHERE rule_id = ?`, rule.ID); err != nil {
            return err
        }
        if err := insertDays(ctx, tx, rule.ID, rule.Days); err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Deactivate soft-deletes a rule so historical prices stay explainable.
func (r *PricingRuleRepo) Deactivate(ctx context.Context, id uint64) error {
    const q = `UPDATE pricing_rules SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists bool
        if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pricing_rules WHERE id = ?)`, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return booking.ErrNotExists
        }
    }
    return nil
}

func scanRule(row rowScanner) (*model.PricingRule, error) {
    var (
        rule     model.PricingRule
        startStr string
        endStr   string
    )
    err := row.Scan(
        &rule.ID, &rule.Name, &rule.RuleType,
        &startStr, &endStr,
        &rule.StartDate, &rule.EndDate, &rule.SurchargePct, &rule.TableTypeID, &rule.IsActive,
        &rule.CreatedAt, &rule.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    rule.StartMinutes, err = minutes(startStr)
    if err != nil {
        return nil, err
    }
    rule.EndMinutes, err = minutes(endStr)
    if err != nil {
        return nil, err
    }
    return &rule, nil
}
