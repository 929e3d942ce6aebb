package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableTypeRepo persists table types.  It implements
// booking.TableTypeStore.  A type referenced by tables cannot be
// hard-deleted; Delete falls back to deactivation in that case.
type TableTypeRepo struct {
    db *sql.DB
}

// NewTableTypeRepo returns a TableTypeRepo bound to the given database.
func NewTableTypeRepo(db *sql.DB) *TableTypeRepo { return &TableTypeRepo{db: db} }

const tableTypeCols = `id, name, base_price_per_hour, is_active, created_at, updated_at`

// Create inserts a table type.  Duplicate names surface as
// ErrNameExists.
func (r *TableTypeRepo) Create(ctx context.Context, tt *model.TableType) error {
    const q = `INSERT INTO table_types (name, base_price_per_hour) VALUES (?, ?)`
    res, err := r.db.ExecContext(ctx, q, tt.Name, tt.BasePricePerHour)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrNameExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    tt.ID = uint64(id)
    sel := `SELECT ` + tableTypeCols + ` FROM table_types WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, tt.ID).Scan(
        &tt.ID, &tt.Name, &tt.BasePricePerHour, &tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt)
}

// GetByID loads one table type, mapping a missing row to
// booking.ErrNotExists.
func (r *TableTypeRepo) GetByID(ctx context.Context, id uint64) (*model.TableType, error) {
    q := `SELECT ` + tableTypeCols + ` FROM table_types WHERE id = ?`
    var tt model.TableType
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &tt.ID, &tt.Name, &tt.BasePricePerHour, &tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotExists
    }
    if err != nil {
        return nil, err
    }
    return &tt, nil
}

// List returns all table types ordered by name.
func (r *TableTypeRepo) List(ctx context.Context) ([]model.TableType, error) {
    q := `SELECT ` + tableTypeCols + ` FROM table_types ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.TableType, 0)
    for rows.Next() {
        var tt model.TableType
        if err := rows.Scan(&tt.ID, &tt.Name, &tt.BasePricePerHour, &tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, tt)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update writes name, rate and active flag.
func (r *TableTypeRepo) Update(ctx context.Context, tt *model.TableType) error {
    const q = `UPDATE table_types SET name = ?, base_price_per_hour = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, tt.Name, tt.BasePricePerHour, tt.IsActive, tt.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrNameExists
        }
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.GetByID(ctx, tt.ID); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a table type.  When tables still reference the type it
// is deactivated instead and the method reports that soft path via the
// returned flag: true means a hard delete happened.
func (r *TableTypeRepo) Delete(ctx context.Context, id uint64) (bool, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return false, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var refs int
    if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables WHERE table_type_id = ?`, id).Scan(&refs); err != nil {
        return false, err
    }
    if refs > 0 {
        res, err := tx.ExecContext(ctx, `UPDATE table_types SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
        if err != nil {
            return false, err
        }
        if n, _ := res.RowsAffected(); n == 0 {
            return false, booking.ErrNotExists
        }
        if err := tx.Commit(); err != nil {
            return false, err
        }
        committed = true
        return false, nil
    }
    res, err := tx.ExecContext(ctx, `DELETE FROM table_types WHERE id = ?`, id)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    if n == 0 {
        return false, booking.ErrNotExists
    }
    if err := tx.Commit(); err != nil {
        return false, err
    }
    committed = true
    return true, nil
}
