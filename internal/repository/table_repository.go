package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strings"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo persists restaurant tables.  It implements
// booking.TableStore.  Table codes are generated from the type name at
// creation (VIP01, VIP02, ...); the type reference never changes after
// that.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, code, capacity, location, table_type_id, status, created_at, updated_at`

// Create inserts a table with a generated code.  The code prefix is the
// first three letters of the type name upper-cased, followed by a
// two-digit sequence scoped to the type.  Runs in a transaction so the
// sequence read and the insert cannot race into a duplicate code.
func (r *TableRepo) Create(ctx context.Context, t *model.Table, typeName string) error {
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

    var count int
    if err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM tables WHERE table_type_id = ? FOR UPDATE`, t.TableTypeID).Scan(&count); err != nil {
        return err
    }
    t.Code = fmt.Sprintf("%s%02d", codePrefix(typeName), count+1)

    const q = `INSERT INTO tables (code, capacity, location, table_type_id) VALUES (?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, t.Code, t.Capacity, t.Location, t.TableTypeID)
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
    t.ID = uint64(id)
    sel := `SELECT ` + tableCols + ` FROM tables WHERE id = ?`
    if err := tx.QueryRowContext(ctx, sel, t.ID).Scan(
        &t.ID, &t.Code, &t.Capacity, &t.Location, &t.TableTypeID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// codePrefix derives the table code prefix from a type name, keeping
// only ASCII letters and upper-casing them.
func codePrefix(typeName string) string {
    var b strings.Builder
    for _, r := range typeName {
        if r >= 'a' && r <= 'z' {
            b.WriteRune(r - 32)
        } else if r >= 'A' && r <= 'Z' {
            b.WriteRune(r)
        }
        if b.Len() == 3 {
            break
        }
    }
    if b.Len() == 0 {
        return "TBL"
    }
    return b.String()
}

// GetByID loads one table, mapping a missing row to booking.ErrNotExists.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
    q := `SELECT ` + tableCols + ` FROM tables WHERE id = ?`
    var t model.Table
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &t.ID, &t.Code, &t.Capacity, &t.Location, &t.TableTypeID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotExists
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// List returns all tables ordered by code.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
    q := `SELECT ` + tableCols + ` FROM tables ORDER BY code`
    return r.listQuery(ctx, q)
}

// ListByType returns the tables referencing a type; used by the
// deactivation checks and the availability listing.
func (r *TableRepo) ListByType(ctx context.Context, tableTypeID uint64) ([]model.Table, error) {
    q := `SELECT ` + tableCols + ` FROM tables WHERE table_type_id = ? ORDER BY code`
    return r.listQuery(ctx, q, tableTypeID)
}

func (r *TableRepo) listQuery(ctx context.Context, query string, args ...interface{}) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Table, 0)
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.Code, &t.Capacity, &t.Location, &t.TableTypeID, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update writes capacity, location and status.  The table type is
// immutable and deliberately absent from the statement.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
    const q = `UPDATE tables SET capacity = ?, location = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, t.Capacity, t.Location, t.Status, t.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.GetByID(ctx, t.ID); err != nil {
            return err
        }
    }
    return nil
}
