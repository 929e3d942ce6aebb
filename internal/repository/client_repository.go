package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ClientRepo persists restaurant clients.  It implements
// booking.ClientStore.  Clients are never hard-deleted; deactivation
// keeps reservation history intact.
type ClientRepo struct {
    db *sql.DB
}

// NewClientRepo returns a ClientRepo bound to the given database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

const clientCols = `id, full_name, phone, email, status, created_at, updated_at`

// Create inserts a client in ACTIVE status and populates the generated
// ID and timestamps.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
    const q = `INSERT INTO clients (full_name, phone, email) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, c.FullName, c.Phone, c.Email)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    sel := `SELECT ` + clientCols + ` FROM clients WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, c.ID).Scan(
        &c.ID, &c.FullName, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID loads one client, mapping a missing row to booking.ErrNotExists.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.Client, error) {
    q := `SELECT ` + clientCols + ` FROM clients WHERE id = ?`
    var c model.Client
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &c.ID, &c.FullName, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotExists
    }
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// List returns all clients ordered by name.
func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
    q := `SELECT ` + clientCols + ` FROM clients ORDER BY full_name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Client, 0)
    for rows.Next() {
        var c model.Client
        if err := rows.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update writes name, phone and email.  It returns booking.ErrNotExists
// when the client does not exist.
func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
    const q = `UPDATE clients SET full_name = ?, phone = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, c.FullName, c.Phone, c.Email, c.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Distinguish a missing row from a no-op write.
        if _, err := r.GetByID(ctx, c.ID); err != nil {
            return err
        }
    }
    return nil
}

// SetStatus activates or deactivates a client.
func (r *ClientRepo) SetStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE clients SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return err
        }
    }
    return nil
}
