package repository

import (
    "context"
    "database/sql"
    "fmt"
    "strconv"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/booking"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  It implements
// booking.ReservationStore: the conflict re-check and the write happen
// inside one transaction, with the table row locked via SELECT ... FOR
// UPDATE so two concurrent bookings on the same table serialize at the
// database.  All timestamps are stored in UTC; start/end are TIME
// columns.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// transactions across repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// nonTerminal is the status filter shared by every overlap query.
// Cancelled and completed reservations never block a slot.
const nonTerminal = `status NOT IN ('CANCELLED','COMPLETED')`

const reservationCols = `id, client_id, table_id, created_by_user_id, reserved_date,
       TIME_FORMAT(start_time,'%H:%i'), TIME_FORMAT(end_time,'%H:%i'),
       number_of_guests, base_price, total_price, status, notes, version, created_at, updated_at`

// GetByID loads one reservation.  It returns booking.ErrNotExists when
// no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    q := `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotExists
    }
    return res, err
}

// ExistsOverlapping reports whether a non-terminal reservation on the
// table overlaps [start, end) on the date.  The predicate mirrors the
// half-open interval rule: touching endpoints do not conflict.
func (r *ReservationRepo) ExistsOverlapping(ctx context.Context, tableID uint64, w booking.TimeWindow, excludeID uint64) (bool, error) {
    return existsOverlapping(ctx, r.db, tableID, w, excludeID)
}

// querier abstracts *sql.DB and *sql.Tx so the overlap check can run
// standalone or inside the write transaction.
type querier interface {
    QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func existsOverlapping(ctx context.Context, q querier, tableID uint64, w booking.TimeWindow, excludeID uint64) (bool, error) {
    query := `SELECT EXISTS(
                SELECT 1 FROM reservations
                WHERE table_id = ? AND reserved_date = ? AND ` + nonTerminal + `
                  AND NOT (end_time <= ? OR start_time >= ?)`
    args := []interface{}{tableID, w.Date, clock(w.Start), clock(w.End)}
    if excludeID != 0 {
        query += ` AND id <> ?`
        args = append(args, excludeID)
    }
    query += `)`
    var exists bool
    if err := q.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
        return false, err
    }
    return exists, nil
}

// Create inserts a new reservation.  Inside the transaction the table
// row is locked and the overlap check re-run; a conflict discovered at
// this point surfaces as booking.ErrOverlap.  On success the generated
// ID, version and timestamps are populated on the given reservation.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
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

    if err := lockTable(ctx, tx, res.TableID); err != nil {
        return err
    }
    w := booking.NewTimeWindow(res.Date, res.StartMinutes, res.EndMinutes)
    busy, err := existsOverlapping(ctx, tx, res.TableID, w, 0)
    if err != nil {
        return err
    }
    if busy {
        return booking.ErrOverlap
    }

    const ins = `INSERT INTO reservations
        (client_id, table_id, created_by_user_id, reserved_date, start_time, end_time,
         number_of_guests, base_price, total_price, status, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, ins,
        res.ClientID, res.TableID, res.CreatedByUserID, res.Date,
        clock(res.StartMinutes), clock(res.EndMinutes),
        res.Guests, res.BasePrice, res.TotalPrice, res.Status.String(), res.Notes)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    // Query back the full row to populate version and timestamps.
    sel := `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    stored, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
    if err != nil {
        return err
    }
    *res = *stored
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Update writes the reservation guarded by its version column.  When
// checkConflict is true the overlap check (excluding the reservation
// itself) runs under the same table lock as the write.  A version
// mismatch returns booking.ErrStale so the engine can retry against a
// fresh read.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation, checkConflict bool) error {
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

    if checkConflict {
        if err := lockTable(ctx, tx, res.TableID); err != nil {
            return err
        }
        w := booking.NewTimeWindow(res.Date, res.StartMinutes, res.EndMinutes)
        busy, err := existsOverlapping(ctx, tx, res.TableID, w, res.ID)
        if err != nil {
            return err
        }
        if busy {
            return booking.ErrOverlap
        }
    }

    const upd = `UPDATE reservations
        SET client_id = ?, table_id = ?, reserved_date = ?, start_time = ?, end_time = ?,
            number_of_guests = ?, base_price = ?, total_price = ?, status = ?, notes = ?,
            version = version + 1, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND version = ?`
    result, err := tx.ExecContext(ctx, upd,
        res.ClientID, res.TableID, res.Date,
        clock(res.StartMinutes), clock(res.EndMinutes),
        res.Guests, res.BasePrice, res.TotalPrice, res.Status.String(), res.Notes,
        res.ID, res.Version)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return booking.ErrStale
    }
    sel := `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    stored, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
    if err != nil {
        return err
    }
    *res = *stored
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ListByDate returns all reservations on a date ordered by table and
// start time.
func (r *ReservationRepo) ListByDate(ctx context.Context, date time.Time) ([]model.Reservation, error) {
    q := `SELECT ` + reservationCols + ` FROM reservations WHERE reserved_date = ? ORDER BY table_id, start_time`
    return r.list(ctx, q, date)
}

// ListByClient returns a client's reservations, newest first.
func (r *ReservationRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Reservation, error) {
    q := `SELECT ` + reservationCols + ` FROM reservations WHERE client_id = ? ORDER BY created_at DESC`
    return r.list(ctx, q, clientID)
}

func (r *ReservationRepo) list(ctx context.Context, query string, arg interface{}) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, query, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// lockTable takes a row lock on the table so concurrent bookings for
// the same table serialize for the duration of the transaction.
func lockTable(ctx context.Context, tx *sql.Tx, tableID uint64) error {
    var id uint64
    return tx.QueryRowContext(ctx, `SELECT id FROM tables WHERE id = ? FOR UPDATE`, tableID).Scan(&id)
}

// rowScanner lets scanReservation accept both *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
    var (
        res      model.Reservation
        startStr string
        endStr   string
        status   string
        notes    sql.NullString
    )
    err := row.Scan(
        &res.ID, &res.ClientID, &res.TableID, &res.CreatedByUserID, &res.Date,
        &startStr, &endStr,
        &res.Guests, &res.BasePrice, &res.TotalPrice, &status, &notes, &res.Version,
        &res.CreatedAt, &res.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    res.StartMinutes, err = minutes(startStr)
    if err != nil {
        return nil, err
    }
    res.EndMinutes, err = minutes(endStr)
    if err != nil {
        return nil, err
    }
    res.Status = model.ReservationStatus(status)
    if notes.Valid {
        res.Notes = notes.String
    }
    return &res, nil
}

// clock renders minutes from midnight as a TIME literal.
func clock(min int) string {
    return fmt.Sprintf("%02d:%02d:00", min/60, min%60)
}

// minutes parses an "HH:MM" string produced by TIME_FORMAT.
func minutes(s string) (int, error) {
    parts := strings.SplitN(s, ":", 2)
    if len(parts) != 2 {
        return 0, fmt.Errorf("malformed time value %q", s)
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil {
        return 0, fmt.Errorf("malformed time value %q", s)
    }
    m, err := strconv.Atoi(parts[1])
    if err != nil {
        return 0, fmt.Errorf("malformed time value %q", s)
    }
    return h*60 + m, nil
}
