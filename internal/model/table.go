package model

import "time"

// Table statuses as stored in the tables.status column.
const (
    TableActive   = "ACTIVE"
    TableInactive = "INACTIVE"
)

// TableType groups tables that share a base hourly rate, e.g. "VIP" or
// "Terrace".  Pricing rules attach to a table type, not to individual
// tables.  A type with tables referencing it cannot be hard-deleted;
// it is deactivated instead.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – unique type name.
//  BasePricePerHour – hourly rate applied before surcharge rules.
//  IsActive         – whether new reservations may target tables of this type.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type TableType struct {
    ID               uint64    // table_types.id
    Name             string    // table_types.name
    BasePricePerHour float64   // table_types.base_price_per_hour
    IsActive         bool      // table_types.is_active
    CreatedAt        time.Time // table_types.created_at
    UpdatedAt        time.Time // table_types.updated_at
}

// Table is a physical table in the restaurant.  Its code is generated
// from the type name at creation (e.g. VIP01) and its type never
// changes once set.
//
// Fields:
//  ID          – primary key identifier.
//  Code        – generated unique code shown to staff.
//  Capacity    – maximum number of guests.
//  Location    – free-text placement hint (e.g. "window", "patio").
//  TableTypeID – the type fixing the base rate; immutable after creation.
//  Status      – ACTIVE or INACTIVE.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Table struct {
    ID          uint64    // tables.id
    Code        string    // tables.code
    Capacity    int       // tables.capacity
    Location    string    // tables.location
    TableTypeID uint64    // tables.table_type_id
    Status      string    // tables.status
    CreatedAt   time.Time // tables.created_at
    UpdatedAt   time.Time // tables.updated_at
}

// IsActive reports whether the table accepts new reservations.
func (t *Table) IsActive() bool { return t.Status == TableActive }
