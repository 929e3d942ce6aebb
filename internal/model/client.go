package model

import "time"

// Client statuses as stored in the clients.status column.
const (
    ClientActive   = "ACTIVE"
    ClientInactive = "INACTIVE"
)

// Client represents a restaurant guest on whose behalf reservations are
// made.  Inactive clients are kept for history but cannot receive new
// reservations.
//
// Fields:
//  ID        – primary key identifier.
//  FullName  – client's display name.
//  Phone     – contact phone number.
//  Email     – contact email (optional, may be empty).
//  Status    – ACTIVE or INACTIVE.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Client struct {
    ID        uint64    // clients.id
    FullName  string    // clients.full_name
    Phone     string    // clients.phone
    Email     string    // clients.email
    Status    string    // clients.status
    CreatedAt time.Time // clients.created_at
    UpdatedAt time.Time // clients.updated_at
}

// IsActive reports whether the client may be booked for.
func (c *Client) IsActive() bool { return c.Status == ClientActive }
