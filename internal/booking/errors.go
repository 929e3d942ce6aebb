package booking

import (
    "errors"
    "fmt"
    "net/http"
)

// Error is a domain outcome returned by the engine.  Status is a hint
// for the transport layer (400/401/404/409); the engine itself never
// touches HTTP.  Infrastructure failures (store unavailable, aborted
// transaction) are NOT wrapped in Error so callers can tell "table
// unavailable" apart from "table store unavailable".
type Error struct {
    Code    string // machine-readable kind: not_found, validation, conflict, unauthenticated
    Status  int    // suggested HTTP status for the calling layer
    Message string // human-readable detail
}

// Error implements the error interface.
func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// NotFound reports a referenced entity that is missing, or inactive
// where activity is required.
func NotFound(format string, args ...any) *Error {
    return &Error{Code: "not_found", Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or out-of-policy input.
func Validation(format string, args ...any) *Error {
    return &Error{Code: "validation", Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports state that blocks the operation, such as an
// overlapping reservation.
func Conflict(format string, args ...any) *Error {
    return &Error{Code: "conflict", Status: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated reports that no acting user could be resolved.
func Unauthenticated(format string, args ...any) *Error {
    return &Error{Code: "unauthenticated", Status: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// AsDomain extracts a domain *Error from err, reporting false for
// infrastructure failures.
func AsDomain(err error) (*Error, bool) {
    var de *Error
    if errors.As(err, &de) {
        return de, true
    }
    return nil, false
}
