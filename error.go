package ictx

import "fmt"

// ErrorCode enumerates the taxonomy of failures the engine can surface.
// The split between Update/UpdateOptimisticLock and Delete/DeleteOptimisticLock
// lets callers distinguish "the record is gone" from "someone else committed
// first" without parsing error strings.
type ErrorCode int

const (
	// Unknown is never returned by this package; reserved for embedders.
	Unknown ErrorCode = iota
	// FetchGeneric is a non-recoverable failure reported by the backend
	// while fetching a record or its version.
	FetchGeneric
	// FetchNotFound is returned by the "strict" fetch variants when no
	// record exists for the given id.
	FetchNotFound
	// Save is returned when a Create action's id is already in use.
	Save
	// Update is returned when an Update action's id does not exist.
	Update
	// UpdateOptimisticLock is returned when an Update action's observed
	// version no longer matches the backend's current version.
	UpdateOptimisticLock
	// Delete is returned when a strict Delete action's id does not exist.
	Delete
	// DeleteNotFound mirrors Delete; kept distinct in the taxonomy for
	// callers that want to special-case "nothing there to delete" even
	// though the reference transaction never emits it today (a missing id
	// is tolerated at stage time rather than deferred to commit).
	DeleteNotFound
	// DeleteOptimisticLock is returned when a Delete or DeleteIfPresent
	// action's observed version no longer matches the backend's current
	// version.
	DeleteOptimisticLock
)

func (c ErrorCode) String() string {
	switch c {
	case FetchGeneric:
		return "FetchGeneric"
	case FetchNotFound:
		return "FetchNotFound"
	case Save:
		return "Save"
	case Update:
		return "Update"
	case UpdateOptimisticLock:
		return "UpdateOptimisticLock"
	case Delete:
		return "Delete"
	case DeleteNotFound:
		return "DeleteNotFound"
	case DeleteOptimisticLock:
		return "DeleteOptimisticLock"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by this package. It carries the
// taxonomy code, the id of the offending record (as UserData, so callers
// can recover it without re-parsing the message), and an optional wrapped
// error from the backend.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: id %v", e.Code, e.UserData)
	}
	return fmt.Errorf("%s: id %v: %w", e.Code, e.UserData, e.Err).Error()
}

// Unwrap allows errors.Is/errors.As to reach a wrapped backend error.
func (e Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, id any, err error) Error {
	return Error{Code: code, Err: err, UserData: id}
}

// stringOf formats an id for inclusion in an error message, using
// fmt.Stringer when available and falling back to a generic format
// otherwise.
func stringOf(id any) string {
	if s, ok := id.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", id)
}
