package errors

import "errors"

var (
	ErrInvalidRange = errors.New("start date must be before end date")

	ErrConflict = errors.New("booking dates overlap an existing booking")

	// ErrStorage marks any failure of the underlying booking medium.
	ErrStorage = errors.New("booking storage failure")

	ErrLockUnavailable = errors.New("hotel booking lock unavailable")

	// ErrLeaseExpired means the hotel lock's lease ran out before the
	// booking was saved, so the save was abandoned.
	ErrLeaseExpired = errors.New("hotel booking lock lease expired")
)
