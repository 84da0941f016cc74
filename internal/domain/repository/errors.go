package repository

import "errors"

var (
	// ErrDuplicateSlot is returned when an insert or update trips the unique
	// (doctor_id, date, time) index. The index is the authoritative conflict
	// guard; application-level reads exist only to produce friendly output.
	ErrDuplicateSlot = errors.New("appointment slot already taken")

	// ErrTransient wraps infrastructure failures (connection loss, timeouts)
	// so callers can tell a retryable storage fault from a domain decline.
	ErrTransient = errors.New("transient storage error")
)
