package services

import (
	"errors"
	"time"
)

// ErrInvalid wraps model validation failures that slipped past the request schema.
var ErrInvalid = errors.New("invalid record")

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}
