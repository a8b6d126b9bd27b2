package hhapi

import (
	"errors"
	"fmt"
)

// ErrConnectionFailed matches every *ConnectionError via errors.Is.
var ErrConnectionFailed = errors.New("hh api connection failed")

// ConnectionError reports a transport failure or an error status from the
// API.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConnectionFailed, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnectionFailed
}

// StatusError is returned for responses with a 4xx or 5xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d", e.StatusCode)
}
