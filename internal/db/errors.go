package db

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names the store operation that failed.
type Op string

const (
	// OpGet is a key read.
	OpGet Op = "get"
	// OpSet is a key write.
	OpSet Op = "set"
	// OpPing is a connectivity check.
	OpPing Op = "ping"
)

// Error wraps a store failure with the operation that caused it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("db: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
