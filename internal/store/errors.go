package store

import "errors"

// ErrNotFound is returned when a record does not exist or its identifier is malformed.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique key (user email) is already taken.
var ErrDuplicate = errors.New("duplicate")
