package storage

import "errors"

var (
	// ErrKeyNotFound indicates a read of a key absent from the active scope
	ErrKeyNotFound = errors.New("key not set")

	// ErrKeyNotDeletable indicates a delete of a key absent from the active scope
	ErrKeyNotDeletable = errors.New("not existed key to delete")

	// ErrNoActiveTransaction indicates commit or rollback with only the root scope open
	ErrNoActiveTransaction = errors.New("no transaction")
)
