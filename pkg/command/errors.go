package command

import (
	"errors"

	"github.com/nainya/txkv/pkg/storage"
)

var (
	// ErrEmptyInput indicates a blank or whitespace-only line
	ErrEmptyInput = errors.New("please write a command")

	// ErrUnsupportedCommand indicates an unknown command keyword
	ErrUnsupportedCommand = errors.New("command not supported")

	// ErrInvalidArgumentCount indicates a known keyword with the wrong number of arguments
	ErrInvalidArgumentCount = errors.New("invalid command args")
)

// known error kinds, in the order Message checks them
var known = []error{
	storage.ErrKeyNotFound,
	storage.ErrKeyNotDeletable,
	storage.ErrNoActiveTransaction,
	ErrEmptyInput,
	ErrUnsupportedCommand,
	ErrInvalidArgumentCount,
}

// Message returns the single-line text shown to the user for err. Wrapped
// errors of a known kind are reported with the kind's text alone.
func Message(err error) string {
	for _, kind := range known {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return err.Error()
}
