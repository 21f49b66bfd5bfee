package command

import (
	"fmt"
	"strconv"
)

// Store is the transactional key-value store commands run against
type Store interface {
	Get(key string) (string, error)
	Set(key, value string)
	Delete(key string) error
	Count(value string) int
	Begin()
	Commit() error
	Rollback() error
}

// Result is the outcome of a successful command. An empty Output means the
// command prints nothing.
type Result struct {
	Output string
}

// Execute runs cmd against store. A failed command leaves store unchanged.
func Execute(store Store, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case Set:
		store.Set(c.Key, c.Value)
		return Result{}, nil
	case Get:
		val, err := store.Get(c.Key)
		if err != nil {
			return Result{}, err
		}
		return Result{Output: val}, nil
	case Delete:
		return Result{}, store.Delete(c.Key)
	case Count:
		return Result{Output: strconv.Itoa(store.Count(c.Value))}, nil
	case Begin:
		store.Begin()
		return Result{}, nil
	case Commit:
		return Result{}, store.Commit()
	case Rollback:
		return Result{}, store.Rollback()
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnsupportedCommand, cmd)
	}
}

// Run parses line and executes it against store
func Run(store Store, line string) (Command, Result, error) {
	cmd, err := Parse(line)
	if err != nil {
		return nil, Result{}, err
	}

	res, err := Execute(store, cmd)
	return cmd, res, err
}
