// Package command parses text command lines and executes them against a
// transactional store.
package command

// Command is one of Set, Get, Delete, Count, Begin, Commit or Rollback.
type Command interface {
	command()
}

// Set upserts Key to Value
type Set struct {
	Key   string
	Value string
}

// Get reads Key
type Get struct {
	Key string
}

// Delete removes Key
type Delete struct {
	Key string
}

// Count counts keys mapped to Value
type Count struct {
	Value string
}

// Begin opens a nested transaction
type Begin struct{}

// Commit folds the active transaction into its parent
type Commit struct{}

// Rollback discards the active transaction
type Rollback struct{}

func (Set) command()      {}
func (Get) command()      {}
func (Delete) command()   {}
func (Count) command()    {}
func (Begin) command()    {}
func (Commit) command()   {}
func (Rollback) command() {}

// Name returns the keyword that produces cmd
func Name(cmd Command) string {
	switch cmd.(type) {
	case Set:
		return "SET"
	case Get:
		return "GET"
	case Delete:
		return "DELETE"
	case Count:
		return "COUNT"
	case Begin:
		return "BEGIN"
	case Commit:
		return "COMMIT"
	case Rollback:
		return "ROLLBACK"
	default:
		return "UNKNOWN"
	}
}
