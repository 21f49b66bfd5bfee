package command

import "strings"

// keyword -> expected token count including the keyword
var arity = map[string]int{
	"SET":      3,
	"GET":      2,
	"DELETE":   2,
	"COUNT":    2,
	"BEGIN":    1,
	"COMMIT":   1,
	"ROLLBACK": 1,
}

// Parse turns a command line into a Command. Tokens are separated by any
// run of whitespace and the keyword is case-insensitive.
func Parse(line string) (Command, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil, ErrEmptyInput
	}

	keyword := strings.ToUpper(args[0])
	want, ok := arity[keyword]
	if !ok {
		return nil, ErrUnsupportedCommand
	}
	if len(args) != want {
		return nil, ErrInvalidArgumentCount
	}

	switch keyword {
	case "SET":
		return Set{Key: args[1], Value: args[2]}, nil
	case "GET":
		return Get{Key: args[1]}, nil
	case "DELETE":
		return Delete{Key: args[1]}, nil
	case "COUNT":
		return Count{Value: args[1]}, nil
	case "BEGIN":
		return Begin{}, nil
	case "COMMIT":
		return Commit{}, nil
	case "ROLLBACK":
		return Rollback{}, nil
	default:
		return nil, ErrUnsupportedCommand
	}
}

// IsExit reports whether line asks the read loop to terminate
func IsExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "EXIT")
}
