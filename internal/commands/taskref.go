package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses a task id from args.
//
// Accepted forms: "12" and "#12". Exactly one argument is expected;
// ids must be positive.
func ParseTaskID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("too many arguments: %s", strings.Join(args, " "))
	}

	ref := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	if ref == "" {
		return 0, ErrTaskIDRequired
	}
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
