package focus

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ContractError. Compare with errors.Is.
var (
	// ErrCycle is returned when a reparent would make a node its own ancestor.
	ErrCycle = errors.New("focus: node is already an ancestor of the new parent")

	// ErrReparentRoot is returned when the manager's root scope is moved.
	ErrReparentRoot = errors.New("focus: the root scope cannot be reparented")

	// ErrNoParent is returned when a reparent has neither an explicit parent
	// nor a host able to supply one.
	ErrNoParent = errors.New("focus: no parent could be resolved")
)

// ContractError reports misuse of the focus tree. The tree is left exactly
// as it was before the failing call.
type ContractError struct {
	Op     string // Operation that failed ("reparent", "autofocus", ...)
	Node   string // Node being operated on
	Parent string // Proposed parent, if any
	Err    error  // One of the sentinel errors above
}

func (e *ContractError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Node, e.Err)
	}
	return fmt.Sprintf("%s %s under %s: %v", e.Op, e.Node, e.Parent, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

// debugAssertions turns contract violations into panics.
var debugAssertions bool

// SetDebugAssertions makes contract violations panic instead of returning
// an error. Enable it in tests and debug builds.
func SetDebugAssertions(on bool) {
	debugAssertions = on
}

// contractViolation logs err and panics if debug assertions are on.
func contractViolation(err *ContractError) error {
	focusLogger.Warn("focus contract violation", "op", err.Op, "node", err.Node, "parent", err.Parent, "err", err.Err)
	if debugAssertions {
		panic(err)
	}
	return err
}
