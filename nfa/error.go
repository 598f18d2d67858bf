// Package nfa builds and executes Thompson NFAs over rx.Rx terms.
//
// Construction follows the classic fragment-with-dangling-output
// style: compiling a term returns the id of its entry state, after
// patching every path through the fragment to flow into a
// caller-supplied "out" state. Execution is the simultaneous-state
// ("bitset") simulation: the set of currently active states is a
// bitset.BitSet, advanced one input character at a time with no
// backtracking, giving O(len(pattern) * len(input)) worst-case time
// regardless of pattern shape.
package nfa

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTerm indicates a term compile cannot turn into NFA
	// states, such as an unresolved Var placeholder.
	ErrUnsupportedTerm = errors.New("nfa: unsupported term")

	// ErrTooManyStates indicates compilation exceeded the configured
	// state budget, most often from unfolding a bounded repetition
	// with a very large upper bound.
	ErrTooManyStates = errors.New("nfa: too many states")
)

// CompileError wraps a compilation failure with the term that caused it.
type CompileError struct {
	Term string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Term != "" {
		return fmt.Sprintf("nfa: compilation failed for %s: %v", e.Term, e.Err)
	}
	return fmt.Sprintf("nfa: compilation failed: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// BuildError reports a problem in the low-level Builder API, such as
// patching a nonexistent or wrong-kind state.
type BuildError struct {
	Message string
	StateID StateID
}

func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("nfa: build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("nfa: build error: %s", e.Message)
}
