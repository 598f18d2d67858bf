package nfa

import (
	"fmt"

	"github.com/coregx/antimirov/internal/bitset"
	"github.com/coregx/antimirov/letterset"
	"github.com/coregx/antimirov/lettermap"
)

// Builder constructs an NFA's state graph incrementally. Compile uses
// it to implement Thompson construction over an rx.Rx; it is exported
// so other callers can build or patch a graph by hand.
type Builder struct {
	states    []State
	start     StateID
	maxStates int
}

// NewBuilder returns a Builder with no states and no bound on the
// number of states it will accept.
func NewBuilder() *Builder {
	return NewBuilderWithLimit(0)
}

// NewBuilderWithLimit returns a Builder that refuses (via Build) to
// exceed maxStates states. A limit of 0 means unbounded.
func NewBuilderWithLimit(maxStates int) *Builder {
	return &Builder{
		states:    make([]State, 0, 16),
		start:     InvalidState,
		maxStates: maxStates,
	}
}

// AddMatch adds an accepting state and returns its id.
func (b *Builder) AddMatch() StateID {
	return b.add(State{kind: StateMatch})
}

// AddFail adds a dead state with no transitions and returns its id.
func (b *Builder) AddFail() StateID {
	return b.add(State{kind: StateFail})
}

// AddConsume adds a state that transitions to next on any character
// in set, and returns its id.
func (b *Builder) AddConsume(set letterset.LetterSet, next StateID) StateID {
	return b.add(State{kind: StateConsume, set: set, next: next})
}

// AddSplit adds a state with epsilon transitions to left and right,
// and returns its id.
func (b *Builder) AddSplit(left, right StateID) StateID {
	return b.add(State{kind: StateSplit, left: left, right: right})
}

// AddEpsilon adds a state with a single epsilon transition to next,
// and returns its id.
func (b *Builder) AddEpsilon(next StateID) StateID {
	return b.add(State{kind: StateEpsilon, next: next})
}

func (b *Builder) add(s State) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, s)
	return id
}

// Patch retargets a Consume or Epsilon state's single successor.
func (b *Builder) Patch(id, target StateID) error {
	if int(id) >= len(b.states) {
		return &BuildError{Message: "state id out of bounds", StateID: id}
	}
	s := &b.states[id]
	switch s.kind {
	case StateConsume, StateEpsilon:
		s.next = target
		return nil
	default:
		return &BuildError{Message: fmt.Sprintf("cannot patch state of kind %s", s.kind), StateID: id}
	}
}

// PatchSplit retargets a Split state's two successors.
func (b *Builder) PatchSplit(id, left, right StateID) error {
	if int(id) >= len(b.states) {
		return &BuildError{Message: "state id out of bounds", StateID: id}
	}
	s := &b.states[id]
	if s.kind != StateSplit {
		return &BuildError{Message: fmt.Sprintf("expected Split state, got %s", s.kind), StateID: id}
	}
	s.left, s.right = left, right
	return nil
}

// SetStart sets the NFA's start state.
func (b *Builder) SetStart(start StateID) { b.start = start }

// States returns the current number of states.
func (b *Builder) States() int { return len(b.states) }

// Validate checks that the graph is well-formed: the start state is
// set and every state's successors refer to existing states.
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set"}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{Message: "start state out of bounds", StateID: b.start}
	}
	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case StateConsume, StateEpsilon:
			if int(s.next) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid next state %d", s.next), StateID: id}
			}
		case StateSplit:
			if int(s.left) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid left state %d", s.left), StateID: id}
			}
			if int(s.right) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid right state %d", s.right), StateID: id}
			}
		}
	}
	return nil
}

// Build finalizes the graph into an immutable, executable Nfa,
// precomputing epsilon closures and per-state transition tables.
func (b *Builder) Build() (*Nfa, error) {
	if b.maxStates > 0 && len(b.states) > b.maxStates {
		return nil, &CompileError{Err: ErrTooManyStates}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	n := len(b.states)
	closures := make([]*bitset.BitSet, n)
	for i := range b.states {
		closures[i] = epsilonClosure(b.states, StateID(i))
	}

	accept := bitset.New(n)
	edges := make([]lettermap.LetterMap[*bitset.BitSet], n)
	for i, s := range b.states {
		if s.kind == StateMatch {
			accept.Set(i)
		}
		if s.kind == StateConsume {
			edges[i] = buildEdgeTable(s, closures)
		} else {
			edges[i] = lettermap.Empty[*bitset.BitSet]()
		}
	}

	return &Nfa{
		states:  append([]State(nil), b.states...),
		start:   b.start,
		size:    n,
		closure: closures,
		edges:   edges,
		accept:  accept,
	}, nil
}
