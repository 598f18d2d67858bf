package nfa

import (
	"fmt"
	"unicode/utf16"

	"github.com/coregx/antimirov/internal/bitset"
	"github.com/coregx/antimirov/letterset"
	"github.com/coregx/antimirov/lettermap"
)

// StateID uniquely identifies a state within one NFA.
type StateID uint32

// InvalidState represents an invalid or uninitialized state ID.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the variant of an NFA state.
type StateKind uint8

const (
	// StateFail is a dead state with no transitions: the compiled form
	// of Phi.
	StateFail StateKind = iota
	// StateMatch is an accepting state.
	StateMatch
	// StateConsume transitions to next on any character in set.
	StateConsume
	// StateSplit has two epsilon transitions (alternation, loop entry).
	StateSplit
	// StateEpsilon has a single epsilon transition.
	StateEpsilon
)

func (k StateKind) String() string {
	switch k {
	case StateFail:
		return "Fail"
	case StateMatch:
		return "Match"
	case StateConsume:
		return "Consume"
	case StateSplit:
		return "Split"
	case StateEpsilon:
		return "Epsilon"
	default:
		return fmt.Sprintf("StateKind(%d)", k)
	}
}

// State is one node of the Thompson construction graph. Its kind
// selects which fields are meaningful.
type State struct {
	kind StateKind

	set  letterset.LetterSet // StateConsume
	next StateID             // StateConsume, StateEpsilon

	left, right StateID // StateSplit
}

// Kind returns the state's variant.
func (s State) Kind() StateKind { return s.kind }

func (s State) String() string {
	switch s.kind {
	case StateFail:
		return "Fail"
	case StateMatch:
		return "Match"
	case StateConsume:
		return fmt.Sprintf("Consume(%s -> %d)", s.set, s.next)
	case StateSplit:
		return fmt.Sprintf("Split(%d, %d)", s.left, s.right)
	case StateEpsilon:
		return fmt.Sprintf("Epsilon(%d)", s.next)
	default:
		return "?"
	}
}

// Nfa is an immutable, compiled Thompson NFA. It is executed by the
// simultaneous-state simulation in Accepts: a bitset.BitSet of active
// states is advanced one input character at a time, following
// precomputed epsilon closures and per-state transition tables so
// that no backtracking, and no per-character epsilon traversal, is
// needed at match time.
type Nfa struct {
	states []State
	start  StateID
	size   int

	// closure[i] is the epsilon-closure of state i (including i
	// itself), precomputed once at build time.
	closure []*bitset.BitSet

	// edges[i] is populated only for Consume states: it maps a
	// consumed character to the epsilon-closure of that state's
	// target, folded from the (possibly multi-range) LetterSet via
	// lettermap.Merge.
	edges []lettermap.LetterMap[*bitset.BitSet]

	// accept has bit i set iff states[i] is a Match state.
	accept *bitset.BitSet
}

// Size returns the number of states in the compiled NFA.
func (n *Nfa) Size() int { return n.size }

// Start returns the id of the NFA's start state.
func (n *Nfa) Start() StateID { return n.start }

// State returns the state with the given id.
func (n *Nfa) State(id StateID) State { return n.states[id] }

// Accepts reports whether s is in the language of the compiled
// pattern. Characters are 16-bit code units: s is encoded with
// unicode/utf16 before matching, so a rune outside the Basic
// Multilingual Plane is treated as two independent surrogate code
// units, exactly as the parser treats pattern text.
func (n *Nfa) Accepts(s string) bool {
	units := utf16.Encode([]rune(s))
	active := n.closure[n.start].Copy()
	for _, c := range units {
		next := bitset.New(n.size)
		active.Iter(func(i int) {
			if target, ok := n.edges[i].Get(c); ok {
				next.UnionInPlace(target)
			}
		})
		active = next
		if active.IsEmpty() {
			return false
		}
	}
	return active.IntersectsNonEmpty(n.accept)
}

// Rejects is the complement of Accepts.
func (n *Nfa) Rejects(s string) bool { return !n.Accepts(s) }

// epsilonClosure computes the set of states reachable from start by
// following only Split and Epsilon edges (inclusive of start). result
// itself doubles as the "already queued" test: a state only needs
// pushing onto the worklist the first time its bit is set, so a
// densely-connected fragment is visited in O(states + edges) rather
// than being rescanned on every duplicate discovery.
func epsilonClosure(states []State, start StateID) *bitset.BitSet {
	result := bitset.New(len(states))

	worklist := make([]StateID, 0, 8)
	push := func(id StateID) {
		if !result.Test(int(id)) {
			result.Set(int(id))
			worklist = append(worklist, id)
		}
	}

	push(start)
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		switch states[id].kind {
		case StateEpsilon:
			push(states[id].next)
		case StateSplit:
			push(states[id].left)
			push(states[id].right)
		}
	}
	return result
}

// unionBitsets returns the union of a and b, treating a nil operand
// (no prior contribution at this character) as the empty set.
func unionBitsets(a, b *bitset.BitSet) *bitset.BitSet {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := a.Copy()
	out.UnionInPlace(b)
	return out
}

// buildEdgeTable folds a Consume state's (possibly multi-range)
// LetterSet into a LetterMap from character to the epsilon-closure of
// the state's target, so that Accepts can look up a character's
// contribution in one binary search instead of re-testing every range.
func buildEdgeTable(s State, closures []*bitset.BitSet) lettermap.LetterMap[*bitset.BitSet] {
	target := closures[s.next]
	table := lettermap.Empty[*bitset.BitSet]()
	for _, r := range s.set.Ranges() {
		table = lettermap.Merge(table, lettermap.Single(r.Lo, r.Hi, target), unionBitsets)
	}
	return table
}
