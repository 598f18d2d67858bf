package nfa

import (
	"testing"

	"github.com/coregx/antimirov/letterset"
)

func TestBuilderValidateRejectsMissingStart(t *testing.T) {
	b := NewBuilder()
	b.AddMatch()
	if err := b.Validate(); err == nil {
		t.Fatalf("expected error for unset start state")
	}
}

func TestBuilderValidateRejectsDanglingReference(t *testing.T) {
	b := NewBuilder()
	match := b.AddMatch()
	consume := b.AddConsume(letterset.FromChar('a'), StateID(99))
	b.SetStart(consume)
	_ = match
	if err := b.Validate(); err == nil {
		t.Fatalf("expected error for out-of-bounds next state")
	}
}

func TestBuilderPatchRetargetsConsume(t *testing.T) {
	b := NewBuilder()
	match := b.AddMatch()
	consume := b.AddConsume(letterset.FromChar('a'), InvalidState)
	if err := b.Patch(consume, match); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	b.SetStart(consume)
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate after patch: %v", err)
	}
}

func TestBuilderPatchWrongKindErrors(t *testing.T) {
	b := NewBuilder()
	match := b.AddMatch()
	if err := b.Patch(match, match); err == nil {
		t.Fatalf("expected error patching a Match state")
	}
}

func TestBuilderPatchSplitWrongKindErrors(t *testing.T) {
	b := NewBuilder()
	match := b.AddMatch()
	if err := b.PatchSplit(match, match, match); err == nil {
		t.Fatalf("expected error patch-splitting a non-Split state")
	}
}

func TestBuilderBuildEnforcesStateLimit(t *testing.T) {
	b := NewBuilderWithLimit(1)
	match := b.AddMatch()
	consume := b.AddConsume(letterset.FromChar('a'), match)
	b.SetStart(consume)
	if _, err := b.Build(); err == nil {
		t.Fatalf("expected ErrTooManyStates")
	}
}

// buildSimpleAB builds a tiny hand-wired NFA for the literal "ab",
// exercising the low-level Builder API directly rather than through
// Compile.
func buildSimpleAB(t *testing.T) *Nfa {
	t.Helper()
	b := NewBuilder()
	match := b.AddMatch()
	bState := b.AddConsume(letterset.FromChar('b'), match)
	aState := b.AddConsume(letterset.FromChar('a'), bState)
	b.SetStart(aState)
	n, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return n
}

func TestHandBuiltNfaAcceptsExactLiteral(t *testing.T) {
	n := buildSimpleAB(t)
	if !n.Accepts("ab") {
		t.Fatalf(`expected "ab" to be accepted`)
	}
	for _, s := range []string{"", "a", "abc", "ba"} {
		if n.Accepts(s) {
			t.Errorf("unexpected accept of %q", s)
		}
	}
}
