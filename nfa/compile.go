package nfa

import (
	"github.com/coregx/antimirov/letterset"
	"github.com/coregx/antimirov/rx"
	"github.com/coregx/antimirov/size"
)

// CompileOption configures a single call to Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	maxStates int
}

// WithMaxStates bounds the number of states the compiled NFA may have:
// Compile builds the whole state graph first and then fails with
// ErrTooManyStates if it has more than n states. A bounded repetition
// with a huge upper bound is the usual way to hit this; zero (the
// default) means unbounded.
func WithMaxStates(n int) CompileOption {
	return func(c *compileConfig) { c.maxStates = n }
}

// Compile builds the Thompson NFA for r using fragment-style
// construction: compiling a subterm returns the id of its entry
// state, having already patched every path through it to flow into
// the caller-supplied out state. The single Match state is created
// once and shared; each Phi subterm gets its own Fail state.
func Compile(r *rx.Rx, opts ...CompileOption) (*Nfa, error) {
	cfg := compileConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := NewBuilderWithLimit(cfg.maxStates)
	match := b.AddMatch()
	start, err := compileFragment(b, r, match)
	if err != nil {
		return nil, err
	}
	b.SetStart(start)
	return b.Build()
}

// compileFragment compiles r into a fragment whose every accepting
// path flows into out, and returns the fragment's entry state.
func compileFragment(b *Builder, r *rx.Rx, out StateID) (StateID, error) {
	switch r.Kind() {
	case rx.KindPhi:
		return b.AddFail(), nil

	case rx.KindEmpty:
		return b.AddEpsilon(out), nil

	case rx.KindLetter:
		return b.AddConsume(letterset.FromChar(r.Char()), out), nil

	case rx.KindLetters:
		return b.AddConsume(r.Letters(), out), nil

	case rx.KindConcat:
		a, c := r.Subs()
		mid, err := compileFragment(b, c, out)
		if err != nil {
			return InvalidState, err
		}
		return compileFragment(b, a, mid)

	case rx.KindChoice:
		a, c := r.Subs()
		left, err := compileFragment(b, a, out)
		if err != nil {
			return InvalidState, err
		}
		right, err := compileFragment(b, c, out)
		if err != nil {
			return InvalidState, err
		}
		return b.AddSplit(left, right), nil

	case rx.KindStar:
		a, _ := r.Subs()
		loop := b.AddSplit(InvalidState, out)
		body, err := compileFragment(b, a, loop)
		if err != nil {
			return InvalidState, err
		}
		if err := b.PatchSplit(loop, body, out); err != nil {
			return InvalidState, err
		}
		return loop, nil

	case rx.KindRepeat:
		a, _ := r.Subs()
		lo, hi := r.Bounds()
		unfolded, err := unfoldRepeat(a, lo, hi)
		if err != nil {
			return InvalidState, err
		}
		return compileFragment(b, unfolded, out)

	case rx.KindVar:
		return InvalidState, &CompileError{Term: r.String(), Err: ErrUnsupportedTerm}
	}

	return InvalidState, &CompileError{Term: r.String(), Err: ErrUnsupportedTerm}
}

// unfoldRepeat rewrites a bounded or lower-bounded repetition into an
// equivalent term built only from Concat, Choice, Star, and Empty, so
// compileFragment never has to special-case KindRepeat's bounds.
//
// With hi == Infinity: a{lo,} = a^lo . a*.
// With hi finite: a{lo,hi} = a^lo . (a?)^(hi-lo), the classic
// expansion of a bounded repeat into lo mandatory copies followed by
// hi-lo optional ones.
//
// Repeat already rejects lo > hi and normalizes the {0,0} and {0,∞}
// cases to Empty and Star respectively, so unfoldRepeat only ever
// sees a genuine KindRepeat term with a nonzero, finite amount of
// unfolding to do.
func unfoldRepeat(a *rx.Rx, lo uint64, hi size.Size) (*rx.Rx, error) {
	if hi.IsInfinite() {
		return rx.Concat(concatN(a, lo), rx.Star(a)), nil
	}
	hiN, ok := hi.Uint64()
	if !ok {
		return nil, &CompileError{Err: ErrTooManyStates}
	}
	extra := hiN - lo
	return rx.Concat(concatN(a, lo), concatN(rx.Opt(a), extra)), nil
}

// concatN returns a concatenated with itself n times (Empty for n == 0).
func concatN(a *rx.Rx, n uint64) *rx.Rx {
	result := rx.Empty()
	for i := uint64(0); i < n; i++ {
		result = rx.Concat(result, a)
	}
	return result
}
