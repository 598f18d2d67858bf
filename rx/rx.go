// Package rx defines the regex AST: Rx, a closed algebraic sum type of
// regex terms, and the smart constructors that keep it normalized.
//
// Like package nfa's State, Rx is a tagged struct with a kind
// discriminator rather than an open interface hierarchy: a single
// struct with a Kind field selecting which of its fields are
// meaningful. Smart constructors are the only way to build a non-zero
// Rx from outside the package, so the algebraic identities listed on
// the constructors below are enforced at construction time, never
// lazily.
package rx

import (
	"fmt"
	"strings"

	"github.com/coregx/antimirov/letterset"
	"github.com/coregx/antimirov/size"
)

// Kind discriminates the variant of an Rx node.
type Kind uint8

const (
	// KindPhi matches nothing: the empty language.
	KindPhi Kind = iota
	// KindEmpty matches only the empty string.
	KindEmpty
	// KindLetter matches exactly one specific character.
	KindLetter
	// KindLetters matches exactly one character from a LetterSet.
	KindLetters
	// KindConcat matches Sub[0] followed by Sub[1].
	KindConcat
	// KindChoice matches Sub[0] or Sub[1].
	KindChoice
	// KindStar matches zero or more repetitions of Sub[0].
	KindStar
	// KindRepeat matches between Lo and Hi repetitions of Sub[0].
	KindRepeat
	// KindVar is a placeholder reserved for fixed-point extensions.
	// It has no operational meaning: the NFA compiler rejects it.
	KindVar
)

// String names the Kind, for debugging.
func (k Kind) String() string {
	switch k {
	case KindPhi:
		return "Phi"
	case KindEmpty:
		return "Empty"
	case KindLetter:
		return "Letter"
	case KindLetters:
		return "Letters"
	case KindConcat:
		return "Concat"
	case KindChoice:
		return "Choice"
	case KindStar:
		return "Star"
	case KindRepeat:
		return "Repeat"
	case KindVar:
		return "Var"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Rx is an immutable, structurally-shared regex term. Rx values are
// freely shared between parent expressions (e.g. Concat(r, r) may
// reuse the same r) since nothing in the package ever mutates one
// after construction.
type Rx struct {
	kind Kind

	ch uint16 // KindLetter
	s  letterset.LetterSet

	sub [2]*Rx // KindConcat, KindChoice use both; KindStar, KindRepeat use sub[0]
	lo  uint64 // KindRepeat
	hi  size.Size

	varID int // KindVar
}

// Kind returns r's variant.
func (r *Rx) Kind() Kind { return r.kind }

// Char returns the matched character for a KindLetter node.
func (r *Rx) Char() uint16 { return r.ch }

// Letters returns the matched set for a KindLetters node.
func (r *Rx) Letters() letterset.LetterSet { return r.s }

// Subs returns the one or two sub-expressions of a Concat, Choice,
// Star, or Repeat node.
func (r *Rx) Subs() (a, b *Rx) { return r.sub[0], r.sub[1] }

// Bounds returns the repetition bounds of a KindRepeat node.
func (r *Rx) Bounds() (lo uint64, hi size.Size) { return r.lo, r.hi }

// VarID returns the identifier of a KindVar node.
func (r *Rx) VarID() int { return r.varID }

var (
	phi   = &Rx{kind: KindPhi}
	empty = &Rx{kind: KindEmpty}
)

// Phi returns the regex matching no string.
func Phi() *Rx { return phi }

// Empty returns the regex matching only the empty string.
func Empty() *Rx { return empty }

// Letter returns the regex matching exactly the character c.
func Letter(c uint16) *Rx {
	return &Rx{kind: KindLetter, ch: c}
}

// Letters returns the regex matching exactly one character from ls.
// An empty ls normalizes to Phi, and a singleton ls normalizes to
// Letter, keeping the AST minimal.
func Letters(ls letterset.LetterSet) *Rx {
	if ls.IsEmpty() {
		return Phi()
	}
	if rs := ls.Ranges(); len(rs) == 1 && rs[0].Lo == rs[0].Hi {
		return Letter(rs[0].Lo)
	}
	return &Rx{kind: KindLetters, s: ls}
}

// Concat returns the regex matching a followed by b, applying:
//
//	Empty . r = r . Empty = r
//	Phi   . r = r . Phi   = Phi
func Concat(a, b *Rx) *Rx {
	if a.kind == KindPhi || b.kind == KindPhi {
		return Phi()
	}
	if a.kind == KindEmpty {
		return b
	}
	if b.kind == KindEmpty {
		return a
	}
	return &Rx{kind: KindConcat, sub: [2]*Rx{a, b}}
}

// Choice returns the regex matching a or b, applying:
//
//	Phi + r = r + Phi = r
func Choice(a, b *Rx) *Rx {
	if a.kind == KindPhi {
		return b
	}
	if b.kind == KindPhi {
		return a
	}
	return &Rx{kind: KindChoice, sub: [2]*Rx{a, b}}
}

// Star returns the regex matching zero or more repetitions of a,
// applying:
//
//	Star(Star(r)) = Star(r)
//	Star(Empty)   = Empty
//	Star(Phi)     = Empty
func Star(a *Rx) *Rx {
	switch a.kind {
	case KindStar:
		return a
	case KindEmpty, KindPhi:
		return Empty()
	}
	return &Rx{kind: KindStar, sub: [2]*Rx{a, nil}}
}

// Opt returns the regex matching a or the empty string: sugar for
// Choice(a, Empty()).
func Opt(a *Rx) *Rx { return Choice(a, Empty()) }

// OneOrMore returns the regex matching one or more repetitions of a:
// sugar for Concat(a, Star(a)).
func OneOrMore(a *Rx) *Rx { return Concat(a, Star(a)) }

// Repeat returns the regex matching between lo and hi repetitions of
// a (0 <= lo <= hi, hi may be size.Infinity). Repeat(a, 0, Infinity)
// normalizes to Star(a); Repeat(a, 0, 0) normalizes to Empty.
func Repeat(a *Rx, lo uint64, hi size.Size) *Rx {
	if hi.IsInfinite() {
		if lo == 0 {
			return Star(a)
		}
		return &Rx{kind: KindRepeat, sub: [2]*Rx{a, nil}, lo: lo, hi: hi}
	}
	if hi.Less(size.FromUint64(lo)) {
		panic("rx: Repeat requires lo <= hi")
	}
	if lo == 0 && hi.Equal(size.Zero) {
		return Empty()
	}
	return &Rx{kind: KindRepeat, sub: [2]*Rx{a, nil}, lo: lo, hi: hi}
}

// Var returns the placeholder regex term with the given identifier.
// It is reserved for fixed-point extensions and carries no
// operational meaning on its own: the NFA compiler rejects it.
func Var(id int) *Rx {
	return &Rx{kind: KindVar, varID: id}
}

// Equal reports structural equality between two Rx trees.
func (r *Rx) Equal(o *Rx) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil || r.kind != o.kind {
		return false
	}
	switch r.kind {
	case KindPhi, KindEmpty:
		return true
	case KindLetter:
		return r.ch == o.ch
	case KindLetters:
		return r.s.Equal(o.s)
	case KindConcat, KindChoice:
		return r.sub[0].Equal(o.sub[0]) && r.sub[1].Equal(o.sub[1])
	case KindStar:
		return r.sub[0].Equal(o.sub[0])
	case KindRepeat:
		return r.lo == o.lo && r.hi.Equal(o.hi) && r.sub[0].Equal(o.sub[0])
	case KindVar:
		return r.varID == o.varID
	}
	return false
}

// Nullable reports whether the empty string is in the language of r,
// computed recursively on r's structure.
func (r *Rx) Nullable() bool {
	switch r.kind {
	case KindPhi, KindLetter, KindLetters:
		return false
	case KindEmpty, KindStar:
		return true
	case KindConcat:
		return r.sub[0].Nullable() && r.sub[1].Nullable()
	case KindChoice:
		return r.sub[0].Nullable() || r.sub[1].Nullable()
	case KindRepeat:
		return r.lo == 0 || r.sub[0].Nullable()
	case KindVar:
		return false
	}
	return false
}

// String renders r's structure for debugging. This is not regex
// pretty-printing (that's out of scope here); it's a plain
// Kind-dispatched Stringer, the same shape as nfa.StateKind.String().
func (r *Rx) String() string {
	var b strings.Builder
	r.writeTo(&b)
	return b.String()
}

func (r *Rx) writeTo(b *strings.Builder) {
	switch r.kind {
	case KindPhi:
		b.WriteString("∅")
	case KindEmpty:
		b.WriteString("ε")
	case KindLetter:
		fmt.Fprintf(b, "%q", rune(r.ch))
	case KindLetters:
		b.WriteString(r.s.String())
	case KindConcat:
		b.WriteByte('(')
		r.sub[0].writeTo(b)
		b.WriteString(" . ")
		r.sub[1].writeTo(b)
		b.WriteByte(')')
	case KindChoice:
		b.WriteByte('(')
		r.sub[0].writeTo(b)
		b.WriteString(" | ")
		r.sub[1].writeTo(b)
		b.WriteByte(')')
	case KindStar:
		r.sub[0].writeTo(b)
		b.WriteByte('*')
	case KindRepeat:
		r.sub[0].writeTo(b)
		if r.hi.IsInfinite() {
			fmt.Fprintf(b, "{%d,}", r.lo)
		} else {
			fmt.Fprintf(b, "{%d,%s}", r.lo, r.hi.String())
		}
	case KindVar:
		fmt.Fprintf(b, "Var(%d)", r.varID)
	}
}
