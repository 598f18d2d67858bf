// Package literal extracts required literal substrings from a
// compiled rx.Rx term for prefilter optimization.
package literal

import (
	"unicode/utf8"

	"github.com/coregx/antimirov/letterset"
	"github.com/coregx/antimirov/rx"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the maximum number of literals to extract.
	MaxLiterals int

	// MaxLiteralLen limits the maximum length of each extracted literal, in bytes.
	MaxLiteralLen int

	// MaxClassSize limits the number of characters a LetterSet may
	// have before it is left unexpanded.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts literal sequences from an rx.Rx term: substrings
// that must appear at the start, end, or somewhere in every matching
// string. These enable fast prefiltering (via Aho-Corasick, see the
// prefilter package) before running the NFA.
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns the literals that must appear at the start
// of any match, or an empty Seq if no prefix can be determined.
func (e *Extractor) ExtractPrefixes(r *rx.Rx) *Seq {
	return e.extractPrefixes(r, 0)
}

func (e *Extractor) extractPrefixes(r *rx.Rx, depth int) *Seq {
	if depth > 100 {
		return NewSeq()
	}
	switch r.Kind() {
	case rx.KindLetter:
		return e.literalOf(r)
	case rx.KindLetters:
		return e.expandLetterSet(r.Letters())
	case rx.KindConcat:
		return e.prefixesFromParts(flattenConcat(r), depth)
	case rx.KindChoice:
		a, b := r.Subs()
		if a.Nullable() || b.Nullable() {
			// One branch matches the empty string, so no nonempty
			// literal is a sound prefix of the whole choice: union
			// would otherwise silently drop that branch and make the
			// other's prefix look mandatory. This is how Choice(r,
			// Empty) (an optional term) loses its prefix too, since
			// Opt desugars to exactly that.
			return NewSeq()
		}
		ea := e.extractPrefixes(a, depth+1)
		eb := e.extractPrefixes(b, depth+1)
		if ea.IsEmpty() || eb.IsEmpty() {
			// Choice never constructs a Phi branch (Choice(Phi, x) = x,
			// see rx.Choice), so a or b here is a genuinely reachable
			// term. An empty extraction from a reachable branch means
			// that branch can match without any of the literals the
			// other branch found, so the whole choice has none either
			// — unionLimited must not be given the chance to treat the
			// empty side as "contributes nothing" and keep the other's
			// literal as if it bound the whole term.
			return NewSeq()
		}
		return e.unionLimited(ea, eb)
	default:
		// Phi, Empty, Star, Repeat, Var: no reliable prefix. Star and
		// Repeat are conservative even when the lower bound is
		// nonzero, mirroring how an unbounded quantifier is treated:
		// the prefix is only useful when every path through the term
		// shares it.
		return NewSeq()
	}
}

// prefixesFromParts extracts the prefix of a flattened concatenation:
// the leading run of single-character atoms (Letters and small
// classes), cross-producted into one literal per combination, or (if
// there is no such run) the prefix of the first part, marked
// incomplete when more parts follow.
func (e *Extractor) prefixesFromParts(parts []*rx.Rx, depth int) *Seq {
	if len(parts) == 0 {
		return NewSeq()
	}

	if run, consumed := e.literalRun(parts); !run.IsEmpty() {
		if consumed != len(parts) {
			run = markIncomplete(run)
		}
		return run
	}

	first := e.extractPrefixes(parts[0], depth+1)
	if first.Len() > 0 && len(parts) > 1 {
		return markIncomplete(first)
	}
	return first
}

// literalRun cross-products the maximal run of single-character atoms
// (a Letter, or a Letters class small enough to expand) at the front
// of parts into a Seq of candidate literals, stopping at the first
// part that isn't such an atom, once MaxLiterals candidates have been
// produced, or once a candidate would exceed MaxLiteralLen bytes. It
// returns an empty Seq (consumed 0) if parts doesn't start with a
// usable atom at all.
func (e *Extractor) literalRun(parts []*rx.Rx) (run *Seq, consumed int) {
	candidates := []Literal{NewLiteral(nil, true)}
	for _, p := range parts {
		chars, ok := e.atomChars(p)
		if !ok {
			break
		}
		next, fits := e.extendCandidates(candidates, chars)
		if !fits {
			break
		}
		candidates = next
		consumed++
	}
	if consumed == 0 {
		return NewSeq(), 0
	}
	return NewSeq(candidates...), consumed
}

// extendCandidates appends each of chars to the end of every existing
// candidate, reporting fits=false (and the unmodified accumulation so
// far) if doing so would exceed MaxLiteralLen or MaxLiterals.
func (e *Extractor) extendCandidates(candidates []Literal, chars [][]byte) (next []Literal, fits bool) {
	for _, cand := range candidates {
		for _, ch := range chars {
			if len(cand.Bytes)+len(ch) > e.config.MaxLiteralLen {
				return nil, false
			}
			buf := append(append([]byte(nil), cand.Bytes...), ch...)
			next = append(next, NewLiteral(buf, true))
			if len(next) > e.config.MaxLiterals {
				return nil, false
			}
		}
	}
	return next, true
}

// atomChars returns the character(s) p may contribute to a literal
// run: a single character for a Letter, or every member of a Letters
// class small enough (MaxClassSize) to expand. ok is false for any
// other term, or for a lone surrogate half that can't be
// independently encoded.
func (e *Extractor) atomChars(p *rx.Rx) (chars [][]byte, ok bool) {
	switch p.Kind() {
	case rx.KindLetter:
		b, ok := encodeChar(p.Char())
		if !ok {
			return nil, false
		}
		return [][]byte{b}, true
	case rx.KindLetters:
		ls := p.Letters()
		count := 0
		for _, r := range ls.Ranges() {
			count += int(r.Hi) - int(r.Lo) + 1
		}
		if count == 0 || count > e.config.MaxClassSize {
			return nil, false
		}
		for _, r := range ls.Ranges() {
			for c := uint32(r.Lo); c <= uint32(r.Hi); c++ {
				if b, ok := encodeChar(uint16(c)); ok {
					chars = append(chars, b)
				}
			}
		}
		return chars, len(chars) > 0
	default:
		return nil, false
	}
}

// ExtractSuffixes returns the literals that must appear at the end of
// any match, or an empty Seq if no suffix can be determined.
func (e *Extractor) ExtractSuffixes(r *rx.Rx) *Seq {
	return e.extractSuffixes(r, 0)
}

func (e *Extractor) extractSuffixes(r *rx.Rx, depth int) *Seq {
	if depth > 100 {
		return NewSeq()
	}
	switch r.Kind() {
	case rx.KindLetter:
		return e.literalOf(r)
	case rx.KindLetters:
		return e.expandLetterSet(r.Letters())
	case rx.KindConcat:
		return e.suffixesFromParts(flattenConcat(r), depth)
	case rx.KindChoice:
		a, b := r.Subs()
		if a.Nullable() || b.Nullable() {
			return NewSeq()
		}
		ea := e.extractSuffixes(a, depth+1)
		eb := e.extractSuffixes(b, depth+1)
		if ea.IsEmpty() || eb.IsEmpty() {
			// See extractPrefixes: a and b are guaranteed reachable
			// (rx.Choice never keeps a Phi branch), so an empty
			// extraction from either means that branch can match
			// without the other's suffix, and the whole choice has none.
			return NewSeq()
		}
		return e.unionLimited(ea, eb)
	default:
		return NewSeq()
	}
}

func (e *Extractor) suffixesFromParts(parts []*rx.Rx, depth int) *Seq {
	if len(parts) == 0 {
		return NewSeq()
	}

	if run, consumed := e.trailingRun(parts); !run.IsEmpty() {
		if consumed != len(parts) {
			run = markIncomplete(run)
		}
		return run
	}

	last := e.extractSuffixes(parts[len(parts)-1], depth+1)
	if last.Len() > 0 && len(parts) > 1 {
		return markIncomplete(last)
	}
	return last
}

// trailingRun is literalRun's mirror image: it cross-products the
// maximal run of single-character atoms at the back of parts,
// prepending each new character to every existing candidate.
func (e *Extractor) trailingRun(parts []*rx.Rx) (run *Seq, consumed int) {
	candidates := []Literal{NewLiteral(nil, true)}
	for i := len(parts) - 1; i >= 0; i-- {
		chars, ok := e.atomChars(parts[i])
		if !ok {
			break
		}
		next, fits := e.prependCandidates(candidates, chars)
		if !fits {
			break
		}
		candidates = next
		consumed++
	}
	if consumed == 0 {
		return NewSeq(), 0
	}
	return NewSeq(candidates...), consumed
}

// prependCandidates is extendCandidates' mirror image: it prepends
// each of chars to the front of every existing candidate.
func (e *Extractor) prependCandidates(candidates []Literal, chars [][]byte) (next []Literal, fits bool) {
	for _, cand := range candidates {
		for _, ch := range chars {
			if len(ch)+len(cand.Bytes) > e.config.MaxLiteralLen {
				return nil, false
			}
			buf := append(append([]byte(nil), ch...), cand.Bytes...)
			next = append(next, NewLiteral(buf, true))
			if len(next) > e.config.MaxLiterals {
				return nil, false
			}
		}
	}
	return next, true
}

// ExtractInner returns any literal that must appear somewhere in
// every match, useful for patterns like ".*foo.*" where a prefix or
// suffix extraction finds nothing but "foo" is still a valid filter.
func (e *Extractor) ExtractInner(r *rx.Rx) *Seq {
	return e.extractInner(r, 0)
}

func (e *Extractor) extractInner(r *rx.Rx, depth int) *Seq {
	if depth > 100 {
		return NewSeq()
	}
	switch r.Kind() {
	case rx.KindLetter:
		return e.literalOf(r)
	case rx.KindLetters:
		return e.expandLetterSet(r.Letters())
	case rx.KindConcat:
		parts := flattenConcat(r)
		for start := range parts {
			if run, consumed := e.literalRun(parts[start:]); consumed > 0 {
				return markIncomplete(run)
			}
			if seq := e.extractInner(parts[start], depth+1); !seq.IsEmpty() {
				return seq
			}
		}
		return NewSeq()
	case rx.KindChoice:
		a, b := r.Subs()
		if a.Nullable() || b.Nullable() {
			return NewSeq()
		}
		ea := e.extractInner(a, depth+1)
		eb := e.extractInner(b, depth+1)
		if ea.IsEmpty() || eb.IsEmpty() {
			// See extractPrefixes: a and b are guaranteed reachable
			// (rx.Choice never keeps a Phi branch), so an empty
			// extraction from either means that branch can match
			// without the other's inner literal, and the whole choice
			// has none.
			return NewSeq()
		}
		return e.unionLimited(ea, eb)
	default:
		return NewSeq()
	}
}

// unionLimited concatenates two Seqs' literals, stopping once
// MaxLiterals is reached.
func (e *Extractor) unionLimited(a, b *Seq) *Seq {
	var lits []Literal
	for i := 0; i < a.Len() && len(lits) < e.config.MaxLiterals; i++ {
		lits = append(lits, a.Get(i))
	}
	for i := 0; i < b.Len() && len(lits) < e.config.MaxLiterals; i++ {
		lits = append(lits, b.Get(i))
	}
	return NewSeq(lits...)
}

// expandLetterSet expands a character class to one literal per
// character, unless it has more than MaxClassSize members.
func (e *Extractor) expandLetterSet(ls letterset.LetterSet) *Seq {
	count := 0
	for _, r := range ls.Ranges() {
		count += int(r.Hi) - int(r.Lo) + 1
		if count > e.config.MaxClassSize {
			return NewSeq()
		}
	}

	var lits []Literal
	for _, r := range ls.Ranges() {
		for c := uint32(r.Lo); c <= uint32(r.Hi); c++ {
			b, ok := encodeChar(uint16(c))
			if !ok {
				continue
			}
			lits = append(lits, NewLiteral(b, true))
			if len(lits) >= e.config.MaxLiterals {
				return NewSeq(lits...)
			}
		}
	}
	return NewSeq(lits...)
}

func (e *Extractor) literalOf(r *rx.Rx) *Seq {
	b, ok := encodeChar(r.Char())
	if !ok {
		return NewSeq()
	}
	return NewSeq(NewLiteral(b, true))
}

// flattenConcat returns r's Concat operands in left-to-right order,
// or []*rx.Rx{r} if r is not a Concat. Concat is a binary smart
// constructor (sub[0] then sub[1]), so a run of n concatenated
// characters is a left-leaning tree of depth n; flattening recovers
// the sequence regardless of that nesting.
func flattenConcat(r *rx.Rx) []*rx.Rx {
	if r.Kind() != rx.KindConcat {
		return []*rx.Rx{r}
	}
	a, b := r.Subs()
	return append(flattenConcat(a), flattenConcat(b)...)
}

// encodeChar UTF-8 encodes a single code unit, or reports ok=false if
// c is a lone surrogate half (0xD800-0xDFFF) that cannot be
// independently represented as a standalone character.
func encodeChar(c uint16) (b []byte, ok bool) {
	if c >= 0xD800 && c <= 0xDFFF {
		return nil, false
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], rune(c))
	return append([]byte(nil), buf[:n]...), true
}

// markIncomplete returns a copy of seq with every literal's Complete
// flag cleared.
func markIncomplete(seq *Seq) *Seq {
	lits := make([]Literal, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		lits[i] = NewLiteral(lit.Bytes, false)
	}
	return NewSeq(lits...)
}
