// Package prefilter provides a cheap, sound pre-check that runs
// before the NFA: it can prove a string is rejected without ever
// running the automaton, using the literal constraints extracted by
// the literal package.
//
// A Prefilter is built from up to three literal sequences (prefix,
// suffix, inner), each an OR over its literals: a constraint holds if
// at least one of its literals is present in the right place. All
// constraints present in a Prefilter must hold simultaneously, since
// they were all derived from the same pattern term.
//
// CouldMatch is a one-way filter: it never says false for a string
// the NFA would accept, but may say true for a string the NFA would
// still reject. Callers must always fall back to the NFA when
// CouldMatch returns true; a false result is authoritative.
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/antimirov/literal"
)

// Prefilter holds one Aho-Corasick automaton per literal constraint
// that was usable. Any of the three may be nil, meaning that
// constraint contributed no information.
//
// prefixCommon and suffixCommon are the longest prefix/suffix shared
// by every literal in the prefix/suffix constraint, when one exists.
// CouldMatch checks these with a plain byte comparison before ever
// touching the corresponding automaton: cheaper, and it rejects some
// strings the automaton would otherwise have to scan for.
type Prefilter struct {
	prefix       *ahocorasick.Automaton
	prefixCommon []byte
	suffix       *ahocorasick.Automaton
	suffixCommon []byte
	inner        *ahocorasick.Automaton
}

// Build constructs a Prefilter from the prefix, suffix, and inner
// literal sequences extracted from a pattern's term (see
// literal.Extractor). Any of the three may be nil or empty. Build
// returns a nil Prefilter (and a nil error) if none of the sequences
// yields a usable constraint, meaning there is nothing cheaper than
// the NFA to check.
func Build(prefixes, suffixes, inner *literal.Seq) (*Prefilter, error) {
	p := &Prefilter{}

	// A literal made redundant by a shorter prefix sibling (e.g.
	// "foobar" once "foo" is also a candidate) can only narrow the
	// automaton's alphabet without changing what CouldMatch decides:
	// every occurrence of "foobar" is also an occurrence of "foo" at
	// the same starting position, so dropping it loses no matches.
	// That reasoning only holds for constraints checked by substring
	// or fixed-start occurrence (prefix, inner) — a suffix constraint
	// cares about the opposite end, so it is left unminimized.
	prefixes.Minimize()
	inner.Minimize()

	p.prefixCommon = prefixes.LongestCommonPrefix()
	p.suffixCommon = suffixes.LongestCommonSuffix()

	var err error
	if p.prefix, err = automatonFor(prefixes); err != nil {
		return nil, err
	}
	if p.suffix, err = automatonFor(suffixes); err != nil {
		return nil, err
	}
	if p.inner, err = automatonFor(inner); err != nil {
		return nil, err
	}

	if p.prefix == nil && p.suffix == nil && p.inner == nil {
		return nil, nil
	}
	return p, nil
}

// automatonFor builds an Aho-Corasick automaton over seq's literals,
// or returns (nil, nil) if seq carries no constraint.
func automatonFor(seq *literal.Seq) (*ahocorasick.Automaton, error) {
	if seq.IsEmpty() {
		return nil, nil
	}
	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	return builder.Build()
}

// CouldMatch reports whether s might be accepted by the pattern this
// Prefilter was built from. A false result proves the NFA would
// reject s; a true result means the NFA must still be consulted.
func (p *Prefilter) CouldMatch(s string) bool {
	if p == nil {
		return true
	}
	data := []byte(s)
	if len(p.prefixCommon) > 0 && !bytes.HasPrefix(data, p.prefixCommon) {
		return false
	}
	if p.prefix != nil && !hasMatchAt(p.prefix, data, 0) {
		return false
	}
	if len(p.suffixCommon) > 0 && !bytes.HasSuffix(data, p.suffixCommon) {
		return false
	}
	if p.suffix != nil && !hasMatchEndingAt(p.suffix, data, len(data)) {
		return false
	}
	if p.inner != nil && !p.inner.IsMatch(data) {
		return false
	}
	return true
}

// hasMatchAt reports whether auto has an occurrence starting exactly
// at pos. Since pos is the earliest possible start the automaton
// could ever report from position pos onward, the first match found
// from there is authoritative for this check.
func hasMatchAt(auto *ahocorasick.Automaton, data []byte, pos int) bool {
	m := auto.Find(data, pos)
	return m != nil && m.Start == pos
}

// hasMatchEndingAt scans every occurrence of auto in data, in order,
// looking for one ending exactly at end. Unlike hasMatchAt, a single
// Find call isn't enough: the earliest occurrence rarely is the one
// that reaches the end of the string.
func hasMatchEndingAt(auto *ahocorasick.Automaton, data []byte, end int) bool {
	at := 0
	for at <= len(data) {
		m := auto.Find(data, at)
		if m == nil {
			return false
		}
		if m.End == end {
			return true
		}
		at = m.Start + 1
	}
	return false
}
