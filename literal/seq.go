// Package literal extracts and manipulates the literal byte sequences
// a regex term forces into any match, for use as a prefilter: before
// running the NFA, the engine can rule out a string that doesn't
// contain a required literal substring.
//
// A Literal is one concrete byte sequence; a Seq is a disjunction of
// alternatives (e.g. the two branches of /foo|bar/). Minimize, LCP,
// and LCS exist to shrink and strengthen a Seq before it is handed to
// package prefilter's Aho-Corasick construction.
package literal

import (
	"bytes"
	"sort"
)

// Literal is one concrete byte run an Extractor pulled out of an
// *rx.Rx. Complete is true only when the literal is the entire match
// on its own, not just a prefix, suffix, or inner substring of it —
// e.g. ExtractPrefixes(MustParse("colour")) yields a single complete
// literal, but ExtractPrefixes(MustParse("colou?r")) yields the single
// incomplete literal "colo" (see extractor.go: the literal run stops at
// the optional "u", and more of the pattern follows it).
type Literal struct {
	Bytes []byte

	// Complete is true iff matching Bytes alone is sufficient; no
	// further NFA evaluation is needed to decide a whole-string match.
	Complete bool
}

// NewLiteral builds a Literal from b and a completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns len(l.Bytes).
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String renders l for debug output, e.g. literal{foo, complete=true}.
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is the OR-set an Extractor returns for one pattern: every
// branch of an alternation contributes one alternative, so a *Seq is
// the disjunction "the match starts with (or ends with, or contains)
// one of these byte strings". ExtractPrefixes(MustParse("cat|dog"))
// returns a two-element Seq; ExtractPrefixes(MustParse("cat")) a
// one-element Seq; a pattern with no extractable literal (".*") an
// empty one.
type Seq struct {
	literals []Literal
}

// NewSeq wraps lits as a Seq. NewSeq() with no arguments is the empty
// Seq that means "no literal constraint could be extracted" — the
// signal Extractor and Build both treat as "don't build a prefilter
// here, nothing would reject".
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of alternatives in the sequence. A nil *Seq
// has length 0, so ExtractPrefixes's empty-result callers don't need
// a separate nil check before counting.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i'th alternative. Panics if i is out of range.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty reports whether the sequence has no extracted literal at
// all — the case an Extractor returns for a pattern whose match is
// never pinned down to a required byte string (".*", "a?bc", or a
// Choice branch with no determinate literal of its own).
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Minimize drops any literal made redundant by a shorter one that is
// its prefix: in ["foo", "foobar"], every occurrence of "foobar" is
// also an occurrence of "foo" at the same position, so requiring
// "foo" alone is exactly as strong a filter and cheaper for the
// Aho-Corasick automaton Build constructs from the result. Build
// calls this on the prefix and inner Seqs (not the suffix Seq) before
// constructing a Prefilter.
//
// Time complexity: O(n² * m) for n literals of average length m.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.Slice(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for i := 0; i < len(s.literals); i++ {
		current := s.literals[i]
		isRedundant := false
		for j := 0; j < len(kept); j++ {
			if isPrefix(kept[j].Bytes, current.Bytes) {
				isRedundant = true
				break
			}
		}
		if !isRedundant {
			kept = append(kept, current)
		}
	}

	s.literals = kept
}

// LongestCommonPrefix returns the longest byte string every
// alternative in the sequence starts with. prefilter.Build uses this
// as a bytes.HasPrefix fast path ahead of the Aho-Corasick scan: for
// ExtractPrefixes(MustParse("cat|car")), LongestCommonPrefix returns
// "ca" without having to search for either literal individually. On
// an empty Seq, or alternatives sharing no common prefix, it returns
// an empty, non-nil slice.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}

	result := make([]byte, len(prefix))
	copy(result, prefix)
	return result
}

// LongestCommonSuffix is LongestCommonPrefix's mirror image, used the
// same way by prefilter.Build for a Seq built from ExtractSuffixes.
func (s *Seq) LongestCommonSuffix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	suffix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		suffix = commonSuffix(suffix, s.literals[i].Bytes)
		if len(suffix) == 0 {
			return []byte{}
		}
	}

	result := make([]byte, len(suffix))
	copy(result, suffix)
	return result
}

// isPrefix returns true if prefix is a prefix of s.
func isPrefix(prefix, s []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	return bytes.Equal(prefix, s[:len(prefix)])
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:minLen]
}

// commonSuffix returns the longest common suffix of a and b.
func commonSuffix(a, b []byte) []byte {
	aLen := len(a)
	bLen := len(b)
	minLen := aLen
	if bLen < minLen {
		minLen = bLen
	}

	for i := 0; i < minLen; i++ {
		if a[aLen-1-i] != b[bLen-1-i] {
			if i == 0 {
				return []byte{}
			}
			return a[aLen-i:]
		}
	}

	return a[aLen-minLen:]
}
