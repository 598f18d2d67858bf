// Package antimirov is a regular-expression matcher built on
// Antimirov-style NFA construction and Thompson-style
// simultaneous-state simulation: parse text into an AST (see package
// rx), compile it into an NFA (see package nfa), and run the NFA over
// an input string in O(n*m) time with no catastrophic backtracking.
//
// Basic usage:
//
//	re, err := antimirov.Compile(`colou?r`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.Accepts("color")  // true
//	re.Accepts("colour") // true
//	re.Accepts("colouur") // false
package antimirov

import (
	"github.com/coregx/antimirov/letterset"
	"github.com/coregx/antimirov/literal"
	"github.com/coregx/antimirov/nfa"
	"github.com/coregx/antimirov/parser"
	"github.com/coregx/antimirov/prefilter"
)

// CompileOption configures a single call to Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	dotExcludesNewline bool
	maxStates          int
	usePrefilter       bool
}

func defaultCompileConfig() compileConfig {
	return compileConfig{usePrefilter: true}
}

// WithDotExcludesNewline controls whether "." matches the newline
// code unit. The default, false, is the faithful behavior: "."
// matches every 16-bit code unit, newline included.
func WithDotExcludesNewline(exclude bool) CompileOption {
	return func(c *compileConfig) { c.dotExcludesNewline = exclude }
}

// WithMaxStates bounds the number of states the compiled NFA may have:
// the whole state graph is built first, and Compile then fails with
// nfa.ErrTooManyStates if it has more than n states. A bounded
// repetition with a huge upper bound is the usual way to hit this;
// zero (the default) means unbounded.
func WithMaxStates(n int) CompileOption {
	return func(c *compileConfig) { c.maxStates = n }
}

// WithPrefilter enables or disables the literal-based Aho-Corasick
// prefilter (on by default) that lets Accepts reject some strings
// without running the NFA at all. Disabling it never changes the
// result of Accepts, only whether that fast path exists.
func WithPrefilter(enabled bool) CompileOption {
	return func(c *compileConfig) { c.usePrefilter = enabled }
}

// Pattern is a compiled regular expression, safe for concurrent use
// by multiple goroutines: Accepts and Rejects only read the compiled
// Nfa and Prefilter, never mutate them.
type Pattern struct {
	n  *nfa.Nfa
	pf *prefilter.Prefilter
}

// Compile parses and compiles pattern into a Pattern.
func Compile(pattern string, opts ...CompileOption) (*Pattern, error) {
	cfg := defaultCompileConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var parseOpts []parser.ParseOption
	if cfg.dotExcludesNewline {
		parseOpts = append(parseOpts, parser.WithDot(letterset.Dot.Minus(letterset.FromChar('\n'))))
	}
	r, err := parser.Parse(pattern, parseOpts...)
	if err != nil {
		return nil, err
	}

	var nfaOpts []nfa.CompileOption
	if cfg.maxStates > 0 {
		nfaOpts = append(nfaOpts, nfa.WithMaxStates(cfg.maxStates))
	}
	n, err := nfa.Compile(r, nfaOpts...)
	if err != nil {
		return nil, err
	}

	p := &Pattern{n: n}
	if cfg.usePrefilter {
		e := literal.New(literal.DefaultConfig())
		pf, err := prefilter.Build(e.ExtractPrefixes(r), e.ExtractSuffixes(r), e.ExtractInner(r))
		if err != nil {
			return nil, err
		}
		p.pf = pf
	}
	return p, nil
}

// MustCompile is like Compile but panics if pattern fails to parse or
// compile. It's intended for use with patterns known to be valid,
// such as those declared as package-level variables.
func MustCompile(pattern string, opts ...CompileOption) *Pattern {
	p, err := Compile(pattern, opts...)
	if err != nil {
		panic("antimirov: Compile(`" + pattern + "`): " + err.Error())
	}
	return p
}

// Accepts reports whether s is in the language of the compiled
// pattern. When a prefilter is active, a string it can prove
// unmatchable is rejected without ever running the NFA.
func (p *Pattern) Accepts(s string) bool {
	if p.pf != nil && !p.pf.CouldMatch(s) {
		return false
	}
	return p.n.Accepts(s)
}

// Rejects is the complement of Accepts.
func (p *Pattern) Rejects(s string) bool { return !p.Accepts(s) }
