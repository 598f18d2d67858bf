// Package parser implements a recursive-descent parser for the
// antimirov regex grammar:
//
//	re        := simple-re ( "|" simple-re )*
//	simple-re := basic-re+
//	basic-re  := atomic-re ( "*" | "+" | "?" | bounds )?
//	bounds    := "{" DECIMAL ( "," DECIMAL )? "}"
//	atomic-re := "(" re ")" | "." | "∅" | set | char
//	set       := "[" "^"? item+ "]"
//	item      := char ( "-" char )?
//	char      := NON-METACHAR | "\" escape
//	escape    := "u" HEX HEX HEX HEX
//	           | "n" | "t" | "r" | "f" | "b" | "0" | "\\"
//	           | METACHAR
//	METACHAR  := one of { } [ ] ( ) ^ $ . | * + ? \
//
// Characters are 16-bit code units (Go rune values outside the Basic
// Multilingual Plane are encoded as UTF-16 surrogate pairs, each
// treated as its own independent character). Errors are fatal:
// SyntaxError carries the 0-based code-unit position at which parsing
// failed; there is no recovery, matching the fail-fast CompileError/
// BuildError style used by package nfa (see nfa/error.go).
package parser

import (
	"fmt"
	"unicode/utf16"

	"github.com/coregx/antimirov/letterset"
	"github.com/coregx/antimirov/rx"
	"github.com/coregx/antimirov/size"
)

// ErrSyntax is the sentinel wrapped by every SyntaxError, so callers
// can test for a parse failure with errors.Is without inspecting the
// message or position.
var ErrSyntax = fmt.Errorf("antimirov: syntax error")

// SyntaxError reports a parse failure at a 0-based code-unit position
// in the input.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("antimirov: syntax error at %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntaxErrorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

var metaChars = map[rune]bool{
	'{': true, '}': true, '[': true, ']': true,
	'(': true, ')': true, '^': true, '$': true,
	'.': true, '|': true, '*': true, '+': true,
	'?': true, '\\': true,
}

// ParseOption configures a single call to Parse.
type ParseOption func(*parser)

// WithDot overrides the LetterSet "." compiles to. The default is
// letterset.Dot (every code unit, including newline); a caller that
// wants the conventional exclude-newline behavior passes
// letterset.Dot.Minus(letterset.FromChar('\n')).
func WithDot(set letterset.LetterSet) ParseOption {
	return func(p *parser) { p.dot = set }
}

// Parse parses text as a regex and returns its AST, or a *SyntaxError
// if text is not well-formed. The wholly empty string is a special
// case: simple-re requires at least one basic-re, so there is no
// grammar production for "nothing at all" — Parse treats it as the
// empty regex (matching only "") rather than a syntax error.
func Parse(text string, opts ...ParseOption) (*rx.Rx, error) {
	if text == "" {
		return rx.Empty(), nil
	}

	p := &parser{units: utf16.Encode([]rune(text)), dot: letterset.Dot}
	for _, opt := range opts {
		opt(p)
	}
	r, err := p.parseRe()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.units) {
		return nil, syntaxErrorf(p.pos, "unexpected %q", p.current())
	}
	return r, nil
}

// MustParse parses text and panics on a syntax error.
func MustParse(text string, opts ...ParseOption) *rx.Rx {
	r, err := Parse(text, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

type parser struct {
	units []uint16
	pos   int
	dot   letterset.LetterSet
}

func (p *parser) eof() bool { return p.pos >= len(p.units) }

func (p *parser) current() uint16 {
	if p.eof() {
		return 0
	}
	return p.units[p.pos]
}

func (p *parser) advance() uint16 {
	c := p.current()
	p.pos++
	return c
}

func (p *parser) expect(c uint16) error {
	if p.eof() || p.current() != c {
		got := "EOF"
		if !p.eof() {
			got = fmt.Sprintf("%q", rune(p.current()))
		}
		return syntaxErrorf(p.pos, "expected %q, got %s", rune(c), got)
	}
	p.pos++
	return nil
}

// re := simple-re ( "|" simple-re )*
func (p *parser) parseRe() (*rx.Rx, error) {
	left, err := p.parseSimpleRe()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.current() == '|' {
		p.advance()
		right, err := p.parseSimpleRe()
		if err != nil {
			return nil, err
		}
		left = rx.Choice(left, right)
	}
	return left, nil
}

// simple-re := basic-re+
func (p *parser) parseSimpleRe() (*rx.Rx, error) {
	if p.atSimpleReEnd() {
		return nil, syntaxErrorf(p.pos, "expected an expression")
	}
	result, err := p.parseBasicRe()
	if err != nil {
		return nil, err
	}
	for !p.atSimpleReEnd() {
		next, err := p.parseBasicRe()
		if err != nil {
			return nil, err
		}
		result = rx.Concat(result, next)
	}
	return result, nil
}

func (p *parser) atSimpleReEnd() bool {
	return p.eof() || p.current() == '|' || p.current() == ')'
}

// basic-re := atomic-re ( "*" | "+" | "?" | bounds )?
func (p *parser) parseBasicRe() (*rx.Rx, error) {
	atom, err := p.parseAtomicRe()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return atom, nil
	}
	switch p.current() {
	case '*':
		p.advance()
		return rx.Star(atom), nil
	case '+':
		p.advance()
		return rx.OneOrMore(atom), nil
	case '?':
		p.advance()
		return rx.Opt(atom), nil
	case '{':
		return p.parseBoundedRepeat(atom)
	}
	return atom, nil
}

// bounds := "{" DECIMAL ( "," DECIMAL )? "}"
//
// "{lo}" means exactly lo repetitions; "{lo,hi}" means between lo and
// hi inclusive; a bare "{lo,}" has no textual syntax here — an
// unbounded upper bound is representable on the Rx AST via rx.Repeat
// directly, but not reachable by parsing regex text — and is a parse
// error.
func (p *parser) parseBoundedRepeat(atom *rx.Rx) (*rx.Rx, error) {
	startPos := p.pos
	p.advance() // consume '{'
	lo, err := p.parseDecimal()
	if err != nil {
		return nil, err
	}
	hi := lo
	if !p.eof() && p.current() == ',' {
		p.advance()
		if !p.eof() && p.current() == '}' {
			return nil, syntaxErrorf(startPos, "unbounded repetition {%d,} has no regex syntax", lo)
		}
		hi, err = p.parseDecimal()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, syntaxErrorf(startPos, "repetition bounds out of order: {%d,%d}", lo, hi)
	}
	return rx.Repeat(atom, lo, size.FromUint64(hi)), nil
}

func (p *parser) parseDecimal() (uint64, error) {
	if p.eof() || !isDigit(p.current()) {
		return 0, syntaxErrorf(p.pos, "expected a decimal number in repetition bound")
	}
	var v uint64
	for !p.eof() && isDigit(p.current()) {
		v = v*10 + uint64(p.advance()-'0')
	}
	return v, nil
}

func isDigit(c uint16) bool { return c >= '0' && c <= '9' }

// atomic-re := "(" re ")" | "." | "∅" | set | char
func (p *parser) parseAtomicRe() (*rx.Rx, error) {
	if p.eof() {
		return nil, syntaxErrorf(p.pos, "unexpected end of input")
	}
	switch p.current() {
	case '(':
		p.advance()
		inner, err := p.parseRe()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return inner, nil
	case '.':
		p.advance()
		return rx.Letters(p.dot), nil
	case '[':
		p.advance()
		return p.parseSet()
	case ')', '|':
		return nil, syntaxErrorf(p.pos, "unexpected %q", rune(p.current()))
	}
	if p.current() == emptyLanguageRune {
		p.advance()
		return rx.Phi(), nil
	}
	c, err := p.parseChar()
	if err != nil {
		return nil, err
	}
	return rx.Letter(c), nil
}

// emptyLanguageRune is the single code unit for "∅", the empty-language literal.
const emptyLanguageRune = uint16('∅')

// set := "[" "^"? item+ "]"    ("[" already consumed by the caller)
func (p *parser) parseSet() (*rx.Rx, error) {
	negate := false
	if !p.eof() && p.current() == '^' {
		p.advance()
		negate = true
	}

	ls := letterset.Empty
	count := 0
	for {
		if p.eof() {
			return nil, syntaxErrorf(p.pos, "unterminated character class")
		}
		if p.current() == ']' {
			break
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		ls = ls.Union(item)
		count++
	}
	if count == 0 {
		return nil, syntaxErrorf(p.pos, "empty character class")
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	if negate {
		ls = ls.Complement()
	}
	return rx.Letters(ls), nil
}

// item := char ( "-" char )?
func (p *parser) parseItem() (letterset.LetterSet, error) {
	startPos := p.pos
	lo, err := p.parseClassChar()
	if err != nil {
		return letterset.Empty, err
	}
	if !p.eof() && p.current() == '-' && p.peekIsRangeEnd() {
		p.advance() // consume '-'
		hi, err := p.parseClassChar()
		if err != nil {
			return letterset.Empty, err
		}
		if hi < lo {
			return letterset.Empty, syntaxErrorf(startPos, "reversed character range [%q-%q]", rune(lo), rune(hi))
		}
		return letterset.FromRange(lo, hi), nil
	}
	return letterset.FromChar(lo), nil
}

// peekIsRangeEnd reports whether the '-' at the current position
// introduces a range (i.e. is followed by another class character,
// not the closing ']'). A trailing "-]" is a literal hyphen, per the
// common character-class convention.
func (p *parser) peekIsRangeEnd() bool {
	next := p.pos + 1
	return next < len(p.units) && p.units[next] != ']'
}

func (p *parser) parseClassChar() (uint16, error) {
	return p.parseCharLike(true)
}

func (p *parser) parseChar() (uint16, error) {
	return p.parseCharLike(false)
}

// parseCharLike consumes one literal character or escape. inClass
// relaxes which unescaped metacharacters are literal: inside a class,
// only "]", "^" at position 1, "-" in range position, and "\" carry
// special meaning; {}().|*+? are literal.
func (p *parser) parseCharLike(inClass bool) (uint16, error) {
	pos := p.pos
	if p.eof() {
		return 0, syntaxErrorf(pos, "unexpected end of input")
	}
	c := p.current()
	if c == '\\' {
		p.advance()
		return p.parseEscape()
	}
	if !inClass && metaChars[rune(c)] {
		return 0, syntaxErrorf(pos, "unexpected metacharacter %q", rune(c))
	}
	if inClass && c == ']' {
		return 0, syntaxErrorf(pos, "unexpected %q inside character class", rune(c))
	}
	p.advance()
	return c, nil
}

// escape := "u" HEX HEX HEX HEX
//         | "n" | "t" | "r" | "f" | "b" | "0" | "\\"
//         | METACHAR
func (p *parser) parseEscape() (uint16, error) {
	pos := p.pos
	if p.eof() {
		return 0, syntaxErrorf(pos, "trailing backslash")
	}
	c := p.advance()
	switch c {
	case 'u':
		return p.parseUnicodeEscape(pos)
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'b':
		return '\b', nil
	case '0':
		return 0, nil
	case '\\':
		return '\\', nil
	case '-':
		// Not itself a METACHAR, but escaping a hyphen to sidestep the
		// "is this a range?" question inside a character class is a
		// universal enough regex convention to accept unconditionally.
		return '-', nil
	}
	if metaChars[rune(c)] {
		return c, nil
	}
	return 0, syntaxErrorf(pos, "invalid escape %q", rune(c))
}

func (p *parser) parseUnicodeEscape(escPos int) (uint16, error) {
	if p.pos+4 > len(p.units) {
		return 0, syntaxErrorf(escPos, "incomplete \\u escape")
	}
	var v uint16
	for i := 0; i < 4; i++ {
		d := p.units[p.pos+i]
		h, ok := hexDigit(d)
		if !ok {
			return 0, syntaxErrorf(p.pos+i, "invalid hex digit %q in \\u escape", rune(d))
		}
		v = v<<4 | h
	}
	p.pos += 4
	return v, nil
}

func hexDigit(c uint16) (uint16, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// RepeatSyntax is a convenience helper for callers building an Rx
// programmatically who want to spell an unbounded upper bound the
// same way a finite one is spelled, since "{lo,}" has no parseable
// regex-text form (see rx.Repeat). It is not used by Parse itself.
func RepeatSyntax(lo, hi uint64, unbounded bool) (uint64, size.Size) {
	if unbounded {
		return lo, size.Infinity
	}
	return lo, size.FromUint64(hi)
}
