// Package grammar turns Backtick source bytes into a nested token tree and
// formats token trees back into canonical source.
package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"backtick/pkg/comparator"
)

// ErrSyntax is wrapped by every *ParseError.
var ErrSyntax = errors.New("syntax error")

// ParseError locates the furthest point the grammar reached before failing.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d (offset %d): %s", e.Line, e.Column, e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

// Parse consumes the whole of src. Trailing bytes the grammar cannot read
// are an error; there is no partial result.
func Parse(src []byte) ([]Token, error) {
	p := newParser(src)
	tokens := p.sequence()
	p.skipBlanks()
	if p.pos < len(p.src) {
		return nil, p.failure()
	}
	return tokens, nil
}

// parser is a backtracking recursive-descent reader. Every alternative
// either succeeds or leaves pos where it found it.
type parser struct {
	src []byte
	pos int

	// furthest committed failure, reported when the parse cannot finish
	far int
	why string

	alts []func() (Token, bool)
}

func newParser(src []byte) *parser {
	p := &parser{src: src, far: -1}
	// Order matters: multipliers before operators, declarations before labels.
	p.alts = []func() (Token, bool){
		p.comment,
		p.address,
		p.function,
		p.label,
		p.execute,
		p.set,
		p.arrayList,
		p.arrayRaw,
		p.multiplier,
		p.operator,
		p.loop,
		p.condition,
	}
	return p
}

// sequence reads expressions until none matches. Bodies are parsed by
// re-entering here, which is what nests the token tree.
func (p *parser) sequence() []Token {
	tokens := make([]Token, 0)
	for {
		p.skipBlanks()
		tok, ok := p.expression()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (p *parser) expression() (Token, bool) {
	if p.eof() {
		return nil, false
	}
	for _, alt := range p.alts {
		start := p.pos
		if tok, ok := alt(); ok {
			return tok, true
		}
		p.pos = start
	}
	return nil, false
}

func (p *parser) comment() (Token, bool) {
	if p.hasPrefix("```") {
		p.pos += 3
		end := bytes.IndexByte(p.src[p.pos:], '\n')
		if end < 0 {
			end = len(p.src) - p.pos
		}
		text := string(p.src[p.pos : p.pos+end])
		p.pos += end
		return &Comment{Text: text, Line: true}, true
	}
	if p.hasPrefix("``") {
		open := p.pos
		p.pos += 2
		end := bytes.Index(p.src[p.pos:], []byte("``"))
		if end < 0 {
			p.failAt(len(p.src), fmt.Sprintf("unterminated comment opened at offset %d", open))
			return nil, false
		}
		text := string(p.src[p.pos : p.pos+end])
		p.pos += end + 2
		return &Comment{Text: text}, true
	}
	return nil, false
}

func (p *parser) address() (Token, bool) {
	if !p.accept('@') {
		return nil, false
	}
	p.skipBlanks()
	pos, ok := p.number16("address")
	if !ok {
		return nil, false
	}
	return &Address{Pos: pos}, true
}

// function reads ^name [@start] [:end] !`body`. When the declaration does
// not complete, label takes over from the same offset.
func (p *parser) function() (Token, bool) {
	if !p.accept('^') {
		return nil, false
	}
	name, ok := p.name()
	if !ok {
		return nil, false
	}
	fn := &Function{Name: name}

	p.skipBlanks()
	if p.accept('@') {
		start, ok := p.number16("window start")
		if !ok {
			return nil, false
		}
		fn.Start = &start
		p.skipBlanks()
	}
	if p.accept(':') {
		end, ok := p.number16("window end")
		if !ok {
			return nil, false
		}
		fn.End = &end
		p.skipBlanks()
	}
	if !p.accept('!') {
		return nil, false
	}
	body, ok := p.body()
	if !ok {
		return nil, false
	}
	fn.Body = body
	return fn, true
}

func (p *parser) label() (Token, bool) {
	if !p.accept('^') {
		return nil, false
	}
	name, ok := p.name()
	if !ok {
		p.fail("expected label name after '^'")
		return nil, false
	}
	return &Label{Name: name}, true
}

func (p *parser) execute() (Token, bool) {
	if !p.accept('!') {
		return nil, false
	}
	name, ok := p.name()
	if !ok {
		p.fail("expected symbol name after '!'")
		return nil, false
	}
	return &Execute{Name: name}, true
}

func (p *parser) set() (Token, bool) {
	if !p.accept('=') || !p.atDigit() {
		return nil, false
	}
	v, ok := p.number16("value")
	if !ok {
		return nil, false
	}
	return &Set{Value: v}, true
}

func (p *parser) arrayList() (Token, bool) {
	if !p.hasPrefix("={") {
		return nil, false
	}
	open := p.pos
	p.pos += 2
	out := make([]byte, 0)
	p.skipBlanks()
	if p.accept('}') {
		return &Array{Bytes: out}, true
	}
	for {
		p.skipBlanks()
		if !p.atDigit() {
			p.fail("expected number in array literal")
			return nil, false
		}
		at := p.pos
		v, ok := p.number16("array element")
		if !ok {
			return nil, false
		}
		if v > 0xFF {
			p.failAt(at, fmt.Sprintf("array element %d does not fit in a byte", v))
			return nil, false
		}
		out = append(out, byte(v))
		p.skipBlanks()
		if p.accept('}') {
			return &Array{Bytes: out}, true
		}
		if !p.accept(',') {
			p.fail(fmt.Sprintf("expected ',' or '}' in array literal opened at offset %d", open))
			return nil, false
		}
	}
}

func (p *parser) arrayRaw() (Token, bool) {
	if !p.hasPrefix("=`") {
		return nil, false
	}
	open := p.pos
	p.pos += 2
	end := bytes.IndexByte(p.src[p.pos:], '`')
	if end < 0 {
		p.failAt(len(p.src), fmt.Sprintf("unterminated string literal opened at offset %d", open))
		return nil, false
	}
	out := make([]byte, end)
	copy(out, p.src[p.pos:p.pos+end])
	p.pos += end + 1
	return &Array{Bytes: out}, true
}

func (p *parser) multiplier() (Token, bool) {
	if p.eof() || !isCountable(p.src[p.pos]) {
		return nil, false
	}
	glyph := p.src[p.pos]
	p.pos++
	if !p.atDigit() {
		return nil, false
	}
	n, ok := p.number16("count")
	if !ok {
		return nil, false
	}
	return &Multiplier{Glyph: glyph, Count: n}, true
}

func (p *parser) operator() (Token, bool) {
	if p.eof() {
		return nil, false
	}
	g := p.src[p.pos]
	if !isCountable(g) && g != '~' {
		return nil, false
	}
	p.pos++
	return &Operator{Glyph: g}, true
}

func (p *parser) loop() (Token, bool) {
	if !p.accept('[') {
		return nil, false
	}
	open := p.pos - 1
	body := p.sequence()
	if !p.accept(']') {
		p.fail(fmt.Sprintf("expected ']' to close loop opened at offset %d", open))
		return nil, false
	}
	return &Loop{Body: body}, true
}

// condition groups consecutive comparators. A '?' comparator after the
// first one opens the next condition instead of joining this one.
func (p *parser) condition() (Token, bool) {
	first, ok := p.comparator()
	if !ok {
		return nil, false
	}
	cond := &Condition{Chain: []*Comparator{first}}
	for {
		save := p.pos
		p.skipBlanks()
		if p.eof() || p.src[p.pos] == '?' {
			p.pos = save
			return cond, true
		}
		next, ok := p.comparator()
		if !ok {
			p.pos = save
			return cond, true
		}
		cond.Chain = append(cond.Chain, next)
	}
}

func (p *parser) comparator() (*Comparator, bool) {
	if p.pos+1 >= len(p.src) || !comparator.IsRole(p.src[p.pos]) || !comparator.IsRelation(p.src[p.pos+1]) {
		return nil, false
	}
	glyphs := []byte{p.src[p.pos], p.src[p.pos+1]}
	p.pos += 2
	if p.accept('=') {
		glyphs = append(glyphs, '=')
	}
	flags := comparator.Decode(glyphs)
	if p.accept('@') {
		flags |= comparator.Indirect
	}
	if !p.atDigit() {
		p.fail("expected comparison operand")
		return nil, false
	}
	operand, ok := p.number16("operand")
	if !ok {
		return nil, false
	}
	cmp := &Comparator{Flags: flags, Operand: operand}

	save := p.pos
	if t, ok := p.body(); ok {
		cmp.True = t
	} else {
		p.pos = save
	}

	save = p.pos
	if p.accept(':') {
		if f, ok := p.body(); ok {
			cmp.False = f
		} else {
			p.pos = save
		}
	}
	return cmp, true
}

// body reads a backtick-delimited sequence.
func (p *parser) body() ([]Token, bool) {
	if !p.accept('`') {
		return nil, false
	}
	open := p.pos - 1
	tokens := p.sequence()
	if !p.accept('`') {
		p.fail(fmt.Sprintf("expected '`' to close body opened at offset %d", open))
		return nil, false
	}
	return tokens, true
}

func (p *parser) name() (string, bool) {
	start := p.pos
	for !p.eof() && isAlnum(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", false
	}
	return string(p.src[start:p.pos]), true
}

func (p *parser) number16(what string) (uint16, bool) {
	start := p.pos
	for !p.eof() && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		p.fail("expected digits for " + what)
		return 0, false
	}
	digits := string(p.src[start:p.pos])
	v, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		p.failAt(start, fmt.Sprintf("%s %s out of range", what, digits))
		return 0, false
	}
	return uint16(v), true
}

// skipBlanks discards ASCII whitespace and the U+2028/U+2029 separators.
func (p *parser) skipBlanks() {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f':
			p.pos++
		case p.hasPrefix("\u2028") || p.hasPrefix("\u2029"):
			p.pos += 3
		default:
			return
		}
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) accept(c byte) bool {
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) hasPrefix(s string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(s))
}

func (p *parser) atDigit() bool {
	return !p.eof() && isDigit(p.src[p.pos])
}

func (p *parser) fail(msg string) { p.failAt(p.pos, msg) }

// failAt keeps the first message recorded at the furthest offset.
func (p *parser) failAt(offset int, msg string) {
	if offset > p.far {
		p.far = offset
		p.why = msg
	}
}

func (p *parser) failure() *ParseError {
	offset, msg := p.pos, fmt.Sprintf("unexpected %q", p.src[p.pos])
	if p.far >= p.pos {
		offset, msg = p.far, p.why
	}
	line, col := lineCol(p.src, offset)
	return &ParseError{Offset: offset, Line: line, Column: col, Msg: msg}
}

func lineCol(src []byte, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + bytes.Count(src[:offset], []byte{'\n'})
	lineStart := bytes.LastIndexByte(src[:offset], '\n') + 1
	return line, offset - lineStart + 1
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isCountable reports whether g may carry a repeat count.
func isCountable(g byte) bool {
	switch g {
	case '>', '<', '+', '-', ',', '.':
		return true
	}
	return false
}
