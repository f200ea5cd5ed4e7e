package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"backtick/pkg/comparator"
)

// Token is one node of the Backtick token tree. String returns the
// canonical glyph form, which Parse reads back to an identical token.
type Token interface {
	tokenNode()
	String() string
}

// Address jumps to an absolute tape position.
//
//	@12
type Address struct {
	Pos uint16
}

// Label binds Name to the position current when it executes.
//
//	^loop
type Label struct {
	Name string
}

// Comment is kept so that formatting preserves it.
//
//	```line comment
//	``block comment``
type Comment struct {
	Text string
	Line bool
}

// Comparator is one link of a Condition. A nil branch is absent; a
// non-nil empty branch was written as ``.
//
//	?=0`+`:`-`
//	|\=@3
type Comparator struct {
	Flags   comparator.Flags
	Operand uint16
	True    []Token
	False   []Token
}

// Condition is a chain of comparators evaluated left to right.
type Condition struct {
	Chain []*Comparator
}

// Execute replays a declared function or jumps to a declared label.
//
//	!copy
type Execute struct {
	Name string
}

// Function declares a reusable body, optionally bound to the address
// window [Start, End].
//
//	^copy@0:1!`[->+<]`
type Function struct {
	Name  string
	Start *uint16
	End   *uint16
	Body  []Token
}

// Loop pushes its body once; repetition comes from the body itself.
//
//	[->+<]
type Loop struct {
	Body []Token
}

// Multiplier applies a basic operator Count times.
//
//	+10
type Multiplier struct {
	Glyph byte
	Count uint16
}

// Operator is a single basic instruction: > < + - , . ~
type Operator struct {
	Glyph byte
}

// Set writes one byte at the current position.
//
//	=65
type Set struct {
	Value uint16
}

// Array writes Bytes starting at the current position.
//
//	={72,105}
//	=`Hi`
type Array struct {
	Bytes []byte
}

func (*Address) tokenNode()    {}
func (*Label) tokenNode()      {}
func (*Comment) tokenNode()    {}
func (*Comparator) tokenNode() {}
func (*Condition) tokenNode()  {}
func (*Execute) tokenNode()    {}
func (*Function) tokenNode()   {}
func (*Loop) tokenNode()       {}
func (*Multiplier) tokenNode() {}
func (*Operator) tokenNode()   {}
func (*Set) tokenNode()        {}
func (*Array) tokenNode()      {}

func (a *Address) String() string { return "@" + strconv.Itoa(int(a.Pos)) }
func (l *Label) String() string   { return "^" + l.Name }
func (e *Execute) String() string { return "!" + e.Name }
func (s *Set) String() string     { return "=" + strconv.Itoa(int(s.Value)) }
func (o *Operator) String() string {
	return string(o.Glyph)
}

func (m *Multiplier) String() string {
	return string(m.Glyph) + strconv.Itoa(int(m.Count))
}

func (c *Comment) String() string {
	if c.Line {
		return "```" + c.Text + "\n"
	}
	return "``" + c.Text + "``"
}

func (c *Comparator) String() string {
	var b strings.Builder
	b.Write(c.Flags.Glyphs())
	if c.Flags.IsIndirect() {
		b.WriteByte('@')
	}
	b.WriteString(strconv.Itoa(int(c.Operand)))
	if c.True != nil {
		b.WriteString(body(c.True))
	}
	if c.False != nil {
		b.WriteByte(':')
		b.WriteString(body(c.False))
	}
	return b.String()
}

func (c *Condition) String() string {
	parts := make([]string, len(c.Chain))
	for i, cmp := range c.Chain {
		parts[i] = cmp.String()
	}
	return strings.Join(parts, " ")
}

func (f *Function) String() string {
	var b strings.Builder
	b.WriteString("^" + f.Name)
	if f.Start != nil {
		fmt.Fprintf(&b, "@%d", *f.Start)
	}
	if f.End != nil {
		fmt.Fprintf(&b, ":%d", *f.End)
	}
	b.WriteByte('!')
	b.WriteString(body(f.Body))
	return b.String()
}

func (l *Loop) String() string {
	return "[" + Format(l.Body) + "]"
}

func (a *Array) String() string {
	if len(a.Bytes) > 0 && printable(a.Bytes) {
		return "=`" + string(a.Bytes) + "`"
	}
	parts := make([]string, len(a.Bytes))
	for i, v := range a.Bytes {
		parts[i] = strconv.Itoa(int(v))
	}
	return "={" + strings.Join(parts, ",") + "}"
}

// body renders a backtick-delimited sequence. Inner text that touches a
// delimiter is padded so it cannot merge into a comment opener.
func body(tokens []Token) string {
	inner := Format(tokens)
	if strings.HasPrefix(inner, "`") {
		inner = " " + inner
	}
	if strings.HasSuffix(inner, "`") {
		inner += " "
	}
	return "`" + inner + "`"
}

func printable(bs []byte) bool {
	for _, c := range bs {
		if c < 0x20 || c > 0x7E || c == '`' {
			return false
		}
	}
	return true
}
