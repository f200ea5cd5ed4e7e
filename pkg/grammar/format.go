package grammar

import (
	"fmt"
	"io"
	"strings"
)

// Format renders tokens in canonical form, one space between tokens.
// Parse(Format(tokens)) yields tokens again.
func Format(tokens []Token) string {
	var b strings.Builder
	prev := ""
	for i, t := range tokens {
		s := t.String()
		if i > 0 && !strings.HasSuffix(prev, "\n") {
			b.WriteByte(' ')
		}
		b.WriteString(s)
		prev = s
	}
	return b.String()
}

// Dump writes an indented listing of the token tree.
func Dump(w io.Writer, tokens []Token) {
	dump(w, tokens, 0)
}

func dump(w io.Writer, tokens []Token, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, t := range tokens {
		switch n := t.(type) {
		case *Address:
			fmt.Fprintf(w, "%sAddress %d\n", indent, n.Pos)
		case *Label:
			fmt.Fprintf(w, "%sLabel %s\n", indent, n.Name)
		case *Comment:
			fmt.Fprintf(w, "%sComment %q\n", indent, n.Text)
		case *Execute:
			fmt.Fprintf(w, "%sExecute %s\n", indent, n.Name)
		case *Set:
			fmt.Fprintf(w, "%sSet %d\n", indent, n.Value)
		case *Array:
			fmt.Fprintf(w, "%sArray %v\n", indent, n.Bytes)
		case *Operator:
			fmt.Fprintf(w, "%sOperator %c\n", indent, n.Glyph)
		case *Multiplier:
			fmt.Fprintf(w, "%sMultiplier %c x%d\n", indent, n.Glyph, n.Count)
		case *Loop:
			fmt.Fprintf(w, "%sLoop\n", indent)
			dump(w, n.Body, depth+1)
		case *Function:
			fmt.Fprintf(w, "%sFunction %s%s\n", indent, n.Name, window(n))
			dump(w, n.Body, depth+1)
		case *Condition:
			fmt.Fprintf(w, "%sCondition\n", indent)
			for _, c := range n.Chain {
				dumpComparator(w, c, depth+1)
			}
		default:
			fmt.Fprintf(w, "%s%T\n", indent, t)
		}
	}
}

func dumpComparator(w io.Writer, c *Comparator, depth int) {
	indent := strings.Repeat("  ", depth)
	operand := fmt.Sprintf("%d", c.Operand)
	if c.Flags.IsIndirect() {
		operand = "@" + operand
	}
	fmt.Fprintf(w, "%sComparator %s %s\n", indent, c.Flags.Glyphs(), operand)
	if c.True != nil {
		fmt.Fprintf(w, "%s  true:\n", indent)
		dump(w, c.True, depth+2)
	}
	if c.False != nil {
		fmt.Fprintf(w, "%s  false:\n", indent)
		dump(w, c.False, depth+2)
	}
}

func window(f *Function) string {
	var b strings.Builder
	if f.Start != nil {
		fmt.Fprintf(&b, " @%d", *f.Start)
	}
	if f.End != nil {
		fmt.Fprintf(&b, " :%d", *f.End)
	}
	return b.String()
}
