// Package comparator decodes the glyph prefix of a Backtick comparison
// (for example "?=" or "|\=") into a bit set and evaluates it against a
// tape cell.
package comparator

// Flags is the decoded form of one comparison. Relational bits are
// independent, so LT|EQ reads as "less than or equal".
type Flags uint8

const (
	EQ  Flags = 1 << 0
	NEQ Flags = 1 << 1
	OR  Flags = 1 << 2
	LT  Flags = 1 << 3
	GT  Flags = 1 << 4

	// Indirect marks an operand that names a tape address instead of a literal.
	Indirect Flags = 1 << 5
	// Start marks a comparator written with '?'. It opens a new chain.
	Start Flags = 1 << 6

	relational = EQ | NEQ | LT | GT
)

// Memory gives the codec read access to tape cells for indirect operands.
type Memory interface {
	Cell(pos uint16) (byte, error)
}

// IsRole reports whether g is a chain-role glyph.
func IsRole(g byte) bool {
	return g == '?' || g == '|' || g == '&'
}

// IsRelation reports whether g is a relational glyph.
func IsRelation(g byte) bool {
	return g == '=' || g == '\'' || g == '\\' || g == '/'
}

// Decode turns a glyph sequence in source order (role, relation, optional
// trailing '=') into Flags. Unknown glyphs are ignored.
func Decode(glyphs []byte) Flags {
	var f Flags
	if len(glyphs) > 0 {
		switch glyphs[0] {
		case '?':
			f |= Start
		case '|':
			f |= OR
		case '&':
		}
	}
	if len(glyphs) > 1 {
		switch glyphs[1] {
		case '=':
			f |= EQ
		case '\'':
			f |= NEQ
		case '\\':
			f |= LT
		case '/':
			f |= GT
		}
	}
	if len(glyphs) > 2 && glyphs[2] == '=' {
		f |= EQ
	}
	return f
}

// Glyphs returns the canonical glyph sequence for f. Decode(f.Glyphs())
// yields f again for every value the parser can produce.
func (f Flags) Glyphs() []byte {
	out := make([]byte, 0, 3)
	switch {
	case f.IsStart():
		out = append(out, '?')
	case f.IsOr():
		out = append(out, '|')
	default:
		out = append(out, '&')
	}

	switch {
	case f.IsNEQ():
		out = append(out, '\'')
	case f.IsLT():
		out = append(out, '\\')
	case f.IsGT():
		out = append(out, '/')
	case f.IsEQ():
		return append(out, '=')
	}
	if f.IsEQ() {
		out = append(out, '=')
	}
	return out
}

func (f Flags) IsEQ() bool       { return f&EQ != 0 }
func (f Flags) IsNEQ() bool      { return f&NEQ != 0 }
func (f Flags) IsLT() bool       { return f&LT != 0 }
func (f Flags) IsGT() bool       { return f&GT != 0 }
func (f Flags) IsOr() bool       { return f&OR != 0 }
func (f Flags) IsAnd() bool      { return f&OR == 0 }
func (f Flags) IsStart() bool    { return f&Start != 0 }
func (f Flags) IsIndirect() bool { return f&Indirect != 0 }

// HasRelation reports whether at least one relational bit is set.
func (f Flags) HasRelation() bool { return f&relational != 0 }

// Compare applies every set relational bit to cell and rhs and ORs the
// results. With no relational bit set the comparison never holds.
func Compare(f Flags, cell byte, rhs int) bool {
	v := int(cell)
	return (f.IsEQ() && v == rhs) ||
		(f.IsNEQ() && v != rhs) ||
		(f.IsLT() && v < rhs) ||
		(f.IsGT() && v > rhs)
}

// Evaluate compares cell against operand. When f is Indirect the operand is
// an address and is dereferenced through mem first.
func Evaluate(f Flags, cell byte, operand uint16, mem Memory) (bool, error) {
	rhs := int(operand)
	if f.IsIndirect() {
		v, err := mem.Cell(operand)
		if err != nil {
			return false, err
		}
		rhs = int(v)
	}
	return Compare(f, cell, rhs), nil
}
