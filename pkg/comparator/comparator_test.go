package comparator

import (
	"errors"
	"testing"
)

type cells []byte

func (c cells) Cell(pos uint16) (byte, error) {
	if int(pos) >= len(c) {
		return 0, errors.New("unbacked")
	}
	return c[pos], nil
}

func TestDecode(t *testing.T) {
	tests := []struct {
		glyphs string
		want   Flags
	}{
		{"?=", Start | EQ},
		{"?'", Start | NEQ},
		{"?\\", Start | LT},
		{"?/", Start | GT},
		{"|=", OR | EQ},
		{"|'", OR | NEQ},
		{"&\\", LT},
		{"&/", GT},
		{"?\\=", Start | LT | EQ},
		{"|/=", OR | GT | EQ},
		{"&==", EQ},
		{"", 0},
		{"x=", EQ},
		{"?x", Start},
	}

	for _, tc := range tests {
		if got := Decode([]byte(tc.glyphs)); got != tc.want {
			t.Errorf("Decode(%q) = %08b; want %08b", tc.glyphs, got, tc.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	f := Decode([]byte("|\\="))
	if !f.IsOr() || f.IsAnd() {
		t.Errorf("expected OR role, got %08b", f)
	}
	if !f.IsLT() || !f.IsEQ() || f.IsGT() || f.IsNEQ() {
		t.Errorf("expected LT|EQ, got %08b", f)
	}
	if f.IsStart() || f.IsIndirect() {
		t.Errorf("unexpected start/indirect bits in %08b", f)
	}

	g := Decode([]byte("?/")) | Indirect
	if !g.IsAnd() || !g.IsStart() || !g.IsIndirect() {
		t.Errorf("expected start AND indirect, got %08b", g)
	}
	if !g.HasRelation() {
		t.Errorf("expected a relational bit in %08b", g)
	}
	if Flags(0).HasRelation() {
		t.Errorf("zero flags should carry no relation")
	}
}

func TestCompareTruthTable(t *testing.T) {
	tests := []struct {
		glyphs string
		cell   byte
		rhs    int
		want   bool
	}{
		{"?=", 3, 3, true},
		{"?=", 3, 4, false},
		{"?'", 3, 4, true},
		{"?'", 3, 3, false},
		{"?\\", 2, 3, true},
		{"?\\", 3, 3, false},
		{"?/", 4, 3, true},
		{"?/", 3, 3, false},
		// LT|EQ behaves as LTE, GT|EQ as GTE
		{"?\\=", 3, 3, true},
		{"?\\=", 2, 3, true},
		{"?\\=", 4, 3, false},
		{"?/=", 3, 3, true},
		{"?/=", 4, 3, true},
		{"?/=", 2, 3, false},
		// literal operands may exceed a byte
		{"?\\", 255, 300, true},
	}

	for _, tc := range tests {
		f := Decode([]byte(tc.glyphs))
		if got := Compare(f, tc.cell, tc.rhs); got != tc.want {
			t.Errorf("Compare(%q, %d, %d) = %v; want %v", tc.glyphs, tc.cell, tc.rhs, got, tc.want)
		}
	}

	if Compare(Start, 0, 0) {
		t.Errorf("flags without a relation must never hold")
	}
}

func TestEvaluateIndirect(t *testing.T) {
	mem := cells{7, 9}

	ok, err := Evaluate(EQ|Indirect, 9, 1, mem)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !ok {
		t.Errorf("expected cell 9 == tape[1]")
	}

	ok, err = Evaluate(EQ, 1, 1, mem)
	if err != nil || !ok {
		t.Errorf("literal operand: got %v, %v", ok, err)
	}

	if _, err := Evaluate(EQ|Indirect, 0, 5, mem); err == nil {
		t.Errorf("expected error dereferencing unbacked cell")
	}
}

func TestGlyphsRoundTrip(t *testing.T) {
	for _, role := range []string{"?", "|", "&"} {
		for _, rel := range []string{"=", "'", "\\", "/", "'=", "\\=", "/="} {
			src := role + rel
			f := Decode([]byte(src))
			back := Decode(f.Glyphs())
			if back != f {
				t.Errorf("Decode(%q).Glyphs() = %q decodes to %08b; want %08b", src, f.Glyphs(), back, f)
			}
			if string(f.Glyphs()) != src {
				t.Errorf("Glyphs for %q = %q", src, f.Glyphs())
			}
		}
	}
	if got := string(Decode([]byte("?==")).Glyphs()); got != "?=" {
		t.Errorf("doubled equals should canonicalise to \"?=\", got %q", got)
	}
}
