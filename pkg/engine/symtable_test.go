package engine

import (
	"reflect"
	"strings"
	"testing"

	"backtick/pkg/grammar"
)

func TestDeclareLastWriteWins(t *testing.T) {
	st := NewSymbolTable()
	one, two := uint16(1), uint16(2)

	if st.Declare(Symbol{Name: "a", Start: &one}) {
		t.Errorf("first declaration reported a replacement")
	}
	if !st.Declare(Symbol{Name: "a", Start: &two}) {
		t.Errorf("second declaration should replace the first")
	}
	sym, ok := st.Lookup("a")
	if !ok || *sym.Start != 2 || sym.IsFunction() {
		t.Errorf("Lookup(a) = %+v, %v", sym, ok)
	}

	// labels and functions share one namespace
	st.Declare(Symbol{Name: "a", Body: []grammar.Token{}})
	sym, _ = st.Lookup("a")
	if !sym.IsFunction() || st.Len() != 1 {
		t.Errorf("function did not replace label: %+v", sym)
	}
}

func TestNamesSorted(t *testing.T) {
	st := NewSymbolTable()
	for _, n := range []string{"zeta", "alpha", "mid"} {
		st.Declare(Symbol{Name: n, Body: []grammar.Token{}})
	}
	want := []string{"alpha", "mid", "zeta"}
	if got := st.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v; want %v", got, want)
	}
}

func TestSuggest(t *testing.T) {
	st := NewSymbolTable()
	for _, n := range []string{"copy", "count", "print"} {
		st.Declare(Symbol{Name: n, Body: []grammar.Token{}})
	}
	tests := []struct {
		name string
		want string
	}{
		{"cpy", "copy"},
		{"COPY", "copy"},
		{"printt", "print"},
		{"zzz", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := st.Suggest(tc.name); got != tc.want {
			t.Errorf("Suggest(%q) = %q; want %q", tc.name, got, tc.want)
		}
	}

	if got := NewSymbolTable().Suggest("x"); got != "" {
		t.Errorf("empty table suggested %q", got)
	}
}

func TestSymbolTableString(t *testing.T) {
	st := NewSymbolTable()
	start, end := uint16(4), uint16(5)
	st.Declare(Symbol{Name: "inc", Body: []grammar.Token{}, Start: &start, End: &end})
	st.Declare(Symbol{Name: "here", Start: &start})

	got := st.String()
	for _, line := range []string{"function inc @4 :5\n", "label here @4\n"} {
		if !strings.Contains(got, line) {
			t.Errorf("String() = %q; missing %q", got, line)
		}
	}
}
