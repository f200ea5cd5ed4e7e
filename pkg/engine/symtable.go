package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"backtick/pkg/grammar"
)

// Symbol is a label, a function, or a function bound to an address window.
// Labels carry only Start. Functions carry a non-nil Body.
type Symbol struct {
	Name  string
	Body  []grammar.Token
	Start *uint16
	End   *uint16
}

func (s Symbol) IsFunction() bool { return s.Body != nil }

// SymbolTable is the single namespace shared by labels and functions.
type SymbolTable struct {
	symbols map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// Declare stores sym under its name, replacing any earlier entry, and
// reports whether one was replaced.
func (s *SymbolTable) Declare(sym Symbol) bool {
	_, replaced := s.symbols[sym.Name]
	s.symbols[sym.Name] = sym
	return replaced
}

func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

func (s *SymbolTable) Len() int { return len(s.symbols) }

func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns the declared name closest to name, or "" when nothing
// resembles it.
func (s *SymbolTable) Suggest(name string) string {
	if name == "" || len(s.symbols) == 0 {
		return ""
	}
	names := s.Names()
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		// the typo may be longer than the symbol it meant
		for _, candidate := range names {
			if fuzzy.MatchFold(candidate, name) {
				ranks = append(ranks, fuzzy.Rank{Source: name, Target: candidate, Distance: fuzzy.LevenshteinDistance(name, candidate)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Stable(ranks)
	return ranks[0].Target
}

func (s *SymbolTable) String() string {
	var b strings.Builder
	for _, name := range s.Names() {
		sym := s.symbols[name]
		kind := "label"
		if sym.IsFunction() {
			kind = "function"
		}
		fmt.Fprintf(&b, "%s %s", kind, name)
		if sym.Start != nil {
			fmt.Fprintf(&b, " @%d", *sym.Start)
		}
		if sym.End != nil {
			fmt.Fprintf(&b, " :%d", *sym.End)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
