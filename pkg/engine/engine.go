// Package engine executes Backtick token trees against a growable byte tape.
//
// Nested bodies are never walked recursively. Every body is pushed onto an
// explicit continuation stack and Step pops one entry at a time, so nesting
// depth is bounded by memory rather than by the Go call stack.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"backtick/pkg/comparator"
	"backtick/pkg/grammar"
)

// MaxTape is the largest tape a uint16 position can address.
const MaxTape = 1 << 16

// Engine runs token trees against a growable tape.
type Engine struct {
	Position uint16
	Tape     []byte
	Symbols  *SymbolTable

	// Halted is set by the first error. A halted engine ignores Step.
	Halted bool
	Steps  int

	// Output receives the bytes written by '.'. If nil, os.Stdout is used.
	Output io.Writer
	// Input supplies lines to ','. If nil, ',' sees end of input.
	Input LineReader
	// Trace, when set, logs every dispatched token.
	Trace *log.Logger
	// StrictSymbols rejects redeclaring a name with ErrDuplicateSymbol
	// instead of replacing it.
	StrictSymbols bool

	stack []grammar.Token
}

// New returns an engine with an empty tape and symbol table.
func New() *Engine {
	return &Engine{Symbols: NewSymbolTable()}
}

func (e *Engine) outputSink() io.Writer {
	if e.Output != nil {
		return e.Output
	}
	return os.Stdout
}

// Load schedules tokens to run before anything already pending.
func (e *Engine) Load(tokens []grammar.Token) {
	e.push(tokens)
}

// Pending is the number of entries left on the continuation stack.
func (e *Engine) Pending() int { return len(e.stack) }

// Done reports whether there is nothing left to run.
func (e *Engine) Done() bool { return e.Halted || len(e.stack) == 0 }

// Execute loads tokens and runs until the stack drains or an error occurs.
func (e *Engine) Execute(tokens []grammar.Token) error {
	e.Load(tokens)
	return e.Run()
}

// Run steps until the stack drains or an error occurs.
func (e *Engine) Run() error {
	for !e.Done() {
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunSteps is Run with a budget of limit dispatches. A limit of zero or
// less means no budget. ErrStepLimit leaves the engine resumable.
func (e *Engine) RunSteps(limit int) error {
	if limit <= 0 {
		return e.Run()
	}
	for n := 0; !e.Done(); n++ {
		if n == limit {
			return fmt.Errorf("%w after %d steps", ErrStepLimit, limit)
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step pops and dispatches one entry.
func (e *Engine) Step() error {
	if e.Done() {
		return nil
	}
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	e.Steps++

	if e.Trace != nil {
		e.Trace.Printf("step %d pos %d: %s", e.Steps, e.Position, top)
	}
	if err := e.dispatch(top); err != nil {
		e.Halted = true
		return err
	}
	return nil
}

func (e *Engine) dispatch(tok grammar.Token) error {
	switch t := tok.(type) {
	case *grammar.Address:
		e.Position = t.Pos
	case *grammar.Label:
		pos := e.Position
		return e.declare(Symbol{Name: t.Name, Start: &pos})
	case *grammar.Function:
		return e.declare(Symbol{Name: t.Name, Body: t.Body, Start: t.Start, End: t.End})
	case *grammar.Execute:
		return e.execute(t.Name)
	case *grammar.Condition:
		return e.condition(t)
	case *grammar.Comparator:
		return e.condition(&grammar.Condition{Chain: []*grammar.Comparator{t}})
	case *grammar.Loop:
		e.push(t.Body)
	case *grammar.Multiplier:
		return e.basic(t.Glyph, t.Count)
	case *grammar.Operator:
		return e.basic(t.Glyph, 1)
	case *grammar.Set:
		if err := e.grow(int(e.Position)+1, "="); err != nil {
			return err
		}
		e.Tape[e.Position] = byte(t.Value)
	case *grammar.Array:
		if len(t.Bytes) == 0 {
			return nil
		}
		end := int(e.Position) + len(t.Bytes)
		if err := e.grow(end, "=array"); err != nil {
			return err
		}
		copy(e.Tape[e.Position:end], t.Bytes)
	case *grammar.Comment:
	default:
		return fmt.Errorf("unsupported token %T", tok)
	}
	return nil
}

func (e *Engine) declare(sym Symbol) error {
	if e.StrictSymbols {
		if _, exists := e.Symbols.Lookup(sym.Name); exists {
			return fmt.Errorf("%w: %q", ErrDuplicateSymbol, sym.Name)
		}
	}
	e.Symbols.Declare(sym)
	return nil
}

func (e *Engine) execute(name string) error {
	sym, ok := e.Symbols.Lookup(name)
	if !ok {
		return &SymbolError{Name: name, Suggestion: e.Symbols.Suggest(name)}
	}
	if !sym.IsFunction() {
		if sym.Start != nil {
			e.Position = *sym.Start
		}
		return nil
	}
	// a function's window is recorded only; its body runs where the
	// cursor already is
	e.push(sym.Body)
	return nil
}

// condition walks the chain left to right. An AND comparator schedules
// its true branch and moves on while it holds; once one fails, its false
// branch is scheduled and the rest of that alternative is skipped. An OR
// or start comparator opens a new alternative. An OR comparator that
// holds ends the walk; one that misses schedules its false branch.
// Branches collected in one walk run in chain order.
func (e *Engine) condition(c *grammar.Condition) error {
	cell, err := e.Cell(e.Position)
	if err != nil {
		return err
	}
	branches := make([][]grammar.Token, 0, len(c.Chain))
	failed := false
	for i, cmp := range c.Chain {
		if i == 0 || cmp.Flags.IsStart() || cmp.Flags.IsOr() {
			failed = false
		}
		if failed {
			continue
		}
		holds, err := comparator.Evaluate(cmp.Flags, cell, cmp.Operand, e)
		if err != nil {
			return err
		}
		if holds {
			branches = append(branches, cmp.True)
			if cmp.Flags.IsOr() {
				break
			}
			continue
		}
		branches = append(branches, cmp.False)
		failed = !cmp.Flags.IsOr()
	}
	for i := len(branches) - 1; i >= 0; i-- {
		e.push(branches[i])
	}
	return nil
}

func (e *Engine) basic(glyph byte, n uint16) error {
	switch glyph {
	case '>':
		p := int(e.Position) + int(n)
		if p >= MaxTape {
			return &BoundsError{Op: ">", Position: p}
		}
		e.Position = uint16(p)
	case '<':
		p := int(e.Position) - int(n)
		if p < 0 {
			return &BoundsError{Op: "<", Position: p}
		}
		e.Position = uint16(p)
	case '+':
		if err := e.grow(int(e.Position)+1, "+"); err != nil {
			return err
		}
		e.Tape[e.Position] += byte(n)
	case '-':
		if err := e.grow(int(e.Position)+1, "-"); err != nil {
			return err
		}
		e.Tape[e.Position] -= byte(n)
	case ',':
		return e.read(int(n))
	case '.':
		if int(e.Position) >= len(e.Tape) {
			return &BoundsError{Op: ".", Position: int(e.Position)}
		}
		end := min(int(e.Position)+int(n), len(e.Tape))
		if _, err := e.outputSink().Write(e.Tape[e.Position:end]); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	case '~':
		e.stack = e.stack[:0]
	default:
		return fmt.Errorf("unknown operator %q", glyph)
	}
	return nil
}

// read appends up to n lines from Input to the end of the tape.
func (e *Engine) read(n int) error {
	if e.Input == nil {
		return nil
	}
	for i := 0; i < n; i++ {
		line, err := e.Input.ReadLine()
		if len(line) > 0 {
			if len(e.Tape)+len(line) > MaxTape {
				return &BoundsError{Op: ",", Position: len(e.Tape) + len(line) - 1}
			}
			e.Tape = append(e.Tape, line...)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
	return nil
}

// grow extends the tape with zeroes so that it holds n cells.
func (e *Engine) grow(n int, op string) error {
	if n > MaxTape {
		return &BoundsError{Op: op, Position: n - 1}
	}
	if len(e.Tape) < n {
		e.Tape = append(e.Tape, make([]byte, n-len(e.Tape))...)
	}
	return nil
}

// Cell reads a backed cell. It satisfies comparator.Memory.
func (e *Engine) Cell(pos uint16) (byte, error) {
	if int(pos) >= len(e.Tape) {
		return 0, &BoundsError{Op: "read", Position: int(pos)}
	}
	return e.Tape[pos], nil
}

// push schedules tokens so that tokens[0] runs next.
func (e *Engine) push(tokens []grammar.Token) {
	for i := len(tokens) - 1; i >= 0; i-- {
		e.stack = append(e.stack, tokens[i])
	}
}
