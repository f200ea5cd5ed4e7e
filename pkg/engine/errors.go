package engine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSymbol   = errors.New("unknown symbol")
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrStepLimit       = errors.New("step limit reached")
)

// SymbolError reports an Execute of a name that was never declared.
type SymbolError struct {
	Name       string
	Suggestion string
}

func (e *SymbolError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown symbol %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown symbol %q", e.Name)
}

func (e *SymbolError) Unwrap() error { return ErrUnknownSymbol }

// BoundsError reports an access outside the tape or the address range.
type BoundsError struct {
	Op       string
	Position int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: position %d out of bounds", e.Op, e.Position)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }
