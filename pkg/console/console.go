// Package console connects the engine to a terminal: prompted line input
// for ',' and a hex view of the tape sized to the window.
package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"backtick/pkg/engine"
)

// Prompt is written before each line read from an interactive terminal.
const Prompt = ", "

// Input prompts before each line handed to the engine's ',' operator.
type Input struct {
	lines       engine.LineReader
	prompt      io.Writer
	interactive bool
}

// NewInput reads from f. Prompts go to prompt, and only when f is a
// terminal; piped input is read silently.
func NewInput(f *os.File, prompt io.Writer) *Input {
	return newInput(f, prompt, IsInteractive(f))
}

func newInput(r io.Reader, prompt io.Writer, interactive bool) *Input {
	return &Input{lines: engine.NewLineReader(r), prompt: prompt, interactive: interactive}
}

func (in *Input) ReadLine() ([]byte, error) {
	if in.interactive && in.prompt != nil {
		fmt.Fprint(in.prompt, Prompt)
	}
	return in.lines.ReadLine()
}

func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of the terminal behind f, or fallback
// when f is not a terminal.
func Width(f *os.File, fallback int) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}

// RowBytes picks how many cells fit on one dump line of the given width,
// rounded down to a multiple of 8 and never less than 8.
func RowBytes(width int) int {
	// "0000: " prefix plus three columns and one marker per cell
	n := (width - 6) / 3
	n -= n % 8
	if n < 8 {
		return 8
	}
	return n
}

// DumpTape writes the tape as hex rows of perRow cells. The cell at
// position is bracketed. A position past the end of the tape is noted
// on its own line.
func DumpTape(w io.Writer, tape []byte, position uint16, perRow int) {
	if perRow <= 0 {
		perRow = 16
	}
	for start := 0; start < len(tape); start += perRow {
		end := min(start+perRow, len(tape))
		fmt.Fprintf(w, "%04x:", start)
		for i := start; i < end; i++ {
			if i == int(position) {
				fmt.Fprintf(w, "[%02x]", tape[i])
				continue
			}
			fmt.Fprintf(w, " %02x", tape[i])
		}
		fmt.Fprintln(w)
	}
	if int(position) >= len(tape) {
		fmt.Fprintf(w, "position %d (unbacked, tape length %d)\n", position, len(tape))
	}
}
