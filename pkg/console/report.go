package console

import (
	"errors"
	"fmt"
	"io"

	"backtick/pkg/grammar"
	"backtick/pkg/utils"
)

// Report prints err for a person at a terminal. Parse errors quote the
// offending source line with a caret under the failing column.
func Report(w io.Writer, src []byte, err error) {
	var pe *grammar.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintf(w, "parse error: %v\n", pe)
		if c := utils.Caret(src, pe.Line, pe.Column); c != "" {
			fmt.Fprintln(w, c)
		}
		return
	}
	fmt.Fprintf(w, "runtime error: %v\n", err)
}
