package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"backtick/pkg/console"
	"backtick/pkg/engine"
	"backtick/pkg/grammar"
	"backtick/pkg/utils"
)

type options struct {
	showTokens bool
	dumpTape   bool
}

func parseArgs(args []string) (string, options, error) {
	var opts options
	filename := ""
	for _, arg := range args {
		switch arg {
		case "--show-tokens":
			opts.showTokens = true
		case "--dump-tape":
			opts.dumpTape = true
		default:
			if filename != "" {
				return "", opts, fmt.Errorf("unexpected argument %q", arg)
			}
			filename = arg
		}
	}
	if filename == "" {
		return "", opts, fmt.Errorf("usage: console <file> [--show-tokens] [--dump-tape]")
	}
	return filename, opts, nil
}

func main() {
	filename, opts, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	src, fullPath, err := utils.ReadSource(filename)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}
	fmt.Fprintln(os.Stderr, "Running source file:", fullPath)

	vm := engine.New()
	vm.Input = console.NewInput(os.Stdin, os.Stderr)
	code := execute(vm, src, opts, os.Stdout, os.Stderr, console.RowBytes(console.Width(os.Stderr, 80)))
	os.Exit(code)
}

// execute parses and runs src on vm. Program output goes to stdout;
// listings and diagnostics go to diag.
func execute(vm *engine.Engine, src []byte, opts options, stdout, diag io.Writer, perRow int) int {
	tokens, err := grammar.Parse(src)
	if err != nil {
		console.Report(diag, src, err)
		return 1
	}
	if opts.showTokens {
		fmt.Fprintf(diag, "Tokens:\n%s\n", grammar.Format(tokens))
	}

	vm.Output = stdout
	runErr := vm.Execute(tokens)
	if runErr != nil {
		console.Report(diag, src, runErr)
	}
	if opts.dumpTape {
		fmt.Fprintf(diag, "\nTape (%d cells):\n", len(vm.Tape))
		console.DumpTape(diag, vm.Tape, vm.Position, perRow)
		if vm.Symbols.Len() > 0 {
			fmt.Fprintf(diag, "\nSymbols:\n%s", vm.Symbols)
		}
	}
	if runErr != nil {
		return 1
	}
	return 0
}
