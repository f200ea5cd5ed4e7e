//go:build !js

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"backtick/pkg/console"
	"backtick/pkg/engine"
	"backtick/pkg/grammar"
	"backtick/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("backtick", flag.ContinueOnError)
	fs.SetOutput(stderr)
	program := fs.String("e", "", "program source given on the command line")
	inPath := fs.String("in", "", "program source file path")
	formatOnly := fs.Bool("fmt", false, "print the canonical form of the program and exit")
	maxSteps := fs.Int("max-steps", 0, "stop after this many dispatch steps (0 = unlimited)")
	trace := fs.Bool("trace", false, "log every dispatched token to stderr")
	strict := fs.Bool("strict", false, "reject redeclared labels and functions")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *inPath == "" && fs.NArg() == 1 {
		*inPath = fs.Arg(0)
	}
	if *program != "" && *inPath != "" {
		fmt.Fprintln(stderr, "use either -e or -in, not both")
		return 2
	}
	if *program == "" && *inPath == "" {
		fmt.Fprintln(stderr, "nothing to do: provide -e <program> or -in <file>")
		fs.Usage()
		return 2
	}

	src := []byte(*program)
	if *inPath != "" {
		var err error
		src, _, err = utils.ReadSource(*inPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	tokens, err := grammar.Parse(src)
	if err != nil {
		console.Report(stderr, src, err)
		return 1
	}
	if *formatOnly {
		fmt.Fprintln(stdout, grammar.Format(tokens))
		return 0
	}

	vm := engine.New()
	vm.Output = stdout
	vm.StrictSymbols = *strict
	if f, ok := stdin.(*os.File); ok {
		vm.Input = console.NewInput(f, stderr)
	} else if stdin != nil {
		vm.Input = engine.NewLineReader(stdin)
	}
	if *trace {
		vm.Trace = log.New(stderr, "trace: ", 0)
	}

	vm.Load(tokens)
	if err := vm.RunSteps(*maxSteps); err != nil {
		console.Report(stderr, src, err)
		if errors.Is(err, engine.ErrStepLimit) {
			fmt.Fprintf(stderr, "stopped at position %d with %d entries pending\n", vm.Position, vm.Pending())
		}
		return 1
	}
	return 0
}
