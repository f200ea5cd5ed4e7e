package main

import (
	"fmt"
	"os"

	"backtick/pkg/console"
	"backtick/pkg/grammar"
	"backtick/pkg/utils"
)

const demoSource = "```copy cell 0 into cell 1\n" +
	"=5 ^copy @0:1 !`?'0`->+<!copy`` !copy"

func main() {
	src := []byte(demoSource)
	if len(os.Args) > 1 {
		data, _, err := utils.ReadSource(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = data
	}

	fmt.Printf("Source:\n%s\n\n", src)

	tokens, err := grammar.Parse(src)
	if err != nil {
		console.Report(os.Stderr, src, err)
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	grammar.Dump(os.Stdout, tokens)
	fmt.Println()

	fmt.Println("Canonical")
	fmt.Println(grammar.Format(tokens))
}
