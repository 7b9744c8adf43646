// Command carbon is the Carbon language CLI: run, parse, lex and disassemble
// scripts through the internal compiler and bytecode VM packages.
package main

import (
	"fmt"
	"os"

	"github.com/carbon-lang/carbon/cmd/carbon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
