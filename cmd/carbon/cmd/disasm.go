package cmd

import (
	"fmt"
	"os"

	"github.com/carbon-lang/carbon/internal/bytecode"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/parser"
	"github.com/carbon-lang/carbon/internal/semantic"
	"github.com/spf13/cobra"
)

var disasmEval string

var disasmCmd = &cobra.Command{
	Use:   "disasm [file]",
	Short: "Compile a Carbon file and print its disassembled bytecode",
	Long: `Compile a Carbon program through parsing, semantic analysis and code
generation, then print every module/class/function's instruction listing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)

	disasmCmd.Flags().StringVarP(&disasmEval, "eval", "e", "", "disassemble inline code instead of reading from file")
}

func runDisasm(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(disasmEval, args)
	if err != nil {
		return err
	}

	file, errs := parser.ParseFile(input, filename)
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, cerrors.FormatAll(errs, false))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	analyzer := semantic.New(file, nil)
	analyzer.Run()
	errs = analyzer.Errors()
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, cerrors.FormatAll(errs, false))
		fmt.Fprintln(os.Stderr)
	}
	if hasFatalError(errs) {
		return fmt.Errorf("semantic analysis failed")
	}

	mod, err := bytecode.Generate(file)
	if err != nil {
		return err
	}
	fmt.Print(bytecode.Disassemble(mod))
	return nil
}
