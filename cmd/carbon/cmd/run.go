package cmd

import (
	"fmt"
	"os"

	"github.com/carbon-lang/carbon/pkg/carbon"
	"github.com/spf13/cobra"
)

var (
	runEval   string
	entryName string
	typeCheck bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Carbon file or expression",
	Long: `Execute a Carbon program from a file or inline expression, calling
its "main" function (or --entry's function) with no arguments.

Examples:
  carbon run script.cb
  carbon run -e 'func main() { print("hi"); }'
  carbon run --type-check=false script.cb`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().StringVar(&entryName, "entry", "main", "name of the function to call after loading the script")
	runCmd.Flags().BoolVar(&typeCheck, "type-check", true, "run semantic analysis before execution")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(runEval, args)
	if err != nil {
		return err
	}

	engine, err := carbon.New(carbon.WithTypeCheck(typeCheck))
	if err != nil {
		return err
	}

	program, err := engine.Compile(input)
	if err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("compiling %s failed", filename)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "compiled %s: %d symbol(s)\n", filename, len(program.Symbols()))
	}

	result, err := engine.RunEntry(program, entryName, nil)
	if result != nil {
		fmt.Print(result.Output)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return fmt.Errorf("execution failed")
	}
	return nil
}
