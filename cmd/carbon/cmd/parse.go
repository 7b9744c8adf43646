package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/parser"
	"github.com/spf13/cobra"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Carbon source and display the AST",
	Long: `Parse Carbon source code and print its top-level declarations.

Use --dump-ast to show the full indented tree instead of the
reconstructed-source summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	file, errs := parser.ParseFile(input, filename)
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, cerrors.FormatAll(errs, false))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	if parseDumpAST {
		dumpFile(file)
	} else {
		fmt.Println(summarizeFile(file))
	}
	return nil
}

// summarizeFile reconstructs a source-like listing of a file's top-level
// declarations from each node's own String() method.
func summarizeFile(f *ast.FileNode) string {
	var parts []string
	for _, im := range f.Imports {
		parts = append(parts, fmt.Sprintf("import %s = %q;", im.Name, im.Path))
	}
	for _, e := range f.Enums {
		parts = append(parts, e.String())
	}
	for _, c := range f.Consts {
		parts = append(parts, c.String())
	}
	for _, v := range f.Vars {
		parts = append(parts, v.String())
	}
	for _, fn := range f.Functions {
		parts = append(parts, fn.String())
	}
	for _, c := range f.Classes {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "\n")
}

func dumpFile(f *ast.FileNode) {
	fmt.Printf("file %s\n", f.Path)
	for _, im := range f.Imports {
		fmt.Printf("  import %s = %q\n", im.Name, im.Path)
	}
	for _, e := range f.Enums {
		dumpEnum(e, 1)
	}
	for _, c := range f.Consts {
		fmt.Printf("  const %s = %s\n", c.Name, c.Init.String())
	}
	for _, v := range f.Vars {
		dumpVar(v, 1)
	}
	for _, fn := range f.Functions {
		dumpFunction(fn, 1)
	}
	for _, c := range f.Classes {
		dumpClass(c, 1)
	}
}

func dumpEnum(e *ast.EnumNode, depth int) {
	ind := strings.Repeat("  ", depth)
	fmt.Printf("%senum %s\n", ind, e.Name)
	for _, v := range e.Values {
		if v.Expr != nil {
			fmt.Printf("%s  %s = %s\n", ind, v.Name, v.Expr.String())
		} else {
			fmt.Printf("%s  %s\n", ind, v.Name)
		}
	}
}

func dumpVar(v *ast.VarNode, depth int) {
	ind := strings.Repeat("  ", depth)
	if v.Init != nil {
		fmt.Printf("%svar %s = %s\n", ind, v.Name, v.Init.String())
	} else {
		fmt.Printf("%svar %s\n", ind, v.Name)
	}
}

func dumpFunction(fn *ast.FunctionNode, depth int) {
	ind := strings.Repeat("  ", depth)
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	fmt.Printf("%sfunc %s(%s)\n", ind, fn.Name, strings.Join(names, ", "))
	for _, stmt := range fn.Body.Statements {
		fmt.Printf("%s  %s\n", ind, stmt.String())
	}
}

func dumpClass(c *ast.ClassNode, depth int) {
	ind := strings.Repeat("  ", depth)
	if c.BaseName != "" {
		fmt.Printf("%sclass %s : %s\n", ind, c.Name, c.BaseName)
	} else {
		fmt.Printf("%sclass %s\n", ind, c.Name)
	}
	for _, v := range c.Vars {
		dumpVar(v, depth+1)
	}
	for _, fn := range c.Functions {
		dumpFunction(fn, depth+1)
	}
}
