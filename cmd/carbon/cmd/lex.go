package cmd

import (
	"fmt"
	"os"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEval     string
	showPos     bool
	onlyErrors  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Carbon file or expression",
	Long: `Tokenize a Carbon program and print the resulting tokens.

Examples:
  carbon lex script.cb
  carbon lex -e "var x = 42;"
  carbon lex --show-pos --only-errors script.cb`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal tokens")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input, filename)
	count, illegal := 0, 0
	for {
		tok := l.Next()
		if tok.Type == lexer.EOF {
			break
		}
		count++
		if tok.Type == lexer.ILLEGAL {
			illegal++
		}
		if onlyErrors && tok.Type != lexer.ILLEGAL {
			continue
		}
		printToken(tok)
	}

	if errs := l.Errors(); len(errs) > 0 {
		fmt.Fprint(os.Stderr, cerrors.FormatAll(errs, false))
		fmt.Fprintln(os.Stderr)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%d token(s), %d illegal\n", count, illegal)
	}
	if illegal > 0 {
		return fmt.Errorf("found %d illegal token(s)", illegal)
	}
	return nil
}

func printToken(tok lexer.Token) {
	out := fmt.Sprintf("[%-11s] %q", tok.Type, tok.Literal)
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}

// readSource resolves a command's input either from an inline -e expression
// or from a file argument, shared by lex/parse/run/disasm.
func readSource(eval string, args []string) (input, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

// hasFatalError reports whether errs contains anything beyond warnings.
func hasFatalError(errs []*cerrors.SourceError) bool {
	for _, e := range errs {
		if !e.Kind.IsWarning() {
			return true
		}
	}
	return false
}
