// Package carbon is the embedding API: compile Carbon source or a file into
// a Program, then Run it. It wires internal/lexer through internal/parser,
// internal/semantic and internal/bytecode into the single call sequence
// cmd/carbon and host applications both need.
package carbon

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/carbon-lang/carbon/internal/ast"
	"github.com/carbon-lang/carbon/internal/bytecode"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/parser"
	"github.com/carbon-lang/carbon/internal/semantic"
	"github.com/carbon-lang/carbon/internal/value"
)

// Engine holds configuration shared across compiles and runs: where program
// output goes and whether semantic analysis runs before execution.
type Engine struct {
	output    io.Writer
	typeCheck bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput additionally streams the `print` builtin's output to w as the
// program runs, on top of the always-captured Result.Output.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithTypeCheck enables or disables the semantic analysis pass before
// execution. It defaults to enabled; passing false skips straight from
// parse to codegen, matching spec §4's description of analysis as a
// separate, skippable pass.
func WithTypeCheck(enabled bool) Option {
	return func(e *Engine) { e.typeCheck = enabled }
}

// New builds an Engine. Errors are reserved for future option validation;
// it always succeeds today.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{typeCheck: true}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Program is one compiled file: its AST (for inspection) and its generated
// bytecode (for execution).
type Program struct {
	file *ast.FileNode
	code *bytecode.Bytecode
	errs []*cerrors.SourceError
}

// AST returns the program's parsed, analyzed syntax tree.
func (p *Program) AST() *ast.FileNode { return p.file }

// Symbol names one module-level declaration, for simple inspection tools
// (the CLI's future `symbols` use, editor tooling).
type Symbol struct {
	Name string
	Kind string
}

// Symbols lists every module-level const, var, function, class and enum
// declared directly in the program (not in imported files).
func (p *Program) Symbols() []Symbol {
	var syms []Symbol
	for _, c := range p.file.Consts {
		syms = append(syms, Symbol{Name: c.Name, Kind: "const"})
	}
	for _, v := range p.file.Vars {
		syms = append(syms, Symbol{Name: v.Name, Kind: "var"})
	}
	for _, f := range p.file.Functions {
		syms = append(syms, Symbol{Name: f.Name, Kind: "func"})
	}
	for _, c := range p.file.Classes {
		syms = append(syms, Symbol{Name: c.Name, Kind: "class"})
	}
	for _, en := range p.file.Enums {
		syms = append(syms, Symbol{Name: en.Name, Kind: "enum"})
	}
	return syms
}

// Errors returns every diagnostic (parse or semantic) collected while
// compiling this program, including warnings.
func (p *Program) Errors() []*cerrors.SourceError { return p.errs }

// Result is the outcome of running a Program: its return value plus
// everything the `print` builtin wrote during the run.
type Result struct {
	Value  value.Var
	Output string
}

// Compile parses and (unless disabled) semantically analyzes source,
// producing a Program ready to Run. Parse or semantic errors are returned
// as a single combined error; Program.Errors() holds the full diagnostic
// list including any warnings that did not block compilation.
func (e *Engine) Compile(source string) (*Program, error) {
	return e.compileNamed(source, "<source>")
}

// CompileFile reads and compiles a script from disk, resolving `import`
// declarations relative to its directory.
func (e *Engine) CompileFile(path string) (*Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.compileNamed(string(src), path)
}

func (e *Engine) compileNamed(source, filename string) (*Program, error) {
	file, perrs := parser.ParseFile(source, filename)
	if len(perrs) > 0 {
		return &Program{file: file, errs: perrs}, combinedError(perrs)
	}

	imports, ierrs := e.resolveImports(file, filepath.Dir(filename))
	if len(ierrs) > 0 {
		return &Program{file: file, errs: ierrs}, combinedError(ierrs)
	}

	var errs []*cerrors.SourceError
	if e.typeCheck {
		analyzer := semantic.New(file, imports)
		analyzer.Run()
		errs = analyzer.Errors()
		if hasFatal(errs) {
			return &Program{file: file, errs: errs}, combinedError(errs)
		}
	}

	code, err := bytecode.Generate(file)
	if err != nil {
		return &Program{file: file, errs: errs}, err
	}
	return &Program{file: file, code: code, errs: errs}, nil
}

// resolveImports parses and analyzes every file named by an `import`
// declaration, relative to dir, so the analyzer can resolve qualified
// references into them. Only one level of transitive imports is followed
// today: imports-of-imports are a known limitation (see DESIGN.md).
func (e *Engine) resolveImports(file *ast.FileNode, dir string) (map[string]*ast.FileNode, []*cerrors.SourceError) {
	if len(file.Imports) == 0 {
		return nil, nil
	}
	imports := make(map[string]*ast.FileNode, len(file.Imports))
	var errs []*cerrors.SourceError
	for _, imp := range file.Imports {
		path := imp.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, cerrors.New(cerrors.IoError, imp.Position, "cannot read import %q: %v", imp.Path, err))
			continue
		}
		imported, perrs := parser.ParseFile(string(src), path)
		if len(perrs) > 0 {
			errs = append(errs, perrs...)
			continue
		}
		analyzer := semantic.New(imported, nil)
		analyzer.Run()
		if hasFatal(analyzer.Errors()) {
			errs = append(errs, analyzer.Errors()...)
			continue
		}
		imports[imp.Name] = imported
	}
	return imports, errs
}

func hasFatal(errs []*cerrors.SourceError) bool {
	for _, e := range errs {
		if !e.Kind.IsWarning() {
			return true
		}
	}
	return false
}

func combinedError(errs []*cerrors.SourceError) error {
	if len(errs) == 0 {
		return nil
	}
	return &compileError{errs: errs}
}

type compileError struct{ errs []*cerrors.SourceError }

func (e *compileError) Error() string { return cerrors.FormatAll(e.errs, false) }

// Eval compiles and immediately runs source, calling its "main" function
// with no arguments. It is the one-shot convenience wrapper around Compile
// plus Run.
func (e *Engine) Eval(source string) (*Result, error) {
	program, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Run(program)
}

// Run executes a compiled Program's "main" entry point with no arguments.
func (e *Engine) Run(program *Program) (*Result, error) {
	return e.RunEntry(program, "main", nil)
}

// RunEntry executes a specific entry-point function by name, passing args.
// It is how the CLI's `run` command invokes scripts whose entry point isn't
// named "main", and how host applications call into a script after loading
// it once via Compile.
func (e *Engine) RunEntry(program *Program, entry string, args []value.Var) (*Result, error) {
	if program.code == nil {
		return nil, combinedError(program.errs)
	}

	var captured bytes.Buffer
	vm := bytecode.New(program.code)
	if e.output != nil {
		vm.Output = io.MultiWriter(&captured, e.output)
	} else {
		vm.Output = &captured
	}

	v, err := vm.Run(entry, args)
	return &Result{Value: v, Output: captured.String()}, err
}
