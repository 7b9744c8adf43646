// Package semantic implements Carbon's multi-pass static analyzer: the
// passes that run over a parsed ast.FileNode before code generation, in the
// fixed order described by the teacher's own internal/semantic package
// (inheritance, then constants, then enums, then per-function resolution).
package semantic

import (
	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/natives"
)

// Analyzer runs the full pass pipeline over one file. Imported files are
// analyzed independently and made available to the resolver via Imports.
type Analyzer struct {
	File    *ast.FileNode
	Imports map[string]*ast.FileNode // import name -> analyzed file

	classes map[string]*ast.ClassNode
	enums   map[string]*ast.EnumNode
	consts  map[string]*ast.ConstNode
	vars    map[string]*ast.VarNode
	funcs   map[string]*ast.FunctionNode

	errors []*cerrors.SourceError
}

// New builds an Analyzer for file, with already-analyzed imported files
// available for cross-file name resolution.
func New(file *ast.FileNode, imports map[string]*ast.FileNode) *Analyzer {
	a := &Analyzer{
		File:    file,
		Imports: imports,
		classes: map[string]*ast.ClassNode{},
		enums:   map[string]*ast.EnumNode{},
		consts:  map[string]*ast.ConstNode{},
		vars:    map[string]*ast.VarNode{},
		funcs:   map[string]*ast.FunctionNode{},
	}
	for _, c := range file.Classes {
		a.classes[c.Name] = c
	}
	for _, e := range file.Enums {
		a.enums[e.Name] = e
	}
	for _, c := range file.Consts {
		a.consts[c.Name] = c
	}
	for _, v := range file.Vars {
		a.vars[v.Name] = v
	}
	for _, f := range file.Functions {
		a.funcs[f.Name] = f
	}
	return a
}

func (a *Analyzer) Errors() []*cerrors.SourceError { return a.errors }

func (a *Analyzer) errorf(pos cerrors.Position, kind cerrors.Kind, format string, args ...any) {
	a.errors = append(a.errors, cerrors.New(kind, pos, format, args...))
}

// Run executes every pass in order and returns whether the file is free of
// analysis errors (a false return means a.Errors() is non-empty).
func (a *Analyzer) Run() bool {
	a.resolveInheritance()
	a.resolveConstants()
	a.resolveEnums()
	a.foldParamDefaults()
	a.resolveFunctionBodies()
	return len(a.errors) == 0
}

// resolveInheritance assigns BaseKind/BaseRef to every class with a base
// name, detecting inheritance cycles and shadowed member names against the
// resolved base chain (spec §4.3 pass 1).
func (a *Analyzer) resolveInheritance() {
	var resolve func(c *ast.ClassNode) bool
	resolve = func(c *ast.ClassNode) bool {
		if c.Reduced {
			return true
		}
		if c.Reducing {
			a.errorf(c.Position, cerrors.TypeError, "inheritance cycle detected at class %q", c.Name)
			return false
		}
		if c.BaseName == "" {
			c.BaseKind = ast.BaseNone
			c.Reduced = true
			return true
		}
		c.Reducing = true
		if base, ok := a.classes[c.BaseName]; ok {
			if !resolve(base) {
				c.Reducing = false
				return false
			}
			c.BaseKind = ast.BaseLocalScript
			c.BaseRef = base
			a.checkShadowing(c, base)
		} else if imported := a.findImportedClass(c.BaseName); imported != nil {
			c.BaseKind = ast.BaseExternalScript
			c.BaseRef = imported
		} else if natives.Lookup(c.BaseName) != nil {
			c.BaseKind = ast.BaseNative
		} else {
			a.errorf(c.Position, cerrors.NameError, "unknown base class %q for class %q", c.BaseName, c.Name)
		}
		c.Reducing = false
		c.Reduced = true
		return true
	}
	for _, c := range a.File.Classes {
		resolve(c)
	}
}

func (a *Analyzer) findImportedClass(name string) *ast.ClassNode {
	for _, f := range a.Imports {
		if c := f.FindClass(name); c != nil {
			return c
		}
	}
	return nil
}

// checkShadowing flags a derived class redeclaring a name already bound on
// its base or any script ancestor of it, per spec §4.3's variable-shadowing
// warning.
func (a *Analyzer) checkShadowing(derived, base *ast.ClassNode) {
	for _, v := range derived.Vars {
		for b := base; b != nil; b = b.BaseRef {
			if b.FindVar(v.Name) != nil {
				a.errorf(v.Position, cerrors.VariableShadowing, "member %q shadows a member declared on base class %q", v.Name, b.Name)
				break
			}
		}
	}
}

// foldParamDefaults reduces every parameter default-value expression to a
// ConstValueNode (spec §4.3 pass 6). Defaults may only reference already
// resolved constants/enum values, never runtime state.
func (a *Analyzer) foldParamDefaults() {
	fold := func(fn *ast.FunctionNode) {
		for i := range fn.Params {
			p := &fn.Params[i]
			if p.Default == nil {
				continue
			}
			v, err := a.evalConst(p.Default)
			if err != nil {
				a.errors = append(a.errors, err.(*cerrors.SourceError))
				continue
			}
			p.ResolvedDefault = &ast.ConstValueNode{Position: p.Default.Pos(), Value: v}
		}
	}
	for _, fn := range a.File.Functions {
		fold(fn)
	}
	for _, c := range a.File.Classes {
		for _, fn := range c.Functions {
			fold(fn)
		}
	}
}
