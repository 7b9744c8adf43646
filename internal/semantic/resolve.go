package semantic

import (
	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/natives"
)

// compileTimeFuncs names the pseudo-calls resolved entirely by the analyzer
// rather than lowered to a runtime call (spec §4.3 pass 4).
var compileTimeFuncs = map[string]bool{
	"__assert": true, "__func": true, "__line": true, "__file": true,
}

// builtinFuncs names ordinary (non-compile-time) VM-level builtins: the
// spec's minimal set (print/input/min/max/pow) plus the math and locale
// helpers restored from original_source/core/builtin_functions.cpp.
var builtinFuncs = map[string]bool{
	"print": true, "input": true, "min": true, "max": true, "pow": true,
	"ceil": true, "floor": true, "round": true, "abs": true,
	"normalize": true, "strcmp_locale": true,
}

// funcScope tracks the function and class currently being walked, so
// identifier resolution can find parameters, members, and `this`/`super`
// legality in one pass.
type funcScope struct {
	fn    *ast.FunctionNode
	class *ast.ClassNode
	block *ast.BlockNode
}

// resolveFunctionBodies walks every module- and class-level function body,
// resolving identifiers and checking call-site arity (spec §4.3 pass 7).
func (a *Analyzer) resolveFunctionBodies() {
	for _, fn := range a.File.Functions {
		a.resolveFunction(fn, funcScope{fn: fn})
	}
	for _, c := range a.File.Classes {
		for _, fn := range c.Functions {
			a.resolveFunction(fn, funcScope{fn: fn, class: c})
		}
	}
}

func (a *Analyzer) resolveFunction(fn *ast.FunctionNode, scope funcScope) {
	if fn.Body == nil {
		return
	}
	a.resolveBlock(fn.Body, scope)
}

func (a *Analyzer) resolveBlock(b *ast.BlockNode, scope funcScope) {
	scope.block = b
	for _, stmt := range b.Statements {
		a.resolveStatement(stmt, scope)
	}
}

func (a *Analyzer) resolveStatement(stmt ast.Statement, scope funcScope) {
	switch s := stmt.(type) {
	case *ast.BlockNode:
		a.resolveBlock(s, scope)
	case *ast.VarNode:
		if s.Init != nil {
			a.resolveExpr(s.Init, scope)
		}
	case *ast.ConstNode:
		a.resolveConst(s)
	case *ast.ExprStatement:
		a.resolveExpr(s.Expr, scope)
	case *ast.ControlFlowNode:
		for _, arg := range s.Args {
			a.resolveExpr(arg, scope)
		}
		if s.Init != nil {
			a.resolveStatement(s.Init, scope)
		}
		if s.Step != nil {
			a.resolveStatement(s.Step, scope)
		}
		if s.Kind == ast.CFForeach && s.Body != nil && !s.Body.HasLocal(s.ForeachVar) {
			s.Body.Locals = append(s.Body.Locals, &ast.VarNode{Position: s.Position, Name: s.ForeachVar})
		}
		if s.Body != nil {
			a.resolveBlock(s.Body, scope)
		}
		if s.ElseBody != nil {
			a.resolveBlock(s.ElseBody, scope)
		}
		for _, c := range s.Cases {
			for _, v := range c.Values {
				a.resolveExpr(v, scope)
			}
			if c.Body != nil {
				a.resolveBlock(c.Body, scope)
			}
		}
	}
}

func (a *Analyzer) resolveExpr(expr ast.Expression, scope funcScope) {
	switch n := expr.(type) {
	case *ast.IdentifierNode:
		a.resolveIdentifier(n, scope)
	case *ast.ThisNode:
		if scope.class == nil || (scope.fn != nil && scope.fn.Static) {
			a.errorf(n.Position, cerrors.NameError, "'this' is only legal inside a non-static method")
		}
	case *ast.SuperNode:
		if scope.class == nil || scope.class.BaseKind == ast.BaseNone {
			a.errorf(n.Position, cerrors.NameError, "'super' is only legal inside a class with a base class")
		}
	case *ast.ArrayNode:
		for _, e := range n.Elems {
			a.resolveExpr(e, scope)
		}
	case *ast.MapNode:
		for _, p := range n.Pairs {
			a.resolveExpr(p.Key, scope)
			a.resolveExpr(p.Value, scope)
		}
	case *ast.CallNode:
		a.resolveCall(n, scope)
	case *ast.IndexNode:
		a.resolveExpr(n.Base, scope)
	case *ast.MappedIndexNode:
		a.resolveExpr(n.Base, scope)
		a.resolveExpr(n.Key, scope)
	case *ast.OperatorNode:
		for _, arg := range n.Args {
			a.resolveExpr(arg, scope)
		}
	}
}

func (a *Analyzer) resolveCall(n *ast.CallNode, scope funcScope) {
	for _, arg := range n.Args {
		a.resolveExpr(arg, scope)
	}
	if n.Method == "" {
		if id, ok := n.Base.(*ast.IdentifierNode); ok {
			if compileTimeFuncs[id.Name] {
				n.IsCompileTime = true
				id.Ref = ast.RefBuiltinFunc
				return
			}
			if builtinFuncs[id.Name] {
				id.Ref = ast.RefBuiltinFunc
				return
			}
		}
	}
	a.resolveExpr(n.Base, scope)
	if n.Method == "" {
		if id, ok := n.Base.(*ast.IdentifierNode); ok && id.Ref == ast.RefScriptFunction {
			if fn, ok := id.Decl.(*ast.FunctionNode); ok {
				a.checkArity(n.Position, fn, len(n.Args))
			}
		}
	}
}

func (a *Analyzer) checkArity(pos cerrors.Position, fn *ast.FunctionNode, argc int) {
	total, defaulted := fn.Arity()
	min := total - defaulted
	if argc < min || argc > total {
		a.errorf(pos, cerrors.InvalidArgCount, "%q expects between %d and %d arguments, got %d", fn.Name, min, total, argc)
	}
}

// resolveIdentifier resolves n against, in order: the current function's
// parameters, enclosing block scopes (locals/consts), the current class's
// members (and its base chain), module-level enum values, module
// vars/consts/functions/classes, imported files, and finally native classes.
func (a *Analyzer) resolveIdentifier(n *ast.IdentifierNode, scope funcScope) {
	if scope.fn != nil {
		for i, p := range scope.fn.Params {
			if p.Name == n.Name {
				n.Ref, n.Index = ast.RefParameter, i
				return
			}
		}
	}

	for b := scope.block; b != nil; b = b.Parent {
		for _, v := range b.Locals {
			if v.Name == n.Name {
				n.Ref, n.Decl = ast.RefLocalVar, v
				return
			}
		}
		for _, c := range b.LocalConsts {
			if c.Name == n.Name {
				n.Ref, n.Decl = ast.RefLocalConst, c
				return
			}
		}
	}

	if scope.class != nil {
		for c := scope.class; c != nil; c = c.BaseRef {
			if v := c.FindVar(n.Name); v != nil {
				n.Ref, n.Index, n.Decl = ast.RefMemberVar, v.MemberIdx, v
				return
			}
			for _, cn := range c.Consts {
				if cn.Name == n.Name {
					n.Ref, n.Decl = ast.RefMemberConst, cn
					return
				}
			}
			if c.BaseKind != ast.BaseLocalScript {
				break
			}
		}
	}

	for _, e := range a.File.Enums {
		for _, ev := range e.Values {
			if ev.Name == n.Name {
				n.Ref, n.Decl = ast.RefEnumValue, ev
				return
			}
		}
		if e.Name == n.Name {
			n.Ref, n.Decl = ast.RefEnumName, e
			return
		}
	}

	if v, ok := a.vars[n.Name]; ok {
		n.Ref, n.Decl = ast.RefModuleVar, v
		return
	}
	if c, ok := a.consts[n.Name]; ok {
		n.Ref, n.Decl = ast.RefModuleConst, c
		return
	}
	if fn, ok := a.funcs[n.Name]; ok {
		n.Ref, n.Decl = ast.RefScriptFunction, fn
		return
	}
	if c, ok := a.classes[n.Name]; ok {
		n.Ref, n.Decl = ast.RefScriptClass, c
		return
	}
	if f, ok := a.Imports[n.Name]; ok {
		n.Ref, n.Decl = ast.RefImportedFile, f
		return
	}
	if natives.Lookup(n.Name) != nil {
		n.Ref = ast.RefNativeClass
		return
	}

	a.errorf(n.Position, cerrors.NameError, "undefined name %q", n.Name)
}
