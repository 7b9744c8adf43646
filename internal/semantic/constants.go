package semantic

import (
	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

// resolveConstants folds every module- and class-level const initializer to
// a ConstValueNode, detecting reference cycles (spec §4.3 pass 2).
func (a *Analyzer) resolveConstants() {
	for _, c := range a.File.Consts {
		a.resolveConst(c)
	}
	for _, c := range a.File.Classes {
		for _, cn := range c.Consts {
			a.resolveConst(cn)
		}
	}
}

func (a *Analyzer) resolveConst(c *ast.ConstNode) {
	if c.Reduced {
		return
	}
	if c.Reducing {
		a.errorf(c.Position, cerrors.Bug, "constant %q is defined in terms of itself", c.Name)
		return
	}
	c.Reducing = true
	v, err := a.evalConst(c.Init)
	c.Reducing = false
	if err != nil {
		a.errors = append(a.errors, err.(*cerrors.SourceError))
		return
	}
	c.Resolved = &ast.ConstValueNode{Position: c.Init.Pos(), Value: v}
	c.Reduced = true
}

// resolveEnums assigns each EnumValueNode a resolved int64, auto-
// incrementing from the previous value when no explicit expression is given
// (spec §4.3 pass 3), and rejects self-referential enum expressions.
func (a *Analyzer) resolveEnums() {
	resolveOne := func(e *ast.EnumNode) {
		var next int64
		for _, ev := range e.Values {
			if ev.Expr == nil {
				ev.Resolved = next
				ev.Reduced = true
			} else {
				if ev.Reducing {
					a.errorf(ev.Position, cerrors.Bug, "enum value %q is defined in terms of itself", ev.Name)
					continue
				}
				ev.Reducing = true
				v, err := a.evalConst(ev.Expr)
				ev.Reducing = false
				if err != nil {
					a.errors = append(a.errors, err.(*cerrors.SourceError))
					continue
				}
				if v.Kind() != value.KindInt {
					a.errorf(ev.Position, cerrors.TypeError, "enum value %q must be an int, got %s", ev.Name, v.Kind())
					continue
				}
				ev.Resolved = v.AsInt()
				ev.Reduced = true
			}
			next = ev.Resolved + 1
		}
	}
	for _, e := range a.File.Enums {
		resolveOne(e)
	}
	for _, c := range a.File.Classes {
		for _, e := range c.Enums {
			resolveOne(e)
		}
	}
}

// evalConst evaluates a compile-time constant expression: literals,
// unary/binary operators over other constant expressions, array/map
// literals of constants, and references to already-resolved consts/enum
// values. Anything depending on runtime state is a TypeError.
func (a *Analyzer) evalConst(expr ast.Expression) (value.Var, error) {
	switch n := expr.(type) {
	case *ast.ConstValueNode:
		return n.Value, nil
	case *ast.OperatorNode:
		if len(n.Args) == 1 {
			operand, err := a.evalConst(n.Args[0])
			if err != nil {
				return value.Null(), err
			}
			return value.Unary(n.Op, operand)
		}
		if len(n.Args) == 2 {
			lhs, err := a.evalConst(n.Args[0])
			if err != nil {
				return value.Null(), err
			}
			rhs, err := a.evalConst(n.Args[1])
			if err != nil {
				return value.Null(), err
			}
			return value.Binary(n.Op, lhs, rhs)
		}
	case *ast.ArrayNode:
		elems := make([]value.Var, len(n.Elems))
		for i, e := range n.Elems {
			v, err := a.evalConst(e)
			if err != nil {
				return value.Null(), err
			}
			elems[i] = v
		}
		return value.FromArray(value.NewArray(elems)), nil
	case *ast.MapNode:
		m := value.NewMap()
		for _, pair := range n.Pairs {
			k, err := a.evalConst(pair.Key)
			if err != nil {
				return value.Null(), err
			}
			v, err := a.evalConst(pair.Value)
			if err != nil {
				return value.Null(), err
			}
			if err := m.Set(k, v); err != nil {
				return value.Null(), err
			}
		}
		return value.FromMap(m), nil
	case *ast.IdentifierNode:
		if c, ok := a.consts[n.Name]; ok {
			a.resolveConst(c)
			if c.Resolved != nil {
				return c.Resolved.Value, nil
			}
		}
		for _, e := range a.File.Enums {
			for _, ev := range e.Values {
				if ev.Name == n.Name {
					if ev.Reducing {
						return value.Null(), cerrors.New(cerrors.Bug, n.Position, "enum value %q is defined in terms of itself", ev.Name)
					}
					return value.Int(ev.Resolved), nil
				}
			}
		}
	}
	return value.Null(), &cerrors.SourceError{
		Kind:    cerrors.TypeError,
		Pos:     expr.Pos(),
		Message: "expression is not a compile-time constant",
	}
}
