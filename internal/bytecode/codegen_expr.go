package bytecode

import (
	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

// expr compiles an expression, returning the Address its value ends up at.
// Simple references (locals, params, members, constants) return the
// existing Address directly; everything else is computed into a fresh
// temporary stack slot.
func (g *fgen) expr(e ast.Expression) (Address, error) {
	switch n := e.(type) {
	case *ast.ConstValueNode:
		return ConstValue(g.mod.addConst(n.Value)), nil

	case *ast.ThisNode:
		return This(), nil

	case *ast.SuperNode:
		return This(), nil // `super` addresses the same instance; method dispatch picks the base method

	case *ast.BuiltinTypeNode:
		return BuiltinType(builtinTypeID(n.Name)), nil

	case *ast.IdentifierNode:
		return g.identifierAddr(n)

	case *ast.ArrayNode:
		elems := make([]Address, len(n.Elems))
		for i, el := range n.Elems {
			a, err := g.expr(el)
			if err != nil {
				return Address{}, err
			}
			elems[i] = a
		}
		dst := g.alloc()
		g.emit(Instruction{Op: OpConstructLiteralArray, Dst: dst, Args: elems})
		return dst, nil

	case *ast.MapNode:
		var flat []Address
		for _, pair := range n.Pairs {
			k, err := g.expr(pair.Key)
			if err != nil {
				return Address{}, err
			}
			v, err := g.expr(pair.Value)
			if err != nil {
				return Address{}, err
			}
			flat = append(flat, k, v)
		}
		dst := g.alloc()
		g.emit(Instruction{Op: OpConstructLiteralMap, Dst: dst, Args: flat})
		return dst, nil

	case *ast.IndexNode:
		base, err := g.expr(n.Base)
		if err != nil {
			return Address{}, err
		}
		dst := g.alloc()
		g.emit(Instruction{Op: OpGet, Dst: dst, A: base, Name: n.Name})
		return dst, nil

	case *ast.MappedIndexNode:
		base, err := g.expr(n.Base)
		if err != nil {
			return Address{}, err
		}
		key, err := g.expr(n.Key)
		if err != nil {
			return Address{}, err
		}
		dst := g.alloc()
		g.emit(Instruction{Op: OpGetMapped, Dst: dst, A: base, B: key})
		return dst, nil

	case *ast.CallNode:
		return g.call(n)

	case *ast.OperatorNode:
		return g.operator(n)
	}
	return Address{}, &cerrors.SourceError{Kind: cerrors.Bug, Pos: e.Pos(), Message: "codegen: unhandled expression node"}
}

// compileTimeCall lowers the `__assert`/`__func`/`__line`/`__file`
// pseudo-calls marked IsCompileTime by the analyzer (spec §4.3 pass 4).
// __func/__line/__file fold to constants known at codegen time; __assert
// lowers to an ordinary CallBuiltin carrying the source position as a
// diagnostic argument, since the assertion itself must still run at runtime.
func (g *fgen) compileTimeCall(n *ast.CallNode) (Address, error) {
	id, _ := n.Base.(*ast.IdentifierNode)
	name := ""
	if id != nil {
		name = id.Name
	}
	switch name {
	case "__line":
		return ConstValue(g.mod.addConst(value.Int(int64(n.Position.Line)))), nil
	case "__file":
		return ConstValue(g.mod.addConst(value.String(g.mod.Name))), nil
	case "__func":
		return ConstValue(g.mod.addConst(value.String(g.fn.Name))), nil
	case "__assert":
		args := make([]Address, 0, len(n.Args)+1)
		for _, a := range n.Args {
			addr, err := g.expr(a)
			if err != nil {
				return Address{}, err
			}
			args = append(args, addr)
		}
		args = append(args, ConstValue(g.mod.addConst(value.Int(int64(n.Position.Line)))))
		dst := g.alloc()
		g.emit(Instruction{Op: OpCallBuiltin, Dst: dst, Name: "__assert", Args: args})
		return dst, nil
	}
	return Address{}, &cerrors.SourceError{Kind: cerrors.Bug, Pos: n.Position, Message: "codegen: unhandled compile-time call " + name}
}

func builtinTypeID(name string) int32 {
	switch name {
	case "bool":
		return 0
	case "int":
		return 1
	case "float":
		return 2
	case "string":
		return 3
	case "array":
		return 4
	case "map":
		return 5
	default:
		return -1
	}
}

func (g *fgen) identifierAddr(n *ast.IdentifierNode) (Address, error) {
	switch n.Ref {
	case ast.RefParameter:
		return Parameter(int32(n.Index)), nil
	case ast.RefLocalVar, ast.RefLocalConst:
		if slot, ok := g.locals[n.Name]; ok {
			return Stack(slot), nil
		}
	case ast.RefMemberVar:
		return MemberVar(int32(n.Index)), nil
	case ast.RefMemberConst:
		if cn, ok := n.Decl.(*ast.ConstNode); ok && cn.Resolved != nil {
			return ConstValue(g.mod.addConst(cn.Resolved.Value)), nil
		}
	case ast.RefEnumValue:
		if ev, ok := n.Decl.(*ast.EnumValueNode); ok {
			return ConstValue(g.mod.addConst(value.Int(ev.Resolved))), nil
		}
	case ast.RefModuleVar:
		if idx, ok := g.mod.GlobalIndex[n.Name]; ok {
			return Extern(idx), nil
		}
	case ast.RefModuleConst:
		if cn, ok := n.Decl.(*ast.ConstNode); ok && cn.Resolved != nil {
			return ConstValue(g.mod.addConst(cn.Resolved.Value)), nil
		}
	case ast.RefScriptFunction, ast.RefScriptClass, ast.RefNativeClass, ast.RefImportedFile, ast.RefEnumName, ast.RefBuiltinFunc:
		// resolved structurally at the call/construct site, not as a value address
		return Null(), nil
	}
	return Address{}, &cerrors.SourceError{Kind: cerrors.NameError, Pos: n.Position, Message: "unresolved identifier " + n.Name}
}

// operator compiles both plain binary/unary operators and assignment forms
// (OperatorNode.IsAssign, spec-level desugaring of compound assignment
// already folded by the parser into a plain `=` over a nested operator).
func (g *fgen) operator(n *ast.OperatorNode) (Address, error) {
	if n.IsAssign {
		return g.assign(n.Args[0], n.Args[1])
	}
	if len(n.Args) == 1 {
		a, err := g.expr(n.Args[0])
		if err != nil {
			return Address{}, err
		}
		dst := g.alloc()
		g.emit(Instruction{Op: OpOperator, Dst: dst, A: a, N: int32(n.Op)})
		return dst, nil
	}
	if n.Op == value.OpAnd || n.Op == value.OpOr {
		return g.shortCircuit(n.Op, n.Args[0], n.Args[1])
	}
	lhs, err := g.expr(n.Args[0])
	if err != nil {
		return Address{}, err
	}
	rhs, err := g.expr(n.Args[1])
	if err != nil {
		return Address{}, err
	}
	dst := g.alloc()
	g.emit(Instruction{Op: OpOperator, Dst: dst, A: lhs, B: rhs, N: int32(n.Op)})
	return dst, nil
}

// shortCircuit lowers && and || so the right operand is only evaluated when
// it can affect the result (spec §3.1): SetFalse/SetTrue supply the
// short-circuited result, OpAnd/OpOr(b, b) coerces the evaluated right
// operand to its truthiness when it is reached.
func (g *fgen) shortCircuit(op value.Operator, lhsExpr, rhsExpr ast.Expression) (Address, error) {
	lhs, err := g.expr(lhsExpr)
	if err != nil {
		return Address{}, err
	}
	dst := g.alloc()
	var shortJump int
	if op == value.OpAnd {
		shortJump = g.emit(Instruction{Op: OpJumpIfNot, A: lhs})
	} else {
		shortJump = g.emit(Instruction{Op: OpJumpIf, A: lhs})
	}
	rhs, err := g.expr(rhsExpr)
	if err != nil {
		return Address{}, err
	}
	g.emit(Instruction{Op: OpOperator, Dst: dst, A: rhs, B: rhs, N: int32(op)})
	jEnd := g.emit(Instruction{Op: OpJump})
	g.fn.Code[shortJump].N = int32(len(g.fn.Code))
	if op == value.OpAnd {
		g.emit(Instruction{Op: OpSetFalse, Dst: dst})
	} else {
		g.emit(Instruction{Op: OpSetTrue, Dst: dst})
	}
	g.fn.Code[jEnd].N = int32(len(g.fn.Code))
	return dst, nil
}

func (g *fgen) assign(lhs, rhs ast.Expression) (Address, error) {
	src, err := g.expr(rhs)
	if err != nil {
		return Address{}, err
	}
	switch l := lhs.(type) {
	case *ast.IdentifierNode:
		dst, err := g.identifierAddr(l)
		if err != nil {
			return Address{}, err
		}
		g.emit(Instruction{Op: OpAssign, Dst: dst, A: src})
		return dst, nil
	case *ast.IndexNode:
		base, err := g.expr(l.Base)
		if err != nil {
			return Address{}, err
		}
		g.emit(Instruction{Op: OpSet, A: base, Name: l.Name, Args: []Address{src}})
		return src, nil
	case *ast.MappedIndexNode:
		base, err := g.expr(l.Base)
		if err != nil {
			return Address{}, err
		}
		key, err := g.expr(l.Key)
		if err != nil {
			return Address{}, err
		}
		g.emit(Instruction{Op: OpSetMapped, A: base, B: key, Args: []Address{src}})
		return src, nil
	}
	return Address{}, &cerrors.SourceError{Kind: cerrors.SyntaxError, Pos: lhs.Pos(), Message: "invalid assignment target"}
}

// call compiles a CallNode: a bare call (function, builtin, or class
// construction) or a `base.method(...)` dispatch.
func (g *fgen) call(n *ast.CallNode) (Address, error) {
	if n.IsCompileTime {
		return g.compileTimeCall(n)
	}
	args := make([]Address, len(n.Args))
	for i, a := range n.Args {
		addr, err := g.expr(a)
		if err != nil {
			return Address{}, err
		}
		args[i] = addr
	}
	dst := g.alloc()

	if n.Method != "" {
		base, err := g.expr(n.Base)
		if err != nil {
			return Address{}, err
		}
		if _, isSuper := n.Base.(*ast.SuperNode); isSuper {
			g.emit(Instruction{Op: OpCallSuperCtor, Dst: dst, A: base, Name: n.Method, Args: args})
			return dst, nil
		}
		g.emit(Instruction{Op: OpCallMethod, Dst: dst, A: base, Name: n.Method, Args: args})
		return dst, nil
	}

	switch base := n.Base.(type) {
	case *ast.BuiltinTypeNode:
		g.emit(Instruction{Op: OpConstructBuiltin, Dst: dst, Name: base.Name, Args: args})
		return dst, nil
	case *ast.IdentifierNode:
		switch base.Ref {
		case ast.RefScriptFunction:
			g.emit(Instruction{Op: OpCallFunc, Dst: dst, Name: base.Name, Args: args})
			return dst, nil
		case ast.RefScriptClass:
			g.emit(Instruction{Op: OpConstructCarbon, Dst: dst, Name: base.Name, Args: args})
			return dst, nil
		case ast.RefNativeClass:
			g.emit(Instruction{Op: OpConstructNative, Dst: dst, Name: base.Name, Args: args})
			return dst, nil
		case ast.RefBuiltinFunc:
			g.emit(Instruction{Op: OpCallBuiltin, Dst: dst, Name: base.Name, Args: args})
			return dst, nil
		default:
			baseAddr, err := g.expr(base)
			if err != nil {
				return Address{}, err
			}
			g.emit(Instruction{Op: OpCall, Dst: dst, A: baseAddr, Args: args})
			return dst, nil
		}
	case *ast.SuperNode:
		baseAddr, _ := g.expr(base)
		g.emit(Instruction{Op: OpCallSuperCtor, Dst: dst, A: baseAddr, Args: args})
		return dst, nil
	default:
		baseAddr, err := g.expr(n.Base)
		if err != nil {
			return Address{}, err
		}
		g.emit(Instruction{Op: OpCall, Dst: dst, A: baseAddr, Args: args})
		return dst, nil
	}
}
