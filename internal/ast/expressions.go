package ast

import (
	"fmt"
	"strings"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

func (*ConstValueNode) expressionNode()   {}
func (*IdentifierNode) expressionNode()   {}
func (*ArrayNode) expressionNode()        {}
func (*MapNode) expressionNode()          {}
func (*ThisNode) expressionNode()         {}
func (*SuperNode) expressionNode()        {}
func (*BuiltinTypeNode) expressionNode()  {}
func (*CallNode) expressionNode()         {}
func (*IndexNode) expressionNode()        {}
func (*MappedIndexNode) expressionNode()  {}
func (*OperatorNode) expressionNode()     {}

// ConstValueNode is a fully-reduced compile-time scalar literal.
type ConstValueNode struct {
	Position cerrors.Position
	Value    value.Var
}

func (n *ConstValueNode) Pos() cerrors.Position { return n.Position }
func (n *ConstValueNode) String() string        { return n.Value.String() }

// IdentifierNode references a name, resolved by the analyzer to a Ref kind
// plus an index/declaration pointer appropriate to that kind.
type IdentifierNode struct {
	Position cerrors.Position
	Name     string

	Ref   RefKind
	Index int // parameter index / member index, meaning depends on Ref
	Decl  Node // resolved declaration node (function/class/enum/var), if any
}

func (n *IdentifierNode) Pos() cerrors.Position { return n.Position }
func (n *IdentifierNode) String() string        { return n.Name }

// ArrayNode is an array literal `[e1, e2, ...]`.
type ArrayNode struct {
	Position cerrors.Position
	Elems    []Expression
}

func (n *ArrayNode) Pos() cerrors.Position { return n.Position }
func (n *ArrayNode) String() string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapPair is one key:value pair of a MapNode, in source order.
type MapPair struct {
	Key   Expression
	Value Expression
}

// MapNode is a map literal `{k1: v1, k2: v2}`.
type MapNode struct {
	Position cerrors.Position
	Pairs    []MapPair
}

func (n *MapNode) Pos() cerrors.Position { return n.Position }
func (n *MapNode) String() string {
	parts := make([]string, len(n.Pairs))
	for i, p := range n.Pairs {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ThisNode is the `this` expression, legal only inside a non-static method.
type ThisNode struct{ Position cerrors.Position }

func (n *ThisNode) Pos() cerrors.Position { return n.Position }
func (n *ThisNode) String() string        { return "this" }

// SuperNode is the `super` expression, legal only inside a class with a base.
type SuperNode struct{ Position cerrors.Position }

func (n *SuperNode) Pos() cerrors.Position { return n.Position }
func (n *SuperNode) String() string        { return "super" }

// BuiltinTypeNode references one of the builtin type-constructor names
// (bool/int/float/string/array/map) used as a CallNode base.
type BuiltinTypeNode struct {
	Position cerrors.Position
	Name     string
}

func (n *BuiltinTypeNode) Pos() cerrors.Position { return n.Position }
func (n *BuiltinTypeNode) String() string        { return n.Name }

// CallNode is a call expression `base(args...)` or `base.method(args...)`.
type CallNode struct {
	Position    cerrors.Position
	Base        Expression
	Method      string // non-empty for `base.method(...)`
	Args        []Expression
	IsCompileTime bool
}

func (n *CallNode) Pos() cerrors.Position { return n.Position }
func (n *CallNode) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	args := strings.Join(parts, ", ")
	if n.Method != "" {
		return fmt.Sprintf("%s.%s(%s)", n.Base.String(), n.Method, args)
	}
	return fmt.Sprintf("%s(%s)", n.Base.String(), args)
}

// IndexNode is a field access `base.name` (not a call).
type IndexNode struct {
	Position cerrors.Position
	Base     Expression
	Name     string
}

func (n *IndexNode) Pos() cerrors.Position { return n.Position }
func (n *IndexNode) String() string        { return n.Base.String() + "." + n.Name }

// MappedIndexNode is a key-indexed access `base[key]`.
type MappedIndexNode struct {
	Position cerrors.Position
	Base     Expression
	Key      Expression
}

func (n *MappedIndexNode) Pos() cerrors.Position { return n.Position }
func (n *MappedIndexNode) String() string {
	return fmt.Sprintf("%s[%s]", n.Base.String(), n.Key.String())
}

// OperatorNode is a unary or binary operator application, and also models
// assignment (`=`, `+=`, ...) with Op naming the operator and Args holding
// [lhs, rhs] (binary/assignment) or [operand] (unary).
type OperatorNode struct {
	Position cerrors.Position
	Op       value.Operator
	Args     []Expression
	IsAssign bool
}

func (n *OperatorNode) Pos() cerrors.Position { return n.Position }
func (n *OperatorNode) String() string {
	if len(n.Args) == 1 {
		return n.Op.String() + n.Args[0].String()
	}
	if len(n.Args) == 2 {
		return fmt.Sprintf("(%s %s %s)", n.Args[0].String(), n.Op.String(), n.Args[1].String())
	}
	return n.Op.String()
}
