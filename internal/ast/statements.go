package ast

import (
	"strings"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
)

func (*BlockNode) statementNode()      {}
func (*VarNode) statementNode()        {}
func (*ConstNode) statementNode()      {}
func (*ControlFlowNode) statementNode() {}
func (*ExprStatement) statementNode()  {}

// BlockNode is `{ stmt* }`, owning its local var/const declarations for
// scope-local name collision checking and the analyzer's resolution chain.
type BlockNode struct {
	Position   cerrors.Position
	Parent     *BlockNode
	Statements []Statement

	Locals       []*VarNode
	LocalConsts  []*ConstNode
}

func (n *BlockNode) Pos() cerrors.Position { return n.Position }
func (n *BlockNode) String() string {
	parts := make([]string, len(n.Statements))
	for i, s := range n.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// HasLocal reports whether name is already declared as a local var or const
// in this block, for the parser's scope-local collision check.
func (n *BlockNode) HasLocal(name string) bool {
	for _, v := range n.Locals {
		if v.Name == name {
			return true
		}
	}
	for _, c := range n.LocalConsts {
		if c.Name == name {
			return true
		}
	}
	return false
}

// VarNode is a `var name = expr;` declaration, usable at module, class, or
// block scope (Static only has meaning at class scope).
type VarNode struct {
	Position   cerrors.Position
	Name       string
	Static     bool
	Init       Expression // nil if no initializer
	MemberIdx  int        // instance member slot index, set by codegen (class scope only)
}

func (n *VarNode) Pos() cerrors.Position { return n.Position }
func (n *VarNode) String() string {
	if n.Init != nil {
		return "var " + n.Name + " = " + n.Init.String() + ";"
	}
	return "var " + n.Name + ";"
}

// ConstNode is a `const name = expr;` declaration.
type ConstNode struct {
	Position cerrors.Position
	Name     string
	Static   bool
	Init     Expression
	Resolved *ConstValueNode // set by the analyzer once folded
	Reducing bool
	Reduced  bool
}

func (n *ConstNode) Pos() cerrors.Position { return n.Position }
func (n *ConstNode) String() string        { return "const " + n.Name + " = " + n.Init.String() + ";" }

// ControlFlowKind discriminates the ControlFlowNode variants.
type ControlFlowKind int

const (
	CFIf ControlFlowKind = iota
	CFSwitch
	CFWhile
	CFFor
	CFForeach
	CFBreak
	CFContinue
	CFReturn
)

// SwitchCase is one `case expr: { body }` arm, or the default arm when
// Values is empty and IsDefault is true.
type SwitchCase struct {
	Values    []Expression
	Body      *BlockNode
	IsDefault bool
}

// ControlFlowNode models if/switch/while/for/foreach/break/continue/return.
//
//   - If:       Args[0]=cond, Body=then-block, ElseBody=else-block (nil if none)
//   - While:    Args[0]=cond, Body=loop body
//   - For:      Init, Args[0]=cond, Step, Body=loop body
//   - Foreach:  ForeachVar=loop variable name, Args[0]=iterable, Body=loop body
//   - Switch:   Args[0]=subject, Cases=arms
//   - Break/Continue: no args
//   - Return:   Args[0]=value expr, or empty for bare `return;`
type ControlFlowNode struct {
	Position cerrors.Position
	Kind     ControlFlowKind

	Args     []Expression
	Body     *BlockNode
	ElseBody *BlockNode
	Cases    []SwitchCase

	Init Statement
	Step Statement

	ForeachVar string
}

func (n *ControlFlowNode) Pos() cerrors.Position { return n.Position }
func (n *ControlFlowNode) String() string {
	switch n.Kind {
	case CFBreak:
		return "break;"
	case CFContinue:
		return "continue;"
	case CFReturn:
		if len(n.Args) > 0 {
			return "return " + n.Args[0].String() + ";"
		}
		return "return;"
	default:
		return "<control-flow>"
	}
}

// ExprStatement is a bare expression used as a statement.
type ExprStatement struct {
	Position cerrors.Position
	Expr     Expression
}

func (n *ExprStatement) Pos() cerrors.Position { return n.Position }
func (n *ExprStatement) String() string        { return n.Expr.String() + ";" }
