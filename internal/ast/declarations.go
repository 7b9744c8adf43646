package ast

import (
	"strings"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
)

// Parameter is one formal parameter, with an optional default-value
// expression resolved by the analyzer to a compile-time constant.
type Parameter struct {
	Name            string
	Default         Expression      // nil if no default
	ResolvedDefault *ConstValueNode // set by the analyzer once folded
}

// FunctionNode is a `func name(params) { body }` declaration, legal at
// module or class scope; Static only applies at class scope.
type FunctionNode struct {
	Position   cerrors.Position
	Name       string
	Static     bool
	Params     []Parameter
	Body       *BlockNode
	Parent     *ClassNode // enclosing class, nil for module-level functions

	IsConstructor  bool
	HasSuperCtorCall bool

	StackSize int // computed by codegen: peak local-slot count
}

func (n *FunctionNode) Pos() cerrors.Position { return n.Position }
func (n *FunctionNode) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return "func " + n.Name + "(" + strings.Join(names, ", ") + ") " + n.Body.String()
}

// Arity returns the parameter count and how many of the trailing parameters
// carry a default value.
func (n *FunctionNode) Arity() (total, defaulted int) {
	total = len(n.Params)
	for _, p := range n.Params {
		if p.Default != nil {
			defaulted++
		}
	}
	return
}

// EnumValueNode is one `NAME` or `NAME = expr` member of an EnumNode.
type EnumValueNode struct {
	Position cerrors.Position
	Name     string
	Expr     Expression // nil when implicit (previous + 1)
	Resolved int64
	Reducing bool
	Reduced  bool
}

func (n *EnumValueNode) Pos() cerrors.Position { return n.Position }
func (n *EnumValueNode) String() string        { return n.Name }

// EnumNode is an `enum Name { ... }` or anonymous `enum { ... }` declaration.
type EnumNode struct {
	Position cerrors.Position
	Name     string // "" for anonymous enums
	Values   []*EnumValueNode
}

func (n *EnumNode) Pos() cerrors.Position { return n.Position }
func (n *EnumNode) String() string {
	names := make([]string, len(n.Values))
	for i, v := range n.Values {
		names[i] = v.Name
	}
	return "enum " + n.Name + " { " + strings.Join(names, ", ") + " }"
}

// BaseKind classifies what a ClassNode inherits from.
type BaseKind int

const (
	BaseNone BaseKind = iota
	BaseLocalScript
	BaseExternalScript
	BaseNative
)

// ClassNode is a `class Name [: Base] { ... }` declaration.
type ClassNode struct {
	Position cerrors.Position
	Name     string

	BaseKind BaseKind
	BaseName string     // textual base name as written, for resolution
	BaseRef  *ClassNode // resolved local/external script base (nil if native or none)

	Consts    []*ConstNode
	Enums     []*EnumNode
	Vars      []*VarNode
	Functions []*FunctionNode
	Ctor      *FunctionNode // nil if none declared (analyzer may synthesize one)

	MemberCount int // total instance member slots, including inherited (set by codegen)

	Reducing bool
	Reduced  bool
}

func (n *ClassNode) Pos() cerrors.Position { return n.Position }
func (n *ClassNode) String() string {
	if n.BaseName != "" {
		return "class " + n.Name + " : " + n.BaseName + " { ... }"
	}
	return "class " + n.Name + " { ... }"
}

// FindFunction looks up a function declared directly on this class
// (non-inherited).
func (n *ClassNode) FindFunction(name string) *FunctionNode {
	for _, f := range n.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindVar looks up an instance or static var declared directly on this
// class (non-inherited).
func (n *ClassNode) FindVar(name string) *VarNode {
	for _, v := range n.Vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Import is a `import name = "path";` module-level declaration.
type Import struct {
	Position cerrors.Position
	Name     string
	Path     string
}

// FileNode is the root of a parsed module: one per source file.
type FileNode struct {
	Path   string
	Source string

	Imports   []*Import
	Consts    []*ConstNode
	Vars      []*VarNode
	Functions []*FunctionNode
	Enums     []*EnumNode
	Classes   []*ClassNode
}

func (n *FileNode) Pos() cerrors.Position { return cerrors.Position{Line: 1, Column: 1} }
func (n *FileNode) String() string        { return "file " + n.Path }

func (n *FileNode) FindClass(name string) *ClassNode {
	for _, c := range n.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *FileNode) FindFunction(name string) *FunctionNode {
	for _, f := range n.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (n *FileNode) FindEnum(name string) *EnumNode {
	for _, e := range n.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (n *FileNode) FindConst(name string) *ConstNode {
	for _, c := range n.Consts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *FileNode) FindVar(name string) *VarNode {
	for _, v := range n.Vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}
