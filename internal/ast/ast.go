// Package ast defines the Abstract Syntax Tree node types produced by the
// parser and consumed by the analyzer and code generator.
package ast

import (
	cerrors "github.com/carbon-lang/carbon/internal/errors"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() cerrors.Position
	String() string
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// RefKind classifies what an IdentifierNode resolved to, set by the
// analyzer's identifier-resolution pass (spec §4.3).
type RefKind int

const (
	RefUnknown RefKind = iota
	RefParameter
	RefLocalVar
	RefLocalConst
	RefMemberVar
	RefMemberConst
	RefEnumName
	RefEnumValue
	RefScriptClass
	RefNativeClass
	RefScriptFunction
	RefImportedFile
	RefModuleVar
	RefModuleConst
	RefBuiltinFunc
)
