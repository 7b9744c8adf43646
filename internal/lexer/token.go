package lexer

import (
	"fmt"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

// TokenType is the tag of a Token, grouped by spec §4.1's categories.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	// Noop is the synthetic token the lexer inserts immediately after every
	// '>>' operator token. It exists purely so that a '>> >>' sequence (two
	// adjacent right-shift tokens, as could appear between nested generic
	// brackets in a superset grammar) can be ungreedily re-split by a parser
	// helper that walks backward with Peek(-2, skipSynthetic=true). Carbon's
	// grammar has no generics and never consumes Noop, but the token is
	// still emitted for compatibility with that peek helper.
	Noop

	IDENT
	INT
	FLOAT
	STRING

	Keyword
	BuiltinType
	Operator
	Bracket
	Punctuation
)

// Token is a single lexical token: its type, literal text, resolved literal
// value (for INT/FLOAT/STRING), and 1-based source position.
type Token struct {
	Type    TokenType
	Literal string
	Value   value.Var
	Pos     cerrors.Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}

func (t TokenType) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case Noop:
		return "NOOP"
	case IDENT:
		return "IDENT"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case Keyword:
		return "KEYWORD"
	case BuiltinType:
		return "BUILTIN_TYPE"
	case Operator:
		return "OPERATOR"
	case Bracket:
		return "BRACKET"
	case Punctuation:
		return "PUNCT"
	default:
		return "?"
	}
}

// keywords is the full reserved-word table from spec §6.
var keywords = map[string]bool{
	"this": true, "super": true, "null": true, "true": true, "false": true,
	"if": true, "else": true, "while": true, "for": true, "break": true,
	"continue": true, "and": true, "or": true, "not": true, "return": true,
	"import": true, "class": true, "enum": true, "func": true, "var": true,
	"const": true, "static": true, "switch": true, "case": true, "default": true,
}

// builtinTypes names the type-constructor identifiers (spec §3.1/§4.4:
// BuiltinTypeNode / ConstructBuiltin).
var builtinTypes = map[string]bool{
	"null": true, "bool": true, "int": true, "float": true, "string": true,
	"array": true, "map": true,
}

func lookupIdent(ident string) TokenType {
	if builtinTypes[ident] && ident != "null" {
		return BuiltinType
	}
	if keywords[ident] {
		return Keyword
	}
	return IDENT
}
