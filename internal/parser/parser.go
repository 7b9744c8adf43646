// Package parser implements a recursive-descent, precedence-climbing parser
// that turns a token stream from internal/lexer into the AST defined in
// internal/ast.
//
// Key patterns (carried from the teacher's Pratt parser):
//   - Lookahead: cur/peek pair backed by the lexer's own token buffer, so
//     arbitrary backward/forward peeking is available through p.l.Peek.
//   - Error recovery: parse errors are collected rather than raised; after an
//     unrecoverable statement error the parser synchronizes to the next
//     statement boundary instead of aborting the whole file.
//   - Two-phase expression parsing: parsePrimary scans an atom plus its
//     postfix chain (call/index/member), then parseExpression climbs
//     precedence levels off of that.
package parser

import (
	"fmt"

	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/lexer"
	"github.com/carbon-lang/carbon/internal/value"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // or, ||
	LOGICAL_AND // and, &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == !=
	RELATIONAL  // < <= > >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x ~x +x
	CALL        // f(args), a.b, a[b]
)

var precedences = map[string]int{
	"or": LOGICAL_OR, "||": LOGICAL_OR,
	"and": LOGICAL_AND, "&&": LOGICAL_AND,
	"|":  BIT_OR,
	"^":  BIT_XOR,
	"&":  BIT_AND,
	"==": EQUALS, "!=": EQUALS,
	"<": RELATIONAL, "<=": RELATIONAL, ">": RELATIONAL, ">=": RELATIONAL,
	"<<": SHIFT, ">>": SHIFT,
	"+": SUM, "-": SUM,
	"*": PRODUCT, "/": PRODUCT, "%": PRODUCT,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// Parser turns a token stream into an ast.FileNode.
type Parser struct {
	l    *lexer.Lexer
	file string
	src  string

	cur  lexer.Token
	peek lexer.Token

	errors []*cerrors.SourceError

	curClass *ast.ClassNode // non-nil while parsing a class body, for `this`/`super` checks
	curBlock *ast.BlockNode // innermost enclosing block, for local name-collision checks
}

// New creates a Parser over src, tagging diagnostics with file.
func New(src, file string) *Parser {
	p := &Parser{l: lexer.New(src, file), file: file, src: src}
	p.cur = p.l.Next()
	p.peek = p.l.Next()
	return p
}

func (p *Parser) Errors() []*cerrors.SourceError { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) curIsLit(lit string) bool  { return p.cur.Literal == lit }
func (p *Parser) peekIsLit(lit string) bool { return p.peek.Literal == lit }

func (p *Parser) curIsType(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIsType(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) errorf(pos cerrors.Position, kind cerrors.Kind, format string, args ...any) {
	e := (&cerrors.SourceError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}).WithSource(p.file, p.src)
	p.errors = append(p.errors, e)
}

func (p *Parser) errorHere(format string, args ...any) {
	p.errorf(p.cur.Pos, cerrors.SyntaxError, format, args...)
}

// expectLit advances past the current token if it matches lit, else records
// a syntax error and returns false without advancing.
func (p *Parser) expectLit(lit string) bool {
	if p.curIsLit(lit) {
		p.next()
		return true
	}
	p.errorHere("expected %q, got %q", lit, p.cur.Literal)
	return false
}

func (p *Parser) expectType(t lexer.TokenType, what string) bool {
	if p.curIsType(t) {
		p.next()
		return true
	}
	p.errorHere("expected %s, got %q", what, p.cur.Literal)
	return false
}

// synchronize skips tokens until a statement boundary (';' or '}') or a
// statement-starting keyword, so one bad statement doesn't abort the file.
func (p *Parser) synchronize() {
	for !p.curIsType(lexer.EOF) {
		if p.curIsLit(";") {
			p.next()
			return
		}
		if p.curIsLit("}") {
			return
		}
		switch p.cur.Literal {
		case "if", "while", "for", "return", "break", "continue", "var", "const", "func", "class", "enum", "switch":
			return
		}
		p.next()
	}
}

// ParseFile parses a complete source file into a FileNode.
func ParseFile(src, file string) (*ast.FileNode, []*cerrors.SourceError) {
	p := New(src, file)
	f := &ast.FileNode{Path: file, Source: src}

	for !p.curIsType(lexer.EOF) {
		if p.curIsLit(";") {
			p.next()
			continue
		}
		switch p.cur.Literal {
		case "import":
			if im := p.parseImport(); im != nil {
				f.Imports = append(f.Imports, im)
			}
		case "class":
			if c := p.parseClass(); c != nil {
				f.Classes = append(f.Classes, c)
			}
		case "enum":
			if e := p.parseEnum(); e != nil {
				f.Enums = append(f.Enums, e)
			}
		case "func":
			if fn := p.parseFunction(nil); fn != nil {
				f.Functions = append(f.Functions, fn)
			}
		case "var":
			if v := p.parseVarDecl(false); v != nil {
				f.Vars = append(f.Vars, v)
			}
		case "const":
			if c := p.parseConstDecl(false); c != nil {
				f.Consts = append(f.Consts, c)
			}
		default:
			p.errorHere("unexpected top-level token %q", p.cur.Literal)
			p.synchronize()
		}
	}
	return f, p.errors
}

func (p *Parser) parseImport() *ast.Import {
	pos := p.cur.Pos
	p.next() // 'import'
	if !p.curIsType(lexer.IDENT) {
		p.errorHere("expected identifier after import")
		p.synchronize()
		return nil
	}
	name := p.cur.Literal
	p.next()
	if !p.expectLit("=") {
		p.synchronize()
		return nil
	}
	if !p.curIsType(lexer.STRING) {
		p.errorHere("expected string path after import %s =", name)
		p.synchronize()
		return nil
	}
	path := p.cur.Value.AsString()
	p.next()
	if p.curIsLit(";") {
		p.next()
	}
	return &ast.Import{Position: pos, Name: name, Path: path}
}

// litToConst converts a literal token into a ConstValueNode.
func litToConst(tok lexer.Token) *ast.ConstValueNode {
	if tok.Type == lexer.INT || tok.Type == lexer.FLOAT || tok.Type == lexer.STRING {
		return &ast.ConstValueNode{Position: tok.Pos, Value: tok.Value}
	}
	switch tok.Literal {
	case "true":
		return &ast.ConstValueNode{Position: tok.Pos, Value: value.Bool(true)}
	case "false":
		return &ast.ConstValueNode{Position: tok.Pos, Value: value.Bool(false)}
	case "null":
		return &ast.ConstValueNode{Position: tok.Pos, Value: value.Null()}
	}
	return nil
}
