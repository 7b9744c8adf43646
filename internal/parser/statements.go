package parser

import (
	"github.com/carbon-lang/carbon/internal/ast"
	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/lexer"
)

// parseBlock parses a `{ stmt* }` block; cur must be on '{' on entry.
func (p *Parser) parseBlock() *ast.BlockNode {
	pos := p.cur.Pos
	p.next() // '{'
	block := &ast.BlockNode{Position: pos, Parent: p.curBlock}
	prevBlock := p.curBlock
	p.curBlock = block
	for !p.curIsLit("}") && !p.curIsType(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
			switch s := stmt.(type) {
			case *ast.VarNode:
				if block.HasLocal(s.Name) {
					p.errorf(s.Position, cerrors.AlreadyDefined, "variable %q already declared in this scope", s.Name)
				}
				block.Locals = append(block.Locals, s)
			case *ast.ConstNode:
				if block.HasLocal(s.Name) {
					p.errorf(s.Position, cerrors.AlreadyDefined, "constant %q already declared in this scope", s.Name)
				}
				block.LocalConsts = append(block.LocalConsts, s)
			}
		}
	}
	p.expectLit("}")
	p.curBlock = prevBlock
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Literal {
	case ";":
		p.next()
		return nil
	case "{":
		return p.parseBlock()
	case "var":
		return p.parseVarDecl(true)
	case "const":
		return p.parseConstDecl(true)
	case "if":
		return p.parseIf()
	case "while":
		return p.parseWhile()
	case "for":
		return p.parseFor()
	case "switch":
		return p.parseSwitch()
	case "break":
		pos := p.cur.Pos
		p.next()
		p.optionalSemi()
		return &ast.ControlFlowNode{Position: pos, Kind: ast.CFBreak}
	case "continue":
		pos := p.cur.Pos
		p.next()
		p.optionalSemi()
		return &ast.ControlFlowNode{Position: pos, Kind: ast.CFContinue}
	case "return":
		pos := p.cur.Pos
		p.next()
		node := &ast.ControlFlowNode{Position: pos, Kind: ast.CFReturn}
		if !p.curIsLit(";") && !p.curIsLit("}") {
			if v := p.parseAssignExpression(); v != nil {
				node.Args = []ast.Expression{v}
			}
		}
		p.optionalSemi()
		return node
	default:
		expr := p.parseAssignExpression()
		p.optionalSemi()
		if expr == nil {
			return nil
		}
		return &ast.ExprStatement{Position: expr.Pos(), Expr: expr}
	}
}

func (p *Parser) optionalSemi() {
	if p.curIsLit(";") {
		p.next()
	}
}

func (p *Parser) parseVarDecl(asStatement bool) *ast.VarNode {
	pos := p.cur.Pos
	p.next() // 'var'
	static := false
	if p.curIsLit("static") {
		static = true
		p.next()
	}
	if !p.curIsType(lexer.IDENT) {
		p.errorHere("expected identifier after var")
		p.synchronize()
		return nil
	}
	name := p.cur.Literal
	p.next()
	node := &ast.VarNode{Position: pos, Name: name, Static: static}
	if p.curIsLit("=") {
		p.next()
		node.Init = p.parseAssignExpression()
	}
	if asStatement {
		p.optionalSemi()
	} else if p.curIsLit(";") {
		p.next()
	}
	return node
}

func (p *Parser) parseConstDecl(asStatement bool) *ast.ConstNode {
	pos := p.cur.Pos
	p.next() // 'const'
	static := false
	if p.curIsLit("static") {
		static = true
		p.next()
	}
	if !p.curIsType(lexer.IDENT) {
		p.errorHere("expected identifier after const")
		p.synchronize()
		return nil
	}
	name := p.cur.Literal
	p.next()
	if !p.expectLit("=") {
		p.synchronize()
		return nil
	}
	init := p.parseAssignExpression()
	if asStatement {
		p.optionalSemi()
	} else if p.curIsLit(";") {
		p.next()
	}
	return &ast.ConstNode{Position: pos, Name: name, Static: static, Init: init}
}

func (p *Parser) parseIf() *ast.ControlFlowNode {
	pos := p.cur.Pos
	p.next() // 'if'
	p.expectLit("(")
	cond := p.parseExpression(LOWEST)
	p.expectLit(")")
	then := p.parseBlock()
	node := &ast.ControlFlowNode{Position: pos, Kind: ast.CFIf, Args: []ast.Expression{cond}, Body: then}
	if p.curIsLit("else") {
		p.next()
		if p.curIsLit("if") {
			// desugar `else if` into a single-statement else-block
			elseIf := p.parseIf()
			node.ElseBody = &ast.BlockNode{Position: elseIf.Position, Statements: []ast.Statement{elseIf}}
		} else {
			node.ElseBody = p.parseBlock()
		}
	}
	return node
}

func (p *Parser) parseWhile() *ast.ControlFlowNode {
	pos := p.cur.Pos
	p.next() // 'while'
	p.expectLit("(")
	cond := p.parseExpression(LOWEST)
	p.expectLit(")")
	body := p.parseBlock()
	return &ast.ControlFlowNode{Position: pos, Kind: ast.CFWhile, Args: []ast.Expression{cond}, Body: body}
}

// parseFor distinguishes C-style `for (init; cond; step)` from
// `for (name : iterable)` by checking whether the parenthesized header opens
// with an identifier followed by ':' — Carbon has no separate `foreach`
// keyword.
func (p *Parser) parseFor() *ast.ControlFlowNode {
	pos := p.cur.Pos
	p.next() // 'for'
	p.expectLit("(")

	if p.curIsType(lexer.IDENT) && p.peekIsLit(":") {
		name := p.cur.Literal
		p.next() // ident
		p.next() // ':'
		iterable := p.parseExpression(LOWEST)
		p.expectLit(")")
		body := p.parseBlock()
		return &ast.ControlFlowNode{Position: pos, Kind: ast.CFForeach, ForeachVar: name, Args: []ast.Expression{iterable}, Body: body}
	}

	var init ast.Statement
	if !p.curIsLit(";") {
		init = p.parseStatement()
	} else {
		p.next()
	}
	var cond ast.Expression
	if !p.curIsLit(";") {
		cond = p.parseExpression(LOWEST)
	}
	p.expectLit(";")
	var step ast.Statement
	if !p.curIsLit(")") {
		if e := p.parseAssignExpression(); e != nil {
			step = &ast.ExprStatement{Position: e.Pos(), Expr: e}
		}
	}
	p.expectLit(")")
	body := p.parseBlock()

	var args []ast.Expression
	if cond != nil {
		args = []ast.Expression{cond}
	}
	return &ast.ControlFlowNode{Position: pos, Kind: ast.CFFor, Args: args, Init: init, Step: step, Body: body}
}

func (p *Parser) parseSwitch() *ast.ControlFlowNode {
	pos := p.cur.Pos
	p.next() // 'switch'
	p.expectLit("(")
	subject := p.parseExpression(LOWEST)
	p.expectLit(")")
	p.expectLit("{")

	node := &ast.ControlFlowNode{Position: pos, Kind: ast.CFSwitch, Args: []ast.Expression{subject}}
	for !p.curIsLit("}") && !p.curIsType(lexer.EOF) {
		switch p.cur.Literal {
		case "case":
			p.next()
			var values []ast.Expression
			for {
				v := p.parseExpression(LOWEST)
				if v != nil {
					values = append(values, v)
				}
				if p.curIsLit(",") {
					p.next()
					continue
				}
				break
			}
			p.expectLit(":")
			body := p.parseCaseBody()
			node.Cases = append(node.Cases, ast.SwitchCase{Values: values, Body: body})
		case "default":
			p.next()
			p.expectLit(":")
			body := p.parseCaseBody()
			node.Cases = append(node.Cases, ast.SwitchCase{Body: body, IsDefault: true})
		default:
			p.errorHere("expected case or default in switch body, got %q", p.cur.Literal)
			p.synchronize()
		}
	}
	p.expectLit("}")
	return node
}

// parseCaseBody collects statements up to the next case/default/closing brace
// into a synthetic block, without consuming the terminator.
func (p *Parser) parseCaseBody() *ast.BlockNode {
	pos := p.cur.Pos
	block := &ast.BlockNode{Position: pos, Parent: p.curBlock}
	for !p.curIsLit("case") && !p.curIsLit("default") && !p.curIsLit("}") && !p.curIsType(lexer.EOF) {
		if s := p.parseStatement(); s != nil {
			block.Statements = append(block.Statements, s)
		}
	}
	return block
}
