package parser

import (
	"github.com/carbon-lang/carbon/internal/ast"
	"github.com/carbon-lang/carbon/internal/lexer"
	"github.com/carbon-lang/carbon/internal/value"
)

// parseExpression parses an expression at or above minPrec using precedence
// climbing over parsePrimary's atom-plus-postfix-chain result.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec, ok := precedences[p.cur.Literal]
		if !ok || prec < minPrec {
			return left
		}
		op := p.cur.Literal
		opPos := p.cur.Pos
		p.next()
		right := p.parseExpression(prec + 1)
		if right == nil {
			return left
		}
		left = &ast.OperatorNode{Position: opPos, Op: textOperator(op), Args: []ast.Expression{left, right}}
	}
}

// parseAssignExpression parses a full assignment-or-expression, the form
// legal as an expression-statement: `lhs (op)= rhs` or a bare expression.
func (p *Parser) parseAssignExpression() ast.Expression {
	left := p.parseExpression(LOWEST)
	if left == nil {
		return nil
	}
	if assignOps[p.cur.Literal] {
		op := p.cur.Literal
		opPos := p.cur.Pos
		p.next()
		rhs := p.parseExpression(LOWEST)
		if rhs == nil {
			return left
		}
		if op == "=" {
			return &ast.OperatorNode{Position: opPos, Op: value.OpEq, Args: []ast.Expression{left, rhs}, IsAssign: true}
		}
		// compound assignment desugars to `lhs = lhs <op> rhs`
		baseOp := textOperator(op[:len(op)-1])
		combined := &ast.OperatorNode{Position: opPos, Op: baseOp, Args: []ast.Expression{left, rhs}}
		return &ast.OperatorNode{Position: opPos, Op: value.OpEq, Args: []ast.Expression{left, combined}, IsAssign: true}
	}
	return left
}

func textOperator(lit string) value.Operator {
	switch lit {
	case "+":
		return value.OpAdd
	case "-":
		return value.OpSub
	case "*":
		return value.OpMul
	case "/":
		return value.OpDiv
	case "%":
		return value.OpMod
	case "==":
		return value.OpEq
	case "!=":
		return value.OpNe
	case "<":
		return value.OpLt
	case "<=":
		return value.OpLe
	case ">":
		return value.OpGt
	case ">=":
		return value.OpGe
	case "&&", "and":
		return value.OpAnd
	case "||", "or":
		return value.OpOr
	case "!", "not":
		return value.OpNot
	case "~":
		return value.OpBitNot
	case "<<":
		return value.OpShl
	case ">>":
		return value.OpShr
	case "&":
		return value.OpBitAnd
	case "|":
		return value.OpBitOr
	case "^":
		return value.OpBitXor
	}
	return value.OpAdd
}

// parseUnary handles prefix operators, then falls into parsePrimary.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Literal {
	case "-", "+", "!", "~", "not":
		op := p.cur.Literal
		pos := p.cur.Pos
		p.next()
		operand := p.parseExpression(PREFIX)
		if operand == nil {
			return nil
		}
		unaryOp := textOperator(op)
		if op == "-" {
			unaryOp = value.OpNeg
		} else if op == "+" {
			unaryOp = value.OpPos
		}
		return &ast.OperatorNode{Position: pos, Op: unaryOp, Args: []ast.Expression{operand}}
	}
	return p.parsePrimary()
}

// parsePrimary parses an atom (literal, identifier, this/super, builtin
// type/func, parenthesized expr, array/map literal) and then its postfix
// chain of calls, member accesses and indexing.
func (p *Parser) parsePrimary() ast.Expression {
	var expr ast.Expression

	tok := p.cur
	switch {
	case tok.Type == lexer.INT || tok.Type == lexer.FLOAT || tok.Type == lexer.STRING:
		expr = &ast.ConstValueNode{Position: tok.Pos, Value: tok.Value}
		p.next()
	case tok.Literal == "true" || tok.Literal == "false" || tok.Literal == "null":
		expr = litToConst(tok)
		p.next()
	case tok.Literal == "this":
		expr = &ast.ThisNode{Position: tok.Pos}
		p.next()
	case tok.Literal == "super":
		expr = &ast.SuperNode{Position: tok.Pos}
		p.next()
	case tok.Type == lexer.BuiltinType:
		expr = &ast.BuiltinTypeNode{Position: tok.Pos, Name: tok.Literal}
		p.next()
	case tok.Type == lexer.IDENT:
		expr = &ast.IdentifierNode{Position: tok.Pos, Name: tok.Literal}
		p.next()
	case tok.Literal == "(":
		p.next()
		inner := p.parseExpression(LOWEST)
		p.expectLit(")")
		expr = inner
	case tok.Literal == "[":
		expr = p.parseArrayLiteral()
	case tok.Literal == "{":
		expr = p.parseMapLiteral()
	default:
		p.errorHere("unexpected token %q in expression", tok.Literal)
		p.next()
		return nil
	}

	return p.parsePostfix(expr)
}

func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch p.cur.Literal {
		case ".":
			pos := p.cur.Pos
			p.next()
			if !p.curIsType(lexer.IDENT) {
				p.errorHere("expected member name after '.'")
				return expr
			}
			name := p.cur.Literal
			p.next()
			if p.curIsLit("(") {
				expr = &ast.CallNode{Position: pos, Base: expr, Method: name, Args: p.parseArgs()}
			} else {
				expr = &ast.IndexNode{Position: pos, Base: expr, Name: name}
			}
		case "(":
			pos := p.cur.Pos
			expr = &ast.CallNode{Position: pos, Base: expr, Args: p.parseArgs()}
		case "[":
			pos := p.cur.Pos
			p.next()
			key := p.parseExpression(LOWEST)
			p.expectLit("]")
			expr = &ast.MappedIndexNode{Position: pos, Base: expr, Key: key}
		default:
			return expr
		}
	}
}

// parseArgs parses a parenthesized, comma-separated argument list; cur must
// be the opening '(' on entry, and is left just past the closing ')'.
func (p *Parser) parseArgs() []ast.Expression {
	p.next() // consume '('
	var args []ast.Expression
	if p.curIsLit(")") {
		p.next()
		return args
	}
	for {
		arg := p.parseExpression(LOWEST)
		if arg != nil {
			args = append(args, arg)
		}
		if p.curIsLit(",") {
			p.next()
			continue
		}
		break
	}
	p.expectLit(")")
	return args
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	pos := p.cur.Pos
	p.next() // '['
	node := &ast.ArrayNode{Position: pos}
	if p.curIsLit("]") {
		p.next()
		return node
	}
	for {
		e := p.parseExpression(LOWEST)
		if e != nil {
			node.Elems = append(node.Elems, e)
		}
		if p.curIsLit(",") {
			p.next()
			continue
		}
		break
	}
	p.expectLit("]")
	return node
}

func (p *Parser) parseMapLiteral() ast.Expression {
	pos := p.cur.Pos
	p.next() // '{'
	node := &ast.MapNode{Position: pos}
	if p.curIsLit("}") {
		p.next()
		return node
	}
	for {
		key := p.parseExpression(LOWEST)
		if !p.expectLit(":") {
			break
		}
		val := p.parseExpression(LOWEST)
		node.Pairs = append(node.Pairs, ast.MapPair{Key: key, Value: val})
		if p.curIsLit(",") {
			p.next()
			continue
		}
		break
	}
	p.expectLit("}")
	return node
}
