package parser

import (
	"github.com/carbon-lang/carbon/internal/ast"
	"github.com/carbon-lang/carbon/internal/lexer"
)

func (p *Parser) parseEnum() *ast.EnumNode {
	pos := p.cur.Pos
	p.next() // 'enum'
	name := ""
	if p.curIsType(lexer.IDENT) {
		name = p.cur.Literal
		p.next()
	}
	if !p.expectLit("{") {
		p.synchronize()
		return nil
	}
	node := &ast.EnumNode{Position: pos, Name: name}
	for !p.curIsLit("}") && !p.curIsType(lexer.EOF) {
		if !p.curIsType(lexer.IDENT) {
			p.errorHere("expected enum value name, got %q", p.cur.Literal)
			p.synchronize()
			break
		}
		vpos := p.cur.Pos
		vname := p.cur.Literal
		p.next()
		ev := &ast.EnumValueNode{Position: vpos, Name: vname}
		if p.curIsLit("=") {
			p.next()
			ev.Expr = p.parseExpression(LOWEST)
		}
		node.Values = append(node.Values, ev)
		if p.curIsLit(",") {
			p.next()
			continue
		}
		break
	}
	p.expectLit("}")
	return node
}

// parseFunction parses `func name(params) { body }`; parent is non-nil when
// parsing a method inside a class body.
func (p *Parser) parseFunction(parent *ast.ClassNode) *ast.FunctionNode {
	pos := p.cur.Pos
	p.next() // 'func'
	static := false
	if p.curIsLit("static") {
		static = true
		p.next()
	}
	if !p.curIsType(lexer.IDENT) {
		p.errorHere("expected function name")
		p.synchronize()
		return nil
	}
	name := p.cur.Literal
	p.next()

	fn := &ast.FunctionNode{Position: pos, Name: name, Static: static, Parent: parent}
	if parent != nil && name == parent.Name {
		fn.IsConstructor = true
	}

	if !p.expectLit("(") {
		p.synchronize()
		return fn
	}
	if !p.curIsLit(")") {
		for {
			if !p.curIsType(lexer.IDENT) {
				p.errorHere("expected parameter name, got %q", p.cur.Literal)
				break
			}
			param := ast.Parameter{Name: p.cur.Literal}
			p.next()
			if p.curIsLit("=") {
				p.next()
				param.Default = p.parseExpression(LOWEST)
			}
			fn.Params = append(fn.Params, param)
			if p.curIsLit(",") {
				p.next()
				continue
			}
			break
		}
	}
	p.expectLit(")")

	prevClass := p.curClass
	p.curClass = parent
	fn.Body = p.parseBlock()
	p.curClass = prevClass

	if fn.IsConstructor && len(fn.Body.Statements) > 0 {
		if call, ok := fn.Body.Statements[0].(*ast.ExprStatement); ok {
			if cn, ok := call.Expr.(*ast.CallNode); ok {
				if _, isSuper := cn.Base.(*ast.SuperNode); isSuper {
					fn.HasSuperCtorCall = true
				}
			}
		}
	}
	return fn
}

func (p *Parser) parseClass() *ast.ClassNode {
	pos := p.cur.Pos
	p.next() // 'class'
	if !p.curIsType(lexer.IDENT) {
		p.errorHere("expected class name")
		p.synchronize()
		return nil
	}
	name := p.cur.Literal
	p.next()

	class := &ast.ClassNode{Position: pos, Name: name}
	if p.curIsLit(":") {
		p.next()
		if !p.curIsType(lexer.IDENT) {
			p.errorHere("expected base class name after ':'")
		} else {
			class.BaseName = p.cur.Literal
			class.BaseKind = ast.BaseLocalScript // refined to Native/External by the analyzer
			p.next()
		}
	}

	if !p.expectLit("{") {
		p.synchronize()
		return class
	}

	for !p.curIsLit("}") && !p.curIsType(lexer.EOF) {
		switch p.cur.Literal {
		case "var":
			v := p.parseVarDecl(false)
			if v != nil {
				class.Vars = append(class.Vars, v)
			}
		case "const":
			c := p.parseConstDecl(false)
			if c != nil {
				class.Consts = append(class.Consts, c)
			}
		case "enum":
			if e := p.parseEnum(); e != nil {
				class.Enums = append(class.Enums, e)
			}
		case "func":
			if fn := p.parseFunction(class); fn != nil {
				class.Functions = append(class.Functions, fn)
				if fn.IsConstructor {
					class.Ctor = fn
				}
			}
		case "static":
			p.next()
			switch p.cur.Literal {
			case "var":
				if v := p.parseVarDecl(false); v != nil {
					v.Static = true
					class.Vars = append(class.Vars, v)
				}
			case "const":
				if c := p.parseConstDecl(false); c != nil {
					c.Static = true
					class.Consts = append(class.Consts, c)
				}
			case "func":
				if fn := p.parseFunction(class); fn != nil {
					fn.Static = true
					class.Functions = append(class.Functions, fn)
				}
			default:
				p.errorHere("expected var, const or func after static, got %q", p.cur.Literal)
				p.synchronize()
			}
		default:
			p.errorHere("unexpected token %q in class body", p.cur.Literal)
			p.synchronize()
		}
	}
	p.expectLit("}")
	return class
}
