// Package parser implements a recursive-descent / Pratt parser that turns a
// token stream into an ast.Program, hand-written with per-token
// prefix/infix parse functions.
package parser

import (
	"fmt"

	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/lexer"
	"github.com/coolang/coolc/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Precedence levels, highest binds tightest. Cool's grammar orders, loosest
// to tightest: assignment, not, comparisons, +/-, * //, isvoid, ~, dispatch.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT // <-
	NOT_PREC   // not
	COMPARE    // < <= =
	SUM        // + -
	PRODUCT    // * /
	ISVOID_PREC
	NEGATE
	DISPATCH // . @
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGNMENT,
	token.LT:     COMPARE,
	token.LE:     COMPARE,
	token.EQ:     COMPARE,
	token.PLUS:   SUM,
	token.MINUS:  SUM,
	token.STAR:   PRODUCT,
	token.SLASH:  PRODUCT,
	token.DOT:    DISPATCH,
	token.AT:     DISPATCH,
}

// Parser consumes a Lexer's token stream and produces an ast.Program plus a
// bag of syntactic diagnostics.
type Parser struct {
	lex    *lexer.Lexer
	file   string
	cur    token.Token
	peek   token.Token
	Errors *diagnostics.Bag

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New constructs a Parser reading from lex.
func New(lex *lexer.Lexer, file string) *Parser {
	p := &Parser{lex: lex, file: file, Errors: &diagnostics.Bag{}}
	p.prefixFns = map[token.Type]prefixParseFn{
		token.OBJECTID:   p.parseIdentifierOrAssign,
		token.INT_CONST:  p.parseIntLit,
		token.STR_CONST:  p.parseStringLit,
		token.BOOL_CONST: p.parseBoolLit,
		token.LPAREN:     p.parseGrouped,
		token.LBRACE:     p.parseBlock,
		token.IF:         p.parseIf,
		token.WHILE:      p.parseWhile,
		token.LET:        p.parseLet,
		token.CASE:       p.parseCase,
		token.NEW:        p.parseNew,
		token.ISVOID:     p.parseIsVoid,
		token.TILDE:      p.parseNegate,
		token.NOT:        p.parseNot,
	}
	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:  p.parseBinary,
		token.MINUS: p.parseBinary,
		token.STAR:  p.parseBinary,
		token.SLASH: p.parseBinary,
		token.LT:    p.parseBinary,
		token.LE:    p.parseBinary,
		token.EQ:    p.parseBinary,
		token.DOT:   p.parseDispatch,
		token.AT:    p.parseStaticDispatch,
	}
	p.next()
	p.next()
	return p
}

func (p *Parser) pos() diagnostics.Position {
	return diagnostics.Position{File: p.cur.File, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.Errors.Addf(diagnostics.Error, diagnostics.CodeSyntaxError, p.pos(), format, args...)
}

func (p *Parser) expect(t token.Type) bool {
	if p.cur.Type == t {
		p.next()
		return true
	}
	p.errorf("expected '%s' but got '%s' (%q)", t, p.cur.Type, p.cur.Lexeme)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

// Parse lexes and parses source, returning the resulting Program (possibly
// partial) and any syntactic diagnostics recorded along the way.
func Parse(source, file string) (*ast.Program, *diagnostics.Bag) {
	lx := lexer.New(source, file)
	p := New(lx, file)
	prog := p.ParseProgram()
	bag := &diagnostics.Bag{}
	bag.Merge(lx.Errors)
	bag.Merge(p.Errors)
	return prog, bag
}

// ParseProgram parses a full compilation unit: one or more semicolon-
// terminated class definitions.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Position: p.pos()}
	for p.cur.Type != token.EOF {
		if p.cur.Type != token.CLASS {
			p.errorf("expected 'class' but got '%s'", p.cur.Type)
			p.synchronizeToClass()
			continue
		}
		cls := p.parseClass()
		if cls != nil {
			prog.Classes = append(prog.Classes, cls)
		}
	}
	return prog
}

// synchronizeToClass skips tokens until the next 'class' keyword or EOF, so
// a single malformed class definition doesn't cascade into spurious errors
// for the rest of the file.
func (p *Parser) synchronizeToClass() {
	for p.cur.Type != token.EOF && p.cur.Type != token.CLASS {
		p.next()
	}
}

func (p *Parser) parseClass() *ast.Class {
	pos := p.pos()
	p.next() // consume 'class'
	if p.cur.Type != token.TYPEID {
		p.errorf("expected a type name after 'class', got '%s'", p.cur.Lexeme)
		p.synchronizeToClass()
		return nil
	}
	cls := &ast.Class{Name: p.cur.Lexeme, Position: pos}
	p.next()

	if p.cur.Type == token.INHERITS {
		p.next()
		if p.cur.Type != token.TYPEID {
			p.errorf("expected a type name after 'inherits', got '%s'", p.cur.Lexeme)
		} else {
			cls.InheritsFrom = p.cur.Lexeme
			cls.HasInherits = true
			p.next()
		}
	}

	if !p.expect(token.LBRACE) {
		p.synchronizeToClass()
		return cls
	}

	order := 0
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		feature := p.parseFeature(&order)
		if feature != nil {
			cls.Features = append(cls.Features, feature)
		}
		if !p.expect(token.SEMI) {
			p.synchronizeToClass()
			return cls
		}
	}
	p.expect(token.RBRACE)
	p.expect(token.SEMI)
	return cls
}

func (p *Parser) parseFeature(order *int) ast.Feature {
	if p.cur.Type != token.OBJECTID {
		p.errorf("expected a feature name, got '%s'", p.cur.Lexeme)
		return nil
	}
	name := p.cur.Lexeme
	namePos := p.pos()
	p.next()

	if p.cur.Type == token.LPAREN {
		return p.parseMethod(name, namePos)
	}
	return p.parseAttribute(name, namePos, order)
}

func (p *Parser) parseMethod(name string, pos diagnostics.Position) *ast.Method {
	m := &ast.Method{Name: name, Position: pos}
	p.next() // consume '('
	for p.cur.Type != token.RPAREN {
		if len(m.Formals) > 0 {
			if !p.expect(token.COMMA) {
				break
			}
		}
		if p.cur.Type != token.OBJECTID {
			p.errorf("expected a formal parameter name, got '%s'", p.cur.Lexeme)
			break
		}
		f := &ast.Formal{Name: p.cur.Lexeme, Position: p.pos()}
		p.next()
		p.expect(token.COLON)
		if p.cur.Type != token.TYPEID {
			p.errorf("expected a type name, got '%s'", p.cur.Lexeme)
		} else {
			f.DeclaredType = p.cur.Lexeme
			p.next()
		}
		m.Formals = append(m.Formals, f)
	}
	p.expect(token.RPAREN)
	p.expect(token.COLON)
	if p.cur.Type != token.TYPEID {
		p.errorf("expected a return type, got '%s'", p.cur.Lexeme)
	} else {
		m.ReturnType = p.cur.Lexeme
		p.next()
	}
	p.expect(token.LBRACE)
	m.Body = p.parseExpr(LOWEST)
	p.expect(token.RBRACE)
	return m
}

func (p *Parser) parseAttribute(name string, pos diagnostics.Position, order *int) *ast.Attribute {
	a := &ast.Attribute{Name: name, Position: pos, SourceOrder: *order}
	*order++
	p.expect(token.COLON)
	if p.cur.Type != token.TYPEID {
		p.errorf("expected a type name, got '%s'", p.cur.Lexeme)
	} else {
		a.DeclaredType = p.cur.Lexeme
		p.next()
	}
	if p.cur.Type == token.ASSIGN {
		p.next()
		a.Initializer = p.parseExpr(LOWEST)
	}
	return a
}

func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.errorf("cannot parse expression starting with '%s' (%q)", p.cur.Type, p.cur.Lexeme)
		p.next()
		return &ast.NoExpression{Position: p.pos()}
	}
	left := prefix()

	for p.cur.Type != token.SEMI && precedence < p.curPrecedence() {
		infix, ok := p.infixFns[p.cur.Type]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseIdentifierOrAssign() ast.Expr {
	if p.cur.Lexeme == "self" && p.peek.Type != token.ASSIGN {
		pos := p.pos()
		p.next()
		return &ast.Self{Position: pos}
	}
	pos := p.pos()
	name := p.cur.Lexeme
	if p.peek.Type == token.ASSIGN {
		p.next() // consume identifier
		p.next() // consume '<-'
		value := p.parseExpr(ASSIGNMENT - 1)
		return &ast.Assign{Id: name, Value: value, Position: pos}
	}
	p.next()
	if p.cur.Type == token.LPAREN {
		return p.finishImplicitDispatch(name, pos)
	}
	return &ast.Identifier{Name: name, Position: pos}
}

func (p *Parser) finishImplicitDispatch(method string, pos diagnostics.Position) ast.Expr {
	args := p.parseArgs()
	return &ast.Dispatch{Receiver: nil, Method: method, Args: args, Position: pos}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.next() // consume '('
	var args []ast.Expr
	for p.cur.Type != token.RPAREN {
		if len(args) > 0 {
			if !p.expect(token.COMMA) {
				break
			}
		}
		args = append(args, p.parseExpr(LOWEST))
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseIntLit() ast.Expr {
	pos := p.pos()
	lexeme := p.cur.Lexeme
	var v int64
	for _, c := range []byte(lexeme) {
		v = v*10 + int64(c-'0')
	}
	p.next()
	return &ast.IntLit{Value: int32(v), Position: pos}
}

func (p *Parser) parseStringLit() ast.Expr {
	pos := p.pos()
	v := p.cur.Lexeme
	p.next()
	return &ast.StringLit{Value: v, Position: pos}
}

func (p *Parser) parseBoolLit() ast.Expr {
	pos := p.pos()
	v := p.cur.Lexeme == "true"
	p.next()
	return &ast.BoolLit{Value: v, Position: pos}
}

func (p *Parser) parseGrouped() ast.Expr {
	p.next() // consume '('
	if p.cur.Type == token.RPAREN {
		pos := p.pos()
		p.next()
		return &ast.NoExpression{Position: pos}
	}
	e := p.parseExpr(LOWEST)
	p.expect(token.RPAREN)
	return e
}

func (p *Parser) parseBlock() ast.Expr {
	pos := p.pos()
	p.next() // consume '{'
	blk := &ast.Block{Position: pos}
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		blk.Exprs = append(blk.Exprs, p.parseExpr(LOWEST))
		p.expect(token.SEMI)
	}
	p.expect(token.RBRACE)
	if len(blk.Exprs) == 0 {
		p.errorf("a block must contain at least one expression")
		blk.Exprs = []ast.Expr{&ast.NoExpression{Position: pos}}
	}
	return blk
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.pos()
	p.next() // consume 'if'
	pred := p.parseExpr(LOWEST)
	p.expect(token.THEN)
	then := p.parseExpr(LOWEST)
	p.expect(token.ELSE)
	els := p.parseExpr(LOWEST)
	p.expect(token.FI)
	return &ast.If{Pred: pred, Then: then, Else: els, Position: pos}
}

func (p *Parser) parseWhile() ast.Expr {
	pos := p.pos()
	p.next() // consume 'while'
	pred := p.parseExpr(LOWEST)
	p.expect(token.LOOP)
	body := p.parseExpr(LOWEST)
	p.expect(token.POOL)
	return &ast.While{Pred: pred, Body: body, Position: pos}
}

func (p *Parser) parseLet() ast.Expr {
	pos := p.pos()
	p.next() // consume 'let'
	let := &ast.Let{Position: pos}
	for {
		b := p.parseLetBinding()
		let.Bindings = append(let.Bindings, b)
		if p.cur.Type == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.IN)
	let.Body = p.parseExpr(LOWEST)
	return let
}

func (p *Parser) parseLetBinding() *ast.LetBinding {
	pos := p.pos()
	b := &ast.LetBinding{Position: pos}
	if p.cur.Type != token.OBJECTID {
		p.errorf("expected a variable name in let-binding, got '%s'", p.cur.Lexeme)
	} else {
		b.Id = p.cur.Lexeme
		p.next()
	}
	p.expect(token.COLON)
	if p.cur.Type != token.TYPEID {
		p.errorf("expected a type name in let-binding, got '%s'", p.cur.Lexeme)
	} else {
		b.DeclaredType = p.cur.Lexeme
		p.next()
	}
	if p.cur.Type == token.ASSIGN {
		p.next()
		b.Initializer = p.parseExpr(ASSIGNMENT + 1)
	}
	return b
}

func (p *Parser) parseCase() ast.Expr {
	pos := p.pos()
	p.next() // consume 'case'
	scrut := p.parseExpr(LOWEST)
	p.expect(token.OF)
	c := &ast.Case{Scrutinee: scrut, Position: pos}
	for p.cur.Type != token.ESAC && p.cur.Type != token.EOF {
		c.Branches = append(c.Branches, p.parseCaseBranch())
		p.expect(token.SEMI)
	}
	p.expect(token.ESAC)
	if len(c.Branches) == 0 {
		p.errorf("a case expression must have at least one branch")
	}
	return c
}

func (p *Parser) parseCaseBranch() *ast.CaseBranch {
	pos := p.pos()
	b := &ast.CaseBranch{Position: pos}
	if p.cur.Type != token.OBJECTID {
		p.errorf("expected a branch variable name, got '%s'", p.cur.Lexeme)
	} else {
		b.Id = p.cur.Lexeme
		p.next()
	}
	p.expect(token.COLON)
	if p.cur.Type != token.TYPEID {
		p.errorf("expected a branch type name, got '%s'", p.cur.Lexeme)
	} else {
		b.DeclaredType = p.cur.Lexeme
		p.next()
	}
	p.expect(token.DARROW)
	b.Body = p.parseExpr(LOWEST)
	return b
}

func (p *Parser) parseNew() ast.Expr {
	pos := p.pos()
	p.next() // consume 'new'
	if p.cur.Type != token.TYPEID {
		p.errorf("expected a type name after 'new', got '%s'", p.cur.Lexeme)
		return &ast.NoExpression{Position: pos}
	}
	name := p.cur.Lexeme
	p.next()
	return &ast.New{TypeName: name, Position: pos}
}

func (p *Parser) parseIsVoid() ast.Expr {
	pos := p.pos()
	p.next()
	operand := p.parseExpr(ISVOID_PREC)
	return &ast.IsVoid{Operand: operand, Position: pos}
}

func (p *Parser) parseNegate() ast.Expr {
	pos := p.pos()
	p.next()
	operand := p.parseExpr(NEGATE)
	return &ast.UnaryOp{Op: ast.OpNegate, Operand: operand, Position: pos}
}

func (p *Parser) parseNot() ast.Expr {
	pos := p.pos()
	p.next()
	operand := p.parseExpr(NOT_PREC)
	return &ast.UnaryOp{Op: ast.OpNot, Operand: operand, Position: pos}
}

func binOpFor(t token.Type) ast.BinaryOperator {
	switch t {
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSub
	case token.STAR:
		return ast.OpMul
	case token.SLASH:
		return ast.OpDiv
	case token.LT:
		return ast.OpLt
	case token.LE:
		return ast.OpLe
	case token.EQ:
		return ast.OpEq
	default:
		panic(fmt.Sprintf("unreachable binary operator token %s", t))
	}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	pos := p.pos()
	op := binOpFor(p.cur.Type)
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpr(prec)
	return &ast.BinaryOp{Op: op, Left: left, Right: right, Position: pos}
}

func (p *Parser) parseDispatch(receiver ast.Expr) ast.Expr {
	pos := p.pos()
	p.next() // consume '.'
	if p.cur.Type != token.OBJECTID {
		p.errorf("expected a method name after '.', got '%s'", p.cur.Lexeme)
		return receiver
	}
	method := p.cur.Lexeme
	p.next()
	args := p.parseArgs()
	return &ast.Dispatch{Receiver: receiver, Method: method, Args: args, Position: pos}
}

func (p *Parser) parseStaticDispatch(receiver ast.Expr) ast.Expr {
	pos := p.pos()
	p.next() // consume '@'
	if p.cur.Type != token.TYPEID {
		p.errorf("expected a type name after '@', got '%s'", p.cur.Lexeme)
		return receiver
	}
	staticType := p.cur.Lexeme
	p.next()
	p.expect(token.DOT)
	if p.cur.Type != token.OBJECTID {
		p.errorf("expected a method name, got '%s'", p.cur.Lexeme)
		return receiver
	}
	method := p.cur.Lexeme
	p.next()
	args := p.parseArgs()
	return &ast.Dispatch{Receiver: receiver, StaticType: staticType, Method: method, Args: args, Position: pos}
}
