package parser

import (
	"fmt"
	"strconv"

	"obj/interpreter-go/pkg/ast"
	"obj/interpreter-go/pkg/lexer"
)

// ParseError carries a 1-based source position alongside the message.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parser is a recursive-descent parser for the OBJ surface syntax. OBJ has no
// infix operators, so there is no precedence climbing; every form is decided
// by its leading token.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a convenience over lexing and parsing a whole source text.
func Parse(src string) (*ast.Program, error) {
	return New(lexer.New(src)).ParseProgram()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) error {
	return &ParseError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.curToken.Type != t {
		return p.curToken, p.errorf(p.curToken, "expected %s, got %s %q", t, p.curToken.Type, p.curToken.Literal)
	}
	tok := p.curToken
	p.nextToken()
	return tok, nil
}

// ParseProgram parses a sequence of commands until EOF. The first error
// aborts the parse.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var statements []ast.Statement
	for p.curToken.Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return ast.NewProgram(statements), nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case lexer.DEFINE:
		return p.parseDefine()
	case lexer.SET:
		return p.parseSet()
	case lexer.CLASS:
		return p.parseClass()
	default:
		return p.parseExpression()
	}
}

func (p *Parser) parseDefine() (ast.Statement, error) {
	p.nextToken()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewDefineStatement(ast.NewIdentifier(name.Literal), value), nil
}

func (p *Parser) parseSet() (ast.Statement, error) {
	p.nextToken()
	mode := ast.ModeNone
	var object ast.Expression
	if p.curToken.Type == lexer.LT {
		var err error
		mode, object, err = p.parseQualifier()
		if err != nil {
			return nil, err
		}
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewSetStatement(mode, object, ast.NewIdentifier(name.Literal), value), nil
}

func (p *Parser) parseClass() (ast.Statement, error) {
	p.nextToken()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	var parent *ast.Identifier
	if p.curToken.Type == lexer.EXTENDS {
		p.nextToken()
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		parent = ast.NewIdentifier(tok.Literal)
	}

	var fields, statics []*ast.FieldDecl
	var methods, staticProcs []*ast.MethodDecl
	for p.curToken.Type != lexer.END {
		switch p.curToken.Type {
		case lexer.FIELD:
			decl, err := p.parseFieldDecl()
			if err != nil {
				return nil, err
			}
			fields = append(fields, decl)
		case lexer.STATIC:
			decl, err := p.parseFieldDecl()
			if err != nil {
				return nil, err
			}
			statics = append(statics, decl)
		case lexer.METHOD:
			decl, err := p.parseMethodDecl()
			if err != nil {
				return nil, err
			}
			methods = append(methods, decl)
		case lexer.PROC:
			decl, err := p.parseMethodDecl()
			if err != nil {
				return nil, err
			}
			staticProcs = append(staticProcs, decl)
		default:
			return nil, p.errorf(p.curToken, "expected class member or end, got %s %q", p.curToken.Type, p.curToken.Literal)
		}
	}
	p.nextToken() // consume end
	return ast.NewClassDeclaration(ast.NewIdentifier(name.Literal), parent, fields, statics, methods, staticProcs), nil
}

func (p *Parser) parseFieldDecl() (*ast.FieldDecl, error) {
	p.nextToken() // field / static
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if p.curToken.Type == lexer.ASSIGN {
		p.nextToken()
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewFieldDecl(ast.NewIdentifier(name.Literal), init), nil
}

func (p *Parser) parseMethodDecl() (*ast.MethodDecl, error) {
	p.nextToken() // method / proc
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	if p.curToken.Type != lexer.PROC {
		return nil, p.errorf(p.curToken, "expected proc literal, got %s %q", p.curToken.Type, p.curToken.Literal)
	}
	proc, err := p.parseProcLiteral()
	if err != nil {
		return nil, err
	}
	return ast.NewMethodDecl(ast.NewIdentifier(name.Literal), proc), nil
}

func (p *Parser) parseProcLiteral() (*ast.ProcExpression, error) {
	p.nextToken() // proc
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	for p.curToken.Type != lexer.RPAREN {
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.NewIdentifier(tok.Literal))
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	p.nextToken() // consume )
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewProcExpression(params, body), nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	switch p.curToken.Type {
	case lexer.INT:
		return p.parseIntegerLiteral()
	case lexer.PROC:
		return p.parseProcLiteral()
	case lexer.NEW:
		p.nextToken()
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return ast.NewNewExpression(ast.NewIdentifier(name.Literal)), nil
	case lexer.LET:
		return p.parseLet()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.THIS, lexer.SELF:
		tok := p.curToken
		p.nextToken()
		return ast.NewReceiver(tok.Literal), nil
	case lexer.DOT:
		return p.parseDottedCall()
	case lexer.LT:
		return p.parseQualifiedRef()
	case lexer.IDENT:
		return p.parseIdentifierExpression()
	case lexer.PRIM:
		return p.parsePrimApplication()
	case lexer.LPAREN:
		p.nextToken()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errorf(p.curToken, "unexpected token %s %q", p.curToken.Type, p.curToken.Literal)
	}
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, p.errorf(tok, "invalid integer literal %q", tok.Literal)
	}
	p.nextToken()
	return ast.NewIntegerLiteral(value), nil
}

func (p *Parser) parseLet() (ast.Expression, error) {
	p.nextToken() // let
	var bindings []*ast.LetBinding
	for p.curToken.Type != lexer.IN {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.NewLetBinding(ast.NewIdentifier(name.Literal), value))
	}
	p.nextToken() // in
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewLetExpression(bindings, body), nil
}

func (p *Parser) parseBlock() (ast.Expression, error) {
	p.nextToken() // {
	var body []ast.Statement
	for p.curToken.Type != lexer.RBRACE {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if p.curToken.Type == lexer.SEMICOLON {
			p.nextToken()
		}
	}
	p.nextToken() // }
	return ast.NewBlockExpression(body), nil
}

func (p *Parser) parseIf() (ast.Expression, error) {
	p.nextToken() // if
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN); err != nil {
		return nil, err
	}
	cons, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var alt ast.Expression
	if p.curToken.Type == lexer.ELSE {
		p.nextToken()
		alt, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfExpression(cond, cons, alt), nil
}

// parseDottedCall handles `.<qual>m(args)` and `.e(args)`.
func (p *Parser) parseDottedCall() (ast.Expression, error) {
	p.nextToken() // .
	if p.curToken.Type == lexer.LT {
		mode, object, err := p.parseQualifier()
		if err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return ast.NewMethodCall(mode, object, ast.NewIdentifier(name.Literal), args), nil
	}
	// Bare identifiers are the common callee; parsing them here keeps the
	// identifier path from consuming the argument list as a primitive call.
	var callee ast.Expression
	if p.curToken.Type == lexer.IDENT {
		callee = ast.NewIdentifier(p.curToken.Literal)
		p.nextToken()
	} else {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		callee = expr
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return ast.NewApplyExpression(callee, args), nil
}

// parseQualifier consumes `<qual>` and returns the mode, plus the target
// expression when the qualifier is an arbitrary object or class expression.
func (p *Parser) parseQualifier() (ast.QualifierMode, ast.Expression, error) {
	p.nextToken() // <
	var mode ast.QualifierMode
	var object ast.Expression
	switch p.curToken.Type {
	case lexer.SELF:
		mode = ast.ModeSelf
		p.nextToken()
	case lexer.THIS:
		mode = ast.ModeThis
		p.nextToken()
	case lexer.SUPER:
		mode = ast.ModeSuper
		p.nextToken()
	case lexer.MYCLASS:
		mode = ast.ModeMyClass
		p.nextToken()
	case lexer.SUPERCLASS:
		mode = ast.ModeSuperClass
		p.nextToken()
	case lexer.BANGAT:
		mode = ast.ModeLexical
		p.nextToken()
	default:
		mode = ast.ModeObject
		expr, err := p.parseExpression()
		if err != nil {
			return mode, nil, err
		}
		object = expr
	}
	if _, err := p.expect(lexer.GT); err != nil {
		return mode, nil, err
	}
	return mode, object, nil
}

func (p *Parser) parseQualifiedRef() (ast.Expression, error) {
	mode, object, err := p.parseQualifier()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return ast.NewQualifiedRef(mode, object, ast.NewIdentifier(name.Literal)), nil
}

// parseIdentifierExpression parses a bare identifier, or an application when
// it is immediately followed by an argument list (the primitive-call shape
// `add1(x)`).
func (p *Parser) parseIdentifierExpression() (ast.Expression, error) {
	ident := ast.NewIdentifier(p.curToken.Literal)
	p.nextToken()
	if p.curToken.Type == lexer.LPAREN {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return ast.NewApplyExpression(ident, args), nil
	}
	return ident, nil
}

func (p *Parser) parsePrimApplication() (ast.Expression, error) {
	ident := ast.NewIdentifier(p.curToken.Literal)
	p.nextToken()
	if p.curToken.Type != lexer.LPAREN {
		return nil, p.errorf(p.curToken, "primitive %q must be applied to arguments", ident.Name)
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return ast.NewApplyExpression(ident, args), nil
}

func (p *Parser) parseArgs() ([]ast.Expression, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.curToken.Type != lexer.RPAREN {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	p.nextToken() // )
	return args, nil
}
