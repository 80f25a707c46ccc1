// Copyright © 2018 The ELPS authors

package rdparser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser/token"
)

// DefaultModuleName names a module without a module header.
const DefaultModuleName = "Main"

type (
	symbol  = intern.Symbol
	expr    = ast.TypedExpr[intern.Symbol]
	pattern = ast.Pattern[intern.Symbol]
	binding = ast.Binding[intern.Symbol]
)

var (
	symNil    = intern.Intern("[]")
	symCons   = intern.Intern(":")
	symUnit   = intern.Intern("()")
	symNegate = intern.Intern("negate")
)

// Parser is a corelang parser.  A Parser stops at the first syntax error.
type Parser struct {
	src *TokenSource
}

// bailout carries a syntax error up to the exported entry point that
// recovers it.
type bailout struct {
	err *token.LocationError
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// ParseModule parses an entire source file as one module.  Errors are of
// type *token.LocationError.
func (p *Parser) ParseModule() (m ast.Module[symbol], err error) {
	defer p.recover(&err)
	return p.parseModule(), nil
}

// ParseExpression parses a single expression which must make up the whole
// input.  Errors are of type *token.LocationError.
func (p *Parser) ParseExpression() (e expr, err error) {
	defer p.recover(&err)
	e = p.parseExpr()
	if p.peekType() != token.EOF {
		p.unexpected("end of input")
	}
	return e, nil
}

func (p *Parser) recover(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}

func (p *Parser) parseModule() ast.Module[symbol] {
	m := ast.Module[symbol]{Name: intern.Intern(DefaultModuleName)}
	if p.accept(token.MODULE) {
		m.Name = p.moduleName()
		p.expect(token.WHERE)
	}
	for {
		for p.accept(token.NEWDECL) || p.accept(token.SEMI) {
		}
		if p.peekType() == token.EOF {
			break
		}
		switch p.peekType() {
		case token.IMPORT:
			loc := p.next().Source
			m.Imports = append(m.Imports, ast.Import{Module: p.moduleName(), Location: loc})
		case token.DATA:
			m.DataDefinitions = append(m.DataDefinitions, p.parseData())
		case token.CLASS:
			m.Classes = append(m.Classes, p.parseClass())
		case token.INSTANCE:
			m.Instances = append(m.Instances, p.parseInstance())
		default:
			sig, b := p.parseDecl()
			if sig != nil {
				m.TypeDeclarations = append(m.TypeDeclarations, *sig)
			} else {
				m.Bindings = append(m.Bindings, *b)
			}
		}
		switch p.peekType() {
		case token.NEWDECL, token.SEMI, token.EOF:
		default:
			p.unexpected("end of declaration")
		}
	}
	attachSignatures(m.Bindings, m.TypeDeclarations)
	return m
}

// moduleName parses a possibly dotted module name such as Data.List.
func (p *Parser) moduleName() symbol {
	name := p.expect(token.CONID).Text
	for p.peekType() == token.OPERATOR && p.peek().Text == "." {
		p.next()
		name += "." + p.expect(token.CONID).Text
	}
	return intern.Intern(name)
}

// parseDecl parses a type signature or one equation of a binding.  Exactly
// one of the results is non-nil.
func (p *Parser) parseDecl() (*ast.TypeDeclaration, *binding) {
	loc := p.peekLocation()
	name, isOp := p.varName()
	if p.accept(token.DCOLON) {
		ctx, typ := p.parseContextAndHead()
		return &ast.TypeDeclaration{Context: ctx, Name: name, Type: typ}, nil
	}
	var args []pattern
	if !isOp && p.peekType() == token.OPERATOR {
		// infix definition: x <op> y = ...
		op := p.next()
		lhs := &ast.IdentifierPattern[symbol]{Name: name}
		name = intern.Intern(op.Text)
		args = []pattern{lhs, p.parseAPattern()}
	}
	for p.startsAPattern() {
		args = append(args, p.parseAPattern())
	}
	p.expect(token.EQUALS)
	body := p.parseExpr()
	return nil, &binding{
		Name:       name,
		Arguments:  args,
		Expression: body,
		TypeDecl:   ast.TypeDeclaration{Name: name},
		Arity:      len(args),
		Location:   loc,
	}
}

// varName parses a variable name or a parenthesized operator.
func (p *Parser) varName() (name symbol, isOp bool) {
	if p.accept(token.PAREN_L) {
		op := p.expect(token.OPERATOR)
		p.expect(token.PAREN_R)
		return intern.Intern(op.Text), true
	}
	return intern.Intern(p.expect(token.VARID).Text), false
}

// parseBindings parses a block of equations and type signatures.
func (p *Parser) parseBindings() []binding {
	var bindings []binding
	var sigs []ast.TypeDeclaration
	p.block(func() {
		sig, b := p.parseDecl()
		if sig != nil {
			sigs = append(sigs, *sig)
		} else {
			bindings = append(bindings, *b)
		}
	})
	attachSignatures(bindings, sigs)
	return bindings
}

// block parses either "{ item; ... }", possibly empty, or an unbraced,
// non-empty list "item; ...".
func (p *Parser) block(item func()) {
	if !p.accept(token.BRACE_L) {
		item()
		for p.accept(token.SEMI) {
			item()
		}
		return
	}
	for {
		for p.accept(token.SEMI) {
		}
		if p.accept(token.BRACE_R) {
			return
		}
		item()
		if !p.accept(token.SEMI) {
			p.expect(token.BRACE_R)
			return
		}
	}
}

func attachSignatures(bindings []binding, sigs []ast.TypeDeclaration) {
	if len(sigs) == 0 {
		return
	}
	byName := make(map[symbol]ast.TypeDeclaration, len(sigs))
	for _, sig := range sigs {
		if _, ok := byName[sig.Name]; !ok {
			byName[sig.Name] = sig
		}
	}
	for i := range bindings {
		if sig, ok := byName[bindings[i].Name]; ok {
			bindings[i].TypeDecl = sig
		}
	}
}

func (p *Parser) parseData() ast.DataDefinition[symbol] {
	p.expect(token.DATA)
	con := intern.Intern(p.expect(token.CONID).Text)
	var def ast.DataDefinition[symbol]
	var typ ast.Type = &ast.TypeConstructor{Name: con}
	for p.peekType() == token.VARID {
		v := intern.Intern(p.next().Text)
		def.Parameters = append(def.Parameters, v)
		typ = &ast.TypeApplication{Func: typ, Arg: &ast.TypeVariable{Name: v}}
	}
	def.Type = typ
	if !p.accept(token.EQUALS) {
		return def
	}
	for {
		name := intern.Intern(p.expect(token.CONID).Text)
		var fields []ast.Type
		for p.startsAType() {
			fields = append(fields, p.parseAType())
		}
		ctype := typ
		for i := len(fields) - 1; i >= 0; i-- {
			ctype = ast.FunctionType(fields[i], ctype)
		}
		def.Constructors = append(def.Constructors, ast.Constructor[symbol]{
			Name:  name,
			Type:  ctype,
			Tag:   len(def.Constructors),
			Arity: len(fields),
		})
		if !p.accept(token.BAR) {
			return def
		}
	}
}

func (p *Parser) parseClass() ast.Class {
	loc := p.expect(token.CLASS).Source
	ctx, head := p.parseContextAndHead()
	name, args := flattenTypeApp(head)
	if name == nil || len(args) != 1 {
		p.errorf(loc, "malformed class head: %s", head)
	}
	v, ok := args[0].(*ast.TypeVariable)
	if !ok {
		p.errorf(loc, "class parameter must be a type variable: %s", args[0])
	}
	class := ast.Class{Constraints: ctx, Name: name.Name, Variable: v.Name}
	if !p.accept(token.WHERE) {
		return class
	}
	p.block(func() {
		loc := p.peekLocation()
		sig, _ := p.parseDecl()
		if sig == nil {
			p.errorf(loc, "class %s: default method definitions are not supported", class.Name)
		}
		class.Declarations = append(class.Declarations, *sig)
	})
	return class
}

func (p *Parser) parseInstance() ast.Instance[symbol] {
	loc := p.expect(token.INSTANCE).Source
	ctx, head := p.parseContextAndHead()
	name, args := flattenTypeApp(head)
	if name == nil || len(args) != 1 {
		p.errorf(loc, "malformed instance head: %s", head)
	}
	inst := ast.Instance[symbol]{Constraints: ctx, Type: args[0], ClassName: name.Name}
	if p.accept(token.WHERE) {
		inst.Bindings = p.parseBindings()
	}
	return inst
}

// parseContextAndHead parses "[context =>] type".
func (p *Parser) parseContextAndHead() ([]ast.Constraint, ast.Type) {
	loc := p.peekLocation()
	t := p.parseType()
	if !p.accept(token.DARROW) {
		return nil, t
	}
	return p.constraints(loc, t), p.parseType()
}

// constraints converts a type parsed before "=>" into a class context.
func (p *Parser) constraints(loc *token.Location, t ast.Type) []ast.Constraint {
	head, args := flattenTypeApp(t)
	if head == nil {
		p.errorf(loc, "malformed context: %s", t)
	}
	if head.Name == symUnit {
		return nil
	}
	if ast.TupleArity(head.Name.String()) > 0 {
		var ctx []ast.Constraint
		for _, arg := range args {
			ctx = append(ctx, p.constraints(loc, arg)...)
		}
		return ctx
	}
	c := ast.Constraint{Class: head.Name}
	for _, arg := range args {
		v, ok := arg.(*ast.TypeVariable)
		if !ok {
			p.errorf(loc, "malformed constraint: %s", t)
		}
		c.Variables = append(c.Variables, v.Name)
	}
	return []ast.Constraint{c}
}

// flattenTypeApp splits a type constructor application into its head and
// arguments.  The head is nil if t is not headed by a type constructor.
func flattenTypeApp(t ast.Type) (*ast.TypeConstructor, []ast.Type) {
	var args []ast.Type
	for {
		switch x := t.(type) {
		case *ast.TypeApplication:
			args = append([]ast.Type{x.Arg}, args...)
			t = x.Func
		case *ast.TypeConstructor:
			return x, args
		default:
			return nil, nil
		}
	}
}

func (p *Parser) parseType() ast.Type {
	t := p.parseBType()
	if p.accept(token.ARROW) {
		return ast.FunctionType(t, p.parseType())
	}
	return t
}

func (p *Parser) parseBType() ast.Type {
	t := p.parseAType()
	for p.startsAType() {
		t = &ast.TypeApplication{Func: t, Arg: p.parseAType()}
	}
	return t
}

func (p *Parser) parseAType() ast.Type {
	tok := p.peek()
	switch tok.Type {
	case token.CONID:
		p.next()
		return &ast.TypeConstructor{Name: intern.Intern(tok.Text)}
	case token.VARID:
		p.next()
		return &ast.TypeVariable{Name: intern.Intern(tok.Text)}
	case token.BRACKET_L:
		p.next()
		if p.accept(token.BRACKET_R) {
			return &ast.TypeConstructor{Name: symNil}
		}
		elem := p.parseType()
		p.expect(token.BRACKET_R)
		return ast.ListType(elem)
	case token.PAREN_L:
		p.next()
		if p.accept(token.PAREN_R) {
			return &ast.TypeConstructor{Name: symUnit}
		}
		if p.accept(token.ARROW) {
			p.expect(token.PAREN_R)
			return &ast.TypeConstructor{Name: intern.Intern("->")}
		}
		elems := []ast.Type{p.parseType()}
		for p.accept(token.COMMA) {
			elems = append(elems, p.parseType())
		}
		p.expect(token.PAREN_R)
		if len(elems) == 1 {
			return elems[0]
		}
		var t ast.Type = &ast.TypeConstructor{Name: intern.Intern(tupleName(len(elems)))}
		for _, elem := range elems {
			t = &ast.TypeApplication{Func: t, Arg: elem}
		}
		return t
	}
	p.unexpected("type")
	return nil
}

func (p *Parser) startsAType() bool {
	switch p.peekType() {
	case token.CONID, token.VARID, token.BRACKET_L, token.PAREN_L:
		return true
	}
	return false
}

// parseExpr parses an expression.  Infix operators are right associative
// and share a single precedence level.
func (p *Parser) parseExpr() expr {
	return p.parseInfix(p.parseOperand())
}

func (p *Parser) parseInfix(lhs expr) expr {
	if p.peekType() != token.OPERATOR {
		return lhs
	}
	op := p.next()
	rhs := p.parseExpr()
	f := typed(&ast.Apply[symbol]{Func: identifier(op), Arg: lhs}, lhs.Location)
	return typed(&ast.Apply[symbol]{Func: f, Arg: rhs}, lhs.Location)
}

func (p *Parser) parseOperand() expr {
	tok := p.peek()
	switch tok.Type {
	case token.BACKSLASH:
		return p.parseLambda()
	case token.LET:
		return p.parseLet()
	case token.CASE:
		return p.parseCase()
	case token.DO:
		return p.parseDo()
	case token.OPERATOR:
		if tok.Text == "-" {
			return p.parseNegation(p.next())
		}
	}
	return p.parseApplication()
}

// parseNegation parses the operand of a prefix minus.  Negative numeric
// literals are folded into the literal.
func (p *Parser) parseNegation(minus *token.Token) expr {
	switch tok := p.peek(); tok.Type {
	case token.INT, token.FLOAT:
		e := p.parseApplication()
		if lit, ok := e.Expr.(*ast.Literal[symbol]); ok {
			lit.Text = "-" + lit.Text
			e.Location = minus.Source
			return e
		}
		return p.negate(minus, e)
	}
	return p.negate(minus, p.parseApplication())
}

func (p *Parser) negate(minus *token.Token, e expr) expr {
	f := typed(&ast.Identifier[symbol]{Name: symNegate}, minus.Source)
	return typed(&ast.Apply[symbol]{Func: f, Arg: e}, minus.Source)
}

func (p *Parser) parseApplication() expr {
	f := p.parseAtom()
	for p.startsAtom() {
		arg := p.parseAtom()
		f = typed(&ast.Apply[symbol]{Func: f, Arg: arg}, f.Location)
	}
	return f
}

func (p *Parser) startsAtom() bool {
	switch p.peekType() {
	case token.VARID, token.CONID, token.INT, token.FLOAT, token.STRING, token.CHAR,
		token.PAREN_L, token.BRACKET_L:
		return true
	}
	return false
}

func (p *Parser) parseAtom() expr {
	tok := p.peek()
	switch tok.Type {
	case token.VARID, token.CONID:
		return identifier(p.next())
	case token.INT:
		return p.literal(ast.Integer)
	case token.FLOAT:
		return p.literal(ast.Float)
	case token.STRING:
		return p.literal(ast.String)
	case token.CHAR:
		return p.literal(ast.Char)
	case token.BRACKET_L:
		return p.parseList()
	case token.PAREN_L:
		return p.parseParen()
	}
	p.unexpected("expression")
	return expr{}
}

func (p *Parser) literal(kind ast.LiteralKind) expr {
	tok := p.next()
	switch kind {
	case ast.String:
		if _, err := strconv.Unquote(tok.Text); err != nil {
			p.errorf(tok.Source, "invalid string literal %s", tok.Text)
		}
	case ast.Char:
		s, err := strconv.Unquote(tok.Text)
		if err != nil || utf8.RuneCountInString(s) != 1 {
			p.errorf(tok.Source, "invalid character literal %s", tok.Text)
		}
	}
	return typed(&ast.Literal[symbol]{Kind: kind, Text: tok.Text}, tok.Source)
}

// parseList parses a list literal as applications of ":" ending in "[]".
func (p *Parser) parseList() expr {
	open := p.expect(token.BRACKET_L)
	var elems []expr
	if p.peekType() != token.BRACKET_R {
		elems = append(elems, p.parseExpr())
		for p.accept(token.COMMA) {
			elems = append(elems, p.parseExpr())
		}
	}
	p.expect(token.BRACKET_R)
	list := typed(&ast.Identifier[symbol]{Name: symNil}, open.Source)
	for i := len(elems) - 1; i >= 0; i-- {
		cons := typed(&ast.Identifier[symbol]{Name: symCons}, elems[i].Location)
		f := typed(&ast.Apply[symbol]{Func: cons, Arg: elems[i]}, elems[i].Location)
		list = typed(&ast.Apply[symbol]{Func: f, Arg: list}, elems[i].Location)
	}
	return list
}

// parseParen parses unit, operator names, tuple constructors, tuples and
// parenthesized expressions.
func (p *Parser) parseParen() expr {
	open := p.expect(token.PAREN_L)
	if p.accept(token.PAREN_R) {
		return typed(&ast.Identifier[symbol]{Name: symUnit}, open.Source)
	}
	if p.peekType() == token.COMMA {
		n := 1
		for p.accept(token.COMMA) {
			n++
		}
		p.expect(token.PAREN_R)
		return typed(&ast.Identifier[symbol]{Name: intern.Intern(tupleName(n))}, open.Source)
	}
	var first expr
	if p.peekType() == token.OPERATOR {
		op := p.next()
		if p.accept(token.PAREN_R) {
			return identifier(op)
		}
		if op.Text != "-" {
			p.errorf(op.Source, "operator sections are not supported")
		}
		first = p.parseInfix(p.parseNegation(op))
	} else {
		first = p.parseExpr()
	}
	elems := []expr{first}
	for p.accept(token.COMMA) {
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.PAREN_R)
	if len(elems) == 1 {
		return first
	}
	t := typed(&ast.Identifier[symbol]{Name: intern.Intern(tupleName(len(elems)))}, open.Source)
	for _, e := range elems {
		t = typed(&ast.Apply[symbol]{Func: t, Arg: e}, open.Source)
	}
	return t
}

// parseLambda parses "\p1 p2 ... -> e" into nested single argument lambdas.
func (p *Parser) parseLambda() expr {
	loc := p.expect(token.BACKSLASH).Source
	args := []pattern{p.parseAPattern()}
	for p.startsAPattern() {
		args = append(args, p.parseAPattern())
	}
	p.expect(token.ARROW)
	body := p.parseExpr()
	for i := len(args) - 1; i >= 0; i-- {
		body = typed(&ast.Lambda[symbol]{Arg: args[i], Body: body}, loc)
	}
	return body
}

func (p *Parser) parseLet() expr {
	loc := p.expect(token.LET).Source
	bindings := p.parseBindings()
	p.expect(token.IN)
	body := p.parseExpr()
	return typed(&ast.Let[symbol]{Bindings: bindings, Body: body}, loc)
}

func (p *Parser) parseCase() expr {
	loc := p.expect(token.CASE).Source
	scrutinee := p.parseExpr()
	p.expect(token.OF)
	var alts []ast.Alternative[symbol]
	p.block(func() {
		ploc := p.peekLocation()
		pat := p.parsePattern()
		p.expect(token.ARROW)
		alts = append(alts, ast.Alternative[symbol]{
			Pattern:    ast.Located[pattern]{Location: ploc, Node: pat},
			Expression: p.parseExpr(),
		})
	})
	return typed(&ast.Case[symbol]{Scrutinee: scrutinee, Alternatives: alts}, loc)
}

// parseDo parses a do block.  The last statement must be an expression and
// becomes the body of the block.
func (p *Parser) parseDo() expr {
	loc := p.expect(token.DO).Source
	var stmts []ast.DoBinding[symbol]
	p.block(func() {
		stmts = append(stmts, p.parseStatement())
	})
	if len(stmts) == 0 {
		p.errorf(loc, "empty do block")
	}
	last, ok := stmts[len(stmts)-1].(*ast.DoExpr[symbol])
	if !ok {
		p.errorf(loc, "the last statement in a do block must be an expression")
	}
	return typed(&ast.Do[symbol]{Statements: stmts[:len(stmts)-1], Body: last.Expression}, loc)
}

func (p *Parser) parseStatement() ast.DoBinding[symbol] {
	if p.peekType() == token.LET {
		loc := p.next().Source
		bindings := p.parseBindings()
		if !p.accept(token.IN) {
			return &ast.DoLet[symbol]{Bindings: bindings}
		}
		body := p.parseExpr()
		return &ast.DoExpr[symbol]{Expression: typed(&ast.Let[symbol]{Bindings: bindings, Body: body}, loc)}
	}
	e := p.parseExpr()
	if !p.accept(token.LARROW) {
		return &ast.DoExpr[symbol]{Expression: e}
	}
	pat := p.exprToPattern(e)
	return &ast.DoBind[symbol]{
		Pattern:    ast.Located[pattern]{Location: e.Location, Node: pat},
		Expression: p.parseExpr(),
	}
}

// exprToPattern reinterprets the expression to the left of "<-" as a
// pattern.
func (p *Parser) exprToPattern(e expr) pattern {
	switch x := e.Expr.(type) {
	case *ast.Identifier[symbol]:
		switch {
		case x.Name.String() == "_":
			return &ast.WildCardPattern[symbol]{}
		case isConName(x.Name):
			return &ast.ConstructorPattern[symbol]{Name: x.Name}
		default:
			return &ast.IdentifierPattern[symbol]{Name: x.Name}
		}
	case *ast.Literal[symbol]:
		if x.Kind == ast.Integer {
			return &ast.NumberPattern[symbol]{Value: p.atoi(e.Location, x.Text)}
		}
	case *ast.Apply[symbol]:
		var args []expr
		head := e
		for {
			app, ok := head.Expr.(*ast.Apply[symbol])
			if !ok {
				break
			}
			args = append([]expr{app.Arg}, args...)
			head = app.Func
		}
		id, ok := head.Expr.(*ast.Identifier[symbol])
		if !ok || !isConName(id.Name) {
			break
		}
		pats := make([]pattern, len(args))
		for i, arg := range args {
			pats[i] = p.exprToPattern(arg)
		}
		return &ast.ConstructorPattern[symbol]{Name: id.Name, Patterns: pats}
	}
	p.errorf(e.Location, "invalid pattern on the left of <-")
	return nil
}

// parsePattern parses a full pattern, including constructor application
// and the right associative ":" pattern.
func (p *Parser) parsePattern() pattern {
	var lhs pattern
	switch tok := p.peek(); {
	case tok.Type == token.CONID:
		name := intern.Intern(p.next().Text)
		con := &ast.ConstructorPattern[symbol]{Name: name}
		for p.startsAPattern() {
			con.Patterns = append(con.Patterns, p.parseAPattern())
		}
		lhs = con
	case tok.Type == token.OPERATOR && tok.Text == "-":
		p.next()
		n := p.expect(token.INT)
		lhs = &ast.NumberPattern[symbol]{Value: -p.atoi(n.Source, n.Text)}
	default:
		lhs = p.parseAPattern()
	}
	if tok := p.peek(); tok.Type == token.OPERATOR && tok.Text == ":" {
		p.next()
		rhs := p.parsePattern()
		return &ast.ConstructorPattern[symbol]{Name: symCons, Patterns: []pattern{lhs, rhs}}
	}
	return lhs
}

func (p *Parser) startsAPattern() bool {
	switch p.peekType() {
	case token.VARID, token.CONID, token.INT, token.PAREN_L, token.BRACKET_L:
		return true
	}
	return false
}

func (p *Parser) parseAPattern() pattern {
	tok := p.peek()
	switch tok.Type {
	case token.VARID:
		p.next()
		if tok.Text == "_" {
			return &ast.WildCardPattern[symbol]{}
		}
		return &ast.IdentifierPattern[symbol]{Name: intern.Intern(tok.Text)}
	case token.CONID:
		p.next()
		return &ast.ConstructorPattern[symbol]{Name: intern.Intern(tok.Text)}
	case token.INT:
		p.next()
		return &ast.NumberPattern[symbol]{Value: p.atoi(tok.Source, tok.Text)}
	case token.BRACKET_L:
		p.next()
		var elems []pattern
		if p.peekType() != token.BRACKET_R {
			elems = append(elems, p.parsePattern())
			for p.accept(token.COMMA) {
				elems = append(elems, p.parsePattern())
			}
		}
		p.expect(token.BRACKET_R)
		var list pattern = &ast.ConstructorPattern[symbol]{Name: symNil}
		for i := len(elems) - 1; i >= 0; i-- {
			list = &ast.ConstructorPattern[symbol]{Name: symCons, Patterns: []pattern{elems[i], list}}
		}
		return list
	case token.PAREN_L:
		p.next()
		if p.accept(token.PAREN_R) {
			return &ast.ConstructorPattern[symbol]{Name: symUnit}
		}
		elems := []pattern{p.parsePattern()}
		for p.accept(token.COMMA) {
			elems = append(elems, p.parsePattern())
		}
		p.expect(token.PAREN_R)
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.ConstructorPattern[symbol]{Name: intern.Intern(tupleName(len(elems))), Patterns: elems}
	}
	p.unexpected("pattern")
	return nil
}

func (p *Parser) atoi(loc *token.Location, text string) int {
	n, err := strconv.Atoi(text)
	if err != nil {
		p.errorf(loc, "invalid integer pattern %s: %v", text, err)
	}
	return n
}

func typed(e ast.Expr[symbol], loc *token.Location) expr {
	return expr{Expr: e, Location: loc}
}

func identifier(tok *token.Token) expr {
	return typed(&ast.Identifier[symbol]{Name: intern.Intern(tok.Text)}, tok.Source)
}

func tupleName(n int) string {
	return "(" + strings.Repeat(",", n-1) + ")"
}

// isConName reports whether sym names a data constructor.
func isConName(sym symbol) bool {
	s := sym.String()
	c, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(c) || c == ':' || s == "[]" || s == "()" || ast.TupleArity(s) > 0
}

func (p *Parser) peek() *token.Token {
	tok := p.src.Peek()
	if tok.Type == token.ERROR {
		p.errorf(tok.Source, "%s", tok.Text)
	}
	return tok
}

func (p *Parser) next() *token.Token {
	p.peek()
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) accept(typ token.Type) bool {
	if p.peekType() != typ {
		return false
	}
	p.next()
	return true
}

func (p *Parser) expect(typ token.Type) *token.Token {
	if p.peekType() != typ {
		p.unexpected(typ.String())
	}
	return p.next()
}

func (p *Parser) peekType() token.Type {
	return p.peek().Type
}

func (p *Parser) peekLocation() *token.Location {
	return p.peek().Source
}

func (p *Parser) unexpected(want string) {
	tok := p.peek()
	p.errorf(tok.Source, "expected %s, found %s", want, describe(tok))
}

func describe(tok *token.Token) string {
	if tok.Text == "" || tok.Text == tok.Type.String() {
		return tok.Type.String()
	}
	return tok.String()
}

func (p *Parser) errorf(loc *token.Location, format string, v ...interface{}) {
	panic(bailout{&token.LocationError{Err: fmt.Errorf(format, v...), Source: loc}})
}
