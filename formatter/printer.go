// Copyright © 2024 The ELPS authors

package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/intern"
	"github.com/muesli/reflow/indent"
)

const symbolRunes = `!#$%&*+./<=>?@\^|-~:`

// level is the syntactic context an expression or pattern is printed in.
// Anything that does not fit its level is parenthesized.
type level int

const (
	levelTop level = iota // any expression
	levelApp              // applications and atoms
	levelArg              // atoms only
)

type printer[T Ident] struct {
	cfg *Config
}

func newPrinter[T Ident](cfg *Config) *printer[T] {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &printer[T]{cfg: cfg}
}

func (p *printer[T]) module(m ast.Module[T]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s where\n", m.Name)
	for _, imp := range m.Imports {
		fmt.Fprintf(&b, "import %s\n", imp.Module)
	}

	var items []string
	for _, def := range m.DataDefinitions {
		items = append(items, p.data(def))
	}
	for _, class := range m.Classes {
		items = append(items, p.class(class))
	}
	for _, inst := range m.Instances {
		items = append(items, p.instance(inst))
	}
	attached := make(map[intern.Symbol]bool)
	for _, group := range ast.BindingGroups(m.Bindings) {
		if sig := group[0].TypeDecl; sig.Type != nil {
			attached[sig.Name] = true
		}
		items = append(items, strings.Join(p.bindingGroup(group), "\n"))
	}
	for _, sig := range m.TypeDeclarations {
		if !attached[sig.Name] {
			items = append(items, signature(sig))
		}
	}

	for _, item := range items {
		b.WriteString("\n")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

func (p *printer[T]) data(def ast.DataDefinition[T]) string {
	s := "data " + def.Type.String()
	if len(def.Constructors) == 0 {
		return s
	}
	ctors := make([]string, len(def.Constructors))
	for i, ctor := range def.Constructors {
		parts := []string{displayName(ctor.Name.String())}
		fields, _ := ast.FunctionArgs(ctor.Type)
		if len(fields) > ctor.Arity {
			fields = fields[:ctor.Arity]
		}
		for _, field := range fields {
			parts = append(parts, ast.AtomString(field))
		}
		ctors[i] = strings.Join(parts, " ")
	}
	return s + " = " + strings.Join(ctors, " | ")
}

func (p *printer[T]) class(class ast.Class) string {
	s := "class " + contextPrefix(class.Constraints) + class.Name.String() + " " + class.Variable.String()
	if len(class.Declarations) == 0 {
		return s
	}
	sigs := make([]string, len(class.Declarations))
	for i, sig := range class.Declarations {
		sigs[i] = signature(sig)
	}
	return s + " where " + p.block(sigs)
}

func (p *printer[T]) instance(inst ast.Instance[T]) string {
	s := "instance " + contextPrefix(inst.Constraints) + inst.ClassName.String() + " " + ast.AtomString(inst.Type)
	if len(inst.Bindings) == 0 {
		return s
	}
	return s + " where " + p.block(p.bindings(inst.Bindings))
}

func contextPrefix(cs []ast.Constraint) string {
	if len(cs) == 0 {
		return ""
	}
	return ast.ContextString(cs) + " => "
}

func signature(sig ast.TypeDeclaration) string {
	s := displayName(sig.Name.String()) + " :: " + contextPrefix(sig.Context)
	if sig.Type != nil {
		s += sig.Type.String()
	}
	return s
}

// bindings returns the block items for a binding list: each definition's
// signature, if it has one, followed by its equations.
func (p *printer[T]) bindings(bs []ast.Binding[T]) []string {
	var items []string
	for _, group := range ast.BindingGroups(bs) {
		items = append(items, p.bindingGroup(group)...)
	}
	return items
}

func (p *printer[T]) bindingGroup(group []ast.Binding[T]) []string {
	var lines []string
	if sig := group[0].TypeDecl; sig.Type != nil {
		lines = append(lines, signature(sig))
	}
	for _, b := range group {
		lines = append(lines, p.binding(b))
	}
	return lines
}

func (p *printer[T]) binding(b ast.Binding[T]) string {
	parts := []string{displayName(b.Name.String())}
	for _, arg := range b.Arguments {
		parts = append(parts, p.pattern(arg, levelArg))
	}
	return strings.Join(parts, " ") + " = " + p.expr(b.Expression, levelTop)
}

// block renders items as "{ a; b }" when that fits on one line and
// otherwise one item per line, indented.
func (p *printer[T]) block(items []string) string {
	if len(items) == 0 {
		return "{}"
	}
	inline := "{ " + strings.Join(items, "; ") + " }"
	if !strings.Contains(inline, "\n") && len(inline) <= p.cfg.LineWidth {
		return inline
	}
	body := indent.String(strings.Join(items, ";\n"), uint(p.cfg.IndentSize))
	return "{\n" + body + "\n}"
}

// sourced is implemented by identifiers that decorate a source symbol, such
// as resolved names.  Surface syntax is chosen by the symbol.
type sourced interface {
	Source() intern.Symbol
}

func symbolOf[T Ident](id T) string {
	if s, ok := any(id).(sourced); ok {
		return s.Source().String()
	}
	return id.String()
}

func (p *printer[T]) expr(e ast.TypedExpr[T], lvl level) string {
	switch x := e.Expr.(type) {
	case *ast.Literal[T]:
		return parenIf(lvl > levelTop && strings.HasPrefix(x.Text, "-"), x.Text)
	case *ast.Identifier[T]:
		return displayName(x.Name.String())
	case *ast.Apply[T]:
		return p.apply(e, lvl)
	case *ast.Lambda[T]:
		var args []string
		body := e
		for {
			lam, ok := body.Expr.(*ast.Lambda[T])
			if !ok {
				break
			}
			args = append(args, p.pattern(lam.Arg, levelArg))
			body = lam.Body
		}
		return parenIf(lvl > levelTop, `\`+strings.Join(args, " ")+" -> "+p.expr(body, levelTop))
	case *ast.Let[T]:
		s := "let " + p.block(p.bindings(x.Bindings)) + " in " + p.expr(x.Body, levelTop)
		return parenIf(lvl > levelTop, s)
	case *ast.Case[T]:
		alts := make([]string, len(x.Alternatives))
		for i, alt := range x.Alternatives {
			alts[i] = p.pattern(alt.Pattern.Node, levelTop) + " -> " + p.expr(alt.Expression, levelTop)
		}
		s := "case " + p.expr(x.Scrutinee, levelTop) + " of " + p.block(alts)
		return parenIf(lvl > levelTop, s)
	case *ast.Do[T]:
		var stmts []string
		for _, stmt := range x.Statements {
			stmts = append(stmts, p.statement(stmt))
		}
		stmts = append(stmts, p.expr(x.Body, levelTop))
		return parenIf(lvl > levelTop, "do "+p.block(stmts))
	}
	panic(fmt.Sprintf("formatter: unexpected expression %T", e.Expr))
}

func (p *printer[T]) statement(stmt ast.DoBinding[T]) string {
	switch s := stmt.(type) {
	case *ast.DoExpr[T]:
		return p.expr(s.Expression, levelTop)
	case *ast.DoLet[T]:
		return "let " + p.block(p.bindings(s.Bindings))
	case *ast.DoBind[T]:
		return p.pattern(s.Pattern.Node, levelTop) + " <- " + p.expr(s.Expression, levelTop)
	}
	panic(fmt.Sprintf("formatter: unexpected do statement %T", stmt))
}

// apply prints an application.  List literals, tuples and binary operator
// applications are printed in their surface syntax.
func (p *printer[T]) apply(e ast.TypedExpr[T], lvl level) string {
	head, args := flattenApply(e)
	if id, ok := head.Expr.(*ast.Identifier[T]); ok {
		sym := symbolOf(id.Name)
		if elems, ok := listElems(e); ok {
			return "[" + p.exprs(elems) + "]"
		}
		if n := ast.TupleArity(sym); n > 0 && n == len(args) {
			return "(" + p.exprs(args) + ")"
		}
		if isOperator(sym) && len(args) == 2 {
			s := p.expr(args[0], levelApp) + " " + id.Name.String() + " " + p.expr(args[1], levelTop)
			return parenIf(lvl > levelTop, s)
		}
	}
	parts := []string{p.expr(head, levelArg)}
	for _, arg := range args {
		parts = append(parts, p.expr(arg, levelArg))
	}
	return parenIf(lvl == levelArg, strings.Join(parts, " "))
}

func (p *printer[T]) exprs(es []ast.TypedExpr[T]) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = p.expr(e, levelTop)
	}
	return strings.Join(parts, ", ")
}

func flattenApply[T Ident](e ast.TypedExpr[T]) (ast.TypedExpr[T], []ast.TypedExpr[T]) {
	var args []ast.TypedExpr[T]
	for {
		app, ok := e.Expr.(*ast.Apply[T])
		if !ok {
			return e, args
		}
		args = append([]ast.TypedExpr[T]{app.Arg}, args...)
		e = app.Func
	}
}

// listElems returns the elements of a chain of ":" applications ending in
// "[]".
func listElems[T Ident](e ast.TypedExpr[T]) ([]ast.TypedExpr[T], bool) {
	var elems []ast.TypedExpr[T]
	for {
		head, args := flattenApply(e)
		id, ok := head.Expr.(*ast.Identifier[T])
		if !ok {
			return nil, false
		}
		switch {
		case len(args) == 0 && symbolOf(id.Name) == "[]":
			return elems, len(elems) > 0
		case len(args) == 2 && symbolOf(id.Name) == ":":
			elems = append(elems, args[0])
			e = args[1]
		default:
			return nil, false
		}
	}
}

func (p *printer[T]) pattern(pat ast.Pattern[T], lvl level) string {
	switch x := pat.(type) {
	case *ast.NumberPattern[T]:
		return parenIf(lvl == levelArg && x.Value < 0, strconv.Itoa(x.Value))
	case *ast.WildCardPattern[T]:
		return "_"
	case *ast.IdentifierPattern[T]:
		return x.Name.String()
	case *ast.ConstructorPattern[T]:
		name, sym := x.Name.String(), symbolOf(x.Name)
		if len(x.Patterns) == 0 {
			return displayName(name)
		}
		if elems, ok := listPatternElems(pat); ok {
			return "[" + p.patterns(elems) + "]"
		}
		if n := ast.TupleArity(sym); n > 0 && n == len(x.Patterns) {
			return "(" + p.patterns(x.Patterns) + ")"
		}
		if strings.HasPrefix(sym, ":") && len(x.Patterns) == 2 {
			s := p.pattern(x.Patterns[0], levelApp) + " " + name + " " + p.pattern(x.Patterns[1], levelTop)
			return parenIf(lvl > levelTop, s)
		}
		parts := []string{displayName(name)}
		for _, sub := range x.Patterns {
			parts = append(parts, p.pattern(sub, levelArg))
		}
		return parenIf(lvl == levelArg, strings.Join(parts, " "))
	}
	panic(fmt.Sprintf("formatter: unexpected pattern %T", pat))
}

func (p *printer[T]) patterns(ps []ast.Pattern[T]) string {
	parts := make([]string, len(ps))
	for i, sub := range ps {
		parts[i] = p.pattern(sub, levelTop)
	}
	return strings.Join(parts, ", ")
}

func listPatternElems[T Ident](pat ast.Pattern[T]) ([]ast.Pattern[T], bool) {
	var elems []ast.Pattern[T]
	for {
		con, ok := pat.(*ast.ConstructorPattern[T])
		if !ok {
			return nil, false
		}
		switch {
		case len(con.Patterns) == 0 && symbolOf(con.Name) == "[]":
			return elems, len(elems) > 0
		case len(con.Patterns) == 2 && symbolOf(con.Name) == ":":
			elems = append(elems, con.Patterns[0])
			pat = con.Patterns[1]
		default:
			return nil, false
		}
	}
}

func isOperator(name string) bool {
	return name != "" && strings.ContainsRune(symbolRunes, rune(name[0]))
}

// displayName parenthesizes operator names so they can be used in prefix
// position.
func displayName(name string) string {
	if isOperator(name) {
		return "(" + name + ")"
	}
	return name
}

func parenIf(cond bool, s string) string {
	if cond {
		return "(" + s + ")"
	}
	return s
}
