// Copyright © 2024 The ELPS authors

// Package rename resolves identifiers to unique names.
//
// The renamer walks a module depth first with a nested symbol table.  Every
// binding occurrence of a local identifier gets a freshly minted Name and
// every use resolves to the innermost enclosing binding.  Top-level bindings,
// instance methods and constructors are global and get UID 0.  Identifiers
// that resolve to no binding are treated as global references.
//
// Defining a symbol twice in one scope is recorded as a DuplicateDefinition
// and renaming continues with the first definition, so a single pass reports
// every duplicate in the program.
package rename

import (
	"fmt"
	"io"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser/token"
	"github.com/luthersystems/corelang/scope"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Options controls renaming behavior.
type Options struct {
	// IsolateModules gives each module renamed by one Renamer its own
	// top-level scope.  By default all modules share the global scope, so a
	// top-level name defined in two modules is a duplicate definition.
	IsolateModules bool
}

// Option configures a Renamer.
type Option func(*Renamer)

func WithOptions(opts Options) Option {
	return func(r *Renamer) { r.opts = opts }
}

// WithLogger sets the logger used for debug tracing of scopes and bindings.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Renamer) { r.log = log }
}

// WithTracerProvider sets the provider of the tracer used by RenameModules.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Renamer) { r.tp = tp }
}

// Renamer holds the state shared by every module renamed through it: the
// scope table, the UID counter and the accumulated diagnostics.  A Renamer
// is not safe for concurrent use.
type Renamer struct {
	uniques *scope.Table[intern.Symbol, Name]
	defs    map[Name]*token.Location
	ids     allocator
	errors  Errors
	opts    Options
	log     *logrus.Entry
	tp      trace.TracerProvider
}

// New returns a Renamer with an empty global scope.
func New(opts ...Option) *Renamer {
	r := &Renamer{
		uniques: scope.New[intern.Symbol, Name](),
		defs:    make(map[Name]*token.Location),
		ids:     newAllocator(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = discardLogger()
	}
	if r.tp == nil {
		r.tp = otel.GetTracerProvider()
	}
	return r
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = io.Discard
	return logrus.NewEntry(l)
}

// Errors returns the diagnostics recorded so far.
func (r *Renamer) Errors() *Errors {
	return &r.errors
}

// RenameExpr renames a standalone expression with a new Renamer.  Every
// free identifier in e becomes a global name.
func RenameExpr(e ast.TypedExpr[intern.Symbol]) ast.TypedExpr[Name] {
	return New().RenameExpr(e)
}

// RenameExpr renames e in the current scope of r.
func (r *Renamer) RenameExpr(e ast.TypedExpr[intern.Symbol]) ast.TypedExpr[Name] {
	return r.rename(e)
}

// RenameModule renames m with a new Renamer.  Diagnostics are discarded;
// use RenameModules to observe them.
func RenameModule(m ast.Module[intern.Symbol]) ast.Module[Name] {
	return New().RenameModule(m)
}

// RenameModule renames m using the scope, counter and diagnostics of r so
// that names stay unique across every module renamed through r.
func (r *Renamer) RenameModule(m ast.Module[intern.Symbol]) ast.Module[Name] {
	if r.opts.IsolateModules {
		r.enterScope(scope.Module)
	}

	data := make([]ast.DataDefinition[Name], len(m.DataDefinitions))
	for i, def := range m.DataDefinitions {
		ctors := make([]ast.Constructor[Name], len(def.Constructors))
		for j, ctor := range def.Constructors {
			ctors[j] = ast.Constructor[Name]{
				Name:  Global(ctor.Name),
				Type:  ctor.Type,
				Tag:   ctor.Tag,
				Arity: ctor.Arity,
			}
		}
		data[i] = ast.DataDefinition[Name]{
			Constructors: ctors,
			Type:         def.Type,
			Parameters:   def.Parameters,
		}
	}

	instances := make([]ast.Instance[Name], len(m.Instances))
	for i, inst := range m.Instances {
		instances[i] = ast.Instance[Name]{
			Bindings:    r.renameBindings(inst.Bindings, true),
			Constraints: inst.Constraints,
			Type:        inst.Type,
			ClassName:   inst.ClassName,
		}
	}

	bindings := r.renameBindings(m.Bindings, true)

	if r.opts.IsolateModules {
		r.exitScope()
	}

	return ast.Module[Name]{
		Name:             r.makeUnique(m.Name, nil),
		Imports:          m.Imports,
		Classes:          m.Classes,
		DataDefinitions:  data,
		TypeDeclarations: m.TypeDeclarations,
		Bindings:         bindings,
		Instances:        instances,
	}
}

// renameBindings renames a list of bindings that are visible to each other.
// All names are registered in the current scope before any clause is
// renamed so that clauses may refer to each other.
func (r *Renamer) renameBindings(bindings []ast.Binding[intern.Symbol], global bool) []ast.Binding[Name] {
	for _, group := range ast.BindingGroups(bindings) {
		first := group[0]
		r.makeUnique(first.Name, first.Location)
		if global {
			r.globalize(first.Name)
		}
	}

	out := make([]ast.Binding[Name], len(bindings))
	for i, b := range bindings {
		name, ok := r.uniques.Find(b.Name)
		if !ok {
			panic(fmt.Sprintf("rename: internal error: binding %s was not registered", b.Name))
		}
		r.enterScope(scope.Arguments)
		args := make([]ast.Pattern[Name], len(b.Arguments))
		for j, arg := range b.Arguments {
			args[j] = r.renamePattern(arg, b.Location)
		}
		body := r.rename(b.Expression)
		r.exitScope()
		out[i] = ast.Binding[Name]{
			Name:       name,
			Arguments:  args,
			Expression: body,
			TypeDecl:   b.TypeDecl,
			Arity:      b.Arity,
			Location:   b.Location,
		}
	}
	return out
}

func (r *Renamer) rename(input ast.TypedExpr[intern.Symbol]) ast.TypedExpr[Name] {
	var expr ast.Expr[Name]
	switch e := input.Expr.(type) {
	case *ast.Literal[intern.Symbol]:
		expr = &ast.Literal[Name]{Kind: e.Kind, Text: e.Text}
	case *ast.Identifier[intern.Symbol]:
		expr = &ast.Identifier[Name]{Name: r.getName(e.Name)}
	case *ast.Apply[intern.Symbol]:
		expr = &ast.Apply[Name]{Func: r.rename(e.Func), Arg: r.rename(e.Arg)}
	case *ast.Lambda[intern.Symbol]:
		r.enterScope(scope.Lambda)
		arg := r.renamePattern(e.Arg, input.Location)
		expr = &ast.Lambda[Name]{Arg: arg, Body: r.rename(e.Body)}
		r.exitScope()
	case *ast.Let[intern.Symbol]:
		r.enterScope(scope.Let)
		bindings := r.renameBindings(e.Bindings, false)
		expr = &ast.Let[Name]{Bindings: bindings, Body: r.rename(e.Body)}
		r.exitScope()
	case *ast.Case[intern.Symbol]:
		scrutinee := r.rename(e.Scrutinee)
		alts := make([]ast.Alternative[Name], len(e.Alternatives))
		for i, alt := range e.Alternatives {
			r.enterScope(scope.Alternative)
			pat := r.renamePattern(alt.Pattern.Node, alt.Pattern.Location)
			alts[i] = ast.Alternative[Name]{
				Pattern:    ast.Located[ast.Pattern[Name]]{Location: alt.Pattern.Location, Node: pat},
				Expression: r.rename(alt.Expression),
			}
			r.exitScope()
		}
		expr = &ast.Case[Name]{Scrutinee: scrutinee, Alternatives: alts}
	case *ast.Do[intern.Symbol]:
		expr = r.renameDo(e)
	default:
		panic(fmt.Sprintf("rename: internal error: unexpected expression %T", input.Expr))
	}
	return ast.TypedExpr[Name]{Expr: expr, Type: input.Type, Location: input.Location}
}

// renameDo renames statements in order.  Each let or bind statement opens a
// scope that stays open until the end of the block, so its names are
// visible to the statements after it and may be shadowed by them.
func (r *Renamer) renameDo(e *ast.Do[intern.Symbol]) *ast.Do[Name] {
	opened := 0
	stmts := make([]ast.DoBinding[Name], len(e.Statements))
	for i, stmt := range e.Statements {
		switch s := stmt.(type) {
		case *ast.DoExpr[intern.Symbol]:
			stmts[i] = &ast.DoExpr[Name]{Expression: r.rename(s.Expression)}
		case *ast.DoLet[intern.Symbol]:
			r.enterScope(scope.Do)
			opened++
			stmts[i] = &ast.DoLet[Name]{Bindings: r.renameBindings(s.Bindings, false)}
		case *ast.DoBind[intern.Symbol]:
			value := r.rename(s.Expression)
			r.enterScope(scope.Do)
			opened++
			pat := r.renamePattern(s.Pattern.Node, s.Pattern.Location)
			stmts[i] = &ast.DoBind[Name]{
				Pattern:    ast.Located[ast.Pattern[Name]]{Location: s.Pattern.Location, Node: pat},
				Expression: value,
			}
		default:
			panic(fmt.Sprintf("rename: internal error: unexpected do statement %T", stmt))
		}
	}
	body := r.rename(e.Body)
	for ; opened > 0; opened-- {
		r.exitScope()
	}
	return &ast.Do[Name]{Statements: stmts, Body: body}
}

// renamePattern renames p, binding each identifier it contains in the
// current scope.  loc is used to report duplicate identifiers.
func (r *Renamer) renamePattern(p ast.Pattern[intern.Symbol], loc *token.Location) ast.Pattern[Name] {
	switch p := p.(type) {
	case *ast.NumberPattern[intern.Symbol]:
		return &ast.NumberPattern[Name]{Value: p.Value}
	case *ast.WildCardPattern[intern.Symbol]:
		return &ast.WildCardPattern[Name]{}
	case *ast.ConstructorPattern[intern.Symbol]:
		sub := make([]ast.Pattern[Name], len(p.Patterns))
		for i, q := range p.Patterns {
			sub[i] = r.renamePattern(q, loc)
		}
		return &ast.ConstructorPattern[Name]{Name: Global(p.Name), Patterns: sub}
	case *ast.IdentifierPattern[intern.Symbol]:
		return &ast.IdentifierPattern[Name]{Name: r.makeUnique(p.Name, loc)}
	default:
		panic(fmt.Sprintf("rename: internal error: unexpected pattern %T", p))
	}
}

// globalize zeroes the UID of the name sym is bound to in the current scope.
func (r *Renamer) globalize(sym intern.Symbol) {
	n := r.uniques.FindMut(sym)
	if n.IsGlobal() {
		return
	}
	loc := r.defs[*n]
	delete(r.defs, *n)
	n.UID = 0
	r.defs[*n] = loc
}

// getName resolves a use of sym.  Unbound symbols are global references.
func (r *Renamer) getName(sym intern.Symbol) Name {
	if n, ok := r.uniques.Find(sym); ok {
		return n
	}
	return Global(sym)
}

// makeUnique binds sym in the current scope to a fresh name.  If sym is
// already bound in the current scope the duplicate is recorded and the
// existing name is returned.
func (r *Renamer) makeUnique(sym intern.Symbol, loc *token.Location) Name {
	if r.uniques.InCurrentScope(sym) {
		n, _ := r.uniques.Find(sym)
		d := &DuplicateDefinition{Symbol: sym, Location: loc, Previous: r.defs[n]}
		r.errors.Record(d)
		r.log.WithField("location", loc.String()).Warn(d.Error())
		return n
	}
	n := r.ids.mint(sym)
	r.uniques.Insert(sym, n)
	r.defs[n] = loc
	r.log.WithFields(logrus.Fields{
		"name":  n.String(),
		"scope": r.uniques.Kind().String(),
	}).Debug("bind")
	return n
}

func (r *Renamer) enterScope(kind scope.Kind) {
	r.uniques.EnterScope(kind)
	r.log.WithField("depth", r.uniques.Depth()).Debugf("enter %s scope", kind)
}

func (r *Renamer) exitScope() {
	kind := r.uniques.Kind()
	r.uniques.ExitScope()
	r.log.WithField("depth", r.uniques.Depth()).Debugf("exit %s scope", kind)
}
