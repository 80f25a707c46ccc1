// Copyright © 2024 The ELPS authors

// Package astutil provides shared AST walking utilities.
//
// The walkers are generic over the identifier type, so they serve parsed
// trees (intern.Symbol) and renamed trees (rename.Name) alike.
package astutil

import (
	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/parser/token"
)

// Walk calls fn for every expression in the bindings, depth-first.  parent
// is nil for the body of a binding.
func Walk[T comparable](bindings []ast.Binding[T], fn func(node ast.TypedExpr[T], parent *ast.TypedExpr[T], depth int)) {
	for _, b := range bindings {
		walkNode(b.Expression, nil, 0, fn)
	}
}

// WalkExpr is like Walk for a single expression.
func WalkExpr[T comparable](e ast.TypedExpr[T], fn func(node ast.TypedExpr[T], parent *ast.TypedExpr[T], depth int)) {
	walkNode(e, nil, 0, fn)
}

func walkNode[T comparable](node ast.TypedExpr[T], parent *ast.TypedExpr[T], depth int, fn func(ast.TypedExpr[T], *ast.TypedExpr[T], int)) {
	if node.Expr == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range Children(node) {
		walkNode(child, &node, depth+1, fn)
	}
}

// Children returns the subexpressions of e in source order.  The bodies of
// let bound definitions are included; patterns are not.
func Children[T comparable](e ast.TypedExpr[T]) []ast.TypedExpr[T] {
	switch x := e.Expr.(type) {
	case *ast.Apply[T]:
		return []ast.TypedExpr[T]{x.Func, x.Arg}
	case *ast.Lambda[T]:
		return []ast.TypedExpr[T]{x.Body}
	case *ast.Let[T]:
		var cs []ast.TypedExpr[T]
		for _, b := range x.Bindings {
			cs = append(cs, b.Expression)
		}
		return append(cs, x.Body)
	case *ast.Case[T]:
		cs := []ast.TypedExpr[T]{x.Scrutinee}
		for _, alt := range x.Alternatives {
			cs = append(cs, alt.Expression)
		}
		return cs
	case *ast.Do[T]:
		var cs []ast.TypedExpr[T]
		for _, stmt := range x.Statements {
			switch s := stmt.(type) {
			case *ast.DoExpr[T]:
				cs = append(cs, s.Expression)
			case *ast.DoBind[T]:
				cs = append(cs, s.Expression)
			case *ast.DoLet[T]:
				for _, b := range s.Bindings {
					cs = append(cs, b.Expression)
				}
			}
		}
		return append(cs, x.Body)
	}
	return nil
}

// WalkIdentifiers calls fn for every identifier used as an expression.
func WalkIdentifiers[T comparable](bindings []ast.Binding[T], fn func(id T, loc *token.Location)) {
	Walk(bindings, func(node ast.TypedExpr[T], _ *ast.TypedExpr[T], _ int) {
		if id, ok := node.Expr.(*ast.Identifier[T]); ok {
			fn(id.Name, node.Location)
		}
	})
}

// Head returns the function at the head of a chain of applications and the
// number of arguments it is applied to.  An expression that is not an
// application is its own head with no arguments.
func Head[T comparable](e ast.TypedExpr[T]) (ast.TypedExpr[T], int) {
	n := 0
	for {
		app, ok := e.Expr.(*ast.Apply[T])
		if !ok {
			return e, n
		}
		e = app.Func
		n++
	}
}

// HeadIdentifier returns the identifier at the head of e, if there is one.
func HeadIdentifier[T comparable](e ast.TypedExpr[T]) (T, bool) {
	head, _ := Head(e)
	if id, ok := head.Expr.(*ast.Identifier[T]); ok {
		return id.Name, true
	}
	var zero T
	return zero, false
}

// Binder is a binding occurrence of an identifier.
type Binder[T comparable] struct {
	Name     T
	Location *token.Location
}

// Binders returns every binding occurrence in the bindings in source order:
// definition names, once per definition, and the variables of argument,
// lambda, alternative and do patterns.  Locations are those of the nearest
// enclosing node that carries one.
func Binders[T comparable](bindings []ast.Binding[T]) []Binder[T] {
	var bs []Binder[T]
	collectBindings(bindings, &bs)
	return bs
}

// ExprBinders is like Binders for a single expression.
func ExprBinders[T comparable](e ast.TypedExpr[T]) []Binder[T] {
	var bs []Binder[T]
	collectExpr(e, &bs)
	return bs
}

func collectBindings[T comparable](bindings []ast.Binding[T], bs *[]Binder[T]) {
	for _, group := range ast.BindingGroups(bindings) {
		*bs = append(*bs, Binder[T]{Name: group[0].Name, Location: group[0].Location})
		for _, b := range group {
			for _, arg := range b.Arguments {
				CollectPatternVars(arg, b.Location, bs)
			}
			collectExpr(b.Expression, bs)
		}
	}
}

func collectExpr[T comparable](e ast.TypedExpr[T], bs *[]Binder[T]) {
	switch x := e.Expr.(type) {
	case *ast.Apply[T]:
		collectExpr(x.Func, bs)
		collectExpr(x.Arg, bs)
	case *ast.Lambda[T]:
		CollectPatternVars(x.Arg, e.Location, bs)
		collectExpr(x.Body, bs)
	case *ast.Let[T]:
		collectBindings(x.Bindings, bs)
		collectExpr(x.Body, bs)
	case *ast.Case[T]:
		collectExpr(x.Scrutinee, bs)
		for _, alt := range x.Alternatives {
			CollectPatternVars(alt.Pattern.Node, alt.Pattern.Location, bs)
			collectExpr(alt.Expression, bs)
		}
	case *ast.Do[T]:
		for _, stmt := range x.Statements {
			switch s := stmt.(type) {
			case *ast.DoExpr[T]:
				collectExpr(s.Expression, bs)
			case *ast.DoBind[T]:
				collectExpr(s.Expression, bs)
				CollectPatternVars(s.Pattern.Node, s.Pattern.Location, bs)
			case *ast.DoLet[T]:
				collectBindings(s.Bindings, bs)
			}
		}
		collectExpr(x.Body, bs)
	}
}

// CollectPatternVars appends the variables bound by p, left to right.
// Constructor names are not variables.
func CollectPatternVars[T comparable](p ast.Pattern[T], loc *token.Location, bs *[]Binder[T]) {
	switch p := p.(type) {
	case *ast.IdentifierPattern[T]:
		*bs = append(*bs, Binder[T]{Name: p.Name, Location: loc})
	case *ast.ConstructorPattern[T]:
		for _, sub := range p.Patterns {
			CollectPatternVars(sub, loc, bs)
		}
	}
}

// LocationOf returns the best source location for e.  It prefers the
// location of e itself and falls back to that of its first subexpression
// that has one.
func LocationOf[T comparable](e ast.TypedExpr[T]) *token.Location {
	if e.Location != nil && e.Location.Line > 0 {
		return e.Location
	}
	for _, child := range Children(e) {
		if loc := LocationOf(child); loc != nil {
			return loc
		}
	}
	return e.Location
}
