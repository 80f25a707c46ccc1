// Copyright © 2018 The ELPS authors

// Package parser provides entry points for parsing corelang source.
package parser

import (
	"io"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser/rdparser"
	"github.com/luthersystems/corelang/parser/token"
)

// ParseModule parses the source read from r as one module.  The name is
// used in source locations.
func ParseModule(name string, r io.Reader) (ast.Module[intern.Symbol], error) {
	return rdparser.New(token.NewScanner(name, r)).ParseModule()
}

// ParseModuleLocation is like ParseModule but records path as the physical
// location of the source.
func ParseModuleLocation(name string, path string, r io.Reader) (ast.Module[intern.Symbol], error) {
	s := token.NewScanner(name, r)
	s.SetPath(path)
	return rdparser.New(s).ParseModule()
}

// ParseExpr parses the source read from r as a single expression.
func ParseExpr(name string, r io.Reader) (ast.TypedExpr[intern.Symbol], error) {
	return rdparser.New(token.NewScanner(name, r)).ParseExpression()
}
