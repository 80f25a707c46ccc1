// Copyright © 2024 The ELPS authors

package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModule(t *testing.T) {
	m, err := ParseModule("test", strings.NewReader("main = 1\ntest = []\nmain = 2"))
	require.NoError(t, err)
	assert.Equal(t, "Main", m.Name.String())
	require.Len(t, m.Bindings, 3)
	assert.Equal(t, "test:3:1", m.Bindings[2].Location.String())
}

func TestParseModuleLocation(t *testing.T) {
	m, err := ParseModuleLocation("lib.core", "/src/lib.core", strings.NewReader("module Lib where\nid x = x"))
	require.NoError(t, err)
	assert.Equal(t, "Lib", m.Name.String())
	require.Len(t, m.Bindings, 1)
	assert.Equal(t, "/src/lib.core", m.Bindings[0].Location.Path)
}

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr("expr", strings.NewReader(`\x -> x`))
	require.NoError(t, err)
	lam, ok := e.Expr.(*ast.Lambda[intern.Symbol])
	require.True(t, ok)
	assert.Equal(t, &ast.IdentifierPattern[intern.Symbol]{Name: intern.Intern("x")}, lam.Arg)
}

func TestParseExpr_Error(t *testing.T) {
	_, err := ParseExpr("expr", strings.NewReader("let x = 1"))
	require.Error(t, err)
	var locErr *token.LocationError
	require.True(t, errors.As(err, &locErr))
	assert.Equal(t, "expr:1:10", locErr.Source.String())
	assert.Equal(t, "expr:1:10: expected in, found EOF", err.Error())
}
