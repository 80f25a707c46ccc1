// Copyright © 2018 The ELPS authors

package rdparser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/formatter"
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser/rdparser"
	"github.com/luthersystems/corelang/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sym = intern.Symbol

func parseModule(t *testing.T, source string) ast.Module[sym] {
	t.Helper()
	s := token.NewScanner("test", strings.NewReader(source))
	m, err := rdparser.New(s).ParseModule()
	require.NoError(t, err)
	return m
}

func TestParser(t *testing.T) {
	tests := []struct {
		source string
		output string
	}{
		{`0`, `0`},
		{`12`, `12`},
		{`0.3`, `0.3`},
		{`-1`, `-1`},
		{`- 1.5e3`, `-1.5e3`},
		{`abc`, `abc`},
		{`x'`, `x'`},
		{`Just`, `Just`},
		{`"xyz"`, `"xyz"`},
		{`"x\nyz"`, `"x\nyz"`},
		{`'c'`, `'c'`},
		{`'\n'`, `'\n'`},
		{`()`, `()`},
		{`(+)`, `(+)`},
		{`(,,)`, `(,,)`},
		{`f x y`, `f x y`},
		{`f (g x)`, `f (g x)`},
		{`-f x`, `negate (f x)`},
		{`(-x)`, `negate x`},
		{`a + b + c`, `a + b + c`},
		{`(a + b) + c`, `(a + b) + c`},
		{`f a + g b`, `f a + g b`},
		{`a : as`, `a : as`},
		{`[1, 2]`, `[1, 2]`},
		{`[]`, `[]`},
		{`[[]]`, `[[]]`},
		{`(1, 2, 3)`, `(1, 2, 3)`},
		{`\x -> x`, `\x -> x`},
		{`\x y -> y`, `\x y -> y`},
		{`\(Pair a b) _ -> a`, `\(Pair a b) _ -> a`},
		{`\x -> \y -> x`, `\x y -> x`},
		{`let x = 1 in x`, `let { x = 1 } in x`},
		{`let { x = 1; y = 2 } in x`, `let { x = 1; y = 2 } in x`},
		{`let { f :: Int -> Int; f x = x } in f`, `let { f :: Int -> Int; f x = x } in f`},
		{`case x of { 0 -> a; -1 -> b; _ -> c }`, `case x of { 0 -> a; -1 -> b; _ -> c }`},
		{`case x of { Cons y (Cons z Nil) -> z }`, `case x of { Cons y (Cons z Nil) -> z }`},
		{`case xs of { [a, b] -> a; (a, b) -> b }`, `case xs of { [a, b] -> a; (a, b) -> b }`},
		{`case xs of { x : y : rest -> rest }`, `case xs of { x : y : rest -> rest }`},
		{`do { x }`, `do { x }`},
		{`do { x <- m; k x }`, `do { x <- m; k x }`},
		{`do { let { a = 1 }; pure a }`, `do { let { a = 1 }; pure a }`},
		{`do { let a = 1 in pure a }`, `do { let { a = 1 } in pure a }`},
		{`do { Just [x] <- m; pure x }`, `do { Just [x] <- m; pure x }`},
		{`f (\x -> x) (case y of { _ -> y })`, `f (\x -> x) (case y of { _ -> y })`},
		{"f -- comment\n x", `f x`},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		s := token.NewScanner(name, strings.NewReader(test.source))
		p := rdparser.New(s)
		e, err := p.ParseExpression()
		if !assert.NoError(t, err, "test %d: %q", i, test.source) {
			continue
		}
		assert.Equal(t, test.output, formatter.Expr(e, nil), "test %d: %q", i, test.source)
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		source string
		err    string
	}{
		{`f =`, `test:1:4: expected expression, found EOF`},
		{`f x`, `test:1:4: expected =, found EOF`},
		{`f = (1, 2`, `test:1:10: expected ), found EOF`},
		{`f = let x = 1`, `test:1:14: expected in, found EOF`},
		{`f = case x of { 1 }`, `test:1:19: expected ->, found }`},
		{`f = do { x <- m }`, `test:1:5: the last statement in a do block must be an expression`},
		{`f = do {}`, `test:1:5: empty do block`},
		{`f = do { g x + 1 <- m; x }`, `test:1:10: invalid pattern on the left of <-`},
		{`f = (+ 1)`, `test:1:6: operator sections are not supported`},
		{`f = "abc`, `test:1:5: unterminated string literal`},
		{`f = '\q'`, `test:1:5: invalid character literal '\q'`},
		{`f 99999999999999999999 = 1`, `test:1:3: invalid integer pattern 99999999999999999999: strconv.Atoi: parsing "99999999999999999999": value out of range`},
		{`f = 1 2x`, `test:1:7: invalid numeric literal character: 'x'`},
		{"f = 1 g\nh", `test:2:2: expected =, found EOF`},
		{"f = 1\n  g = 2", `test:2:5: expected end of declaration, found =`},
		{"f = [x", `test:1:7: expected ], found EOF`},
		{"f = 1 = 2", `test:1:7: expected end of declaration, found =`},
		{"f = g 1 )", `test:1:9: expected end of declaration, found )`},
		{"class Eq Int where { eq :: Int }", `test:1:1: class parameter must be a type variable: Int`},
		{"class Eq a where { eq x = x }", `test:1:20: class Eq: default method definitions are not supported`},
		{"instance Eq where { }", `test:1:1: malformed instance head: Eq`},
		{"f :: Int Int => Int", `test:1:6: malformed constraint: Int Int`},
		{"module where", `test:1:8: expected constructor, found where`},
	}
	for _, test := range tests {
		s := token.NewScanner("test", strings.NewReader(test.source))
		_, err := rdparser.New(s).ParseModule()
		if assert.Error(t, err, test.source) {
			assert.Equal(t, test.err, err.Error(), test.source)
			var locErr *token.LocationError
			assert.ErrorAs(t, err, &locErr, test.source)
		}
	}
}

func TestParseModule_Header(t *testing.T) {
	m := parseModule(t, "module Data.List where\nimport Prelude\nimport Data.Maybe\nnull [] = True")
	assert.Equal(t, "Data.List", m.Name.String())
	require.Len(t, m.Imports, 2)
	assert.Equal(t, "Prelude", m.Imports[0].Module.String())
	assert.Equal(t, "Data.Maybe", m.Imports[1].Module.String())
	assert.Equal(t, "test:3:1", m.Imports[1].Location.String())
	require.Len(t, m.Bindings, 1)

	m = parseModule(t, "main = 1")
	assert.Equal(t, rdparser.DefaultModuleName, m.Name.String())
}

func TestParseModule_Bindings(t *testing.T) {
	m := parseModule(t, "main = 1\ntest = []\nmain = 2")
	require.Len(t, m.Bindings, 3)
	var names []string
	for _, b := range m.Bindings {
		names = append(names, b.Name.String())
	}
	assert.Equal(t, []string{"main", "test", "main"}, names)
	assert.Equal(t, "test:2:1", m.Bindings[1].Location.String())
	assert.Equal(t, "main", m.Bindings[0].TypeDecl.Name.String())
	assert.Nil(t, m.Bindings[0].TypeDecl.Type)

	m = parseModule(t, "f 0 = 1; f n = n\ng x y z = z")
	require.Len(t, m.Bindings, 3)
	assert.Equal(t, 1, m.Bindings[0].Arity)
	assert.Equal(t, &ast.NumberPattern[sym]{Value: 0}, m.Bindings[0].Arguments[0])
	assert.Equal(t, &ast.IdentifierPattern[sym]{Name: intern.Intern("n")}, m.Bindings[1].Arguments[0])
	assert.Equal(t, 3, m.Bindings[2].Arity)
}

func TestParseModule_Signatures(t *testing.T) {
	m := parseModule(t, "len :: [a] -> Int\nlen [] = 0\nlen (_ : xs) = 1 + len xs\nother = 1")
	require.Len(t, m.TypeDeclarations, 1)
	require.Len(t, m.Bindings, 3)
	for _, b := range m.Bindings[:2] {
		assert.Equal(t, "len :: [a] -> Int", b.TypeDecl.String())
	}
	assert.Nil(t, m.Bindings[2].TypeDecl.Type)
}

func TestParseModule_Data(t *testing.T) {
	m := parseModule(t, "data Either a b = Left a | Right b\ndata Tree = Leaf | Node Tree Int Tree\ndata Void")
	require.Len(t, m.DataDefinitions, 3)

	either := m.DataDefinitions[0]
	assert.Equal(t, "Either a b", either.Type.String())
	assert.Equal(t, intern.Symbols("a", "b"), either.Parameters)
	require.Len(t, either.Constructors, 2)
	right := either.Constructors[1]
	assert.Equal(t, "Right", right.Name.String())
	assert.Equal(t, 1, right.Tag)
	assert.Equal(t, 1, right.Arity)
	assert.Equal(t, "b -> Either a b", right.Type.String())

	tree := m.DataDefinitions[1]
	node := tree.Constructors[1]
	assert.Equal(t, 3, node.Arity)
	assert.Equal(t, "Tree -> Int -> Tree -> Tree", node.Type.String())
	assert.Equal(t, "Tree", tree.Constructors[0].Type.String())

	assert.Empty(t, m.DataDefinitions[2].Constructors)
}

func TestParseModule_ClassesAndInstances(t *testing.T) {
	m := parseModule(t, `class (Eq a, Show a) => Ord a where { compare :: a -> a -> Int; lt :: a -> a -> Bool }
instance Ord a => Ord (Maybe a) where { compare x y = 0; lt x y = False }
instance Show Int`)
	require.Len(t, m.Classes, 1)
	class := m.Classes[0]
	assert.Equal(t, "Ord", class.Name.String())
	assert.Equal(t, "a", class.Variable.String())
	assert.Equal(t, "(Eq a, Show a)", ast.ContextString(class.Constraints))
	require.Len(t, class.Declarations, 2)
	assert.Equal(t, "lt :: a -> a -> Bool", class.Declarations[1].String())

	require.Len(t, m.Instances, 2)
	inst := m.Instances[0]
	assert.Equal(t, "Ord", inst.ClassName.String())
	assert.Equal(t, "Maybe a", inst.Type.String())
	assert.Equal(t, "Ord a", ast.ContextString(inst.Constraints))
	require.Len(t, inst.Bindings, 2)
	assert.Equal(t, "lt", inst.Bindings[1].Name.String())
	assert.Empty(t, m.Instances[1].Bindings)
}

func TestParseExpression_Locations(t *testing.T) {
	s := token.NewScanner("test", strings.NewReader("f\n  (\\x -> x)"))
	e, err := rdparser.New(s).ParseExpression()
	require.NoError(t, err)
	app, ok := e.Expr.(*ast.Apply[sym])
	require.True(t, ok)
	assert.Equal(t, "test:1:1", e.Location.String())
	assert.Equal(t, "test:2:4", app.Arg.Location.String())
	lam, ok := app.Arg.Expr.(*ast.Lambda[sym])
	require.True(t, ok)
	assert.Equal(t, "test:2:10", lam.Body.Location.String())
}

func TestParseExpression_Desugaring(t *testing.T) {
	s := token.NewScanner("test", strings.NewReader(`\a b -> a`))
	e, err := rdparser.New(s).ParseExpression()
	require.NoError(t, err)
	outer, ok := e.Expr.(*ast.Lambda[sym])
	require.True(t, ok)
	inner, ok := outer.Body.Expr.(*ast.Lambda[sym])
	require.True(t, ok)
	assert.Equal(t, &ast.IdentifierPattern[sym]{Name: intern.Intern("b")}, inner.Arg)

	s = token.NewScanner("test", strings.NewReader(`a - b`))
	e, err = rdparser.New(s).ParseExpression()
	require.NoError(t, err)
	app, ok := e.Expr.(*ast.Apply[sym])
	require.True(t, ok)
	assert.Equal(t, &ast.Identifier[sym]{Name: intern.Intern("b")}, app.Arg.Expr)
	op, ok := app.Func.Expr.(*ast.Apply[sym])
	require.True(t, ok)
	assert.Equal(t, &ast.Identifier[sym]{Name: intern.Intern("-")}, op.Func.Expr)
}

func TestTokenSource_Generator(t *testing.T) {
	toks := []*token.Token{
		{Type: token.VARID, Text: "f"},
		{Type: token.INT, Text: "1"},
	}
	gen := rdparser.TokenGenerator(func() []*token.Token {
		if len(toks) == 0 {
			return []*token.Token{{Type: token.EOF}}
		}
		tok := toks[0]
		toks = toks[1:]
		return []*token.Token{tok}
	})
	p := rdparser.NewFromSource(rdparser.NewTokenStreamSource(gen))
	e, err := p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, "f 1", formatter.Expr(e, nil))
}
