// Copyright © 2024 The ELPS authors

// Package ast defines the syntax tree of corelang programs.
//
// Every tree type is generic over the representation of identifiers.  The
// parser produces trees over intern.Symbol and the renamer rewrites them into
// trees over unique names.  Type annotations and source locations are
// payload: passes copy them through without inspecting them.
package ast

import (
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser/token"
)

// TypedExpr is an expression node together with its type annotation and the
// location of the source text it was parsed from.  Type is nil until a type
// checker fills it in.
type TypedExpr[T any] struct {
	Expr     Expr[T]
	Type     Type
	Location *token.Location
}

// Expr is one of *Literal, *Identifier, *Apply, *Lambda, *Let, *Case or *Do.
type Expr[T any] interface {
	isExpr(T)
}

// LiteralKind classifies literal expressions and patterns.
type LiteralKind int

const (
	Integer LiteralKind = iota
	Float
	String
	Char
)

func (k LiteralKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Char:
		return "char"
	default:
		return "unknown"
	}
}

// Literal is a constant.  Text holds the literal as written in the source,
// including quotes for strings and characters.
type Literal[T any] struct {
	Kind LiteralKind
	Text string
}

type Identifier[T any] struct {
	Name T
}

// Apply applies Func to a single argument.  Multi-argument calls are nested
// applications.
type Apply[T any] struct {
	Func TypedExpr[T]
	Arg  TypedExpr[T]
}

type Lambda[T any] struct {
	Arg  Pattern[T]
	Body TypedExpr[T]
}

// Let binds a group of mutually visible bindings in Body.
type Let[T any] struct {
	Bindings []Binding[T]
	Body     TypedExpr[T]
}

type Case[T any] struct {
	Scrutinee    TypedExpr[T]
	Alternatives []Alternative[T]
}

// Do is a do block.  Body is the trailing expression of the block.
type Do[T any] struct {
	Statements []DoBinding[T]
	Body       TypedExpr[T]
}

func (*Literal[T]) isExpr(T)    {}
func (*Identifier[T]) isExpr(T) {}
func (*Apply[T]) isExpr(T)      {}
func (*Lambda[T]) isExpr(T)     {}
func (*Let[T]) isExpr(T)        {}
func (*Case[T]) isExpr(T)       {}
func (*Do[T]) isExpr(T)         {}

// Located attaches a source location to a node that does not carry one.
type Located[N any] struct {
	Location *token.Location
	Node     N
}

// Alternative is one arm of a case expression.
type Alternative[T any] struct {
	Pattern    Located[Pattern[T]]
	Expression TypedExpr[T]
}

// DoBinding is one of *DoExpr, *DoLet or *DoBind.
type DoBinding[T any] interface {
	isDoBinding(T)
}

type DoExpr[T any] struct {
	Expression TypedExpr[T]
}

type DoLet[T any] struct {
	Bindings []Binding[T]
}

// DoBind is "pattern <- expression".
type DoBind[T any] struct {
	Pattern    Located[Pattern[T]]
	Expression TypedExpr[T]
}

func (*DoExpr[T]) isDoBinding(T) {}
func (*DoLet[T]) isDoBinding(T)  {}
func (*DoBind[T]) isDoBinding(T) {}

// Pattern is one of *NumberPattern, *WildCardPattern, *ConstructorPattern or
// *IdentifierPattern.
type Pattern[T any] interface {
	isPattern(T)
}

type NumberPattern[T any] struct {
	Value int
}

type WildCardPattern[T any] struct{}

type ConstructorPattern[T any] struct {
	Name     T
	Patterns []Pattern[T]
}

// IdentifierPattern binds the matched value to Name.
type IdentifierPattern[T any] struct {
	Name T
}

func (*NumberPattern[T]) isPattern(T)      {}
func (*WildCardPattern[T]) isPattern(T)    {}
func (*ConstructorPattern[T]) isPattern(T) {}
func (*IdentifierPattern[T]) isPattern(T)  {}

// Binding is one equation of a definition.  A function defined by several
// equations is represented by consecutive bindings with the same Name.
type Binding[T any] struct {
	Name       T
	Arguments  []Pattern[T]
	Expression TypedExpr[T]
	TypeDecl   TypeDeclaration
	Arity      int
	Location   *token.Location
}

// Constraint is a class constraint such as "Eq a".
type Constraint struct {
	Class     intern.Symbol
	Variables []intern.Symbol
}

// TypeDeclaration is a type signature "name :: context => type".  Type is
// nil for a binding without a signature.
type TypeDeclaration struct {
	Context []Constraint
	Name    intern.Symbol
	Type    Type
}

// Class is a type class declaration.
type Class struct {
	Constraints  []Constraint
	Name         intern.Symbol
	Variable     intern.Symbol
	Declarations []TypeDeclaration
}

type Import struct {
	Module   intern.Symbol
	Location *token.Location
}

// Constructor is one alternative of a data definition.  Tag is the index of
// the constructor within its definition and Type is the type of the
// constructor function.
type Constructor[T any] struct {
	Name  T
	Type  Type
	Tag   int
	Arity int
}

type DataDefinition[T any] struct {
	Constructors []Constructor[T]
	Type         Type
	Parameters   []intern.Symbol
}

// Instance is a class instance.  Its method bindings share the identity
// space of top-level bindings.
type Instance[T any] struct {
	Bindings    []Binding[T]
	Constraints []Constraint
	Type        Type
	ClassName   intern.Symbol
}

type Module[T any] struct {
	Name             T
	Imports          []Import
	Classes          []Class
	DataDefinitions  []DataDefinition[T]
	TypeDeclarations []TypeDeclaration
	Bindings         []Binding[T]
	Instances        []Instance[T]
}
