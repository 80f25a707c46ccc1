// Copyright © 2024 The ELPS authors

package ast

import (
	"strings"

	"github.com/luthersystems/corelang/intern"
)

// Type is one of *TypeVariable, *TypeConstructor or *TypeApplication.
type Type interface {
	String() string
	isType()
}

type TypeVariable struct {
	Name intern.Symbol
}

type TypeConstructor struct {
	Name intern.Symbol
}

// TypeApplication applies a type constructor to one argument.
type TypeApplication struct {
	Func Type
	Arg  Type
}

func (*TypeVariable) isType()    {}
func (*TypeConstructor) isType() {}
func (*TypeApplication) isType() {}

var (
	arrowName = intern.Intern("->")
	listName  = intern.Intern("[]")
)

// FunctionType returns the type of functions from arg to result.
func FunctionType(arg, result Type) Type {
	return &TypeApplication{
		Func: &TypeApplication{Func: &TypeConstructor{Name: arrowName}, Arg: arg},
		Arg:  result,
	}
}

// ListType returns the type of lists of elem.
func ListType(elem Type) Type {
	return &TypeApplication{Func: &TypeConstructor{Name: listName}, Arg: elem}
}

// FunctionArgs splits a function type into its argument types and result.
func FunctionArgs(t Type) ([]Type, Type) {
	var args []Type
	for {
		arg, res, ok := splitFunction(t)
		if !ok {
			return args, t
		}
		args = append(args, arg)
		t = res
	}
}

func splitFunction(t Type) (arg, res Type, ok bool) {
	app, ok := t.(*TypeApplication)
	if !ok {
		return nil, nil, false
	}
	inner, ok := app.Func.(*TypeApplication)
	if !ok {
		return nil, nil, false
	}
	con, ok := inner.Func.(*TypeConstructor)
	if !ok || con.Name != arrowName {
		return nil, nil, false
	}
	return inner.Arg, app.Arg, true
}

func (t *TypeVariable) String() string {
	return t.Name.String()
}

func (t *TypeConstructor) String() string {
	return t.Name.String()
}

func (t *TypeApplication) String() string {
	if arg, res, ok := splitFunction(t); ok {
		s := arg.String()
		if _, isFn := arg.(*TypeApplication); isFn {
			if _, _, fn := splitFunction(arg); fn {
				s = "(" + s + ")"
			}
		}
		return s + " -> " + res.String()
	}
	if con, ok := t.Func.(*TypeConstructor); ok && con.Name == listName {
		return "[" + t.Arg.String() + "]"
	}
	var args []Type
	head := Type(t)
	for {
		app, ok := head.(*TypeApplication)
		if !ok {
			break
		}
		args = append([]Type{app.Arg}, args...)
		head = app.Func
	}
	if con, ok := head.(*TypeConstructor); ok && TupleArity(con.Name.String()) == len(args) {
		elems := make([]string, len(args))
		for i, arg := range args {
			elems[i] = arg.String()
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}
	parts := []string{head.String()}
	for _, arg := range args {
		parts = append(parts, AtomString(arg))
	}
	return strings.Join(parts, " ")
}

// AtomString renders t, parenthesized unless it is a variable, a constructor
// or a bracketed list or tuple type.
func AtomString(t Type) string {
	s := t.String()
	if _, ok := t.(*TypeApplication); ok && !strings.HasPrefix(s, "[") && !strings.HasPrefix(s, "(") {
		return "(" + s + ")"
	}
	if _, _, fn := splitFunction(t); fn {
		return "(" + s + ")"
	}
	return s
}

// TupleArity returns the number of components of the tuple constructor
// named name, such as 2 for "(,)", or 0 if name is not a tuple constructor.
func TupleArity(name string) int {
	if len(name) < 3 || name[0] != '(' || name[len(name)-1] != ')' {
		return 0
	}
	inner := name[1 : len(name)-1]
	if strings.Trim(inner, ",") != "" {
		return 0
	}
	return len(inner) + 1
}

func (c Constraint) String() string {
	parts := []string{c.Class.String()}
	for _, v := range c.Variables {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, " ")
}

func (d TypeDeclaration) String() string {
	if d.Type == nil {
		return d.Name.String()
	}
	var b strings.Builder
	b.WriteString(d.Name.String())
	b.WriteString(" :: ")
	if len(d.Context) > 0 {
		b.WriteString(ContextString(d.Context))
		b.WriteString(" => ")
	}
	b.WriteString(d.Type.String())
	return b.String()
}

// ContextString renders a constraint list as it appears before "=>".
func ContextString(cs []Constraint) string {
	if len(cs) == 1 {
		return cs[0].String()
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
