// Copyright © 2024 The ELPS authors

package formatter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/luthersystems/corelang/ast"
	"gopkg.in/yaml.v3"
)

// YAML dumps each module as a YAML document.  Expressions are dumped as
// nested nodes keyed by their kind.  Patterns and types are dumped as source
// text.
func YAML[T Ident](ms []ast.Module[T]) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	d := dumper[T]{p: newPrinter[T](nil)}
	for _, m := range ms {
		if err := enc.Encode(d.module(m)); err != nil {
			return nil, fmt.Errorf("yaml: module %s: %w", m.Name, err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type dumper[T Ident] struct {
	p *printer[T]
}

func (d dumper[T]) module(m ast.Module[T]) *yaml.Node {
	node := mapping("module", str(m.Name.String()))
	if len(m.Imports) > 0 {
		imports := sequence()
		for _, imp := range m.Imports {
			imports.Content = append(imports.Content, str(imp.Module.String()))
		}
		add(node, "imports", imports)
	}
	if len(m.DataDefinitions) > 0 {
		data := sequence()
		for _, def := range m.DataDefinitions {
			ctors := sequence()
			for _, ctor := range def.Constructors {
				ctors.Content = append(ctors.Content, mapping(
					"name", str(ctor.Name.String()),
					"tag", integer(ctor.Tag),
					"arity", integer(ctor.Arity),
					"type", str(ctor.Type.String()),
				))
			}
			data.Content = append(data.Content, mapping("type", str(def.Type.String()), "constructors", ctors))
		}
		add(node, "data", data)
	}
	if len(m.Classes) > 0 {
		classes := sequence()
		for _, class := range m.Classes {
			classes.Content = append(classes.Content, str(d.p.class(class)))
		}
		add(node, "classes", classes)
	}
	if len(m.Instances) > 0 {
		instances := sequence()
		for _, inst := range m.Instances {
			instances.Content = append(instances.Content, mapping(
				"class", str(inst.ClassName.String()),
				"type", str(inst.Type.String()),
				"bindings", d.bindings(inst.Bindings),
			))
		}
		add(node, "instances", instances)
	}
	add(node, "bindings", d.bindings(m.Bindings))
	return node
}

func (d dumper[T]) bindings(bs []ast.Binding[T]) *yaml.Node {
	seq := sequence()
	for _, b := range bs {
		node := mapping("name", str(b.Name.String()))
		if b.TypeDecl.Type != nil {
			add(node, "type", str(signature(b.TypeDecl)))
		}
		if len(b.Arguments) > 0 {
			args := sequence()
			for _, arg := range b.Arguments {
				args.Content = append(args.Content, str(d.p.pattern(arg, levelTop)))
			}
			add(node, "arguments", args)
		}
		if b.Location != nil {
			add(node, "location", str(b.Location.String()))
		}
		add(node, "body", d.expr(b.Expression))
		seq.Content = append(seq.Content, node)
	}
	return seq
}

func (d dumper[T]) expr(e ast.TypedExpr[T]) *yaml.Node {
	switch x := e.Expr.(type) {
	case *ast.Literal[T]:
		return mapping(x.Kind.String(), str(x.Text))
	case *ast.Identifier[T]:
		return mapping("identifier", str(x.Name.String()))
	case *ast.Apply[T]:
		return mapping("apply", mapping("func", d.expr(x.Func), "arg", d.expr(x.Arg)))
	case *ast.Lambda[T]:
		return mapping("lambda", mapping("arg", str(d.p.pattern(x.Arg, levelTop)), "body", d.expr(x.Body)))
	case *ast.Let[T]:
		return mapping("let", mapping("bindings", d.bindings(x.Bindings), "body", d.expr(x.Body)))
	case *ast.Case[T]:
		alts := sequence()
		for _, alt := range x.Alternatives {
			alts.Content = append(alts.Content, mapping(
				"pattern", str(d.p.pattern(alt.Pattern.Node, levelTop)),
				"body", d.expr(alt.Expression),
			))
		}
		return mapping("case", mapping("scrutinee", d.expr(x.Scrutinee), "alternatives", alts))
	case *ast.Do[T]:
		stmts := sequence()
		for _, stmt := range x.Statements {
			stmts.Content = append(stmts.Content, d.statement(stmt))
		}
		return mapping("do", mapping("statements", stmts, "body", d.expr(x.Body)))
	}
	panic(fmt.Sprintf("formatter: unexpected expression %T", e.Expr))
}

func (d dumper[T]) statement(stmt ast.DoBinding[T]) *yaml.Node {
	switch s := stmt.(type) {
	case *ast.DoExpr[T]:
		return mapping("expr", d.expr(s.Expression))
	case *ast.DoLet[T]:
		return mapping("let", d.bindings(s.Bindings))
	case *ast.DoBind[T]:
		return mapping("bind", mapping(
			"pattern", str(d.p.pattern(s.Pattern.Node, levelTop)),
			"expr", d.expr(s.Expression),
		))
	}
	panic(fmt.Sprintf("formatter: unexpected do statement %T", stmt))
}

func mapping(kv ...interface{}) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(kv); i += 2 {
		add(node, kv[i].(string), kv[i+1].(*yaml.Node))
	}
	return node
}

func add(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func integer(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}
