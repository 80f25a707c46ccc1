// Copyright © 2024 The ELPS authors

// Package formatter renders corelang syntax trees as source text and as
// YAML.  Trees are printed over any identifier type with a String method, so
// the same printer serves parsed trees and renamed trees.
package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/parser/rdparser"
	"github.com/luthersystems/corelang/parser/token"
)

// Ident is the constraint on identifier types the formatter can print.
type Ident interface {
	comparable
	fmt.Stringer
}

// Config holds formatting configuration.
type Config struct {
	IndentSize int // spaces per block indent level (default: 2)
	LineWidth  int // widest block kept on one line (default: 80)
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize: 2,
		LineWidth:  80,
	}
}

// Format formats corelang source code. If cfg is nil, DefaultConfig() is
// used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats corelang source code, using filename for error
// messages.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	s := token.NewScanner(filename, bytes.NewReader(source))
	m, err := rdparser.New(s).ParseModule()
	if err != nil {
		return nil, err
	}
	return []byte(Module(m, cfg)), nil
}

// Module renders m as source text ending in a newline.
func Module[T Ident](m ast.Module[T], cfg *Config) string {
	return newPrinter[T](cfg).module(m)
}

// Modules renders each module in turn, separated by blank lines.
func Modules[T Ident](ms []ast.Module[T], cfg *Config) string {
	p := newPrinter[T](cfg)
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = p.module(m)
	}
	return strings.Join(parts, "\n")
}

// Expr renders e as source text.
func Expr[T Ident](e ast.TypedExpr[T], cfg *Config) string {
	return newPrinter[T](cfg).expr(e, levelTop)
}

// Pattern renders pat as source text.
func Pattern[T Ident](pat ast.Pattern[T]) string {
	return newPrinter[T](nil).pattern(pat, levelTop)
}
