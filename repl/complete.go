// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/astutil"
	"github.com/luthersystems/corelang/intern"
)

var keywords = []string{"case", "do", "in", "let", "of"}

// nameCompleter implements readline.AutoCompleter by enumerating keywords
// and the identifiers of previously entered expressions.
type nameCompleter struct {
	seen map[string]bool
}

func newNameCompleter() *nameCompleter {
	c := &nameCompleter{seen: make(map[string]bool)}
	for _, kw := range keywords {
		c.seen[kw] = true
	}
	return c
}

// add records the identifiers used and bound in e.
func (c *nameCompleter) add(e ast.TypedExpr[intern.Symbol]) {
	astutil.WalkExpr(e, func(node ast.TypedExpr[intern.Symbol], _ *ast.TypedExpr[intern.Symbol], _ int) {
		if id, ok := node.Expr.(*ast.Identifier[intern.Symbol]); ok {
			c.seen[id.Name.String()] = true
		}
	})
	for _, b := range astutil.ExprBinders(e) {
		c.seen[b.Name.String()] = true
	}
}

func (c *nameCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to a delimiter).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if strings.ContainsRune(" \t\n()[]{};,\\", ch) {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collect(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		suffix := name[len(prefix):]
		result = append(result, []rune(suffix))
	}
	return result, len(prefix)
}

func (c *nameCompleter) collect(prefix string) []string {
	var result []string
	for name := range c.seen {
		if name != prefix && strings.HasPrefix(name, prefix) && !isOperator(name) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

func isOperator(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != '_' && !unicode.IsLetter(r)
}
