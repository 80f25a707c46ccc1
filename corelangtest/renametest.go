// Copyright © 2018 The ELPS authors

// Package corelangtest runs renaming tests described by source files and
// tables of expressions.
package corelangtest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/corelang/ast"
	"github.com/luthersystems/corelang/diagnostic"
	"github.com/luthersystems/corelang/formatter"
	"github.com/luthersystems/corelang/intern"
	"github.com/luthersystems/corelang/parser"
	"github.com/luthersystems/corelang/rename"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GoldenExt is the extension of the file holding the expected output for a
// source file.
const GoldenExt = ".golden"

func BenchmarkRename(path string) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			m, err := parser.ParseModule("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
			r := rename.New()
			r.RenameModule(m)
			if r.Errors().HasErrors() {
				b.Fatalf("Rename failure: %v", r.Errors().Drain()[0])
			}
		}
	}
}

// Runner renames source files and compares the output with golden files.
type Runner struct {
	// Options are given to the renamer of each file.
	Options rename.Options

	// LogLevel is the level at which the renamer logs to the test log.  When
	// LogLevel is zero warnings are logged.
	LogLevel logrus.Level

	// Update writes the output of each file to its golden file instead of
	// comparing them.
	Update bool
}

// Rename parses src as a module and renames it.  The result is the renamed
// module printed as source or, when parsing or renaming fails, the
// diagnostics rendered without color.
func (r *Runner) Rename(t testing.TB, name string, src []byte) string {
	level := r.LogLevel
	if level == logrus.PanicLevel {
		level = logrus.WarnLevel
	}
	m, err := parser.ParseModule(name, bytes.NewReader(src))
	if err != nil {
		return render(name, src, err)
	}
	out, err := rename.RenameModules(context.Background(), []ast.Module[intern.Symbol]{m},
		rename.WithOptions(r.Options),
		rename.WithLogger(NewLogEntry(t, level)),
	)
	var list *rename.ErrorList
	if errors.As(err, &list) {
		return rename.ReportHeader(len(list.Diagnostics), list.Pass) + "\n" + render(name, src, err)
	}
	require.NoError(t, err)
	return formatter.Modules(out, nil)
}

func render(name string, src []byte, err error) string {
	r := &diagnostic.Renderer{
		Color: diagnostic.ColorNever,
		SourceReader: func(file string) ([]byte, error) {
			if file != name {
				return nil, os.ErrNotExist
			}
			return src, nil
		},
	}
	var buf bytes.Buffer
	_ = r.RenderAll(&buf, diagnostic.FromError(err))
	return buf.String()
}

// RunGoldenFile renames the module in path and compares the output with the
// golden file next to it.  Locations in the output name the file by its
// base name.
func (r *Runner) RunGoldenFile(t *testing.T, path string) {
	src, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	got := r.Rename(t, filepath.Base(path), src)

	golden := strings.TrimSuffix(path, filepath.Ext(path)) + GoldenExt
	if r.Update {
		if err := os.WriteFile(golden, []byte(got), 0o644); err != nil { //#nosec G306
			t.Errorf("Unable to update golden file: %v", err)
		}
		return
	}
	want, err := os.ReadFile(golden) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read golden file: %v", err)
		return
	}
	assert.Equal(t, string(want), got, "output of %s", path)
}

// RunGoldenDir runs RunGoldenFile as a subtest for every .core file in dir.
func (r *Runner) RunGoldenDir(t *testing.T, dir string) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.core"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no source files in %s", dir)
	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".core"), func(t *testing.T) {
			r.RunGoldenFile(t, path)
		})
	}
}

// ExprSequence is a sequence of expressions renamed in order by one
// Renamer, so later expressions see the names minted for earlier ones.
type ExprSequence []struct {
	Expr   string // an expression
	Result string // the renamed expression
	Errors string // messages of the diagnostics recorded, one per line
}

// ExprSuite is a set of named ExprSequences.
type ExprSuite []struct {
	Name string
	ExprSequence
}

// RunExprSuite runs each ExprSequence in tests with its own Renamer.
func RunExprSuite(t *testing.T, tests ExprSuite) {
	for i, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			r := rename.New(rename.WithLogger(NewLogEntry(t, logrus.DebugLevel)))
			for j, expr := range test.ExprSequence {
				e, err := parser.ParseExpr("test", strings.NewReader(expr.Expr))
				if err != nil {
					t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
					continue
				}
				result := formatter.Expr(r.RenameExpr(e), nil)
				if result != expr.Result {
					t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
				}
				var msgs []string
				for _, d := range r.Errors().Drain() {
					msgs = append(msgs, d.Error())
				}
				if got := strings.Join(msgs, "\n"); got != expr.Errors {
					t.Errorf("test %d %q: expr %d: expected errors %q (got %q)", i, test.Name, j, expr.Errors, got)
				}
			}
		})
	}
}
