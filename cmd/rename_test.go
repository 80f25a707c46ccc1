// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gopkg.in/yaml.v3"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the command tree with args.  HOME points to an empty
// directory so no user configuration is read.
func execute(t *testing.T, stdin string, args []string, opts ...Option) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := NewRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	return exit.Code
}

func TestRename_Source(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.core", "f x = x\nmain = f 1\n")
	res := execute(t, "", []string{"rename", path})
	require.NoError(t, res.err)
	assert.Equal(t, "module Main_5 where\n\nf_0 x_4 = x_4\n\nmain_0 = f_0 1\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRename_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.core", "f x = x\nmain = f 1\n")
	res := execute(t, "", []string{"rename", "--format=yaml", path})
	require.NoError(t, res.err)

	var doc struct {
		Module   string
		Bindings []struct {
			Name     string
			Location string
		}
	}
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "Main_5", doc.Module)
	require.Len(t, doc.Bindings, 2)
	assert.Equal(t, "f_0", doc.Bindings[0].Name)
	assert.Equal(t, path+":1:1", doc.Bindings[0].Location)
}

func TestRename_Duplicates(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dup.core", "main = 1\ntest = []\nmain = 2\n")
	res := execute(t, "", []string{"rename", path})
	assert.Equal(t, ExitDiagnostics, exitCode(t, res.err))
	assert.Empty(t, res.stdout)
	assert.True(t, strings.HasPrefix(res.stderr,
		"Found 1 errors in compiler pass: Renamer\n"+
			"error: main is defined multiple times\n"+
			"  --> "+path+":3:1\n"), res.stderr)
	assert.Contains(t, res.stderr, " 3 |  main = 2\n")
	assert.Contains(t, res.stderr, "---- first defined here")
}

func TestRename_ParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.core", "f = [x\n")
	res := execute(t, "", []string{"rename", path})
	assert.Equal(t, ExitUsage, exitCode(t, res.err))
	assert.Contains(t, res.stderr, "error: expected ], found")
	assert.Contains(t, res.stderr, "--> "+path+":1:")
}

func TestRename_Usage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.core", "main = 1\n")
	tests := []struct {
		name string
		args []string
	}{
		{"no files", []string{"rename"}},
		{"missing file", []string{"rename", filepath.Join(dir, "missing.core")}},
		{"bad format", []string{"rename", "--format=json", path}},
		{"expression with files", []string{"rename", "-e", "x", path}},
		{"expression as yaml", []string{"rename", "-e", "x", "--format=yaml"}},
		{"bad color", []string{"--color=sometimes", "rename", path}},
		{"bad log level", []string{"--log-level=loud", "rename", path}},
		{"missing config", []string{"--config", filepath.Join(dir, "missing.yaml"), "rename", path}},
		{"empty expansion", []string{"rename", dir + "/...", "--exclude", "main.core"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, "", tt.args)
			assert.Equal(t, ExitUsage, exitCode(t, res.err))
			assert.Empty(t, res.stdout)
		})
	}
}

func TestRename_Expression(t *testing.T) {
	res := execute(t, "", []string{"rename", "-e", `\x -> f x`})
	require.NoError(t, res.err)
	assert.Equal(t, "\\x_2 -> f_0 x_2\n", res.stdout)

	res = execute(t, "", []string{"rename", "-e", "let { x = 1; y = 2; x = 3 } in x"})
	assert.Equal(t, ExitDiagnostics, exitCode(t, res.err))
	assert.Contains(t, res.stderr, "Found 1 errors in compiler pass: Renamer\n")
	assert.Contains(t, res.stderr, "--> <expr>:1:")
	assert.Contains(t, res.stderr, "let { x = 1; y = 2; x = 3 } in x")

	res = execute(t, "", []string{"rename", "-e", `\x ->`})
	assert.Equal(t, ExitUsage, exitCode(t, res.err))
	assert.Contains(t, res.stderr, "--> <expr>:1:")
}

func TestRename_IsolateModules(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.core", "module A where\nmain = 1\n")
	b := writeFile(t, dir, "b.core", "module B where\nmain = 2\n")

	res := execute(t, "", []string{"rename", a, b})
	assert.Equal(t, ExitDiagnostics, exitCode(t, res.err))
	assert.Contains(t, res.stderr, "--> "+b+":2:1")

	res = execute(t, "", []string{"rename", "--isolate-modules", a, b})
	require.NoError(t, res.err)
	assert.Equal(t, "module A_3 where\n\nmain_0 = 1\n\nmodule B_5 where\n\nmain_0 = 2\n", res.stdout)
}

func TestRename_Configuration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.core", "main = 1\n")

	t.Run("environment", func(t *testing.T) {
		t.Setenv("CORELANG_FORMAT", "yaml")
		res := execute(t, "", []string{"rename", path})
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "module: Main_3\n")
	})

	t.Run("config file", func(t *testing.T) {
		cfg := writeFile(t, dir, "corelang.yaml", "format: yaml\n")
		res := execute(t, "", []string{"--config", cfg, "rename", path})
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "module: Main_3\n")
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		t.Setenv("CORELANG_FORMAT", "yaml")
		res := execute(t, "", []string{"rename", "--format=source", path})
		require.NoError(t, res.err)
		assert.Equal(t, "module Main_3 where\n\nmain_0 = 1\n", res.stdout)
	})
}

func TestRename_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	path := writeFile(t, t.TempDir(), "main.core", "main = 1\n")

	res := execute(t, "", []string{"rename", path}, WithTracerProvider(tp))
	require.NoError(t, res.err)

	var names []string
	for _, span := range sr.Ended() {
		names = append(names, span.Name())
		if span.Name() == "corelang.parse" {
			assert.Contains(t, span.Attributes(), attribute.String("code.filepath", path))
		}
	}
	assert.Equal(t, []string{"corelang.parse", "rename.module", "rename.modules", "corelang.rename"}, names)
}

func TestRename_TraceFlag(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	path := writeFile(t, t.TempDir(), "main.core", "main = 1\n")

	res := execute(t, "", []string{"--trace", "rename", path}, WithLogger(logger))
	require.NoError(t, res.err)

	var spans []string
	for _, entry := range hook.AllEntries() {
		if entry.Message == "span" {
			assert.Equal(t, logrus.InfoLevel, entry.Level)
			spans = append(spans, entry.Data["span"].(string))
		}
	}
	assert.Contains(t, spans, "rename.modules")
	assert.Contains(t, spans, "corelang.rename")
}

func TestRename_LogLevel(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	path := writeFile(t, t.TempDir(), "main.core", "f x = x\n")

	res := execute(t, "", []string{"--log-level=debug", "rename", path}, WithLogger(logger))
	require.NoError(t, res.err)

	var binds int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "bind" {
			binds++
			assert.Equal(t, "rename", entry.Data["command"])
		}
	}
	// f, x and Main
	assert.Equal(t, 3, binds)
}
