// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	unformatted = "f x=case x of {0->1;n->n}\nmain = f 2\n"
	formatted   = "module Main where\n\nf x = case x of { 0 -> 1; n -> n }\n\nmain = f 2\n"
)

func TestFmt_Stdin(t *testing.T) {
	res := execute(t, unformatted, []string{"fmt"})
	require.NoError(t, res.err)
	assert.Equal(t, formatted, res.stdout)
}

func TestFmt_StdinError(t *testing.T) {
	res := execute(t, "f = ", []string{"fmt"})
	assert.Equal(t, ExitDiagnostics, exitCode(t, res.err))
	assert.Contains(t, res.stderr, "--> <stdin>:1:5")
}

func TestFmt_Files(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.core", unformatted)

	res := execute(t, "", []string{"fmt", path})
	require.NoError(t, res.err)
	assert.Equal(t, formatted, res.stdout)

	// Printing does not touch the file.
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, unformatted, string(src))
}

func TestFmt_List(t *testing.T) {
	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.core", unformatted)
	writeFile(t, dir, "clean.core", formatted)

	res := execute(t, "", []string{"fmt", "-l", dir + "/..."})
	assert.Equal(t, ExitDiagnostics, exitCode(t, res.err))
	assert.Equal(t, messy+"\n", res.stdout)

	res = execute(t, "", []string{"fmt", "-l", dir + "/...", "--exclude", "messy.core"})
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
}

func TestFmt_Write(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.core", unformatted)

	res := execute(t, "", []string{"fmt", "-w", path})
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(src))

	res = execute(t, "", []string{"fmt", "-l", path})
	require.NoError(t, res.err)
}

func TestFmt_Diff(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.core", "main = 1\n")
	res := execute(t, "", []string{"fmt", "-d", path})
	require.NoError(t, res.err)
	assert.Equal(t, "--- "+path+"\n+++ "+path+"\n"+
		"-main = 1\n"+
		"+module Main where\n"+
		"+\n"+
		"+main = 1\n", res.stdout)
}

func TestFmt_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.core", "f = [x\n")

	res := execute(t, "", []string{"fmt", bad})
	assert.Equal(t, ExitDiagnostics, exitCode(t, res.err))
	assert.Contains(t, res.stderr, "--> "+bad+":1:")

	res = execute(t, "", []string{"fmt", filepath.Join(dir, "missing.core")})
	assert.Equal(t, ExitDiagnostics, exitCode(t, res.err))
	assert.NotEmpty(t, res.stderr)

	res = execute(t, "", []string{"fmt", "--line-width=0", bad})
	assert.Equal(t, ExitUsage, exitCode(t, res.err))
}
