// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.core",
		"src/prelude.core",
		"lib/utils.core",
	}
	result := filterExcludes(paths, []string{"prelude.core"})
	assert.Equal(t, []string{"src/main.core", "lib/utils.core"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.core",
		"build/output.core",
		"build/sub/deep.core",
		"lib/utils.core",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.core", "lib/utils.core"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.core",
		"src/generated_foo.core",
		"src/generated_bar.core",
		"lib/utils.core",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.core", "lib/utils.core"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.core"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.core"}, result)
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("src/main.core", []string{"src/*.core"}))
	assert.False(t, matchesAny("lib/main.core", []string{"src/*.core"}))
	assert.True(t, matchesAny("deep/nested/prelude.core", []string{"prelude.core"}))
	assert.True(t, matchesAny("project/build/output.core", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.core", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.core"}, splitPath("./a/b/c.core"))
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.core", "sub/b.core", "sub/notes.txt", "vendor/c.core"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	files, err := expandArgs([]string{dir + "/...", "other.core"}, []string{"vendor"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.core"),
		filepath.Join(dir, "sub", "b.core"),
		"other.core",
	}, files)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."}, nil)
	assert.Error(t, err)
}
