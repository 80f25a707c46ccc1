// Copyright © 2024 The ELPS authors

package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertFind(t *testing.T) {
	tab := New[string, int]()
	tab.Insert("x", 1)

	v, ok := tab.Find("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = tab.Find("y")
	assert.False(t, ok)
}

func TestTable_Shadowing(t *testing.T) {
	tab := New[string, int]()
	tab.Insert("x", 1)

	tab.EnterScope(Let)
	assert.False(t, tab.InCurrentScope("x"))
	tab.Insert("x", 2)
	assert.True(t, tab.InCurrentScope("x"))
	v, _ := tab.Find("x")
	assert.Equal(t, 2, v)

	tab.ExitScope()
	v, ok := tab.Find("x")
	require.True(t, ok)
	assert.Equal(t, 1, v, "outer binding restored")
	assert.True(t, tab.InCurrentScope("x"))
}

func TestTable_ExitRemovesFrameBindings(t *testing.T) {
	tab := New[string, int]()
	tab.EnterScope(Lambda)
	tab.Insert("y", 7)
	tab.ExitScope()

	_, ok := tab.Find("y")
	assert.False(t, ok)
	assert.Equal(t, 1, tab.Depth())
}

func TestTable_FindMut(t *testing.T) {
	tab := New[string, int]()
	tab.Insert("f", 5)
	tab.EnterScope(Let)
	tab.Insert("f", 6)

	p := tab.FindMut("f")
	require.NotNil(t, p)
	*p = 0
	v, _ := tab.Find("f")
	assert.Equal(t, 0, v)

	tab.ExitScope()
	v, _ = tab.Find("f")
	assert.Equal(t, 5, v, "only the innermost binding is mutated")

	assert.Nil(t, tab.FindMut("missing"))
}

func TestTable_InsertTwiceInFrame(t *testing.T) {
	tab := New[string, int]()
	tab.EnterScope(Arguments)
	tab.Insert("a", 1)
	tab.Insert("a", 2)
	v, _ := tab.Find("a")
	assert.Equal(t, 2, v)
	tab.ExitScope()
	_, ok := tab.Find("a")
	assert.False(t, ok)
}

func TestTable_Depth_Kind(t *testing.T) {
	tab := New[string, int]()
	assert.Equal(t, 1, tab.Depth())
	assert.Equal(t, Global, tab.Kind())
	tab.EnterScope(Alternative)
	tab.EnterScope(Do)
	assert.Equal(t, 3, tab.Depth())
	assert.Equal(t, Do, tab.Kind())
	tab.ExitScope()
	assert.Equal(t, Alternative, tab.Kind())
	tab.ExitScope()
	assert.Equal(t, 1, tab.Depth())
}

func TestTable_ExitRootPanics(t *testing.T) {
	tab := New[string, int]()
	assert.Panics(t, func() { tab.ExitScope() })
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Global, "global"},
		{Module, "module"},
		{Arguments, "arguments"},
		{Lambda, "lambda"},
		{Let, "let"},
		{Alternative, "alternative"},
		{Do, "do"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
