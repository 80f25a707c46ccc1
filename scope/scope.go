// Copyright © 2024 The ELPS authors

// Package scope implements a nested symbol table with push/pop frames.
//
// A Table maps keys to values through a stack of frames.  Inserting a key
// binds it in the innermost frame and shadows, without destroying, any binding
// of the same key in an outer frame.  Exiting a frame restores the bindings it
// shadowed.
package scope

import "fmt"

// Kind classifies the lexical construct that opened a frame.
type Kind int

const (
	Global      Kind = iota // program/module level
	Module                  // an isolated module top level
	Arguments               // argument patterns of one binding clause
	Lambda                  // lambda body
	Let                     // let bindings and body
	Alternative             // one case alternative
	Do                      // do statements following a let or bind
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global"
	case Module:
		return "module"
	case Arguments:
		return "arguments"
	case Lambda:
		return "lambda"
	case Let:
		return "let"
	case Alternative:
		return "alternative"
	case Do:
		return "do"
	default:
		return "unknown"
	}
}

type frame[K comparable] struct {
	kind Kind
	keys map[K]struct{}
}

// Table is a scoped map from K to V.  The zero Table is not usable; create
// one with New.
type Table[K comparable, V any] struct {
	bindings map[K][]V
	frames   []frame[K]
}

// New returns a Table containing a single Global frame.
func New[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{
		bindings: make(map[K][]V),
		frames:   []frame[K]{{kind: Global, keys: make(map[K]struct{})}},
	}
}

// EnterScope pushes a new innermost frame.
func (t *Table[K, V]) EnterScope(kind Kind) {
	t.frames = append(t.frames, frame[K]{kind: kind, keys: make(map[K]struct{})})
}

// ExitScope pops the innermost frame and removes every binding it holds.
// ExitScope panics if only the root frame remains, since that means calls to
// EnterScope and ExitScope were not paired.
func (t *Table[K, V]) ExitScope() {
	if len(t.frames) <= 1 {
		panic("scope: exit of root frame")
	}
	top := t.frames[len(t.frames)-1]
	for k := range top.keys {
		stack := t.bindings[k]
		if len(stack) <= 1 {
			delete(t.bindings, k)
			continue
		}
		t.bindings[k] = stack[:len(stack)-1]
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// Insert binds k to v in the innermost frame.  Inserting a key that is
// already bound in the innermost frame replaces that binding.
func (t *Table[K, V]) Insert(k K, v V) {
	top := t.frames[len(t.frames)-1]
	if _, ok := top.keys[k]; ok {
		stack := t.bindings[k]
		stack[len(stack)-1] = v
		return
	}
	top.keys[k] = struct{}{}
	t.bindings[k] = append(t.bindings[k], v)
}

// Find returns the innermost binding of k.
func (t *Table[K, V]) Find(k K) (V, bool) {
	stack := t.bindings[k]
	if len(stack) == 0 {
		var zero V
		return zero, false
	}
	return stack[len(stack)-1], true
}

// FindMut returns a pointer to the innermost binding of k, or nil.  The
// pointer is only valid until the next call that modifies t.
func (t *Table[K, V]) FindMut(k K) *V {
	stack := t.bindings[k]
	if len(stack) == 0 {
		return nil
	}
	return &stack[len(stack)-1]
}

// InCurrentScope reports whether k is bound in the innermost frame.  Bindings
// in outer frames are not considered.
func (t *Table[K, V]) InCurrentScope(k K) bool {
	_, ok := t.frames[len(t.frames)-1].keys[k]
	return ok
}

// Depth returns the number of frames, including the root frame.
func (t *Table[K, V]) Depth() int {
	return len(t.frames)
}

// Kind returns the kind of the innermost frame.
func (t *Table[K, V]) Kind() Kind {
	return t.frames[len(t.frames)-1].kind
}

func (t *Table[K, V]) String() string {
	return fmt.Sprintf("scope.Table{depth: %d, keys: %d}", len(t.frames), len(t.bindings))
}
