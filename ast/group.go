// Copyright © 2024 The ELPS authors

package ast

// BindingGroups partitions bindings into maximal runs of consecutive bindings
// with the same name.  Each run holds the equations of one definition.  The
// order of groups and of bindings within a group follows bindings.
func BindingGroups[T comparable](bindings []Binding[T]) [][]Binding[T] {
	var groups [][]Binding[T]
	start := 0
	for i := 1; i <= len(bindings); i++ {
		if i < len(bindings) && bindings[i].Name == bindings[start].Name {
			continue
		}
		groups = append(groups, bindings[start:i:i])
		start = i
	}
	return groups
}
