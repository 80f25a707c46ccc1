// Copyright © 2024 The ELPS authors

// Package intern provides interned symbol handles.
//
// Two symbols created from equal strings compare equal with == and hash to
// the same map bucket, regardless of where the strings came from.
package intern

import "unique"

// Symbol is an interned string.  The zero Symbol is valid and renders as the
// empty string.
type Symbol struct {
	h unique.Handle[string]
}

// Intern returns the Symbol for s.
func Intern(s string) Symbol {
	return Symbol{h: unique.Make(s)}
}

// String returns the text the symbol was interned from.
func (s Symbol) String() string {
	if s == (Symbol{}) {
		return ""
	}
	return s.h.Value()
}

// IsZero reports whether s is the zero Symbol.
func (s Symbol) IsZero() bool {
	return s == (Symbol{})
}

// Symbols interns each string in names.
func Symbols(names ...string) []Symbol {
	syms := make([]Symbol, len(names))
	for i, name := range names {
		syms[i] = Intern(name)
	}
	return syms
}
