// Copyright © 2024 The ELPS authors

package rename

import (
	"strconv"

	"github.com/luthersystems/corelang/intern"
)

// Name is a resolved identifier.  UID 0 marks a global name, identified by
// its symbol alone.  Names bound locally carry a UID minted by the Renamer
// that resolved them.
type Name struct {
	Symbol intern.Symbol
	UID    int
}

// Global returns the global name for sym.
func Global(sym intern.Symbol) Name {
	return Name{Symbol: sym}
}

// IsGlobal reports whether n is resolved by symbol alone.
func (n Name) IsGlobal() bool {
	return n.UID == 0
}

// Source returns the symbol n was resolved from.
func (n Name) Source() intern.Symbol {
	return n.Symbol
}

// String renders n as symbol_uid.
func (n Name) String() string {
	return n.Symbol.String() + "_" + strconv.Itoa(n.UID)
}

// FirstUID is the UID of the first name minted by a new Renamer.  The
// counter starts at 1 and is incremented before each use.
const FirstUID = 2

type allocator struct {
	last int
}

func newAllocator() allocator {
	return allocator{last: FirstUID - 1}
}

func (a *allocator) mint(sym intern.Symbol) Name {
	a.last++
	return Name{Symbol: sym, UID: a.last}
}
