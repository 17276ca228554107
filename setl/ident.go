// Copyright © 2026 The SetlX authors

package setl

import "sync"

// Ident is an interned identifier. Two Idents are equal if and only if they
// are the same pointer, so callers should always obtain Idents through
// Intern rather than constructing them directly.
type Ident struct {
	name string
}

// Name returns the textual name of the identifier.
func (id *Ident) Name() string {
	if id == nil {
		return ""
	}
	return id.name
}

func (id *Ident) String() string {
	return id.Name()
}

var internTable = struct {
	sync.Mutex
	idents map[string]*Ident
}{idents: make(map[string]*Ident)}

// Intern returns the canonical *Ident for name, creating it if this is the
// first time name has been seen. Interning is guarded by a single mutex; the
// table is read-mostly so contention is not a concern at the scale
// identifiers are created (one per distinct source symbol).
func Intern(name string) *Ident {
	internTable.Lock()
	defer internTable.Unlock()
	id, ok := internTable.idents[name]
	if !ok {
		id = &Ident{name: name}
		internTable.idents[name] = id
	}
	return id
}
