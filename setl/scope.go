// Copyright © 2026 The SetlX authors

package setl

import "fmt"

// cell is the shared, mutable storage location a binding occupies. Scope
// frames map identifiers to *cell rather than directly to Value so that a
// closure's captured bindings can share the exact storage location their
// defining scope uses: mutating the cell through the closure's call scope
// is then observable wherever else the same cell is reachable, including
// the original defining frame, which is what gives a captured counter
// variable its expected cross-call, cross-scope mutation behavior.
type cell struct {
	v Value
}

// Scope is one frame of the lexical environment chain: a binding table plus
// a parent pointer and the flags that decide how lookups and stores cross
// frame boundaries.
//
//   - restrictToFunctions: when set on a frame, that frame's own ascent
//     into its parent only accepts a found value if it is a Procedure or
//     Omega — anything else is treated as shadowed/unbound. This is what
//     keeps a callee from incidentally seeing the caller's unrelated local
//     variables while still resolving globally visible procedures; once
//     the ascent reaches the global frame the filter no longer applies,
//     since promoted globals are meant to be reachable regardless.
//   - writeThrough: when set, an assignment to a name with no local
//     binding descends into the linked parent instead of creating a new
//     local binding there; the descent re-applies the same rule at each
//     frame, so it naturally stops at the first frame that either already
//     has the name or does not have writeThrough set. This is the
//     iterator-block semantics: the iteration variable is always locally
//     bound by the loop machinery itself, but a plain assignment inside the
//     body to some other, already-outer-bound name mutates that outer
//     binding rather than shadowing it for the iteration.
type Scope struct {
	vars                map[*Ident]*cell
	parent              *Scope
	isGlobal            bool
	restrictToFunctions bool
	writeThrough        bool
	// promoted records, on a global frame, the identifiers MakeGlobal has
	// promoted; Assign stores these in the global frame directly.
	promoted map[*Ident]bool
}

func (s *Scope) Type() ValueType  { return TypeScope }
func (s *Scope) String() string   { return "scope" }
func (s *Scope) CloneDeep() Value { return s }

// ToTerm emits ^scope(bindings) where bindings is the set of [name, term]
// pairs visible from s, later (shallower) frames overriding earlier
// (deeper) ones, unioned with the global frame — collect_all_bindings in
// the component design. Live scopes do not round-trip: FromTerm has no
// registered constructor for ^scope, matching the documented exception to
// the round-trip invariant.
func (s *Scope) ToTerm() *Term {
	merged := map[*Ident]Value{}
	s.collectBindings(merged)
	pairs := make([]Value, 0, len(merged))
	for id, v := range merged {
		pairs = append(pairs, &Term{Tag: "^pair", Children: []Value{String(id.Name()), v.ToTerm()}})
	}
	return &Term{Tag: "^scope", Children: []Value{NewSet(pairs...)}}
}

func (s *Scope) collectBindings(out map[*Ident]Value) {
	if s.parent != nil {
		s.parent.collectBindings(out)
	}
	for id, c := range s.vars {
		out[id] = c.v
	}
}

func (s *Scope) EqualStructural(v Value) bool { return s == v }

func (s *Scope) CompareTotal(v Value) int {
	o, ok := v.(*Scope)
	if !ok {
		return variantRank(TypeScope) - variantRank(v.Type())
	}
	if s == o {
		return 0
	}
	// Distinct live scopes have no structural order: order them by a
	// stable pointer-derived key so CompareTotal stays antisymmetric.
	if fmt.Sprintf("%p", s) < fmt.Sprintf("%p", o) {
		return -1
	}
	return 1
}

// NewGlobalScope returns the root scope of a runtime: no parent, marked
// isGlobal so restrictToFunctions filtering never blocks ascent into it.
func NewGlobalScope() *Scope {
	return &Scope{vars: make(map[*Ident]*cell), isGlobal: true}
}

// NewBlockScope returns a child scope for a control-structure body (if,
// while, for, try/catch handler): ordinary lexical nesting, with
// assignments to names not locally bound propagating to the first
// enclosing frame that already has them.
func NewBlockScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[*Ident]*cell), parent: parent, writeThrough: true}
}

// NewIterationScope returns a child scope for one pass of a loop body.
// Identical to a block scope: the loop machinery binds the induction
// variable locally itself (via Bind), and plain assignments inside the
// body write through to any existing outer binding of the same name,
// which is exactly the documented iterator-block semantics.
func NewIterationScope(parent *Scope) *Scope {
	return NewBlockScope(parent)
}

// NewInitialScope returns the process-wide frame that memoizes the
// variable-read path's fallback into the predefined-function registry:
// once a name has been resolved (or has failed to resolve) that way, the
// outcome — including a sentinel Omega on failure — is cached here so a
// second read of the same name is a plain map lookup instead of a repeat
// registry search. It is a flat, parentless frame: never ascended into,
// only ever consulted and populated directly by identifier.
func NewInitialScope() *Scope {
	return &Scope{vars: make(map[*Ident]*cell)}
}

// NewFunctionsOnlyChild returns the scope a procedure call executes its
// body in: restrictToFunctions is set, so a plain reference to a name this
// call did not itself bind (locally, or via a closure's pre-populated
// captured cells) only resolves if ascent finds a Procedure or Omega —
// any other value in the caller's frames is shadowed. writeThrough is
// left unset: an assignment inside the body to a name with no local
// binding always creates a fresh local, it never reaches back out to
// mutate a caller's variable of the same name (only an explicitly
// captured cell, pre-bound locally by the call protocol, or a name
// promoted by MakeGlobal, can do that).
func NewFunctionsOnlyChild(parent *Scope) *Scope {
	return &Scope{vars: make(map[*Ident]*cell), parent: parent, restrictToFunctions: true}
}

// Lookup resolves id starting at s and ascending through parents,
// honoring restrictToFunctions filtering as described on Scope. It
// reports ok=false for an identifier that is unbound, or shadowed by the
// functions-only filter, rather than returning an error: callers that
// want the language-level "unbound resolves to omega" behavior apply that
// themselves.
func (s *Scope) Lookup(id *Ident) (Value, bool) {
	filtered := false
	for cur := s; cur != nil; cur = cur.parent {
		if c, ok := cur.vars[id]; ok {
			if filtered && !cur.isGlobal && !isProcedureOrOmega(c.v) {
				return nil, false
			}
			return c.v, true
		}
		if cur.restrictToFunctions {
			filtered = true
		}
	}
	return nil, false
}

func isProcedureOrOmega(v Value) bool {
	switch v.(type) {
	case *Procedure, Omega:
		return true
	default:
		return false
	}
}

// Cell walks the raw parent chain for id, ignoring restrictToFunctions
// entirely, and returns the shared storage cell backing its binding if
// found. This is what closure capture uses at definition time: capture
// looks up a name's actual storage location in the lexical environment as
// it structurally exists, never through the calling-convention filter
// that only applies to runtime variable reads inside a call.
func (s *Scope) Cell(id *Ident) (*cell, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if c, ok := cur.vars[id]; ok {
			return c, true
		}
	}
	return nil, false
}

// BindCell binds id locally to the given shared cell, rather than to a
// freshly allocated one. Used by the call protocol to re-materialize a
// closure's captured bindings, by the same storage location, into the
// call's own scope.
func (s *Scope) BindCell(id *Ident, c *cell) {
	s.vars[id] = c
}

// Bind creates or overwrites a binding local to s with a freshly allocated
// cell, bypassing writeThrough. Parameter binding and variable
// declarations use this: it never aliases an outer cell of the same name.
func (s *Scope) Bind(id *Ident, v Value) {
	s.vars[id] = &cell{v: v}
}

// Assign resolves the scope an assignment to id should land in. It first
// checks the global frame reachable from s: if id has been promoted there
// by MakeGlobal, the assignment always targets that binding
// directly, regardless of any closer local binding — matching the
// original putValue's unconditional sGlobals check before ever touching
// the ordinary scope-chain descent. Otherwise it falls back to the
// ordinary descent: checking, frame by frame starting at s, whether the
// frame already has a local binding (store there) or has writeThrough set
// (continue into its parent), and mutating that binding's cell in place.
// An assignment that never finds an existing binding creates one in the
// terminal frame of that descent — the nearest ancestor that does not
// write through (or s itself, if s does not write through) — not back in
// s: a block or iteration scope that write-throughs must not trap a
// brand-new variable in its own transient frame, or the binding would
// vanish at the end of the block instead of surfacing in the enclosing
// scope.
func (s *Scope) Assign(id *Ident, v Value) {
	if g := s.globalAncestor(); g != nil && g.promoted[id] {
		if c, ok := g.vars[id]; ok {
			c.v = v
			return
		}
	}
	cur := s
	for {
		if c, ok := cur.vars[id]; ok {
			c.v = v
			return
		}
		if !cur.writeThrough || cur.parent == nil {
			break
		}
		cur = cur.parent
	}
	cur.vars[id] = &cell{v: v}
}

// globalAncestor walks the raw parent chain from s to the root global
// frame, ignoring writeThrough and restrictToFunctions — Assign consults
// the global frame directly before any filtered descent, the same way a
// make_global promotion is meant to be reachable from anywhere.
func (s *Scope) globalAncestor() *Scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.isGlobal {
			return cur
		}
	}
	return nil
}

// Has reports whether id has a binding local to s, without ascending.
func (s *Scope) Has(id *Ident) bool {
	_, ok := s.vars[id]
	return ok
}

// Parent exposes the raw parent link.
func (s *Scope) Parent() *Scope { return s.parent }

// MakeGlobal ensures id has a binding in global, creating it as Omega if
// absent, and marks id as promoted so that Assign from any scope whose
// chain reaches global stores it there. global is passed explicitly
// (callers use rt.Global) because a plain Scope has no notion of "the"
// global frame beyond whichever frame was constructed with isGlobal set;
// for any other frame MakeGlobal does nothing.
func MakeGlobal(global *Scope, id *Ident) {
	if !global.isGlobal {
		return
	}
	if _, ok := global.vars[id]; !ok {
		global.vars[id] = &cell{v: TheOmega}
	}
	if global.promoted == nil {
		global.promoted = make(map[*Ident]bool)
	}
	global.promoted[id] = true
}
