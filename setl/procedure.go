// Copyright © 2026 The SetlX authors

package setl

import (
	"fmt"
	"strings"
)

// ProcVariant distinguishes the three shapes a Procedure value can take.
type ProcVariant int

const (
	// VariantPlain is an ordinary procedure: it captures nothing, and its
	// free variables, if any, are resolved against whatever scope the
	// call happens to run in, filtered by the functions-only boundary
	// like any other runtime name reference.
	VariantPlain ProcVariant = iota
	// VariantClosure captured the values of its free variables, by shared
	// storage cell, from the scope active at the moment it was defined.
	VariantClosure
	// VariantLambda is a single-expression-body procedure. It behaves
	// exactly like VariantPlain — no capture — and exists only as a
	// distinct tag for printing and comparison.
	VariantLambda
)

func (v ProcVariant) String() string {
	switch v {
	case VariantPlain:
		return "procedure"
	case VariantClosure:
		return "closure"
	case VariantLambda:
		return "lambda"
	default:
		return "invalid"
	}
}

// ComparableNode is an optional extension of Node that a driver's concrete
// statement/expression types may implement to participate in Procedure's
// structural comparison. A Node that does not implement it falls back to
// pointer identity, which is still a valid total order, just a coarser
// one.
type ComparableNode interface {
	Node
	CompareBody(other Node) int
}

// Procedure is a callable value: a parameter list, a body, and — for
// closures — the set of free-variable storage cells it captured at
// definition time. A procedure's bound receiver object (for a call made
// through member access) is deliberately not a field here: per the
// design notes, it is threaded through Call as a parameter instead, since
// it is only ever meaningful for the duration of one call and storing it
// durably would mean resetting it on every other method.
type Procedure struct {
	Variant ProcVariant
	Params  []Parameter
	Body    Node
	Name    string // empty for anonymous procedures; used for printing and stack frames

	// captured holds, for a closure, the shared cell backing each free
	// variable as resolved against the scope active at definition time.
	// nil for VariantPlain and VariantLambda.
	captured map[*Ident]*cell

	boundVars   map[*Ident]bool
	unboundVars map[*Ident]bool
	usedVars    map[*Ident]bool
}

// NewProcedure returns a plain procedure (VariantPlain) over params and
// body.
func NewProcedure(name string, params []Parameter, body Node) *Procedure {
	p := &Procedure{Variant: VariantPlain, Params: params, Body: body, Name: name}
	p.analyze()
	return p
}

// NewLambda returns a VariantLambda procedure. Every parameter is forced
// to ModeValue: a lambda's compact call syntax has no notation for a
// read-write or list-pattern parameter.
func NewLambda(name string, params []Parameter, body Node) *Procedure {
	valueParams := make([]Parameter, len(params))
	for i, prm := range params {
		valueParams[i] = prm.WithMode(ModeValue)
	}
	p := &Procedure{Variant: VariantLambda, Params: valueParams, Body: body, Name: name}
	p.analyze()
	return p
}

// NewClosure returns a closure over params and body, capturing the shared
// storage cell of every free variable the body references, as found by
// walking defScope's raw lexical chain (Scope.Cell). A free variable not
// yet bound anywhere in defScope is simply not captured — the capture set
// in that case is determined by whatever the body's own later bindings
// establish, matching the definition-time analysis rule that unbound
// identifiers not resolvable in the enclosing scope propagate upward as
// free variables of the surrounding construct rather than failing here.
func NewClosure(name string, params []Parameter, body Node, defScope *Scope) *Procedure {
	p := &Procedure{Variant: VariantClosure, Params: params, Body: body, Name: name}
	p.analyze()
	p.captured = make(map[*Ident]*cell, len(p.unboundVars))
	for id := range p.unboundVars {
		if c, ok := defScope.Cell(id); ok {
			p.captured[id] = c
		}
	}
	return p
}

// analyze walks Body once via Node.CollectVariables to classify its
// variables: parameters are always bound; everything the body references
// without a local binding of its own is unbound (the candidate capture
// set for a closure).
func (p *Procedure) analyze() {
	bound := make(map[*Ident]bool)
	unbound := make(map[*Ident]bool)
	used := make(map[*Ident]bool)
	for _, param := range p.Params {
		bound[param.Name] = true
	}
	if p.Body != nil {
		p.Body.CollectVariables(bound, unbound, used)
	}
	for id := range bound {
		used[id] = true
		delete(unbound, id)
	}
	p.boundVars, p.unboundVars, p.usedVars = bound, unbound, used
}

// FreeVariables returns the identifiers this procedure's body references
// without binding locally.
func (p *Procedure) FreeVariables() []*Ident {
	out := make([]*Ident, 0, len(p.unboundVars))
	for id := range p.unboundVars {
		out = append(out, id)
	}
	return out
}

// CapturedNames reports the free variables a closure actually captured a
// cell for. Empty (never nil) for a closure whose capture set is empty,
// matching the documented boundary behavior that such a closure's
// captured map is present-but-empty.
func (p *Procedure) CapturedNames() []*Ident {
	out := make([]*Ident, 0, len(p.captured))
	for id := range p.captured {
		out = append(out, id)
	}
	return out
}

func (p *Procedure) Type() ValueType { return TypeProcedure }

// CloneDeep is identity-preserving. For a closure or lambda capturing
// nothing this is unambiguous: there is no mutable per-instance state to
// copy. For a plain procedure this resolves the documented open question
// by choosing the always-safe side: procedures are treated as immutable
// once constructed, so aliasing is harmless and a deep clone would only
// add allocation without changing observable behavior.
func (p *Procedure) CloneDeep() Value { return p }

func (p *Procedure) String() string {
	var sb strings.Builder
	sb.WriteString(p.Variant.String())
	if p.Name != "" {
		sb.WriteByte(' ')
		sb.WriteString(p.Name)
	}
	sb.WriteByte('(')
	for i, prm := range p.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch prm.Mode {
		case ModeReadWrite:
			sb.WriteString("rw ")
		case ModeListPattern:
			sb.WriteString("*")
		}
		sb.WriteString(prm.Name.Name())
	}
	sb.WriteString(") {...}")
	return sb.String()
}

func (p *Procedure) ToTerm() *Term {
	params := make([]Value, len(p.Params))
	for i, prm := range p.Params {
		params[i] = prm.ToTerm()
	}
	tag := "^procedure"
	switch p.Variant {
	case VariantClosure:
		tag = "^closure"
	case VariantLambda:
		tag = "^lambda"
	}
	// Captured bindings are not serialized: round-tripping a closure
	// yields one with an empty captured map, which recaptures on next
	// definition-time evaluation. This is the documented exception to
	// the round-trip invariant.
	return &Term{Tag: tag, Children: []Value{NewTuple(params...), String(p.Name)}}
}

// EqualStructural compares by variant, parameter list, and body (see
// CompareTotal); the name and the captured map are ignored, exactly like
// a bound receiver object would be were it stored durably (it is not, see
// the Procedure doc comment).
func (p *Procedure) EqualStructural(v Value) bool {
	return p.CompareTotal(v) == 0
}

// CompareTotal orders by variant rank, then parameter count, then
// pairwise parameter comparison, then body. Body comparison uses
// ComparableNode if the concrete Node type implements it, falling back to
// pointer identity otherwise.
func (p *Procedure) CompareTotal(v Value) int {
	o, ok := v.(*Procedure)
	if !ok {
		return variantRank(TypeProcedure) - variantRank(v.Type())
	}
	if p.Variant != o.Variant {
		return int(p.Variant) - int(o.Variant)
	}
	if len(p.Params) != len(o.Params) {
		if len(p.Params) < len(o.Params) {
			return -1
		}
		return 1
	}
	for i := range p.Params {
		if c := compareParameter(p.Params[i], o.Params[i]); c != 0 {
			return c
		}
	}
	return compareBody(p.Body, o.Body)
}

func compareParameter(a, b Parameter) int {
	if a.Name != b.Name {
		if a.Name.Name() < b.Name.Name() {
			return -1
		}
		return 1
	}
	return int(a.Mode) - int(b.Mode)
}

func compareBody(a, b Node) int {
	if a == b {
		return 0
	}
	if ca, ok := a.(ComparableNode); ok {
		return ca.CompareBody(b)
	}
	// No structural comparison available: fall back to a stable but
	// arbitrary pointer-derived order so CompareTotal remains total.
	pa, pb := fmt.Sprintf("%p", a), fmt.Sprintf("%p", b)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

// WritebackTarget pairs a read-write parameter's position with the caller
// identifier its final value should be assigned to. Assignable is false
// when the caller passed an expression that cannot receive a write-back
// (e.g. a literal); such targets are silently skipped, matching the rule
// that a non-assignable argument to a read-write parameter still
// succeeds, it just forgoes the write-back.
type WritebackTarget struct {
	ParamIndex int
	Target     *Ident
	Assignable bool
}

// Call runs one invocation of p against positional args, implementing the
// call protocol:
//
//  1. Push a CallFrame, failing with StackOverflow if the configured depth
//     limit is exceeded, annotated with the depth at which the overflow
//     was first observed.
//  2. The caller's scope is whatever scope this call was reached from; it
//     is untouched by everything below and is still active once Call
//     returns, by construction (Call never mutates its caller's scope
//     pointer, only specific bindings within it via write-back).
//  3. Build callee = a functions-only child of callerScope. If boundObject
//     is non-nil (a method-style dispatch), bind "self" to it in callee.
//  4. For a closure, re-materialize every captured cell locally into
//     callee (BindCell) — this is what realizes the captured view exactly
//     at call entry and is also what lets the body's later writes to a
//     captured name mutate the same storage the defining scope uses.
//  5. Bind positional arguments into parameters left to right by mode:
//     value parameters receive a deep clone, read-write parameters
//     receive the argument unchanged and their index is remembered for
//     write-back; a trailing list-pattern parameter collects every
//     remaining argument into a List.
//  6. (The evaluated argument slice is not retained past this point.)
//  7. Run the body. If it fails with a ReturnSignal (see setl.ReturnSignal),
//     that is a normal return unwinding through nested blocks/loops, not a
//     failure: its value becomes the call's result and execution continues
//     to write-back as on any other normal completion. Any other error is
//     annotated with the current stack snapshot if it is a *Error.
//  8. On normal completion, read back every read-write parameter's final
//     value into the write-back queue, and refresh p.captured from
//     callee's current cell for each captured name (covers the case
//     where the body locally re-declared a captured name with Bind,
//     replacing its cell).
//  9. Pop the call frame. The pop is deferred, so it runs exactly once on
//     every exit path, after the write-back of step 10.
//  10. Apply the write-back queue against callerScope — the scope the
//     caller's argument expressions were evaluated in, handed in
//     explicitly since callee is discarded once Call returns and was
//     never on the caller's own scope chain to begin with — and return
//     the body's result, or TheOmega if it produced none.
//
// Note that callee's parent is callerScope, not rt.Global: the
// functions-only boundary filters what ascent through that parent can see
// (variables are invisible, only sibling procedures and globals pass the
// filter), it does not relocate the ascent to start at Global. Anchoring
// at callerScope is what makes a procedure bound anywhere on the caller's
// own scope chain — inside another procedure's body, a block, or an
// iteration scope, not only at the top level — visible to this call,
// which is the functions-only view's actual job.
func (p *Procedure) Call(rt *Runtime, callerScope *Scope, args []Value, writeback []WritebackTarget, boundObject *Object) (Value, error) {
	frame := CallFrame{ProcName: p.frameName()}
	if err := rt.Stack.Push(frame); err != nil {
		return nil, err
	}
	defer rt.Stack.Pop()
	rt.Profiler.Enter(frame.ProcName)
	defer rt.Profiler.Exit(frame.ProcName)

	callee := NewFunctionsOnlyChild(callerScope)

	if boundObject != nil {
		callee.Bind(Intern("self"), boundObject)
	}

	for id, c := range p.captured {
		callee.BindCell(id, c)
	}

	if err := p.bindArgs(callee, args); err != nil {
		return nil, err
	}

	result, err := p.Body.Exec(rt, callee)
	if err != nil {
		if rs, ok := err.(ReturnSignal); ok {
			if v, isReturn := rs.AsReturn(); isReturn {
				result, err = v, nil
			}
		}
	}
	if err != nil {
		if se, ok := err.(*Error); ok {
			return nil, se.WithStack(rt.Stack)
		}
		return nil, err
	}

	if err := p.writeBack(callee, callerScope, writeback); err != nil {
		return nil, err
	}
	for id := range p.captured {
		if c, ok := callee.vars[id]; ok {
			p.captured[id] = c
		}
	}

	if result == nil {
		result = TheOmega
	}
	return result, nil
}

func (p *Procedure) frameName() string {
	if p.Name != "" {
		return p.Name
	}
	return "<anonymous " + p.Variant.String() + ">"
}

func (p *Procedure) bindArgs(scope *Scope, args []Value) error {
	listIdx := -1
	for i, prm := range p.Params {
		if prm.Mode == ModeListPattern {
			listIdx = i
			break
		}
	}
	fixed := p.Params
	if listIdx >= 0 {
		fixed = p.Params[:listIdx]
	}
	if listIdx < 0 && len(args) > len(p.Params) {
		return NewErrorKind(UndefinedOperation, "%s %q takes %d argument(s), got %d", p.Variant, p.Name, len(p.Params), len(args))
	}
	for i, prm := range fixed {
		var v Value
		if i < len(args) {
			v = args[i]
			if prm.Mode == ModeValue {
				v = v.CloneDeep()
			}
		}
		if err := prm.AssignInto(scope, v); err != nil {
			return err
		}
	}
	if listIdx >= 0 {
		rest := []Value{}
		if len(args) > len(fixed) {
			rest = args[len(fixed):]
		}
		scope.Bind(p.Params[listIdx].Name, NewList(rest...))
	}
	return nil
}

// writeBack reads each read-write parameter's final value out of callee and
// assigns it into callerScope under the caller's own l-value identifier —
// never into callee, which is discarded the moment Call returns.
func (p *Procedure) writeBack(callee, callerScope *Scope, writeback []WritebackTarget) error {
	for _, wb := range writeback {
		if !wb.Assignable {
			continue
		}
		if wb.ParamIndex < 0 || wb.ParamIndex >= len(p.Params) {
			continue
		}
		prm := p.Params[wb.ParamIndex]
		if prm.Mode != ModeReadWrite {
			continue
		}
		v, err := prm.ReadBack(callee)
		if err != nil {
			return err
		}
		callerScope.Assign(wb.Target, v)
	}
	return nil
}

func init() {
	RegisterVariant("^procedure", procedureFromTerm(VariantPlain))
	RegisterVariant("^closure", procedureFromTerm(VariantClosure))
	RegisterVariant("^lambda", procedureFromTerm(VariantLambda))
}

// procedureFromTerm builds a FromTerm constructor for the given variant.
// Round-tripping a procedure through a term necessarily loses its body
// and, for a closure, its captured cells (terms are data, not code): the
// reconstructed value carries only the parameter list and name, with a nil
// Body. Because CompareTotal compares bodies, the rebuilt procedure does
// not compare equal to the original unless that one's Body was nil too.
// The parameter list is accepted either as a Tuple value (as ToTerm emits
// it) or as a ^tuple term of parameter terms, and the name either as a
// String or as a ^str term.
func procedureFromTerm(variant ProcVariant) variantCtor {
	return func(t *Term) (Value, error) {
		if err := t.RequireArity(2); err != nil {
			return nil, err
		}
		var elems []Value
		if tuple, ok := t.Children[0].(*Tuple); ok {
			elems = tuple.Elements()
		} else if pl, ok := t.Children[0].(*Term); ok && pl.Tag == "^tuple" {
			elems = pl.Children
		} else {
			return nil, NewErrorKind(TermConversion, "malformed %s: parameter list is not a tuple", t.Tag)
		}
		params := make([]Parameter, len(elems))
		for i, elem := range elems {
			pt, ok := elem.(*Term)
			if !ok {
				return nil, NewErrorKind(TermConversion, "malformed %s: parameter %d is not a term", t.Tag, i)
			}
			prm, err := ParameterFromTerm(pt)
			if err != nil {
				return nil, err
			}
			params[i] = prm
		}
		name, ok := t.Children[1].(String)
		if nt, isTerm := t.Children[1].(*Term); isTerm && nt.Tag == "^str" {
			name, ok = String(nt.Literal), true
		}
		if !ok {
			return nil, NewErrorKind(TermConversion, "malformed %s: name is not a string", t.Tag)
		}
		return &Procedure{Variant: variant, Params: params, Name: string(name)}, nil
	}
}
