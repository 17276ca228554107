// Copyright © 2026 The SetlX authors

// Package ast provides the concrete statement and expression nodes that
// implement setl.Node: the tree shape a driver (parser, REPL, or any other
// frontend) builds and hands to the core to execute.
package ast

import (
	"github.com/sebschmitt/setlX/setl"
)

// signal is how Return, Break and Continue propagate up through nested
// Block.Exec calls: as a distinguished error value carrying the control
// kind and, for Return, the value being returned. Break and Continue are
// always unwrapped within this package, at the enclosing While/ForIn. A
// Return that reaches a procedure body's own top level is unwrapped by
// Procedure.Call through the setl.ReturnSignal interface (see AsReturn
// below), so it never reaches a caller outside this package as a bare
// error.
type signal struct {
	kind  signalKind
	value setl.Value
}

type signalKind int

const (
	signalReturn signalKind = iota
	signalBreak
	signalContinue
)

func (s *signal) Error() string { return "control-flow signal escaped its handler" }

// AsReturn implements setl.ReturnSignal, letting Procedure.Call recognize
// a return unwinding through a body and take its value, without the setl
// package depending on this package's signal type.
func (s *signal) AsReturn() (setl.Value, bool) {
	if s.kind != signalReturn {
		return nil, false
	}
	return s.value, true
}

func asSignal(err error) (*signal, bool) {
	s, ok := err.(*signal)
	return s, ok
}

// Block is a sequence of statements executed in a fresh child scope.
// Exec stops at the first statement that errors (including a propagating
// control-flow signal) and returns that error; otherwise it returns the
// value of its last statement.
type Block struct {
	Stmts []setl.Node
	// NewScope controls whether Exec introduces a child scope (true for a
	// loop/if body) or runs directly in the scope it is given (false for a
	// procedure body, which already received a fresh function scope from
	// Procedure.Call).
	NewScope bool
}

func (b *Block) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	target := scope
	if b.NewScope {
		target = setl.NewBlockScope(scope)
	}
	result := setl.Value(setl.TheOmega)
	for _, stmt := range b.Stmts {
		v, err := stmt.Exec(rt, target)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (b *Block) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	for _, stmt := range b.Stmts {
		stmt.CollectVariables(bound, unbound, used)
	}
}

// Literal evaluates to a fixed value.
type Literal struct {
	Value setl.Value
}

func (l *Literal) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	return l.Value, nil
}

func (l *Literal) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {}

// VarRef reads an identifier. A miss in the scope chain falls back to the
// predefined-function registry (setl.LookupPredefined) before finally
// yielding setl.TheOmega, matching the language's rule that reading a
// never-assigned variable yields the absent value instead of failing.
// Either outcome of the fallback — a resolved builtin or the absent
// value standing in for "no such predefined either" — is memoized into
// rt.Initial keyed by Name, so a second read of the same unbound
// identifier is a plain map hit instead of repeating the registry scan.
type VarRef struct {
	Name *setl.Ident
}

func (v *VarRef) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	if val, ok := scope.Lookup(v.Name); ok {
		return val, nil
	}
	if cached, ok := rt.Initial.Lookup(v.Name); ok {
		return cached, nil
	}
	resolved := setl.Value(setl.TheOmega)
	if fn, ok := setl.LookupPredefined(v.Name.Name()); ok {
		resolved = setl.PredefinedValue{Name: v.Name.Name(), Fn: fn}
	}
	rt.Initial.Bind(v.Name, resolved)
	return resolved, nil
}

func (v *VarRef) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	used[v.Name] = true
	if !bound[v.Name] {
		unbound[v.Name] = true
	}
}

// Assign evaluates Value and assigns it to Name, following the target
// scope's write-through chain (setl.Scope.Assign).
type Assign struct {
	Name  *setl.Ident
	Value setl.Node
}

func (a *Assign) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	v, err := a.Value.Exec(rt, scope)
	if err != nil {
		return nil, err
	}
	scope.Assign(a.Name, v)
	return v, nil
}

func (a *Assign) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	used[a.Name] = true
	if !bound[a.Name] {
		unbound[a.Name] = true
	}
	a.Value.CollectVariables(bound, unbound, used)
}

// Declare binds Value as a new local, bypassing the write-through chain:
// it always creates a binding in scope itself, never mutating an outer one
// of the same name. Used for explicit local variable declarations.
type Declare struct {
	Name  *setl.Ident
	Value setl.Node
}

func (d *Declare) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	v, err := d.Value.Exec(rt, scope)
	if err != nil {
		return nil, err
	}
	scope.Bind(d.Name, v)
	return v, nil
}

func (d *Declare) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	bound[d.Name] = true
	used[d.Name] = true
	d.Value.CollectVariables(bound, unbound, used)
}

// MakeGlobal promotes Name into the global frame (setl.MakeGlobal),
// creating it there as setl.TheOmega if it is not already bound. Once
// promoted, an ordinary Assign to Name from anywhere on this execution's
// scope chain — including from inside a nested call — lands in the
// global frame instead of creating or mutating a closer local binding,
// since Scope.Assign checks the global frame before its usual descent.
type MakeGlobal struct {
	Name *setl.Ident
}

func (g *MakeGlobal) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	setl.MakeGlobal(rt.Global, g.Name)
	return setl.TheOmega, nil
}

func (g *MakeGlobal) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	used[g.Name] = true
	if !bound[g.Name] {
		unbound[g.Name] = true
	}
}

// If evaluates Cond and runs Then or Else accordingly. A nil Else with a
// false Cond yields setl.TheOmega.
type If struct {
	Cond setl.Node
	Then *Block
	Else *Block
}

func (i *If) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	cv, err := i.Cond.Exec(rt, scope)
	if err != nil {
		return nil, err
	}
	b, ok := cv.(setl.Bool)
	if !ok {
		return nil, setl.NewErrorKind(setl.IncompatibleType, "if: condition is not a boolean")
	}
	if bool(b) {
		return i.Then.Exec(rt, scope)
	}
	if i.Else != nil {
		return i.Else.Exec(rt, scope)
	}
	return setl.TheOmega, nil
}

func (i *If) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	i.Cond.CollectVariables(bound, unbound, used)
	i.Then.CollectVariables(bound, unbound, used)
	if i.Else != nil {
		i.Else.CollectVariables(bound, unbound, used)
	}
}

// While repeatedly evaluates Cond and runs Body while it is true. Body
// runs in its own iteration scope each pass (setl.NewIterationScope), so
// an assignment inside it to a name already bound outside the loop
// mutates that outer binding in place across iterations — the
// iterator-block write-through behavior — while a Declare inside Body
// still creates a fresh local discarded at the end of each iteration.
type While struct {
	Cond setl.Node
	Body *Block
}

func (w *While) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	result := setl.Value(setl.TheOmega)
	for {
		cv, err := w.Cond.Exec(rt, scope)
		if err != nil {
			return nil, err
		}
		b, ok := cv.(setl.Bool)
		if !ok {
			return nil, setl.NewErrorKind(setl.IncompatibleType, "while: condition is not a boolean")
		}
		if !bool(b) {
			return result, nil
		}
		iter := setl.NewIterationScope(scope)
		v, err := w.Body.Exec(rt, iter)
		if err != nil {
			if sig, ok := asSignal(err); ok {
				switch sig.kind {
				case signalBreak:
					return result, nil
				case signalContinue:
					continue
				}
			}
			return nil, err
		}
		result = v
	}
}

func (w *While) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	w.Cond.CollectVariables(bound, unbound, used)
	w.Body.CollectVariables(bound, unbound, used)
}

// ForIn iterates Elem over every element of Source, in the order Source's
// Elements() (or, for a Map, Entries() reified as pairs) yields them,
// running Body once per element in a fresh iteration scope. Like While, an
// assignment inside Body to a name already bound outside the loop mutates
// that binding across iterations; Elem itself is always freshly bound
// (setl.Scope.Bind) each pass, never write-through, since it is the loop's
// own induction variable.
type ForIn struct {
	Elem   *setl.Ident
	Source setl.Node
	Body   *Block
}

func (f *ForIn) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	sv, err := f.Source.Exec(rt, scope)
	if err != nil {
		return nil, err
	}
	elems, err := forInElements(sv)
	if err != nil {
		return nil, err
	}
	result := setl.Value(setl.TheOmega)
	for _, e := range elems {
		iter := setl.NewIterationScope(scope)
		iter.Bind(f.Elem, e)
		v, err := f.Body.Exec(rt, iter)
		if err != nil {
			if sig, ok := asSignal(err); ok {
				switch sig.kind {
				case signalBreak:
					return result, nil
				case signalContinue:
					continue
				}
			}
			return nil, err
		}
		result = v
	}
	return result, nil
}

func forInElements(v setl.Value) ([]setl.Value, error) {
	switch c := v.(type) {
	case *setl.List:
		return c.Elements(), nil
	case *setl.Set:
		return c.Elements(), nil
	case *setl.Tuple:
		return c.Elements(), nil
	case *setl.Map:
		entries := c.Entries()
		out := make([]setl.Value, len(entries))
		for i, e := range entries {
			out[i] = setl.NewTuple(e.Key, e.Val)
		}
		return out, nil
	default:
		return nil, setl.NewErrorKind(setl.IncompatibleType, "for: %s is not iterable", v.Type())
	}
}

func (f *ForIn) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	f.Source.CollectVariables(bound, unbound, used)
	f.Body.CollectVariables(bound, unbound, used)
}

// Return signals that the enclosing procedure call should stop executing
// its body and produce Value as the call's result.
type Return struct {
	Value setl.Node
}

func (r *Return) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	v := setl.Value(setl.TheOmega)
	if r.Value != nil {
		rv, err := r.Value.Exec(rt, scope)
		if err != nil {
			return nil, err
		}
		v = rv
	}
	return nil, &signal{kind: signalReturn, value: v}
}

func (r *Return) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	if r.Value != nil {
		r.Value.CollectVariables(bound, unbound, used)
	}
}

// Break and Continue signal the nearest enclosing loop to stop, or to skip
// to its next iteration, respectively.
type Break struct{}

func (Break) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	return nil, &signal{kind: signalBreak}
}
func (Break) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {}

type Continue struct{}

func (Continue) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	return nil, &signal{kind: signalContinue}
}
func (Continue) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {}

// Throw raises a user-level error carrying Value's evaluation as its
// payload.
type Throw struct {
	Value setl.Node
}

func (t *Throw) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	v, err := t.Value.Exec(rt, scope)
	if err != nil {
		return nil, err
	}
	return nil, setl.NewUserThrow(v)
}

func (t *Throw) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	t.Value.CollectVariables(bound, unbound, used)
}

// CatchKind selects which errors a TryCatch branch accepts.
type CatchKind int

const (
	// CatchUser matches only errors raised by Throw.
	CatchUser CatchKind = iota
	// CatchLanguage matches every error except those raised by Throw.
	CatchLanguage
)

// TryCatch runs Body; if it fails with an error matching Kind, BindName
// (if non-nil) is bound to the error's payload (for CatchUser) or to a
// string description (for CatchLanguage) in a fresh scope the Handler
// then runs in. Any other error, or a control-flow signal, propagates
// unhandled — selective catching never intercepts break/continue/return.
type TryCatch struct {
	Body     *Block
	Kind     CatchKind
	BindName *setl.Ident
	Handler  *Block
}

func (tc *TryCatch) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	v, err := tc.Body.Exec(rt, scope)
	if err == nil {
		return v, nil
	}
	if _, ok := asSignal(err); ok {
		return nil, err
	}
	matches := false
	switch tc.Kind {
	case CatchUser:
		matches = setl.CatchesUser(err)
	case CatchLanguage:
		matches = setl.CatchesLanguage(err)
	}
	if !matches {
		return nil, err
	}
	handlerScope := setl.NewBlockScope(scope)
	if tc.BindName != nil {
		se := err.(*setl.Error)
		var bound setl.Value
		if se.Payload != nil {
			bound = se.Payload
		} else {
			bound = setl.String(se.Error())
		}
		handlerScope.Bind(tc.BindName, bound)
	}
	return tc.Handler.Exec(rt, handlerScope)
}

func (tc *TryCatch) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	tc.Body.CollectVariables(bound, unbound, used)
	if tc.BindName != nil {
		bound[tc.BindName] = true
	}
	tc.Handler.CollectVariables(bound, unbound, used)
}

// Arg is one actual argument at a call site: its expression, and whether
// it is syntactically assignable (a bare variable reference) and so
// eligible to receive a read-write parameter's write-back.
type Arg struct {
	Expr       setl.Node
	Assignable bool
	Target     *setl.Ident // valid iff Assignable
}

// MemberRef reads a named member off an object value. Used both as a
// plain expression (obj.field) and, specially, as a Call's Callee to
// drive method dispatch: Call recognizes a *MemberRef callee and threads
// the receiver through as the call's bound object instead of discarding
// it once the member procedure has been retrieved.
type MemberRef struct {
	Receiver setl.Node
	Name     string
}

func (m *MemberRef) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	_, v, err := m.resolve(rt, scope)
	return v, err
}

func (m *MemberRef) resolve(rt *setl.Runtime, scope *setl.Scope) (*setl.Object, setl.Value, error) {
	rv, err := m.Receiver.Exec(rt, scope)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := rv.(*setl.Object)
	if !ok {
		return nil, nil, setl.NewErrorKind(setl.IncompatibleType, "member access: %s is not an object", rv.Type())
	}
	if v, ok := obj.Get(m.Name); ok {
		return obj, v, nil
	}
	return obj, setl.TheOmega, nil
}

func (m *MemberRef) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	m.Receiver.CollectVariables(bound, unbound, used)
}

// Call evaluates Callee to a *setl.Procedure or a setl.PredefinedValue
// and invokes it with Args. If Callee is a *MemberRef, the receiver
// object it resolves through is threaded into the call as the bound
// object for "self"-style dispatch. A plain named call such as size(x)
// reaches a PredefinedValue through VarRef's own fallback into the
// predefined-function registry, with no special-casing needed here.
type Call struct {
	Callee setl.Node
	Args   []Arg
}

func (c *Call) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	var cv setl.Value
	var boundObj *setl.Object
	if mr, ok := c.Callee.(*MemberRef); ok {
		obj, v, err := mr.resolve(rt, scope)
		if err != nil {
			return nil, err
		}
		cv, boundObj = v, obj
	} else {
		v, err := c.Callee.Exec(rt, scope)
		if err != nil {
			return nil, err
		}
		cv = v
	}
	args := make([]setl.Value, len(c.Args))
	writeback := make([]setl.WritebackTarget, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Expr.Exec(rt, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
		writeback[i] = setl.WritebackTarget{ParamIndex: i, Target: a.Target, Assignable: a.Assignable}
	}
	switch callee := cv.(type) {
	case *setl.Procedure:
		return callee.Call(rt, scope, args, writeback, boundObj)
	case setl.PredefinedValue:
		return callee.Fn(rt, args)
	default:
		return nil, setl.NewErrorKind(setl.IncompatibleType, "call: %s is not callable", cv.Type())
	}
}

func (c *Call) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	c.Callee.CollectVariables(bound, unbound, used)
	for _, a := range c.Args {
		a.Expr.CollectVariables(bound, unbound, used)
	}
}

// ProcLit is a procedure literal: evaluating it produces a callable value.
// If it mentions any free variable (per its own capture analysis) it
// becomes a closure over the scope it is evaluated in; otherwise it is
// left as a plain procedure, since there is nothing for it to capture.
type ProcLit struct {
	Name   string
	Params []setl.Parameter
	Body   *Block
}

func (p *ProcLit) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	proc := setl.NewProcedure(p.Name, p.Params, p.Body)
	if len(proc.FreeVariables()) == 0 {
		return proc, nil
	}
	return setl.NewClosure(p.Name, p.Params, p.Body, scope), nil
}

func (p *ProcLit) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	// A procedure literal's own body variables are local to its call, not
	// to whatever scope the literal is evaluated in — they must not leak
	// into the enclosing procedure's bound/unbound classification. Only
	// its eventual closure capture (computed lazily inside Exec via
	// setl.NewProcedure/NewClosure) cares about its internal free
	// variables, so this is intentionally a no-op here.
}

// LambdaLit is a single-expression procedure literal: |params| expr. It
// never captures — a lambda is always a plain, self-contained procedure —
// so evaluating it does not need the scope it appears in at all beyond
// what NewLambda's analysis pass touches.
type LambdaLit struct {
	Params []setl.Parameter
	Expr   setl.Node
}

func (l *LambdaLit) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	body := &Block{Stmts: []setl.Node{&Return{Value: l.Expr}}}
	return setl.NewLambda("", l.Params, body), nil
}

func (l *LambdaLit) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {}
