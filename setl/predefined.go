// Copyright © 2026 The SetlX authors

package setl

// Predefined is a builtin procedure implemented in Go rather than by an
// interpreted body. It receives its arguments already evaluated and the
// Runtime it is executing under, and returns a result or an error exactly
// like Procedure.Call.
type Predefined func(rt *Runtime, args []Value) (Value, error)

// predefinedRegistry maps a builtin's language-visible name to its
// implementation. Each builtin is registered under the name the language
// uses (pdSize registers as "size").
var predefinedRegistry = map[string]Predefined{}

// RegisterPredefined installs fn under name in the global predefined
// registry. Intended to be called from package-level init funcs, one per
// builtin, matching the registration style RegisterVariant uses for term
// constructors.
func RegisterPredefined(name string, fn Predefined) {
	predefinedRegistry[name] = fn
}

// LookupPredefined returns the builtin registered under name, if any. The
// bool result distinguishes "not a predefined" from a found predefined,
// matching the distinction VariableScope's own findValue makes between a
// regular variable binding and a predefined function falling out of scope
// resolution.
func LookupPredefined(name string) (Predefined, bool) {
	fn, ok := predefinedRegistry[name]
	return fn, ok
}

// PredefinedValue is the Value a variable read resolves to when an
// identifier falls out of ordinary scope lookup into the predefined-
// function registry (see the variable-read fallback in setl/ast). It is
// a thin callable wrapper, not a full member of the value sum type: it
// never round-trips through a registered term constructor (the inverse
// is not defined, the same documented exception as a live scope), and
// exists only so the call path can recognize and invoke a builtin the
// same way it invokes a *Procedure.
type PredefinedValue struct {
	Name string
	Fn   Predefined
}

func (p PredefinedValue) Type() ValueType  { return TypePredefined }
func (p PredefinedValue) CloneDeep() Value { return p }
func (p PredefinedValue) String() string   { return p.Name }
func (p PredefinedValue) ToTerm() *Term    { return &Term{Tag: "^predefined", Literal: p.Name} }
func (p PredefinedValue) EqualStructural(v Value) bool {
	o, ok := v.(PredefinedValue)
	return ok && p.Name == o.Name
}
func (p PredefinedValue) CompareTotal(v Value) int {
	o, ok := v.(PredefinedValue)
	if !ok {
		return variantRank(TypePredefined) - variantRank(v.Type())
	}
	switch {
	case p.Name < o.Name:
		return -1
	case p.Name > o.Name:
		return 1
	default:
		return 0
	}
}

func init() {
	RegisterPredefined("size", pdSize)
	RegisterPredefined("removeFirst", pdRemoveFirst)
	RegisterPredefined("removeLast", pdRemoveLast)
	RegisterPredefined("isProcedure", pdIsProcedure)
	RegisterPredefined("isClosure", pdIsClosure)
}

func pdSize(rt *Runtime, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, NewErrorKind(UndefinedOperation, "size: expected 1 argument, got %d", len(args))
	}
	n, err := Size(args[0])
	if err != nil {
		return nil, err
	}
	return NewInt(int64(n)), nil
}

func pdRemoveFirst(rt *Runtime, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, NewErrorKind(UndefinedOperation, "removeFirst: expected 1 argument, got %d", len(args))
	}
	first, _, err := RemoveFirst(args[0])
	if err != nil {
		return nil, err
	}
	return first, nil
}

func pdRemoveLast(rt *Runtime, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, NewErrorKind(UndefinedOperation, "removeLast: expected 1 argument, got %d", len(args))
	}
	last, _, err := RemoveLast(args[0])
	if err != nil {
		return nil, err
	}
	return last, nil
}

func pdIsProcedure(rt *Runtime, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, NewErrorKind(UndefinedOperation, "isProcedure: expected 1 argument, got %d", len(args))
	}
	_, ok := args[0].(*Procedure)
	return Bool(ok), nil
}

func pdIsClosure(rt *Runtime, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, NewErrorKind(UndefinedOperation, "isClosure: expected 1 argument, got %d", len(args))
	}
	p, ok := args[0].(*Procedure)
	return Bool(ok && p.Variant == VariantClosure), nil
}
