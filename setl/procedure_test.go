// Copyright © 2026 The SetlX authors

package setl_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschmitt/setlX/setl"
	"github.com/sebschmitt/setlX/setl/ast"
	"github.com/sebschmitt/setlX/setl/setltest"
)

func newTestRuntime() *setl.Runtime {
	return setl.NewRuntime()
}

// incrNode increments a captured/bound identifier by one and returns its
// new value; a minimal arithmetic fixture standing in for the external
// expression evaluator these tests otherwise have no access to.
type incrNode struct{ Name *setl.Ident }

func (e *incrNode) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	cur, ok := scope.Lookup(e.Name)
	if !ok {
		return nil, setl.NewErrorKind(setl.UndefinedOperation, "unbound %s", e.Name.Name())
	}
	next := new(big.Int).Add(cur.(setl.Int).Big(), big.NewInt(1))
	return setl.NewIntFromBig(next), nil
}

func (e *incrNode) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	used[e.Name] = true
	if !bound[e.Name] {
		unbound[e.Name] = true
	}
}

func TestCounterClosureScenario(t *testing.T) {
	rt := newTestRuntime()
	n := setl.Intern("n")
	rt.Global.Bind(n, setl.NewInt(0))

	body := &ast.Block{Stmts: []setl.Node{
		&ast.Assign{Name: n, Value: &incrNode{Name: n}},
		&ast.Return{Value: &ast.VarRef{Name: n}},
	}}
	closure := setl.NewClosure("mkc", nil, body, rt.Global)
	require.Contains(t, identNames(closure.CapturedNames()), "n")

	for i, want := range []string{"1", "2", "3"} {
		got, err := closure.Call(rt, rt.Global, nil, nil, nil)
		require.NoError(t, err, "call %d", i+1)
		assert.Equal(t, want, got.String(), "call %d", i+1)
	}

	outer, ok := rt.Global.Lookup(n)
	require.True(t, ok)
	assert.Equal(t, "3", outer.String())
}

func TestCounterClosureEmptyCaptureBehavesLikePlainProcedure(t *testing.T) {
	body := &ast.Block{Stmts: []setl.Node{
		&ast.Return{Value: &ast.Literal{Value: setl.NewInt(5)}},
	}}
	closure := setl.NewClosure("c", nil, body, setl.NewGlobalScope())
	assert.Empty(t, closure.CapturedNames())

	rt := newTestRuntime()
	got, err := closure.Call(rt, rt.Global, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "5", got.String())
}

func TestReadWriteParameterObservesCallerButOnlyWritesBackOnAssignment(t *testing.T) {
	rt := newTestRuntime()
	xs := setl.Intern("xs")
	initial := setl.NewList(setl.NewInt(10), setl.NewInt(20), setl.NewInt(30))

	// swap_first(rw xs) { return xs; } — body only reads, never assigns.
	readOnly := setl.NewProcedure("swap_first", []setl.Parameter{
		setl.NewParameter(xs).WithMode(setl.ModeReadWrite),
	}, &ast.Block{Stmts: []setl.Node{
		&ast.Return{Value: &ast.VarRef{Name: xs}},
	}})

	rt.Global.Bind(xs, initial.CloneDeep())
	caller, _ := rt.Global.Lookup(xs)
	result, err := readOnly.Call(rt, rt.Global, []setl.Value{caller}, []setl.WritebackTarget{
		{ParamIndex: 0, Target: xs, Assignable: true},
	}, nil)
	require.NoError(t, err)
	list, ok := result.(*setl.List)
	require.True(t, ok)
	assert.Equal(t, 3, list.Len())

	after, _ := rt.Global.Lookup(xs)
	setltest.RequireStructuralEqual(t, initial, after)

	// Replacing the body with an assignment: xs := xs + [99].
	mutating := setl.NewProcedure("append_one", []setl.Parameter{
		setl.NewParameter(xs).WithMode(setl.ModeReadWrite),
	}, &ast.Block{Stmts: []setl.Node{
		&ast.Assign{Name: xs, Value: &appendNode{Name: xs, Extra: setl.NewInt(99)}},
		&ast.Return{Value: &ast.VarRef{Name: xs}},
	}})

	rt.Global.Bind(xs, initial.CloneDeep())
	caller, _ = rt.Global.Lookup(xs)
	_, err = mutating.Call(rt, rt.Global, []setl.Value{caller}, []setl.WritebackTarget{
		{ParamIndex: 0, Target: xs, Assignable: true},
	}, nil)
	require.NoError(t, err)

	after, _ = rt.Global.Lookup(xs)
	afterList := after.(*setl.List)
	assert.Equal(t, 4, afterList.Len())
}

// appendNode appends one fixed value to a named list-valued identifier,
// another minimal fixture standing in for the external expression
// evaluator's list-append operator.
type appendNode struct {
	Name  *setl.Ident
	Extra setl.Value
}

func (a *appendNode) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	cur, ok := scope.Lookup(a.Name)
	if !ok {
		return nil, setl.NewErrorKind(setl.UndefinedOperation, "unbound %s", a.Name.Name())
	}
	return cur.(*setl.List).Append(a.Extra), nil
}

func (a *appendNode) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	used[a.Name] = true
	if !bound[a.Name] {
		unbound[a.Name] = true
	}
}

func TestReadWriteWriteBackSkippedForNonAssignableArgument(t *testing.T) {
	rt := newTestRuntime()
	xs := setl.Intern("xs")
	proc := setl.NewProcedure("id", []setl.Parameter{
		setl.NewParameter(xs).WithMode(setl.ModeReadWrite),
	}, &ast.Block{Stmts: []setl.Node{
		&ast.Return{Value: &ast.VarRef{Name: xs}},
	}})

	_, err := proc.Call(rt, rt.Global, []setl.Value{setl.NewInt(1)}, []setl.WritebackTarget{
		{ParamIndex: 0, Target: nil, Assignable: false},
	}, nil)
	require.NoError(t, err)
}

func TestProcedureTermRoundTrip(t *testing.T) {
	// A procedure term carries no body (terms are data, not code), so
	// round-tripping one is the documented exception to the general
	// round-trip invariant: only the parameter list, name, and variant
	// survive. This is why the test checks those fields directly instead
	// of a full structural-equality round trip.
	y := setl.Intern("y")
	xParam := setl.NewParameter(setl.Intern("x"))
	yParam := setl.NewParameter(y).WithMode(setl.ModeReadWrite)
	body := &ast.Block{Stmts: []setl.Node{
		&ast.Assign{Name: y, Value: &incrNode{Name: setl.Intern("x")}},
		&ast.Return{Value: &ast.VarRef{Name: y}},
	}}
	p := setl.NewProcedure("p", []setl.Parameter{xParam, yParam}, body)

	term := p.ToTerm()
	rebuilt, err := setl.FromTerm(term)
	require.NoError(t, err)

	got := rebuilt.(*setl.Procedure)
	assert.Equal(t, p.Variant, got.Variant)
	assert.Equal(t, p.Name, got.Name)
	require.Len(t, got.Params, len(p.Params))
	for i := range p.Params {
		assert.Equal(t, p.Params[i].Name.Name(), got.Params[i].Name.Name())
		assert.Equal(t, p.Params[i].Mode, got.Params[i].Mode)
	}
	assert.Nil(t, got.Body, "a round-tripped procedure carries no body")
}

func TestProcedureComparisonOrdersByVariantThenArityThenParams(t *testing.T) {
	plain := setl.NewProcedure("a", nil, nil)
	lambda := setl.NewLambda("", nil, nil)
	assert.NotEqual(t, 0, plain.CompareTotal(lambda))
	setltest.RequireAntisymmetric(t, plain, lambda)

	onearg := setl.NewProcedure("a", []setl.Parameter{setl.NewParameter(setl.Intern("x"))}, nil)
	assert.NotEqual(t, 0, plain.CompareTotal(onearg))

	otherarg := setl.NewProcedure("a", []setl.Parameter{setl.NewParameter(setl.Intern("y"))}, nil)
	assert.NotEqual(t, 0, onearg.CompareTotal(otherarg))
}

func TestMethodDispatchThreadsBoundObjectWithoutDurableState(t *testing.T) {
	rt := newTestRuntime()
	obj := setl.NewObject()
	self := setl.Intern("self")
	greeting := setl.NewProcedure("greet", nil, &ast.Block{Stmts: []setl.Node{
		&ast.Return{Value: &ast.VarRef{Name: self}},
	}})

	got, err := greeting.Call(rt, rt.Global, nil, nil, obj)
	require.NoError(t, err)
	gotObj, ok := got.(*setl.Object)
	require.True(t, ok)
	assert.Same(t, obj, gotObj)

	// A subsequent call with no bound object must not see a stale "self".
	got2, err := greeting.Call(rt, rt.Global, nil, nil, nil)
	require.NoError(t, err)
	_, isOmega := got2.(setl.Omega)
	assert.True(t, isOmega)
}

func identNames(ids []*setl.Ident) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name()
	}
	return out
}
