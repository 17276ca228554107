// Copyright © 2026 The SetlX authors

package setl_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschmitt/setlX/setl"
)

func TestIterationScopeWriteThroughMutatesOuterBinding(t *testing.T) {
	global := setl.NewGlobalScope()
	s := setl.Intern("s")
	global.Bind(s, setl.NewInt(0))

	for i := int64(1); i <= 3; i++ {
		iter := setl.NewIterationScope(global)
		cur, ok := iter.Lookup(s)
		require.True(t, ok)
		sum := new(big.Int).Add(cur.(setl.Int).Big(), big.NewInt(i))
		iter.Assign(s, setl.NewIntFromBig(sum))
	}

	got, ok := global.Lookup(s)
	require.True(t, ok)
	assert.Equal(t, "6", got.String())
}

func TestFunctionsOnlyChildShadowsNonProcedureCallerBindings(t *testing.T) {
	global := setl.NewGlobalScope()
	caller := setl.NewBlockScope(global)
	x := setl.Intern("x")
	caller.Bind(x, setl.NewInt(42))

	callee := setl.NewFunctionsOnlyChild(caller)
	_, ok := callee.Lookup(x)
	assert.False(t, ok, "a non-procedure caller binding must be shadowed across the functions-only boundary")

	proc := setl.NewProcedure("p", nil, nil)
	caller.Bind(x, proc)
	got, ok := callee.Lookup(x)
	require.True(t, ok, "a procedure binding must remain visible across the functions-only boundary")
	assert.Same(t, proc, got)
}

func TestFunctionsOnlyChildStillResolvesGlobals(t *testing.T) {
	global := setl.NewGlobalScope()
	caller := setl.NewBlockScope(global)
	g := setl.Intern("g")
	global.Bind(g, setl.NewInt(7))

	callee := setl.NewFunctionsOnlyChild(caller)
	got, ok := callee.Lookup(g)
	require.True(t, ok)
	assert.Equal(t, "7", got.String())
}

func TestAssignCreatesLocalWhenNoOuterBindingAndNoWriteThrough(t *testing.T) {
	global := setl.NewGlobalScope()
	caller := setl.NewBlockScope(global)
	callee := setl.NewFunctionsOnlyChild(caller)

	x := setl.Intern("x")
	callee.Assign(x, setl.NewInt(1))

	assert.True(t, callee.Has(x))
	_, ok := caller.Lookup(x)
	assert.False(t, ok)
}

func TestAssignOfNeverBoundNameSurfacesAtWriteThroughChainsTerminalFrame(t *testing.T) {
	global := setl.NewGlobalScope()
	// Two nested write-through scopes, as a while body's if-block produces:
	// NewIterationScope wraps the loop body, NewBlockScope wraps the if's
	// own body inside that.
	iter := setl.NewIterationScope(global)
	ifBody := setl.NewBlockScope(iter)

	newvar := setl.Intern("newvar")
	ifBody.Assign(newvar, setl.NewInt(5))

	assert.False(t, ifBody.Has(newvar), "must not be trapped in the transient if-block frame")
	assert.False(t, iter.Has(newvar), "must not be trapped in the transient iteration frame either")
	got, ok := global.Lookup(newvar)
	require.True(t, ok, "must surface in the chain's terminal (non-write-through) frame")
	assert.Equal(t, "5", got.String())
}

func TestAssignToPromotedGlobalReachesThroughAFunctionsOnlyCallBoundary(t *testing.T) {
	global := setl.NewGlobalScope()
	caller := setl.NewBlockScope(global)

	x := setl.Intern("x")
	setl.MakeGlobal(global, x)

	// A functions-only child has no write-through of its own (it models a
	// procedure call's own scope), so the ordinary descent would otherwise
	// stop here and create a fresh local binding instead of reaching the
	// promoted global.
	callee := setl.NewFunctionsOnlyChild(caller)
	callee.Assign(x, setl.NewInt(42))

	assert.False(t, callee.Has(x), "must not shadow the promotion with a fresh local binding")
	got, ok := global.Lookup(x)
	require.True(t, ok)
	assert.Equal(t, "42", got.String())
}

func TestMakeGlobalPromotesThenLocalStoreUpdatesGlobal(t *testing.T) {
	global := setl.NewGlobalScope()
	outer := setl.NewBlockScope(global)
	inner := setl.NewBlockScope(outer)

	x := setl.Intern("x")
	setl.MakeGlobal(global, x)
	got, ok := global.Lookup(x)
	require.True(t, ok)
	_, isOmega := got.(setl.Omega)
	assert.True(t, isOmega)

	inner.Assign(x, setl.NewInt(99))

	got, ok = global.Lookup(x)
	require.True(t, ok)
	assert.Equal(t, "99", got.String())
}

func TestScopeToTermUnionsChainAndLaterFramesOverride(t *testing.T) {
	global := setl.NewGlobalScope()
	x := setl.Intern("x")
	y := setl.Intern("y")
	global.Bind(x, setl.NewInt(1))
	global.Bind(y, setl.NewInt(2))

	child := setl.NewBlockScope(global)
	child.Bind(x, setl.NewInt(10))

	term := child.ToTerm()
	assert.Equal(t, "^scope", term.Tag)
}
