// Copyright © 2026 The SetlX authors

package setl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschmitt/setlX/setl"
	"github.com/sebschmitt/setlX/setl/setltest"
)

func TestListAppendDoesNotMutateReceiver(t *testing.T) {
	l := setl.NewList(setl.NewInt(1), setl.NewInt(2))
	next := l.Append(setl.NewInt(3))

	assert.Equal(t, 2, l.Len(), "the receiver must be untouched by Append")
	assert.Equal(t, 3, next.Len())
	assert.Equal(t, "[1, 2, 3]", next.String())
}

func TestListRemoveFirstAndRemoveLast(t *testing.T) {
	l := setl.NewList(setl.NewInt(1), setl.NewInt(2), setl.NewInt(3))

	first, rest, err := setl.RemoveFirst(l)
	require.NoError(t, err)
	setltest.RequireStructuralEqual(t, setl.NewInt(1), first)
	setltest.RequireStructuralEqual(t, setl.NewList(setl.NewInt(2), setl.NewInt(3)), rest)

	last, rest2, err := setl.RemoveLast(l)
	require.NoError(t, err)
	setltest.RequireStructuralEqual(t, setl.NewInt(3), last)
	setltest.RequireStructuralEqual(t, setl.NewList(setl.NewInt(1), setl.NewInt(2)), rest2)
}

func TestListRemoveFirstOnEmptyListFails(t *testing.T) {
	_, _, err := setl.RemoveFirst(setl.NewList())
	assert.Error(t, err)
}

func TestTupleHasFixedArityAndCannotAppend(t *testing.T) {
	tup := setl.NewTuple(setl.NewInt(1), setl.NewInt(2))
	assert.Equal(t, 2, tup.Len())
	assert.Equal(t, "(1, 2)", tup.String())
}

func TestSetDeduplicatesAndOrdersByCompareTotal(t *testing.T) {
	s := setl.NewSet(setl.NewInt(3), setl.NewInt(1), setl.NewInt(2), setl.NewInt(1))
	assert.Equal(t, 3, s.Len(), "duplicate insert must not grow the set")
	assert.Equal(t, "{1, 2, 3}", s.String(), "set iteration order follows CompareTotal")
}

func TestSetWithAndWithoutReturnNewSets(t *testing.T) {
	s := setl.NewSet(setl.NewInt(1))
	added := s.With(setl.NewInt(2))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, added.Len())

	removed := added.Without(setl.NewInt(1))
	assert.Equal(t, 1, removed.Len())
	assert.True(t, removed.Contains(setl.NewInt(2)))
	assert.False(t, removed.Contains(setl.NewInt(1)))
}

func TestMapWithWithoutAndOrderedIteration(t *testing.T) {
	m := setl.NewMap()
	m = m.With(setl.String("b"), setl.NewInt(2))
	m = m.With(setl.String("a"), setl.NewInt(1))

	assert.Equal(t, `{"a" |-> 1, "b" |-> 2}`, m.String())

	v, ok := m.Get(setl.String("a"))
	require.True(t, ok)
	setltest.RequireStructuralEqual(t, setl.NewInt(1), v)

	without := m.Without(setl.String("a"))
	assert.Equal(t, 1, without.Len())
	assert.Equal(t, 2, m.Len(), "Without must not mutate the receiver")
}

func TestMapRemoveFirstReturnsKeyValuePair(t *testing.T) {
	m := setl.NewMap().With(setl.String("k"), setl.NewInt(9))
	first, rest, err := setl.RemoveFirst(m)
	require.NoError(t, err)

	pair, ok := first.(*setl.Tuple)
	require.True(t, ok)
	assert.Equal(t, 2, pair.Len())

	size, err := setl.Size(rest)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestContainerVariantsRoundTripThroughTerm(t *testing.T) {
	for _, v := range []setl.Value{
		setl.NewList(setl.NewInt(1), setl.String("x")),
		setl.NewTuple(setl.Bool(true), setl.NewInt(2)),
		setl.NewSet(setl.NewInt(1), setl.NewInt(2)),
		setl.NewMap().With(setl.String("k"), setl.NewInt(1)),
	} {
		setltest.RequireRoundTrip(t, v)
	}
}

func TestCompareTotalOrdersShorterListBeforeLongerPrefix(t *testing.T) {
	a := setl.NewList(setl.NewInt(1))
	b := setl.NewList(setl.NewInt(1), setl.NewInt(2))
	setltest.RequireAntisymmetric(t, a, b)
	assert.True(t, a.CompareTotal(b) < 0)
}
