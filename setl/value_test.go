// Copyright © 2026 The SetlX authors

package setl_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sebschmitt/setlX/setl"
	"github.com/sebschmitt/setlX/setl/setltest"
)

func TestOmegaIsSingletonAndInterchangeable(t *testing.T) {
	a := setl.TheOmega
	b := setl.Omega{}
	setltest.RequireStructuralEqual(t, a, b)
	assert.Equal(t, 0, a.CompareTotal(b))
}

func TestNumericVariantsCompareAcrossKinds(t *testing.T) {
	i := setl.NewInt(2)
	half := setl.NewRational(big.NewRat(1, 2))
	asReal := setl.NewReal(0.5)

	assert.Equal(t, 0, half.CompareTotal(asReal))
	assert.Equal(t, 0, asReal.CompareTotal(half))

	oneHalf := setl.NewReal(1.5)
	assert.True(t, i.CompareTotal(oneHalf) > 0, "2 should sort after 1.5")
	assert.True(t, oneHalf.CompareTotal(i) < 0, "1.5 should sort before 2")
}

func TestNumericEqualStructuralRequiresNumericOther(t *testing.T) {
	i := setl.NewInt(3)
	s := setl.String("3")
	assert.False(t, i.EqualStructural(s), "an int must never equal the string spelling of the same number")
}

func TestStringOrderingIsLexicographic(t *testing.T) {
	a, b := setl.String("apple"), setl.String("banana")
	assert.True(t, a.CompareTotal(b) < 0)
	assert.True(t, b.CompareTotal(a) > 0)
	assert.Equal(t, 0, a.CompareTotal(setl.String("apple")))
}

func TestVariantRankOrdersDifferentTypesDeterministically(t *testing.T) {
	om := setl.TheOmega
	bl := setl.Bool(true)
	assert.True(t, om.CompareTotal(bl) < 0)
	assert.True(t, bl.CompareTotal(om) > 0)
}

func TestAtomRoundTripThroughTerm(t *testing.T) {
	for _, v := range []setl.Value{
		setl.TheOmega,
		setl.Bool(true),
		setl.Bool(false),
		setl.NewInt(42),
		setl.String("hello world"),
		setl.NewReal(3.5),
	} {
		setltest.RequireRoundTrip(t, v)
	}
}

func TestSizeRemoveFirstRemoveLastRejectAtoms(t *testing.T) {
	_, err := setl.Size(setl.NewInt(1))
	assert.Error(t, err)

	_, _, err = setl.RemoveFirst(setl.Bool(false))
	assert.Error(t, err)

	_, _, err = setl.RemoveLast(setl.String("x"))
	assert.Error(t, err)
}
