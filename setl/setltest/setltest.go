// Copyright © 2026 The SetlX authors

// Package setltest centralizes small testify-based assertion helpers shared
// by setl's and setl/ast's test files, mirroring the teacher's own practice
// of factoring repeated table-test plumbing into one helper package rather
// than duplicating it per _test.go file.
package setltest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschmitt/setlX/setl"
)

// RequireStructuralEqual fails t unless got.EqualStructural(want) holds in
// both directions (equal_structural is not guaranteed symmetric by
// construction the way compare_total is, so checking both catches a
// lopsided implementation).
func RequireStructuralEqual(t *testing.T, want, got setl.Value) {
	t.Helper()
	require.True(t, want.EqualStructural(got), "expected %s to equal %s", got, want)
	require.True(t, got.EqualStructural(want), "expected %s to equal %s", want, got)
}

// RequireCompareTotalZero fails t unless a and b compare equal in both
// directions, exercising the antisymmetry property every CompareTotal
// implementation must satisfy.
func RequireCompareTotalZero(t *testing.T, a, b setl.Value) {
	t.Helper()
	require.Zero(t, a.CompareTotal(b), "expected %s and %s to compare equal", a, b)
	require.Zero(t, b.CompareTotal(a), "expected %s and %s to compare equal", b, a)
}

// RequireAntisymmetric fails t unless compare_total(a,b) = -compare_total(b,a),
// the quantified invariant named directly in the testable properties.
func RequireAntisymmetric(t *testing.T, a, b setl.Value) {
	t.Helper()
	require.Equal(t, sign(a.CompareTotal(b)), -sign(b.CompareTotal(a)))
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// RequireRoundTrip fails t unless from_term(to_term(v)) is structurally
// equal to v, the quantified round-trip invariant.
func RequireRoundTrip(t *testing.T, v setl.Value) {
	t.Helper()
	got, err := setl.FromTerm(v.ToTerm())
	require.NoError(t, err)
	RequireStructuralEqual(t, v, got)
}

// AssertOmega is a convenience wrapper for the frequent assertion that a
// value is the undefined value.
func AssertOmega(t *testing.T, v setl.Value) {
	t.Helper()
	_, ok := v.(setl.Omega)
	assert.True(t, ok, "expected omega, got %s", v)
}
