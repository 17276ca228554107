// Copyright © 2026 The SetlX authors

package setl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschmitt/setlX/setl"
)

func TestParseTermNoChildren(t *testing.T) {
	tm, err := setl.ParseTerm("^om")
	require.NoError(t, err)
	assert.Equal(t, "^om", tm.Tag)
	assert.Empty(t, tm.Children)
}

func TestParseTermLiteral(t *testing.T) {
	tm, err := setl.ParseTerm(`^int("42")`)
	require.NoError(t, err)
	assert.Equal(t, "^int", tm.Tag)
	assert.Equal(t, "42", tm.Literal)
}

func TestParseTermNestedChildren(t *testing.T) {
	tm, err := setl.ParseTerm(`^list(^int("1"), ^int("2"))`)
	require.NoError(t, err)
	assert.Equal(t, "^list", tm.Tag)
	require.Len(t, tm.Children, 2)

	v, err := setl.FromTerm(tm)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", v.String())
}

func TestParseTermQuotedEscapes(t *testing.T) {
	tm, err := setl.ParseTerm(`^str("line\nbreak \"quoted\"")`)
	require.NoError(t, err)
	assert.Equal(t, "line\nbreak \"quoted\"", tm.Literal)
}

func TestParseTermRejectsTrailingInput(t *testing.T) {
	_, err := setl.ParseTerm(`^om extra`)
	assert.Error(t, err)
}

func TestParseTermRejectsUnterminatedString(t *testing.T) {
	_, err := setl.ParseTerm(`^str("unterminated`)
	assert.Error(t, err)
}

func TestParseTermRejectsMissingCloseParen(t *testing.T) {
	_, err := setl.ParseTerm(`^list(^int("1")`)
	assert.Error(t, err)
}

func TestParseTermEmptyChildrenParens(t *testing.T) {
	tm, err := setl.ParseTerm(`^list()`)
	require.NoError(t, err)
	assert.Equal(t, "^list", tm.Tag)
	assert.Nil(t, tm.Children)
}

func TestParseTermRoundTripsAgainstValueToTerm(t *testing.T) {
	original := setl.NewList(setl.NewInt(1), setl.String("x"), setl.Bool(true))
	src := original.ToTerm().String()

	tm, err := setl.ParseTerm(src)
	require.NoError(t, err)

	reconstructed, err := setl.FromTerm(tm)
	require.NoError(t, err)
	assert.True(t, reconstructed.EqualStructural(original))
}
