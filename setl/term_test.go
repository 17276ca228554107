// Copyright © 2026 The SetlX authors

package setl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebschmitt/setlX/setl"
)

func TestTermStringLiteralForm(t *testing.T) {
	tm := &setl.Term{Tag: "^int", Literal: "42"}
	assert.Equal(t, `^int("42")`, tm.String())
}

func TestTermStringChildrenForm(t *testing.T) {
	tm := &setl.Term{Tag: "^list", Children: []setl.Value{
		setl.NewInt(1).ToTerm(),
		setl.NewInt(2).ToTerm(),
	}}
	assert.Equal(t, `^list(^int("1"), ^int("2"))`, tm.String())
}

func TestFromTermRejectsUnknownTag(t *testing.T) {
	_, err := setl.FromTerm(&setl.Term{Tag: "^nonexistent"})
	assert.Error(t, err)
}

func TestFromTermRejectsMalformedIntLiteral(t *testing.T) {
	_, err := setl.FromTerm(&setl.Term{Tag: "^int", Literal: "not-a-number"})
	assert.Error(t, err)
}

func TestRequireArityAndChild(t *testing.T) {
	tm := &setl.Term{Tag: "^pair", Children: []setl.Value{setl.NewInt(1).ToTerm(), setl.NewInt(2).ToTerm()}}
	require.NoError(t, tm.RequireArity(2))
	assert.Error(t, tm.RequireArity(3))

	c, err := tm.Child(0)
	require.NoError(t, err)
	assert.Equal(t, `^int("1")`, c.String())

	_, err = tm.Child(5)
	assert.Error(t, err)
}

func TestRegisterVariantLaterRegistrationWins(t *testing.T) {
	setl.RegisterVariant("^testonly", func(t *setl.Term) (setl.Value, error) { return setl.Bool(false), nil })
	setl.RegisterVariant("^testonly", func(t *setl.Term) (setl.Value, error) { return setl.Bool(true), nil })

	v, err := setl.FromTerm(&setl.Term{Tag: "^testonly"})
	require.NoError(t, err)
	assert.Equal(t, setl.Bool(true), v)
}
