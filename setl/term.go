// Copyright © 2026 The SetlX authors

package setl

import (
	"math/big"
	"strconv"
	"strings"
	"sync"
)

// Term is the canonical symbolic form every value can be reified into: a
// functional character (Tag) applied to zero or more children, or — for
// atoms — a literal payload. Terms print, compare, and round-trip through
// FromTerm using the same machinery as any other Value.
type Term struct {
	Tag      string
	Children []Value
	Literal  string
}

func (t *Term) Type() ValueType { return TypeTerm }

func (t *Term) CloneDeep() Value {
	children := make([]Value, len(t.Children))
	for i, c := range t.Children {
		children[i] = c.CloneDeep()
	}
	return &Term{Tag: t.Tag, Children: children, Literal: t.Literal}
}

func (t *Term) String() string {
	if len(t.Children) == 0 && t.Literal != "" {
		return t.Tag + "(" + strconv.Quote(t.Literal) + ")"
	}
	var sb strings.Builder
	sb.WriteString(t.Tag)
	sb.WriteByte('(')
	for i, c := range t.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// ToTerm of a Term is itself: terms are already in canonical form.
func (t *Term) ToTerm() *Term { return t }

func (t *Term) EqualStructural(other Value) bool { return t.CompareTotal(other) == 0 }

func (t *Term) CompareTotal(other Value) int {
	o, ok := other.(*Term)
	if !ok {
		return variantRank(TypeTerm) - variantRank(other.Type())
	}
	if t.Tag != o.Tag {
		if t.Tag < o.Tag {
			return -1
		}
		return 1
	}
	if t.Literal != o.Literal {
		if t.Literal < o.Literal {
			return -1
		}
		return 1
	}
	return compareValueSlices(t.Children, o.Children)
}

// Child returns the i'th child of t, or a TermConversion error if t does
// not have at least i+1 children.
func (t *Term) Child(i int) (Value, error) {
	if i < 0 || i >= len(t.Children) {
		return nil, NewErrorKind(TermConversion, "malformed %s: missing child %d", t.Tag, i)
	}
	return t.Children[i], nil
}

// RequireArity returns a TermConversion error unless t has exactly n
// children.
func (t *Term) RequireArity(n int) error {
	if len(t.Children) != n {
		return NewErrorKind(TermConversion, "malformed %s: expected %d children, got %d", t.Tag, n, len(t.Children))
	}
	return nil
}

// variantCtor rebuilds a Value from a term whose tag it is registered
// under.
type variantCtor func(*Term) (Value, error)

// registry maps functional character -> variant constructor. It is the
// explicit, startup-populated stand-in described in the design notes for a
// host language without reflective class lookup: each variant registers
// itself once, and lookups thereafter are a single guarded map access.
var registryMu sync.Mutex
var registry = map[string]variantCtor{}

// RegisterVariant associates tag with ctor in the process-wide registry.
// Safe for concurrent use; later registrations for the same tag win.
func RegisterVariant(tag string, ctor variantCtor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[tag] = ctor
}

// FromTerm reconstructs a Value from t using the registry entry for t.Tag.
// Malformed terms (unknown tag, wrong arity or child variant as reported by
// the registered constructor) produce a TermConversion error.
func FromTerm(t *Term) (Value, error) {
	registryMu.Lock()
	ctor, ok := registry[t.Tag]
	registryMu.Unlock()
	if !ok {
		return nil, NewErrorKind(TermConversion, "unknown functional character: %s", t.Tag)
	}
	return ctor(t)
}

func init() {
	RegisterVariant("^om", func(t *Term) (Value, error) { return TheOmega, nil })
	RegisterVariant("^true", func(t *Term) (Value, error) { return Bool(true), nil })
	RegisterVariant("^false", func(t *Term) (Value, error) { return Bool(false), nil })
	RegisterVariant("^int", func(t *Term) (Value, error) {
		n, ok := new(big.Int).SetString(t.Literal, 10)
		if !ok {
			return nil, NewErrorKind(TermConversion, "malformed ^int literal: %q", t.Literal)
		}
		return Int{n}, nil
	})
	RegisterVariant("^rat", func(t *Term) (Value, error) {
		r, ok := new(big.Rat).SetString(t.Literal)
		if !ok {
			return nil, NewErrorKind(TermConversion, "malformed ^rat literal: %q", t.Literal)
		}
		return Rational{r}, nil
	})
	RegisterVariant("^real", func(t *Term) (Value, error) {
		f, err := strconv.ParseFloat(t.Literal, 64)
		if err != nil {
			return nil, NewErrorKind(TermConversion, "malformed ^real literal: %q", t.Literal)
		}
		return Real{f}, nil
	})
	RegisterVariant("^str", func(t *Term) (Value, error) { return String(t.Literal), nil })
	RegisterVariant("^list", func(t *Term) (Value, error) {
		return fromTermChildren(t, func(vs ...Value) Value { return NewList(vs...) })
	})
	RegisterVariant("^tuple", func(t *Term) (Value, error) {
		return fromTermChildren(t, func(vs ...Value) Value { return NewTuple(vs...) })
	})
	RegisterVariant("^set", func(t *Term) (Value, error) {
		return fromTermChildren(t, func(vs ...Value) Value { return NewSet(vs...) })
	})
	RegisterVariant("^map", func(t *Term) (Value, error) {
		m := NewMap()
		for _, c := range t.Children {
			pairTerm, ok := c.(*Term)
			if !ok || pairTerm.Tag != "^pair" {
				return nil, NewErrorKind(TermConversion, "malformed ^map: entry is not a ^pair")
			}
			if err := pairTerm.RequireArity(2); err != nil {
				return nil, err
			}
			k, err := FromTerm(asTerm(pairTerm.Children[0]))
			if err != nil {
				return nil, err
			}
			v, err := FromTerm(asTerm(pairTerm.Children[1]))
			if err != nil {
				return nil, err
			}
			m = m.With(k, v)
		}
		return m, nil
	})
}

func asTerm(v Value) *Term {
	if t, ok := v.(*Term); ok {
		return t
	}
	return &Term{Tag: "^invalid"}
}

func fromTermChildren(t *Term, build func(...Value) Value) (Value, error) {
	elems := make([]Value, len(t.Children))
	for i, c := range t.Children {
		ct, ok := c.(*Term)
		if !ok {
			return nil, NewErrorKind(TermConversion, "malformed %s: child %d is not a term", t.Tag, i)
		}
		v, err := FromTerm(ct)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return build(elems...), nil
}
