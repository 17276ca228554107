// Copyright © 2026 The SetlX authors

package setl

import (
	"fmt"
	"math/big"
	"strconv"
)

// ValueType is the tag identifying a Value's variant. It exists mainly to
// give CompareTotal a stable per-variant ordering rank and to let callers
// switch on the dynamic type cheaply without a type assertion chain.
type ValueType int

const (
	TypeOmega ValueType = iota
	TypeBool
	TypeInt
	TypeRational
	TypeReal
	TypeString
	TypeList
	TypeSet
	TypeTuple
	TypeMap
	TypeTerm
	TypeProcedure
	TypeScope
	TypeObject
	TypePredefined
)

var typeNames = map[ValueType]string{
	TypeOmega:      "omega",
	TypeBool:       "boolean",
	TypeInt:        "integer",
	TypeRational:   "rational",
	TypeReal:       "real",
	TypeString:     "string",
	TypeList:       "list",
	TypeSet:        "set",
	TypeTuple:      "tuple",
	TypeMap:        "map",
	TypeTerm:       "term",
	TypeProcedure:  "procedure",
	TypeScope:      "scope",
	TypeObject:     "object",
	TypePredefined: "predefined",
}

func (t ValueType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "invalid"
}

// variantRank fixes the ordering used by CompareTotal to separate values of
// different variants. It is intentionally just the declaration order of
// ValueType: the spec only requires *some* stable total order across
// variants, not a particular one.
func variantRank(t ValueType) int { return int(t) }

// Value is the sum type of every runtime value in the language: atoms,
// containers, terms, procedures, live scopes, and objects. All operations
// are total over the sum except where documented (Size, RemoveFirst,
// RemoveLast fail for atoms).
type Value interface {
	Type() ValueType
	// CloneDeep returns an independent deep copy of the receiver.
	CloneDeep() Value
	// EqualStructural reports whether the receiver and other represent the
	// same value irrespective of identity.
	EqualStructural(other Value) bool
	// CompareTotal provides a total, deterministic order over all values.
	// Values of differing variants are ordered by variant rank; values of
	// the same variant are compared structurally.
	CompareTotal(other Value) int
	// ToTerm reifies the value into its canonical symbolic term.
	ToTerm() *Term
	String() string
}

// Container is implemented by the variants that hold other values: List,
// Set, Tuple, Map.
type Container interface {
	Value
	// Size returns the number of elements held by the container.
	Size() (int, error)
	// RemoveFirst returns the first element together with the remaining
	// container.
	RemoveFirst() (Value, Value, error)
	// RemoveLast returns the last element together with the remaining
	// container.
	RemoveLast() (Value, Value, error)
}

// Size is a free function wrapper so callers that hold a bare Value (not
// known to be a Container) get the documented IncompatibleType failure
// instead of a type assertion panic.
func Size(v Value) (int, error) {
	c, ok := v.(Container)
	if !ok {
		return 0, NewErrorKind(IncompatibleType, "size: operation not supported on %s", v.Type())
	}
	return c.Size()
}

// RemoveFirst is the Container-agnostic entry point used by callers that
// only hold a Value.
func RemoveFirst(v Value) (Value, Value, error) {
	c, ok := v.(Container)
	if !ok {
		return nil, nil, NewErrorKind(IncompatibleType, "removeFirst: operation not supported on %s", v.Type())
	}
	return c.RemoveFirst()
}

// RemoveLast is the Container-agnostic entry point used by callers that
// only hold a Value.
func RemoveLast(v Value) (Value, Value, error) {
	c, ok := v.(Container)
	if !ok {
		return nil, nil, NewErrorKind(IncompatibleType, "removeLast: operation not supported on %s", v.Type())
	}
	return c.RemoveLast()
}

// Omega is the distinguished absent value: the result of a missing lookup
// and the return value of a procedure with no explicit return.
type Omega struct{}

// TheOmega is the single shared instance of Omega. Omega carries no state
// so every Omega value is interchangeable.
var TheOmega = Omega{}

func (Omega) Type() ValueType           { return TypeOmega }
func (Omega) CloneDeep() Value          { return TheOmega }
func (Omega) String() string            { return "om" }
func (Omega) ToTerm() *Term             { return &Term{Tag: "^om"} }
func (o Omega) EqualStructural(v Value) bool {
	_, ok := v.(Omega)
	return ok
}
func (o Omega) CompareTotal(v Value) int {
	if _, ok := v.(Omega); ok {
		return 0
	}
	return variantRank(TypeOmega) - variantRank(v.Type())
}

// Bool is the boolean atom.
type Bool bool

func (b Bool) Type() ValueType  { return TypeBool }
func (b Bool) CloneDeep() Value { return b }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) ToTerm() *Term {
	if b {
		return &Term{Tag: "^true"}
	}
	return &Term{Tag: "^false"}
}
func (b Bool) EqualStructural(v Value) bool {
	o, ok := v.(Bool)
	return ok && b == o
}
func (b Bool) CompareTotal(v Value) int {
	o, ok := v.(Bool)
	if !ok {
		return variantRank(TypeBool) - variantRank(v.Type())
	}
	switch {
	case b == o:
		return 0
	case !bool(b) && bool(o):
		return -1
	default:
		return 1
	}
}

// Int is an arbitrary precision integer, matching the language's unbounded
// integer arithmetic. No third-party big-integer library appears anywhere
// in the retrieved corpus, so this is grounded on the standard library's
// math/big rather than an ecosystem dependency (see DESIGN.md).
type Int struct{ v *big.Int }

// NewInt returns an Int wrapping n.
func NewInt(n int64) Int { return Int{big.NewInt(n)} }

// NewIntFromBig returns an Int taking ownership of n.
func NewIntFromBig(n *big.Int) Int { return Int{n} }

func (i Int) Big() *big.Int     { return i.v }
func (i Int) Type() ValueType   { return TypeInt }
func (i Int) CloneDeep() Value  { return Int{new(big.Int).Set(i.v)} }
func (i Int) String() string    { return i.v.String() }
func (i Int) ToTerm() *Term     { return &Term{Tag: "^int", Literal: i.v.String()} }
func (i Int) EqualStructural(v Value) bool {
	return i.CompareTotal(v) == 0 && isNumeric(v)
}
func (i Int) CompareTotal(v Value) int {
	switch o := v.(type) {
	case Int:
		return i.v.Cmp(o.v)
	case Rational:
		return ratFromInt(i.v).Cmp(o.v)
	case Real:
		of, _ := new(big.Float).SetString(i.v.String())
		rf := new(big.Float).SetFloat64(o.f)
		return of.Cmp(rf)
	default:
		return variantRank(TypeInt) - variantRank(v.Type())
	}
}

// Rational is an exact rational number.
type Rational struct{ v *big.Rat }

func NewRational(r *big.Rat) Rational { return Rational{r} }
func ratFromInt(n *big.Int) *big.Rat  { return new(big.Rat).SetInt(n) }

func (r Rational) Big() *big.Rat   { return r.v }
func (r Rational) Type() ValueType { return TypeRational }
func (r Rational) CloneDeep() Value {
	return Rational{new(big.Rat).Set(r.v)}
}
func (r Rational) String() string { return r.v.RatString() }
func (r Rational) ToTerm() *Term  { return &Term{Tag: "^rat", Literal: r.v.RatString()} }
func (r Rational) EqualStructural(v Value) bool {
	return r.CompareTotal(v) == 0 && isNumeric(v)
}
func (r Rational) CompareTotal(v Value) int {
	switch o := v.(type) {
	case Int:
		return r.v.Cmp(ratFromInt(o.v))
	case Rational:
		return r.v.Cmp(o.v)
	case Real:
		rf := new(big.Float).SetRat(r.v)
		of := new(big.Float).SetFloat64(o.f)
		return rf.Cmp(of)
	default:
		return variantRank(TypeRational) - variantRank(v.Type())
	}
}

// Real is a floating point atom.
type Real struct{ f float64 }

func NewReal(f float64) Real { return Real{f} }

func (r Real) Float() float64   { return r.f }
func (r Real) Type() ValueType  { return TypeReal }
func (r Real) CloneDeep() Value { return r }
func (r Real) String() string   { return strconv.FormatFloat(r.f, 'g', -1, 64) }
func (r Real) ToTerm() *Term    { return &Term{Tag: "^real", Literal: r.String()} }
func (r Real) EqualStructural(v Value) bool {
	return r.CompareTotal(v) == 0 && isNumeric(v)
}
func (r Real) CompareTotal(v Value) int {
	switch o := v.(type) {
	case Int, Rational:
		return -o.(Value).CompareTotal(r)
	case Real:
		switch {
		case r.f < o.f:
			return -1
		case r.f > o.f:
			return 1
		default:
			return 0
		}
	default:
		return variantRank(TypeReal) - variantRank(v.Type())
	}
}

func isNumeric(v Value) bool {
	switch v.Type() {
	case TypeInt, TypeRational, TypeReal:
		return true
	default:
		return false
	}
}

// String is the string atom.
type String string

func (s String) Type() ValueType  { return TypeString }
func (s String) CloneDeep() Value { return s }
func (s String) String() string   { return string(s) }
func (s String) ToTerm() *Term    { return &Term{Tag: "^str", Literal: string(s)} }
func (s String) EqualStructural(v Value) bool {
	o, ok := v.(String)
	return ok && s == o
}
func (s String) CompareTotal(v Value) int {
	o, ok := v.(String)
	if !ok {
		return variantRank(TypeString) - variantRank(v.Type())
	}
	switch {
	case s < o:
		return -1
	case s > o:
		return 1
	default:
		return 0
	}
}

// Strf formats a runtime message the way the language's error constructors
// do: values render with their String method, bare strings pass through.
func Strf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
