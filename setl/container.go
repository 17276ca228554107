// Copyright © 2026 The SetlX authors

package setl

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// valueComparator adapts Value.CompareTotal to the gods utils.Comparator
// signature so the ecosystem's tree-based containers can be ordered by the
// same total order CompareTotal defines everywhere else in the core.
func valueComparator(a, b interface{}) int {
	return a.(Value).CompareTotal(b.(Value))
}

// elementString renders v as it appears nested inside a container's or an
// object's printed form: a String is quoted, every other value prints with
// its own String method.
func elementString(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// List is an ordered, mutable-by-replacement sequence. It is backed by
// gods' arraylist, which already provides the growable-slice-with-helpers
// behavior the language's list value needs (indexing, append, iteration)
// without reimplementing it by hand.
type List struct {
	l *arraylist.List
}

// NewList returns a List containing elems, in order.
func NewList(elems ...Value) *List {
	l := arraylist.New()
	for _, e := range elems {
		l.Add(e)
	}
	return &List{l: l}
}

func (l *List) Type() ValueType { return TypeList }

func (l *List) Elements() []Value {
	raw := l.l.Values()
	out := make([]Value, len(raw))
	for i, v := range raw {
		out[i] = v.(Value)
	}
	return out
}

func (l *List) Len() int { return l.l.Size() }

func (l *List) Get(i int) (Value, bool) {
	v, ok := l.l.Get(i)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}

// Append returns a new List with v appended; the receiver is not mutated.
func (l *List) Append(v Value) *List {
	next := l.CloneDeep().(*List)
	next.l.Add(v)
	return next
}

func (l *List) CloneDeep() Value {
	cp := arraylist.New()
	for _, v := range l.l.Values() {
		cp.Add(v.(Value).CloneDeep())
	}
	return &List{l: cp}
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l.l.Values() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(elementString(v.(Value)))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) ToTerm() *Term {
	children := make([]Value, l.Len())
	for i, v := range l.Elements() {
		children[i] = v.ToTerm()
	}
	return &Term{Tag: "^list", Children: children}
}

func (l *List) EqualStructural(other Value) bool {
	return l.CompareTotal(other) == 0
}

func (l *List) CompareTotal(other Value) int {
	o, ok := other.(*List)
	if !ok {
		return variantRank(TypeList) - variantRank(other.Type())
	}
	return compareValueSlices(l.Elements(), o.Elements())
}

func (l *List) Size() (int, error) { return l.Len(), nil }

func (l *List) RemoveFirst() (Value, Value, error) {
	if l.Len() == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeFirst: empty list")
	}
	first, _ := l.Get(0)
	rest := l.Elements()[1:]
	return first, NewList(rest...), nil
}

func (l *List) RemoveLast() (Value, Value, error) {
	n := l.Len()
	if n == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeLast: empty list")
	}
	last, _ := l.Get(n - 1)
	rest := l.Elements()[:n-1]
	return last, NewList(rest...), nil
}

func compareValueSlices(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].CompareTotal(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Tuple is a fixed-arity sequence. Unlike List its arity never changes, so
// it is backed directly by a slice rather than the ecosystem list type.
type Tuple struct {
	elems []Value
}

func NewTuple(elems ...Value) *Tuple {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return &Tuple{elems: cp}
}

func (t *Tuple) Type() ValueType   { return TypeTuple }
func (t *Tuple) Elements() []Value { return t.elems }
func (t *Tuple) Len() int          { return len(t.elems) }

func (t *Tuple) CloneDeep() Value {
	cp := make([]Value, len(t.elems))
	for i, v := range t.elems {
		cp[i] = v.CloneDeep()
	}
	return &Tuple{elems: cp}
}

func (t *Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range t.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(elementString(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t *Tuple) ToTerm() *Term {
	children := make([]Value, len(t.elems))
	for i, v := range t.elems {
		children[i] = v.ToTerm()
	}
	return &Term{Tag: "^tuple", Children: children}
}

func (t *Tuple) EqualStructural(other Value) bool { return t.CompareTotal(other) == 0 }

func (t *Tuple) CompareTotal(other Value) int {
	o, ok := other.(*Tuple)
	if !ok {
		return variantRank(TypeTuple) - variantRank(other.Type())
	}
	return compareValueSlices(t.elems, o.elems)
}

func (t *Tuple) Size() (int, error) { return len(t.elems), nil }

func (t *Tuple) RemoveFirst() (Value, Value, error) {
	if len(t.elems) == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeFirst: empty tuple")
	}
	return t.elems[0], NewTuple(t.elems[1:]...), nil
}

func (t *Tuple) RemoveLast() (Value, Value, error) {
	n := len(t.elems)
	if n == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeLast: empty tuple")
	}
	return t.elems[n-1], NewTuple(t.elems[:n-1]...), nil
}

// Set is an unordered collection with no duplicate members. It is backed
// by gods' treeset, ordered internally by CompareTotal so that iteration
// order is deterministic and membership tests are logarithmic rather than
// a hand-rolled linear scan.
type Set struct {
	s *treeset.Set
}

func NewSet(elems ...Value) *Set {
	s := treeset.NewWith(utils.Comparator(valueComparator))
	for _, e := range elems {
		s.Add(e)
	}
	return &Set{s: s}
}

func (s *Set) Type() ValueType { return TypeSet }

func (s *Set) Elements() []Value {
	raw := s.s.Values()
	out := make([]Value, len(raw))
	for i, v := range raw {
		out[i] = v.(Value)
	}
	return out
}

func (s *Set) Len() int { return s.s.Size() }

func (s *Set) Contains(v Value) bool { return s.s.Contains(v) }

// With returns a new Set with v inserted; the receiver is not mutated.
func (s *Set) With(v Value) *Set {
	next := s.CloneDeep().(*Set)
	next.s.Add(v)
	return next
}

// Without returns a new Set with v removed; the receiver is not mutated.
func (s *Set) Without(v Value) *Set {
	next := s.CloneDeep().(*Set)
	next.s.Remove(v)
	return next
}

func (s *Set) CloneDeep() Value {
	cp := treeset.NewWith(utils.Comparator(valueComparator))
	for _, v := range s.s.Values() {
		cp.Add(v.(Value).CloneDeep())
	}
	return &Set{s: cp}
}

func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range s.s.Values() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(elementString(v.(Value)))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (s *Set) ToTerm() *Term {
	children := make([]Value, s.Len())
	for i, v := range s.Elements() {
		children[i] = v.ToTerm()
	}
	return &Term{Tag: "^set", Children: children}
}

func (s *Set) EqualStructural(other Value) bool { return s.CompareTotal(other) == 0 }

func (s *Set) CompareTotal(other Value) int {
	o, ok := other.(*Set)
	if !ok {
		return variantRank(TypeSet) - variantRank(other.Type())
	}
	return compareValueSlices(s.Elements(), o.Elements())
}

func (s *Set) Size() (int, error) { return s.Len(), nil }

func (s *Set) RemoveFirst() (Value, Value, error) {
	elems := s.Elements()
	if len(elems) == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeFirst: empty set")
	}
	return elems[0], s.Without(elems[0]), nil
}

func (s *Set) RemoveLast() (Value, Value, error) {
	elems := s.Elements()
	n := len(elems)
	if n == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeLast: empty set")
	}
	return elems[n-1], s.Without(elems[n-1]), nil
}

// Map associates keys with values, ordered by CompareTotal over keys so
// that iteration and ToTerm output are deterministic. Backed by gods'
// treemap for the same reason Set is backed by treeset.
type Map struct {
	m *treemap.Map
}

func NewMap() *Map {
	return &Map{m: treemap.NewWith(utils.Comparator(valueComparator))}
}

func (m *Map) Type() ValueType { return TypeMap }

func (m *Map) Get(k Value) (Value, bool) {
	v, ok := m.m.Get(k)
	if !ok {
		return nil, false
	}
	return v.(Value), true
}

// With returns a new Map with k bound to v; the receiver is not mutated.
func (m *Map) With(k, v Value) *Map {
	next := m.CloneDeep().(*Map)
	next.m.Put(k, v)
	return next
}

// Without returns a new Map with k removed; the receiver is not mutated.
func (m *Map) Without(k Value) *Map {
	next := m.CloneDeep().(*Map)
	next.m.Remove(k)
	return next
}

func (m *Map) Len() int { return m.m.Size() }

// Entries returns the map's key/value pairs in key order.
func (m *Map) Entries() []struct{ Key, Val Value } {
	keys := m.m.Keys()
	out := make([]struct{ Key, Val Value }, len(keys))
	for i, k := range keys {
		v, _ := m.m.Get(k)
		out[i] = struct{ Key, Val Value }{k.(Value), v.(Value)}
	}
	return out
}

func (m *Map) CloneDeep() Value {
	cp := treemap.NewWith(utils.Comparator(valueComparator))
	it := m.m.Iterator()
	for it.Next() {
		cp.Put(it.Key().(Value).CloneDeep(), it.Value().(Value).CloneDeep())
	}
	return &Map{m: cp}
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(elementString(e.Key))
		sb.WriteString(" |-> ")
		sb.WriteString(elementString(e.Val))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (m *Map) ToTerm() *Term {
	entries := m.Entries()
	children := make([]Value, len(entries))
	for i, e := range entries {
		children[i] = &Term{Tag: "^pair", Children: []Value{e.Key.ToTerm(), e.Val.ToTerm()}}
	}
	return &Term{Tag: "^map", Children: children}
}

func (m *Map) EqualStructural(other Value) bool { return m.CompareTotal(other) == 0 }

func (m *Map) CompareTotal(other Value) int {
	o, ok := other.(*Map)
	if !ok {
		return variantRank(TypeMap) - variantRank(other.Type())
	}
	ea, eb := m.Entries(), o.Entries()
	for i := 0; i < len(ea) && i < len(eb); i++ {
		if c := ea[i].Key.CompareTotal(eb[i].Key); c != 0 {
			return c
		}
		if c := ea[i].Val.CompareTotal(eb[i].Val); c != 0 {
			return c
		}
	}
	switch {
	case len(ea) < len(eb):
		return -1
	case len(ea) > len(eb):
		return 1
	default:
		return 0
	}
}

func (m *Map) Size() (int, error) { return m.Len(), nil }

func (m *Map) RemoveFirst() (Value, Value, error) {
	entries := m.Entries()
	if len(entries) == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeFirst: empty map")
	}
	first := entries[0]
	pair := &Tuple{elems: []Value{first.Key, first.Val}}
	return pair, m.Without(first.Key), nil
}

func (m *Map) RemoveLast() (Value, Value, error) {
	entries := m.Entries()
	n := len(entries)
	if n == 0 {
		return nil, nil, NewErrorKind(UndefinedOperation, "removeLast: empty map")
	}
	last := entries[n-1]
	pair := &Tuple{elems: []Value{last.Key, last.Val}}
	return pair, m.Without(last.Key), nil
}
