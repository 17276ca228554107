// Copyright © 2026 The SetlX authors

package setl

import "strings"

// Object is a runtime object: a flat namespace of members, some of which
// may be Procedure values invoked through method dispatch. An Object is what
// Procedure.Call receives as its boundObject argument when the procedure
// was retrieved through member access rather than a plain variable lookup.
type Object struct {
	Members map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{Members: make(map[string]Value)}
}

func (o *Object) Type() ValueType { return TypeObject }

func (o *Object) Get(name string) (Value, bool) {
	v, ok := o.Members[name]
	return v, ok
}

func (o *Object) Put(name string, v Value) {
	o.Members[name] = v
}

func (o *Object) CloneDeep() Value {
	cp := NewObject()
	for k, v := range o.Members {
		cp.Members[k] = v.CloneDeep()
	}
	return cp
}

func (o *Object) String() string {
	var sb strings.Builder
	sb.WriteString("object{")
	first := true
	for _, k := range sortedKeys(o.Members) {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(elementString(o.Members[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o *Object) ToTerm() *Term {
	keys := sortedKeys(o.Members)
	children := make([]Value, len(keys))
	for i, k := range keys {
		children[i] = &Term{Tag: "^pair", Children: []Value{String(k).ToTerm(), o.Members[k].ToTerm()}}
	}
	return &Term{Tag: "^object", Children: children}
}

func (o *Object) EqualStructural(other Value) bool { return o.CompareTotal(other) == 0 }

func (o *Object) CompareTotal(other Value) int {
	p, ok := other.(*Object)
	if !ok {
		return variantRank(TypeObject) - variantRank(other.Type())
	}
	ak, bk := sortedKeys(o.Members), sortedKeys(p.Members)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if ak[i] != bk[i] {
			if ak[i] < bk[i] {
				return -1
			}
			return 1
		}
		if c := o.Members[ak[i]].CompareTotal(p.Members[bk[i]]); c != 0 {
			return c
		}
	}
	switch {
	case len(ak) < len(bk):
		return -1
	case len(ak) > len(bk):
		return 1
	default:
		return 0
	}
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Small maps, insertion sort is fine and avoids pulling in sort just
	// for this.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func init() {
	RegisterVariant("^object", func(t *Term) (Value, error) {
		o := NewObject()
		for _, c := range t.Children {
			pairTerm, ok := c.(*Term)
			if !ok || pairTerm.Tag != "^pair" {
				return nil, NewErrorKind(TermConversion, "malformed ^object: entry is not a ^pair")
			}
			if err := pairTerm.RequireArity(2); err != nil {
				return nil, err
			}
			kv, err := FromTerm(asTerm(pairTerm.Children[0]))
			if err != nil {
				return nil, err
			}
			ks, ok := kv.(String)
			if !ok {
				return nil, NewErrorKind(TermConversion, "malformed ^object: key is not a string")
			}
			vv, err := FromTerm(asTerm(pairTerm.Children[1]))
			if err != nil {
				return nil, err
			}
			o.Put(string(ks), vv)
		}
		return o, nil
	})
}
