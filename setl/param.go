// Copyright © 2026 The SetlX authors

package setl

// ParamMode distinguishes the three ways a procedure parameter can bind an
// argument.
type ParamMode int

const (
	// ModeValue binds the argument by value: mutations the callee makes to
	// the parameter inside its own scope are never visible to the caller.
	ModeValue ParamMode = iota
	// ModeReadWrite binds the argument as passed, without the deep clone
	// ModeValue makes, and additionally queues a write-back: after the call
	// returns normally, the parameter's final value is assigned back into
	// the variable the caller passed, provided the caller passed an
	// assignable expression rather than a literal.
	ModeReadWrite
	// ModeListPattern collects every remaining positional argument into a
	// single List bound to the parameter. At most one parameter in a
	// descriptor list may use this mode, and it must be the last one.
	ModeListPattern
)

func (m ParamMode) String() string {
	switch m {
	case ModeValue:
		return "value"
	case ModeReadWrite:
		return "read-write"
	case ModeListPattern:
		return "list-pattern"
	default:
		return "invalid"
	}
}

// Parameter describes one formal parameter of a Procedure: its binding
// identifier, the mode it binds under, and an optional default value used
// when the call supplies fewer positional arguments than there are
// parameters.
type Parameter struct {
	Name    *Ident
	Mode    ParamMode
	Default Value // nil if the parameter has no default
}

// NewParameter returns a by-value parameter with no default.
func NewParameter(name *Ident) Parameter {
	return Parameter{Name: name, Mode: ModeValue}
}

// WithMode returns a copy of p with its mode changed.
func (p Parameter) WithMode(mode ParamMode) Parameter {
	p.Mode = mode
	return p
}

// WithDefault returns a copy of p carrying the given default value.
func (p Parameter) WithDefault(v Value) Parameter {
	p.Default = v
	return p
}

// AssignInto binds v (or p.Default if v is nil) into scope under p's name,
// as a fresh local binding. ModeListPattern parameters expect v to already
// be the collected List of trailing arguments.
func (p Parameter) AssignInto(scope *Scope, v Value) error {
	if v == nil {
		if p.Default == nil {
			return NewErrorKind(UndefinedOperation, "missing argument for parameter %s and no default given", p.Name)
		}
		v = p.Default.CloneDeep()
	}
	scope.Bind(p.Name, v)
	return nil
}

// ReadBack returns p's current value in scope, for write-back of
// ModeReadWrite parameters after a call returns.
func (p Parameter) ReadBack(scope *Scope) (Value, error) {
	v, ok := scope.Lookup(p.Name)
	if !ok {
		return nil, NewErrorKind(UndefinedOperation, "read-write parameter %s has no binding to read back", p.Name)
	}
	return v, nil
}

// ToTerm reifies p into its canonical symbolic form: ^param(name, mode tag).
func (p Parameter) ToTerm() *Term {
	modeTag := "^pmValue"
	switch p.Mode {
	case ModeReadWrite:
		modeTag = "^pmReadWrite"
	case ModeListPattern:
		modeTag = "^pmListPattern"
	}
	children := []Value{String(p.Name.Name()), &Term{Tag: modeTag}}
	if p.Default != nil {
		children = append(children, p.Default.ToTerm())
	}
	return &Term{Tag: "^param", Children: children}
}

// ParameterFromTerm reconstructs a Parameter from its ^param term.
func ParameterFromTerm(t *Term) (Parameter, error) {
	if t.Tag != "^param" {
		return Parameter{}, NewErrorKind(TermConversion, "expected ^param, got %s", t.Tag)
	}
	if len(t.Children) != 2 && len(t.Children) != 3 {
		return Parameter{}, NewErrorKind(TermConversion, "malformed ^param: expected 2 or 3 children, got %d", len(t.Children))
	}
	nameVal, ok := t.Children[0].(String)
	if !ok {
		return Parameter{}, NewErrorKind(TermConversion, "malformed ^param: name is not a string")
	}
	modeTerm, ok := t.Children[1].(*Term)
	if !ok {
		return Parameter{}, NewErrorKind(TermConversion, "malformed ^param: mode is not a term")
	}
	var mode ParamMode
	switch modeTerm.Tag {
	case "^pmValue":
		mode = ModeValue
	case "^pmReadWrite":
		mode = ModeReadWrite
	case "^pmListPattern":
		mode = ModeListPattern
	default:
		return Parameter{}, NewErrorKind(TermConversion, "malformed ^param: unknown mode tag %s", modeTerm.Tag)
	}
	p := Parameter{Name: Intern(string(nameVal)), Mode: mode}
	if len(t.Children) == 3 {
		defTerm, ok := t.Children[2].(*Term)
		if !ok {
			return Parameter{}, NewErrorKind(TermConversion, "malformed ^param: default is not a term")
		}
		def, err := FromTerm(defTerm)
		if err != nil {
			return Parameter{}, err
		}
		p.Default = def
	}
	return p, nil
}
