package descriptor

import "strings"

// DeclarationName returns the type name without namespace qualification or
// template arguments: "app::Vec<int>" becomes "Vec".
func (t *Type) DeclarationName() string {
	name := t.Name
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Constructors returns the record's constructor overload set.
func (t *Type) Constructors() (*OverloadSet, bool) {
	if !t.IsRecord() {
		return nil, false
	}
	return t.Record.FunctionSet(t.DeclarationName())
}

// DefaultConstructor returns a constructor callable without arguments: one
// with no parameters or with every parameter defaulted.
func (t *Type) DefaultConstructor() (*Function, bool) {
	set, ok := t.Constructors()
	if !ok {
		return nil, false
	}
	for _, f := range set.Functions {
		if allDefaulted(f.Parameters) {
			return f, true
		}
	}
	return nil, false
}

func allDefaulted(ps []Parameter) bool {
	for _, p := range ps {
		if !p.Defaulted {
			return false
		}
	}
	return true
}

// CopyConstructor returns the constructor taking a single reference to this
// type, with any qualifiers.
func (t *Type) CopyConstructor(res Resolver) (*Function, bool) {
	set, ok := t.Constructors()
	if !ok {
		return nil, false
	}
	return t.findSingleParam(res, set, KindRef)
}

// MoveConstructor returns the constructor taking a single rvalue reference to
// this type.
func (t *Type) MoveConstructor(res Resolver) (*Function, bool) {
	set, ok := t.Constructors()
	if !ok {
		return nil, false
	}
	return t.findSingleParam(res, set, KindRRef)
}

// CopyAssignment returns operator= taking a single reference to this type.
func (t *Type) CopyAssignment(res Resolver) (*Function, bool) {
	if !t.IsRecord() {
		return nil, false
	}
	set, ok := t.Record.FunctionSet("operator=")
	if !ok {
		return nil, false
	}
	return t.findSingleParam(res, set, KindRef)
}

// MoveAssignment returns operator= taking a single rvalue reference to this
// type.
func (t *Type) MoveAssignment(res Resolver) (*Function, bool) {
	if !t.IsRecord() {
		return nil, false
	}
	set, ok := t.Record.FunctionSet("operator=")
	if !ok {
		return nil, false
	}
	return t.findSingleParam(res, set, KindRRef)
}

// Destructor returns the record's destructor.
func (t *Type) Destructor() (*Function, bool) {
	if !t.IsRecord() {
		return nil, false
	}
	return t.Record.Function("~" + t.DeclarationName())
}

func (t *Type) findSingleParam(res Resolver, set *OverloadSet, kind Kind) (*Function, bool) {
	for _, f := range set.Functions {
		if len(f.Parameters) != 1 {
			continue
		}
		pt, ok := ParameterType(res, f, 0)
		if !ok || pt.Kind != kind || pt.Type.ID != t.ID {
			continue
		}
		return f, true
	}
	return nil, false
}

// ParameterType resolves the declared type of parameter i of f through the
// function's type descriptor.
func ParameterType(res Resolver, f *Function, i int) (*Type, bool) {
	ft, ok := res.TypeByID(f.ID)
	if !ok || ft.Function == nil || i >= len(ft.Function.Params) {
		return nil, false
	}
	return res.TypeByID(ft.Function.Params[i].ID)
}
