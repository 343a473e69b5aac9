package access

import (
	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/value"
)

// StaticConstant returns a non-owning view of a constexpr static member's
// value.
func StaticConstant(sf *descriptor.StaticField) (*value.Value, error) {
	if !sf.Constexpr || sf.Constant == nil {
		return nil, rtterrors.NotFound(rtterrors.PhaseAccess, "constant", sf.Name)
	}
	return view(sf.Constant)
}

// TemplateValue returns a non-owning view of a non-type template argument.
func TemplateValue(p *descriptor.TemplateParameter) (*value.Value, error) {
	if p.Typename || p.Value == nil {
		return nil, rtterrors.NotFound(rtterrors.PhaseAccess, "template value", p.Name)
	}
	return view(p.Value)
}

// view never hands out ownership of a side-table value.
func view(v *value.Value) (*value.Value, error) {
	if v.Owned() {
		return value.Reference(v.Heap(), v.ID(), v.Addr()), nil
	}
	return v.Clone()
}

// Invoke calls fn through its invoker. Member functions take the object
// pointer as the first argument.
func Invoke(fn *descriptor.Function, args ...*value.Value) (*value.Value, error) {
	if !fn.CanInvoke() {
		return nil, rtterrors.NotFound(rtterrors.PhaseAccess, "invoker", fn.QualifiedName)
	}
	if fn.IsDeleted {
		return nil, rtterrors.InvalidType(rtterrors.PhaseAccess, fn.QualifiedName, "function is deleted")
	}
	out, err := fn.Invoker(args...)
	if err != nil {
		return nil, rtterrors.Wrap(rtterrors.PhaseAccess, rtterrors.KindInvalidData, err, "invoke "+fn.QualifiedName)
	}
	if out == nil {
		out = value.None()
	}
	return out, nil
}

// InvokeByName picks the first overload of name on rec that has an invoker
// and accepts len(args) arguments, counting defaulted parameters as
// optional.
func InvokeByName(rec *descriptor.Type, name string, args ...*value.Value) (*value.Value, error) {
	if !rec.IsRecord() {
		return nil, rtterrors.InvalidType(rtterrors.PhaseAccess, rec.Name, "not a record type")
	}
	set, ok := rec.Record.FunctionSet(name)
	if !ok {
		return nil, rtterrors.NotFound(rtterrors.PhaseAccess, "function", name)
	}
	for _, fn := range set.Functions {
		if fn.CanInvoke() && !fn.IsDeleted && accepts(fn, len(args)) {
			return Invoke(fn, args...)
		}
	}
	return nil, rtterrors.New(rtterrors.PhaseAccess, rtterrors.KindNotFound).
		TypeName(rec.Name).
		Detail("no invokable overload of %s takes %d arguments", name, len(args)).
		Build()
}

func accepts(fn *descriptor.Function, n int) bool {
	if fn.IsMember && !fn.IsStatic {
		n--
	}
	required := 0
	for _, p := range fn.Parameters {
		if !p.Defaulted {
			required++
		}
	}
	return n >= required && n <= len(fn.Parameters)
}
