package descriptor

import (
	"math"
	"slices"

	"github.com/wippyai/rtti-runtime/typeid"
	"github.com/wippyai/rtti-runtime/value"
)

// NoIndex marks a side-table index that is not present.
const NoIndex uint64 = math.MaxUint64

// AdjustFunc rewrites a pointer when crossing one inheritance edge.
type AdjustFunc func(ptr uint32) uint32

// Invoker calls a function. Member functions take the object pointer as
// their first argument.
type Invoker func(args ...*value.Value) (*value.Value, error)

// QualifiedType is a type reference with cv-qualifiers.
type QualifiedType struct {
	ID       typeid.ID
	Const    bool
	Volatile bool
}

// NoType is the empty type reference.
var NoType = QualifiedType{ID: typeid.None}

// Valid reports whether the reference names a type.
func (q QualifiedType) Valid() bool { return q.ID.Valid() }

// Type describes one type.
type Type struct {
	ID typeid.ID

	// RuntimeHash is the native runtime identity hash, patched from
	// RuntimeHashIndex at load. Zero means absent.
	RuntimeHash      uint64
	RuntimeHashIndex uint64

	Kind        Kind
	Name        string
	MangledName string

	// Type is the referenced type for pointers, references, arrays and
	// member pointers.
	Type QualifiedType

	Size  uint32
	Align uint32

	Annotations    []string
	DefinitionPath string

	Record    *Record
	Function  *FunctionType
	Array     *Array
	Enum      *Enum
	MemberPtr *MemberPtr
}

// IsRecord reports whether the type is a struct or union with a record
// payload.
func (t *Type) IsRecord() bool {
	return t.Kind.IsRecord() && t.Record != nil
}

// HasAnnotation reports whether a is among the type's annotations.
func (t *Type) HasAnnotation(a string) bool {
	return slices.Contains(t.Annotations, a)
}

// HasAnnotations reports whether every annotation in as is present.
func (t *Type) HasAnnotations(as ...string) bool {
	for _, a := range as {
		if !t.HasAnnotation(a) {
			return false
		}
	}
	return true
}

// Record is the layout payload of struct and union types.
type Record struct {
	QualifiedName      string
	TemplateParameters []*TemplateParameter

	// Bases lists regular bases and vbases in declaration order.
	Bases        []*Base
	TypeAliases  []*TypeAlias
	Fields       []*Field
	StaticFields []*StaticField
	Functions    []*OverloadSet

	IsPOD              bool
	TrivialDefaultCtor bool
	TrivialCopyCtor    bool
	TrivialCopyAssign  bool
	TrivialMoveCtor    bool
	TrivialMoveAssign  bool
	TrivialDtor        bool
	TriviallyCopyable  bool
	Abstract           bool
	Polymorphic        bool
	Dynamic            bool

	Size  uint32
	Align uint32
}

// Base is one inheritance edge.
type Base struct {
	ParentID typeid.ID
	ID       typeid.ID
	Access   Access

	// Virtual is set for virtually inherited bases. VBase is set when the
	// virtual base is stored on the parent itself.
	Virtual bool
	Primary bool
	VBase   bool

	// Offset is the displacement from the start of the parent instance to
	// the start of the base subobject.
	Offset uint32

	UpIndex   uint64
	DownIndex uint64
	Up        AdjustFunc
	Down      AdjustFunc
}

// CastUp adjusts a pointer to the parent into a pointer to this base.
func (b *Base) CastUp(ptr uint32) uint32 {
	if b.Up != nil {
		return b.Up(ptr)
	}
	return ptr + b.Offset
}

// CastDown adjusts a pointer to this base into a pointer to the parent.
func (b *Base) CastDown(ptr uint32) uint32 {
	if b.Down != nil {
		return b.Down(ptr)
	}
	return ptr - b.Offset
}

// Field is a non-static data member.
type Field struct {
	ParentID    typeid.ID
	Type        QualifiedType
	Name        string
	Offset      uint32
	Size        uint32
	Access      Access
	Mutable     bool
	BitField    bool
	BitSize     uint32
	BitOffset   uint32
	Annotations []string
}

// StaticField is a static data member. Constant holds the constexpr value
// when one was recorded.
type StaticField struct {
	ParentID    typeid.ID
	Type        QualifiedType
	Name        string
	Access      Access
	Constexpr   bool
	ValueIndex  uint64
	Constant    *value.Value
	Annotations []string
}

// TemplateParameter is one template argument of a record.
type TemplateParameter struct {
	Name       string
	Type       QualifiedType
	Typename   bool
	ValueIndex uint64
	Value      *value.Value
}

// Parameter is one declared function parameter.
type Parameter struct {
	Name      string
	Index     uint32
	Defaulted bool
}

// Function describes one function or member function declaration.
type Function struct {
	ParentID      typeid.ID
	ID            typeid.ID
	QualifiedName string
	Name          string

	IsMember    bool
	IsStatic    bool
	IsCtor      bool
	IsDtor      bool
	IsConverter bool
	IsExplicit  bool
	IsVirtual   bool
	IsDeleted   bool
	IsDefaulted bool

	Parameters     []Parameter
	Annotations    []string
	DefinitionPath string

	InvokerIndex uint64
	Invoker      Invoker
}

// CanInvoke reports whether an invoker is attached.
func (f *Function) CanInvoke() bool {
	return f.Invoker != nil
}

// OverloadSet groups the functions sharing one qualified name.
type OverloadSet struct {
	QualifiedName string
	Name          string
	Functions     []*Function
}

// FunctionType is the payload of function types.
type FunctionType struct {
	Return QualifiedType
	Params []QualifiedType
	Const  bool
	Ref    bool
	RRef   bool
}

// Array is the payload of array types.
type Array struct {
	Length uint32
}

// Enum is the payload of enum types.
type Enum struct {
	Underlying QualifiedType
	Values     map[string]int64
}

// Value returns the value of the enumerator called name.
func (e *Enum) Value(name string) (int64, bool) {
	v, ok := e.Values[name]
	return v, ok
}

// Names returns the enumerators with value v, sorted.
func (e *Enum) Names(v int64) []string {
	var out []string
	for n, x := range e.Values {
		if x == v {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

// MemberPtr is the payload of member pointer types.
type MemberPtr struct {
	Class QualifiedType
}

// TypeAlias is "using Name = Aliased".
type TypeAlias struct {
	Name    string
	Aliased QualifiedType
}

// NamespaceAlias is "namespace Name = Aliased", both fully qualified.
type NamespaceAlias struct {
	Name    string
	Aliased string
}

// NamespaceUsing is "using namespace Used" appearing inside Containing.
type NamespaceUsing struct {
	Containing string
	Used       string
}
