package descriptor

// Kind classifies a type descriptor.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindVoid
	KindBool
	KindChar
	KindUChar
	KindUShort
	KindUInt
	KindULong
	KindULongLong
	KindSChar
	KindShort
	KindInt
	KindLong
	KindLongLong
	KindFloat
	KindDouble
	KindEnum
	KindFunc
	KindArray
	KindStruct
	KindUnion
	KindPtr
	KindRef
	KindRRef
	KindMemberPtr
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindVoid:      "void",
	KindBool:      "bool",
	KindChar:      "char",
	KindUChar:     "uchar",
	KindUShort:    "ushort",
	KindUInt:      "uint",
	KindULong:     "ulong",
	KindULongLong: "ulonglong",
	KindSChar:     "schar",
	KindShort:     "short",
	KindInt:       "int",
	KindLong:      "long",
	KindLongLong:  "longlong",
	KindFloat:     "float",
	KindDouble:    "double",
	KindEnum:      "enum",
	KindFunc:      "func",
	KindArray:     "array",
	KindStruct:    "struct",
	KindUnion:     "union",
	KindPtr:       "ptr",
	KindRef:       "ref",
	KindRRef:      "rref",
	KindMemberPtr: "member_ptr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return KindUnknown, false
}

// IsRecord reports struct and union kinds.
func (k Kind) IsRecord() bool {
	return k == KindStruct || k == KindUnion
}

// IsNominal reports kinds whose identity is their declared name.
func (k Kind) IsNominal() bool {
	return k.IsRecord() || k == KindEnum
}

func (k Kind) IsNumeric() bool {
	return k >= KindBool && k <= KindDouble
}

func (k Kind) IsIntegral() bool {
	return k >= KindBool && k <= KindLongLong
}

func (k Kind) IsFloatingPoint() bool {
	return k == KindFloat || k == KindDouble
}

// IsPointerLike reports kinds stored inline as an address.
func (k Kind) IsPointerLike() bool {
	return k == KindPtr || k == KindRef || k == KindRRef || k == KindMemberPtr
}

// Access is a member access specifier.
type Access uint8

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	}
	return "unknown"
}
