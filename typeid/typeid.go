// Package typeid provides stable type identifiers.
//
// An ID is the 64-bit FNV-1a hash of a fully-qualified type name, so producer
// and consumer agree on ids without sharing any table.
package typeid

import (
	"cmp"
	"math"
	"strconv"
)

// ID identifies a type by the hash of its fully-qualified name.
type ID uint64

// None is the sentinel for "no type".
const None ID = math.MaxUint64

const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

// FromName returns the id for a fully-qualified type name.
func FromName(name string) ID {
	return ID(appendHash(fnvOffset, name))
}

// Valid returns true if id is not None.
func (id ID) Valid() bool { return id != None }

// AddPointer returns the id of a pointer to the type.
func (id ID) AddPointer() ID {
	return ID(appendHash(uint64(id), " *"))
}

// Compare orders ids numerically.
func (id ID) Compare(other ID) int {
	return cmp.Compare(id, other)
}

func (id ID) String() string {
	if id == None {
		return "none"
	}
	return "0x" + strconv.FormatUint(uint64(id), 16)
}

// appendHash continues an FNV-1a hash over s. An empty string hashes to 0.
func appendHash(h uint64, s string) uint64 {
	if len(s) == 0 {
		return 0
	}
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}
