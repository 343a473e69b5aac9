// Package value provides a type-erased value container.
//
// A Value holds either an inline pointer (pointer, reference and member
// pointer kinds: the address itself is the payload) or an owned buffer in a
// linear-memory heap. Owned buffers carry the VTable of their type, which
// knows how to copy, move and destroy instances of it:
//
//	v, err := value.Of(heap, value.I32, 42, typeid.None)
//	defer v.Release()
//
//	c, err := v.Clone()   // runs VTable.Copy into a fresh buffer
//	m := v.Move()         // v no longer owns its buffer
//
// Reads through As are unchecked: the caller is responsible for asking for
// the shape that was stored. AsChecked compares the stored type id first, and
// setting CheckTags makes As do the same for owned values.
package value
