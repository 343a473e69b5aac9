// Package access reads and writes the members of record instances held in
// linear memory, and invokes the functions a registry describes.
//
// An instance is located by a value.Value: either an owned record value or a
// pointer value whose address is the start of the instance.
package access
