// Package stream encodes and decodes the five descriptor streams a module
// carries: functions, types, type aliases, namespace aliases and namespace
// usings.
//
// The encoding is positional with no versioning. Unsigned integers and
// lengths are LEB128, type ids are fixed 8-byte little-endian, booleans are
// one byte and strings are length-prefixed. Closures and constant values are
// not encoded; their side-table indices are, using descriptor.NoIndex when
// absent.
package stream
