// Package descriptor defines the passive descriptor model: types, record
// layouts, bases, fields, functions and the namespace data used for name
// resolution.
//
// Descriptors are produced offline, decoded from streams by the registry and
// patched with live closures from side-tables at load time. After loading
// they are read-only.
package descriptor
