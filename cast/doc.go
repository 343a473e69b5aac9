// Package cast computes pointer adjustments between related record types.
//
// Given a pointer to an object of record type from, the engine finds the
// displacement that turns it into a pointer to the to subobject (upcast) or
// to the enclosing to object (downcast), across single, multiple and virtual
// inheritance. Static base offsets are used where they suffice; bases that
// need a live object (virtual bases) use the adjustment closures patched
// into their descriptors, so the pointer must be valid for those hierarchies.
//
// The search order is:
//
//  1. identity
//  2. to is a vbase of from: adjust through that base directly
//  3. regular bases of from in declaration order, upward only
//  4. a depth-first search from to's bases looking for from, then adjusting
//     downward along the found path
//
// The first path found wins. Hierarchies with several distinct non-virtual
// paths to the same base are not detected as ambiguous; WithAmbiguityCheck
// logs them at debug level for the upward search.
package cast
