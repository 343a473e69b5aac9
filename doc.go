// Package rttiruntime provides a runtime type-introspection engine.
//
// Descriptors for types, functions and fields are produced offline and
// shipped as positional byte streams together with side-tables of closures
// (constructors, destructors, pointer adjusters, invokers). The runtime loads
// them into a registry and uses them to manage type-erased values and to
// adjust pointers across inheritance hierarchies.
//
// # Architecture Overview
//
//	rttiruntime/         Root package with Memory and Allocator interfaces
//	├── typeid/          Stable type identifiers (FNV-1a of qualified names)
//	├── descriptor/      Passive type, field, base and function descriptors
//	├── hostmem/         Linear-memory heaps (local or wazero-backed)
//	├── value/           Type-erased value container
//	├── stream/          Descriptor stream codec
//	├── registry/        Type registry and value construction by id
//	├── cast/            Pointer adjustment across base hierarchies
//	├── access/          Field, static field and invocation helpers
//	├── bundle/          On-disk container for descriptor streams
//	├── config/          Runtime configuration
//	└── errors/          Structured error types
//
// # Quick Start
//
//	reg := registry.New()
//	reg.AddModule(registry.Module{Streams: streams, Tables: tables})
//	if err := reg.Load(); err != nil {
//	    log.Fatal(err)
//	}
//
//	heap := hostmem.NewLocal(1 << 16)
//	d, _ := reg.TypeByName("app::Derived")
//	b, _ := reg.TypeByName("app::Base")
//
//	obj, err := reg.MakeForID(heap, d.ID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer obj.Release()
//
//	eng := cast.New(reg)
//	basePtr, err := eng.Cast(obj.Ptr(d.ID.AddPointer()), d, b)
//
// # Memory Model
//
// Values live in a linear memory addressed by 32-bit offsets. Address 0 is
// never handed out and serves as the null pointer.
//
// # Thread Safety
//
// The registry is populated once, before any concurrent reads. Population is
// not synchronized. Values and heaps are not safe for concurrent use.
package rttiruntime
