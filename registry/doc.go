// Package registry holds loaded type and function descriptors and answers
// queries over them.
//
// A Registry is populated once: modules are queued with AddModule and
// ingested by Load, which decodes each module's streams, patches side-table
// indices into live closures and values, merges colliding types and builds
// the reverse indices. Loading twice is a programmer error.
//
//	reg := registry.New(registry.WithLogger(log))
//	reg.AddModule(registry.Module{Streams: st, Tables: tables})
//	if err := reg.Load(); err != nil {
//	    return err
//	}
//	foo, ok := reg.TypeByName("app::Foo")
//
// Population is not safe for concurrent use. After Load returns, lookups
// may run from any number of goroutines.
package registry
