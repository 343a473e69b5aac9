package registry

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/stream"
	"github.com/wippyai/rtti-runtime/typeid"
	"github.com/wippyai/rtti-runtime/value"
)

// SideTables carry the live data a module's streams refer to by index.
type SideTables struct {
	Adjusters      []descriptor.AdjustFunc
	Constants      []*value.Value
	TemplateValues []*value.Value
	Invokers       []descriptor.Invoker
	RuntimeHashes  []uint64
}

// Module is one unit of descriptor data.
type Module struct {
	Name    string
	Streams stream.Streams
	Tables  SideTables

	// DescriptorOnly loads the streams without side-tables. Indices are
	// not range-checked and adjusters, invokers and constants stay nil.
	DescriptorOnly bool
}

// Registry is a loaded set of descriptors.
type Registry struct {
	log         *zap.Logger
	onCollision CollisionFunc

	pending []Module
	loaded  bool
	closed  bool

	types       map[typeid.ID]*descriptor.Type
	byHash      map[uint64]*descriptor.Type
	functions   map[string][]*descriptor.OverloadSet
	byFuncType  map[typeid.ID][]*descriptor.Function
	typeAliases []*descriptor.TypeAlias
	nsAliases   []*descriptor.NamespaceAlias
	usings      []*descriptor.NamespaceUsing

	vtables *value.VTables
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:         Logger(),
		onCollision: FailOnCollision,
		types:       make(map[typeid.ID]*descriptor.Type),
		byHash:      make(map[uint64]*descriptor.Type),
		functions:   make(map[string][]*descriptor.OverloadSet),
		byFuncType:  make(map[typeid.ID][]*descriptor.Function),
		vtables:     value.NewVTables(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		if defaultRegistry == nil {
			defaultRegistry = New()
		}
	})
	return defaultRegistry
}

// SetDefault replaces the process-wide registry. Call it during program
// start-up, before any goroutine uses Default.
func SetDefault(r *Registry) {
	defaultRegistry = r
}

// SetCollisionCallback replaces the collision policy.
func (r *Registry) SetCollisionCallback(fn CollisionFunc) {
	if fn == nil {
		fn = FailOnCollision
	}
	r.onCollision = fn
}

// AddModule queues a module for the next Load.
func (r *Registry) AddModule(m Module) {
	r.pending = append(r.pending, m)
}

// Loaded reports whether Load has run.
func (r *Registry) Loaded() bool {
	return r.loaded
}

// Close marks the registry torn down. Values built by MakeForID stop running
// their destructors afterwards.
func (r *Registry) Close() {
	r.closed = true
	r.loaded = false
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	return r.closed
}

// Load ingests every queued module. Calling Load twice is fatal.
func (r *Registry) Load() error {
	if r.loaded || r.closed {
		rtterrors.Fail("load() called twice")
	}
	r.loaded = true

	for _, m := range r.pending {
		if err := r.loadModule(m); err != nil {
			return err
		}
	}
	r.pending = nil

	for _, t := range r.types {
		if t.RuntimeHash != 0 {
			r.byHash[t.RuntimeHash] = t
		}
	}

	r.log.Info("registry loaded",
		zap.Int("types", len(r.types)),
		zap.Int("functions", len(r.functions)),
		zap.Int("type_aliases", len(r.typeAliases)),
		zap.Int("namespace_aliases", len(r.nsAliases)),
		zap.Int("usings", len(r.usings)))
	return nil
}

func (r *Registry) loadModule(m Module) error {
	set, err := stream.Decode(m.Streams)
	if err != nil {
		return err
	}

	p := patcher{tables: &m.Tables, module: m.Name, skip: m.DescriptorOnly}
	for _, t := range set.Types {
		p.patchType(t)
	}
	for _, s := range set.Functions {
		p.patchOverloadSet(s)
	}
	if p.err != nil {
		return p.err
	}

	if err := r.RegisterBatch(set.Types); err != nil {
		return err
	}
	r.RegisterFunctions(set.Functions)
	r.typeAliases = append(r.typeAliases, set.TypeAliases...)
	r.nsAliases = append(r.nsAliases, set.NamespaceAliases...)
	r.usings = append(r.usings, set.Usings...)

	r.log.Debug("module ingested",
		zap.String("module", m.Name),
		zap.Int("types", len(set.Types)))
	return nil
}
