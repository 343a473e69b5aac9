package registry

import (
	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
)

// patcher resolves side-table indices into live values, keeping the first
// out-of-range index as its error. With skip set every index is left
// unresolved.
type patcher struct {
	tables *SideTables
	module string
	skip   bool
	err    error
}

func (p *patcher) index(what string, idx uint64, n int) (int, bool) {
	if idx == descriptor.NoIndex || p.skip {
		return 0, false
	}
	if idx >= uint64(n) {
		if p.err == nil {
			p.err = rtterrors.New(rtterrors.PhaseLoad, rtterrors.KindOutOfBounds).
				Path(p.module, what).
				Value(idx).
				Detail("side-table index %d out of range (length %d)", idx, n).
				Build()
		}
		return 0, false
	}
	return int(idx), true
}

func (p *patcher) patchType(t *descriptor.Type) {
	if i, ok := p.index("runtime_hashes", t.RuntimeHashIndex, len(p.tables.RuntimeHashes)); ok {
		t.RuntimeHash = p.tables.RuntimeHashes[i]
	}
	if !t.IsRecord() {
		return
	}
	r := t.Record
	for _, tp := range r.TemplateParameters {
		if i, ok := p.index("template_values", tp.ValueIndex, len(p.tables.TemplateValues)); ok {
			tp.Value = p.tables.TemplateValues[i]
		}
	}
	for _, b := range r.Bases {
		if i, ok := p.index("adjusters", b.UpIndex, len(p.tables.Adjusters)); ok {
			b.Up = p.tables.Adjusters[i]
		}
		if i, ok := p.index("adjusters", b.DownIndex, len(p.tables.Adjusters)); ok {
			b.Down = p.tables.Adjusters[i]
		}
	}
	for _, sf := range r.StaticFields {
		if i, ok := p.index("constants", sf.ValueIndex, len(p.tables.Constants)); ok {
			sf.Constant = p.tables.Constants[i]
		}
	}
	for _, s := range r.Functions {
		p.patchOverloadSet(s)
	}
}

func (p *patcher) patchOverloadSet(s *descriptor.OverloadSet) {
	for _, f := range s.Functions {
		if i, ok := p.index("invokers", f.InvokerIndex, len(p.tables.Invokers)); ok {
			f.Invoker = p.tables.Invokers[i]
		}
	}
}
