package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/rtti-runtime/cast"
	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
	"github.com/wippyai/rtti-runtime/value"
)

type styles struct {
	title    lipgloss.Style
	name     lipgloss.Style
	kind     lipgloss.Style
	fn       lipgloss.Style
	dim      lipgloss.Style
	selected lipgloss.Style
	err      lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		name:     lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		kind:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD580")),
		fn:       lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

func (s styles) typeLine(t *descriptor.Type) string {
	line := fmt.Sprintf("%-8s %s", s.kind.Render(t.Kind.String()), s.name.Render(t.Name))
	if len(t.Annotations) > 0 {
		line += " " + s.dim.Render("["+strings.Join(t.Annotations, ", ")+"]")
	}
	return line
}

func typeName(res descriptor.Resolver, q descriptor.QualifiedType) string {
	if !q.Valid() {
		return "?"
	}
	name := q.ID.String()
	if t, ok := res.TypeByID(q.ID); ok {
		name = t.Name
	}
	if q.Const {
		name = "const " + name
	}
	if q.Volatile {
		name = "volatile " + name
	}
	return name
}

func (s styles) describeType(res descriptor.Resolver, t *descriptor.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", s.title.Render(t.Kind.String()), s.name.Render(t.Name))
	fmt.Fprintf(&b, "  id      %s\n", t.ID)
	fmt.Fprintf(&b, "  size    %d (align %d)\n", t.Size, t.Align)
	if t.MangledName != "" {
		fmt.Fprintf(&b, "  mangled %s\n", t.MangledName)
	}
	if t.DefinitionPath != "" {
		fmt.Fprintf(&b, "  defined %s\n", t.DefinitionPath)
	}
	if len(t.Annotations) > 0 {
		fmt.Fprintf(&b, "  annotations %s\n", strings.Join(t.Annotations, ", "))
	}
	if t.Type.Valid() {
		fmt.Fprintf(&b, "  of      %s\n", typeName(res, t.Type))
	}

	switch {
	case t.Array != nil:
		fmt.Fprintf(&b, "  length  %d\n", t.Array.Length)
	case t.Enum != nil:
		b.WriteString("  enumerators\n")
		for _, name := range sortedEnumNames(t.Enum) {
			fmt.Fprintf(&b, "    %s = %d\n", name, t.Enum.Values[name])
		}
	case t.Function != nil:
		fmt.Fprintf(&b, "  signature %s\n", signature(res, t.Function))
	case t.IsRecord():
		s.describeRecord(&b, res, t.Record)
	}
	return b.String()
}

func sortedEnumNames(e *descriptor.Enum) []string {
	names := make([]string, 0, len(e.Values))
	for name := range e.Values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s styles) describeRecord(b *strings.Builder, res descriptor.Resolver, r *descriptor.Record) {
	if len(r.Bases) > 0 {
		b.WriteString("  bases\n")
		for _, base := range r.Bases {
			var flags []string
			if base.Virtual {
				flags = append(flags, "virtual")
			}
			if base.VBase {
				flags = append(flags, "vbase")
			}
			if base.Primary {
				flags = append(flags, "primary")
			}
			fmt.Fprintf(b, "    %s %s @%d %s\n", base.Access, typeName(res, descriptor.QualifiedType{ID: base.ID}),
				base.Offset, s.dim.Render(strings.Join(flags, " ")))
		}
	}
	if len(r.Fields) > 0 {
		b.WriteString("  fields\n")
		for _, f := range r.Fields {
			if f.BitField {
				fmt.Fprintf(b, "    %s %s : %d @bit %d\n", typeName(res, f.Type), s.name.Render(f.Name), f.BitSize, f.BitOffset)
				continue
			}
			fmt.Fprintf(b, "    %s %s @%d (%d bytes)\n", typeName(res, f.Type), s.name.Render(f.Name), f.Offset, f.Size)
		}
	}
	if len(r.StaticFields) > 0 {
		b.WriteString("  static fields\n")
		for _, f := range r.StaticFields {
			suffix := ""
			if f.Constexpr {
				suffix = s.dim.Render(" constexpr")
			}
			fmt.Fprintf(b, "    %s %s%s\n", typeName(res, f.Type), s.name.Render(f.Name), suffix)
		}
	}
	if len(r.TypeAliases) > 0 {
		b.WriteString("  aliases\n")
		for _, a := range r.TypeAliases {
			fmt.Fprintf(b, "    %s = %s\n", a.Name, typeName(res, a.Aliased))
		}
	}
	for _, set := range r.Functions {
		b.WriteString(s.describeOverloads(res, set))
	}
}

func (s styles) describeOverloads(res descriptor.Resolver, set *descriptor.OverloadSet) string {
	var b strings.Builder
	for _, f := range set.Functions {
		sig := "(?)"
		if ft, ok := res.TypeByID(f.ID); ok && ft.Function != nil {
			sig = signature(res, ft.Function)
		}
		line := "  " + s.fn.Render(f.QualifiedName) + " " + sig
		if !f.CanInvoke() {
			line += s.dim.Render(" (no invoker)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func signature(res descriptor.Resolver, ft *descriptor.FunctionType) string {
	params := make([]string, len(ft.Params))
	for i, p := range ft.Params {
		params[i] = typeName(res, p)
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if ft.Return.Valid() {
		sig += " -> " + typeName(res, ft.Return)
	}
	if ft.Const {
		sig += " const"
	}
	return sig
}

type lookup interface {
	descriptor.Resolver
	TypeByName(name string) (*descriptor.Type, bool)
}

// staticDiff computes a displacement without a live object. Hierarchies
// with virtual inheritance need one, so they are rejected.
func staticDiff(reg lookup, fromName, toName string) (int64, error) {
	from, ok := reg.TypeByName(fromName)
	if !ok {
		return 0, rtterrors.NotFound(rtterrors.PhaseLookup, "type", fromName)
	}
	to, ok := reg.TypeByName(toName)
	if !ok {
		return 0, rtterrors.NotFound(rtterrors.PhaseLookup, "type", toName)
	}
	for _, t := range []*descriptor.Type{from, to} {
		if hasVirtualBase(reg, t, map[typeid.ID]bool{}) {
			return 0, rtterrors.New(rtterrors.PhaseCast, rtterrors.KindCouldNotCast).
				TypeName(t.Name).
				Detail("hierarchy has virtual bases; the displacement needs a live object").
				Build()
		}
	}
	ptr := value.Pointer(nil, from.ID.AddPointer(), 0)
	return cast.New(reg).Diff(ptr, from, to)
}

func hasVirtualBase(res descriptor.Resolver, t *descriptor.Type, seen map[typeid.ID]bool) bool {
	if !t.IsRecord() || seen[t.ID] {
		return false
	}
	seen[t.ID] = true
	for _, b := range t.Record.Bases {
		if b.Virtual || b.VBase {
			return true
		}
		if bt, ok := res.TypeByID(b.ID); ok && hasVirtualBase(res, bt, seen) {
			return true
		}
	}
	return false
}
