package value

import (
	"errors"
	"testing"

	rttiruntime "github.com/wippyai/rtti-runtime"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/hostmem"
	"github.com/wippyai/rtti-runtime/typeid"
)

type counter struct {
	copies   int
	moves    int
	destroys int
}

func countingCodec(c *counter) Func[uint64] {
	return Func[uint64]{
		Name:      "test::Counted",
		ByteSize:  8,
		ByteAlign: 8,
		StoreFn: func(mem rttiruntime.Memory, addr uint32, v uint64) error {
			return mem.WriteU64(addr, v)
		},
		LoadFn: func(mem rttiruntime.Memory, addr uint32) (uint64, error) {
			return mem.ReadU64(addr)
		},
		Table: &VTable{
			Copy: func(h Heap, dst, src uint32) error {
				c.copies++
				v, err := h.ReadU64(src)
				if err != nil {
					return err
				}
				return h.WriteU64(dst, v)
			},
			Move: func(h Heap, dst, src uint32) error {
				c.moves++
				v, err := h.ReadU64(src)
				if err != nil {
					return err
				}
				return h.WriteU64(dst, v)
			},
			Destroy: func(h Heap, addr uint32) error {
				c.destroys++
				return nil
			},
		},
	}
}

func TestOf_Scalars(t *testing.T) {
	h := hostmem.NewLocal(1024)

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"i32", func(t *testing.T) {
			v, err := Of(h, I32, -7, typeid.None)
			if err != nil {
				t.Fatal(err)
			}
			defer v.Release()
			got, err := As(v, I32)
			if err != nil || got != -7 {
				t.Errorf("As = %d, %v; want -7", got, err)
			}
			if v.ID() != typeid.FromName("int") {
				t.Errorf("ID = %v, want id of int", v.ID())
			}
			if v.Size() != 4 {
				t.Errorf("Size = %d, want 4", v.Size())
			}
		}},
		{"f64", func(t *testing.T) {
			v, err := Of(h, F64, 2.5, typeid.None)
			if err != nil {
				t.Fatal(err)
			}
			defer v.Release()
			got, _ := As(v, F64)
			if got != 2.5 {
				t.Errorf("As = %v, want 2.5", got)
			}
		}},
		{"bool", func(t *testing.T) {
			v, err := Of(h, Bool, true, typeid.None)
			if err != nil {
				t.Fatal(err)
			}
			defer v.Release()
			got, _ := As(v, Bool)
			if !got {
				t.Error("As = false, want true")
			}
		}},
		{"u16 explicit id", func(t *testing.T) {
			id := typeid.FromName("app::Port")
			v, err := Of(h, U16, 8080, id)
			if err != nil {
				t.Fatal(err)
			}
			defer v.Release()
			if v.ID() != id {
				t.Errorf("ID = %v, want %v", v.ID(), id)
			}
			b, _ := v.Bytes()
			if len(b) != 2 || b[0] != 0x90 || b[1] != 0x1f {
				t.Errorf("Bytes = %x, want 901f", b)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}

	if live := h.Live(); live != 0 {
		t.Errorf("live allocations = %d, want 0", live)
	}
}

func TestLifecycle_DestroyOncePerBuffer(t *testing.T) {
	h := hostmem.NewLocal(1024)
	var c counter
	codec := countingCodec(&c)

	orig, err := Of[uint64](h, codec, 99, typeid.None)
	if err != nil {
		t.Fatal(err)
	}
	a, err := orig.Clone()
	if err != nil {
		t.Fatal(err)
	}
	b, err := a.Clone()
	if err != nil {
		t.Fatal(err)
	}
	moved := b.Move()

	if b.Owned() {
		t.Error("moved-from value still owns its buffer")
	}
	if got, _ := As[uint64](moved, codec); got != 99 {
		t.Errorf("moved value = %d, want 99", got)
	}

	for _, v := range []*Value{orig, a, b, moved} {
		v.Release()
		v.Release()
	}

	if c.copies != 2 {
		t.Errorf("copies = %d, want 2", c.copies)
	}
	if c.destroys != 3 {
		t.Errorf("destroys = %d, want 3", c.destroys)
	}
	if live := h.Live(); live != 0 {
		t.Errorf("live allocations = %d, want 0", live)
	}
}

func TestConstruct(t *testing.T) {
	h := hostmem.NewLocal(1024)
	var c counter
	codec := countingCodec(&c)
	id := typeid.FromName(codec.Name)

	src, err := Of[uint64](h, codec, 5, typeid.None)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Release()

	moved, err := Construct(h, id, 8, 8, codec.Table, src.Addr(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer moved.Release()
	copied, err := Construct(h, id, 8, 8, codec.Table, src.Addr(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer copied.Release()

	if c.moves != 1 || c.copies != 1 {
		t.Errorf("moves = %d, copies = %d; want 1, 1", c.moves, c.copies)
	}

	_, err = Construct(h, id, 8, 8, &VTable{}, src.Addr(), false)
	if !errors.Is(err, rtterrors.ErrInvalidType) {
		t.Errorf("Construct without ops: err = %v, want InvalidType", err)
	}
}

func TestClone_Uncopyable(t *testing.T) {
	h := hostmem.NewLocal(256)
	codec := Func[uint32]{
		Name: "test::Unique", ByteSize: 4, ByteAlign: 4,
		StoreFn: func(mem rttiruntime.Memory, addr uint32, v uint32) error { return mem.WriteU32(addr, v) },
		LoadFn:  func(mem rttiruntime.Memory, addr uint32) (uint32, error) { return mem.ReadU32(addr) },
		Table:   &VTable{Destroy: func(Heap, uint32) error { return nil }},
	}
	v, err := Of[uint32](h, codec, 1, typeid.None)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Release()

	defer func() {
		if _, ok := recover().(*rtterrors.FatalError); !ok {
			t.Error("expected fatal error cloning uncopyable value")
		}
	}()
	_, _ = v.Clone()
}

func TestRelease_ClosedHeapSkipsDestroy(t *testing.T) {
	h := hostmem.NewLocal(256)
	var c counter
	v, err := Of[uint64](h, countingCodec(&c), 1, typeid.None)
	if err != nil {
		t.Fatal(err)
	}
	_ = h.Close()
	v.Release()
	if c.destroys != 0 {
		t.Errorf("destroys = %d after close, want 0", c.destroys)
	}
	if v.Owned() {
		t.Error("value still owned after Release")
	}
}

func TestPointerValues(t *testing.T) {
	h := hostmem.NewLocal(256)
	v, err := Of(h, U32, 0xdeadbeef, typeid.None)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Release()

	p := v.Ptr(typeid.None)
	if !p.IsPointer() || p.Owned() {
		t.Fatal("Ptr should return a non-owning inline pointer")
	}
	if p.PointerValue() != v.Addr() {
		t.Errorf("PointerValue = %d, want %d", p.PointerValue(), v.Addr())
	}
	if p.ID() != v.ID().AddPointer() {
		t.Errorf("pointer id = %v, want %v", p.ID(), v.ID().AddPointer())
	}
	if got, _ := As(p, U32); got != 0xdeadbeef {
		t.Errorf("read through pointer = %x", got)
	}

	c, _ := p.Clone()
	if c.PointerValue() != p.PointerValue() || c.Owned() {
		t.Error("pointer clone should duplicate the address only")
	}
	p.Release()
	if got, _ := As(v, U32); got != 0xdeadbeef {
		t.Error("releasing a pointer must not touch the pointee")
	}

	b, _ := p.Bytes()
	if len(b) != 4 {
		t.Errorf("pointer Bytes len = %d, want 4", len(b))
	}
}

func TestAsChecked(t *testing.T) {
	h := hostmem.NewLocal(256)
	v, err := Of(h, I64, 12, typeid.None)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Release()

	if got, err := AsChecked(v, I64, typeid.FromName("long")); err != nil || got != 12 {
		t.Errorf("AsChecked = %d, %v", got, err)
	}
	if _, err := AsChecked(v, I32, typeid.FromName("int")); !errors.Is(err, rtterrors.ErrWrongType) {
		t.Errorf("AsChecked wrong id: err = %v, want WrongType", err)
	}

	CheckTags = true
	defer func() { CheckTags = false }()
	if _, err := As(v, I32); !errors.Is(err, rtterrors.ErrWrongType) {
		t.Errorf("As with CheckTags: err = %v, want WrongType", err)
	}
}

func TestNone(t *testing.T) {
	v := None()
	if !v.IsNone() {
		t.Error("None should be empty")
	}
	v.Release()
	if _, err := As(v, I32); err == nil {
		t.Error("reading an empty value should fail")
	}
}

func TestVTables(t *testing.T) {
	cache := NewVTables()
	id := typeid.FromName("app::Foo")
	built := 0
	mk := func() *VTable {
		built++
		return RawCopy(4)
	}
	a := cache.GetOrCreate(id, mk)
	b := cache.GetOrCreate(id, mk)
	if a != b || built != 1 {
		t.Errorf("GetOrCreate built %d tables, want 1 shared", built)
	}
	if _, ok := cache.Get(typeid.FromName("app::Bar")); ok {
		t.Error("unexpected table for unknown id")
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}
