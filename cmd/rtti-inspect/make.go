package main

import (
	"context"
	"fmt"
	"io"

	"github.com/wippyai/rtti-runtime/config"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/registry"
)

// makeValue default-constructs a value of the named type on the configured
// heap and dumps its bytes. Records need a trivial default constructor since
// bundles carry no invokers.
func makeValue(ctx context.Context, w io.Writer, cfg *config.Config, reg *registry.Registry, name string) (err error) {
	t, ok := reg.TypeByName(name)
	if !ok {
		return rtterrors.NotFound(rtterrors.PhaseLookup, "type", name)
	}

	h, err := cfg.NewHeap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	defer rtterrors.Recover(&err)
	v, err := reg.MakeForID(h, t.ID)
	if err != nil {
		return err
	}
	defer v.Release()

	b, err := v.Bytes()
	if err != nil {
		return err
	}
	kind := "owned"
	if v.IsPointer() {
		kind = "pointer"
	}
	fmt.Fprintf(w, "%s: %s, %d bytes at %#x (%s heap)\n", t.Name, kind, v.Size(), v.Addr(), cfg.HeapBackend)
	fmt.Fprintf(w, "% x\n", b)
	return nil
}
