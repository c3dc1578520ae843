package modkit

import (
	"net/http"
	"reflect"
	"testing"

	"depotmap/internal/modkit/httpkit"
)

func TestBuild_Defaults(t *testing.T) {
	b := Build()

	if b.Name != "" || b.Prefix != "" {
		t.Fatalf("defaults = %q/%q, want empty", b.Name, b.Prefix)
	}
	if b.Ports != nil {
		t.Fatal("default Ports non-nil")
	}
	if len(b.Mw) != 0 {
		t.Fatalf("default Mw length = %d", len(b.Mw))
	}

	// register defaults to a no-op
	var r httpkit.Router
	b.Register(r)
}

func TestBuild_OptionsAndCopySemantics(t *testing.T) {
	fnPtr := func(f func(http.Handler) http.Handler) uintptr {
		return reflect.ValueOf(f).Pointer()
	}

	mwA := func(next http.Handler) http.Handler { return next }
	mwB := func(next http.Handler) http.Handler { return next }
	mid := []func(http.Handler) http.Handler{mwA, mwB}

	type ports struct{ Areas int }
	p := ports{Areas: 3}

	b := Build(
		WithName("assign"),
		WithPrefix("/"),
		WithMiddlewares(mid...),
		WithPorts[ports](p),
	)

	if b.Name != "assign" || b.Prefix != "/" {
		t.Fatalf("name/prefix = %q/%q", b.Name, b.Prefix)
	}
	if got, ok := b.Ports.(ports); !ok || got != p {
		t.Fatalf("Ports = %v", b.Ports)
	}

	// middleware slice is copied, mutating the source must not leak in
	mwC := func(next http.Handler) http.Handler { return next }
	mid[0] = mwC
	if len(b.Mw) != 2 || fnPtr(b.Mw[0]) != fnPtr(mwA) || fnPtr(b.Mw[1]) != fnPtr(mwB) {
		t.Fatal("Built.Mw changed after source slice mutation")
	}
}

func TestBuild_RegisterHook(t *testing.T) {
	called := 0
	b := Build(WithRegister(func(httpkit.Router) { called++ }))

	var r httpkit.Router
	b.Register(r)
	if called != 1 {
		t.Fatalf("register hook called %d times", called)
	}
}
