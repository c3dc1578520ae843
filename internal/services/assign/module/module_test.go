package module

import (
	"testing"

	"depotmap/internal/core/depot"
	modkit "depotmap/internal/modkit"
	recdom "depotmap/internal/services/reconcile/domain"
)

func TestNew_MountedAtVersionRoot(t *testing.T) {
	// same construction the api composer uses: default options, no overrides
	m := New(modkit.Deps{}, depot.MustLoad(), &recdom.Result{})

	if got := m.Name(); got != "assign" {
		t.Fatalf("Name() = %q, want assign", got)
	}
	if got := m.Prefix(); got != "/" {
		t.Fatalf("Prefix() = %q, want /", got)
	}
	if _, ok := m.Ports().(Ports); !ok {
		t.Fatalf("Ports() = %T, want module.Ports", m.Ports())
	}
}

func TestNew_PrefixOverride(t *testing.T) {
	m := New(modkit.Deps{}, depot.MustLoad(), &recdom.Result{}, modkit.WithPrefix("assignments/"))
	if got := m.Prefix(); got != "/assignments" {
		t.Fatalf("Prefix() = %q, want /assignments", got)
	}
}
