// Package module wires assignment into the API using modkit
package module

import (
	"net/http"
	"sync"

	"depotmap/internal/core/depot"
	modkit "depotmap/internal/modkit"
	"depotmap/internal/modkit/httpkit"
	"depotmap/internal/platform/net/http/bind"
	str "depotmap/internal/platform/strings"
	assignhttp "depotmap/internal/services/assign/http"
	assignsvc "depotmap/internal/services/assign/service"
	recdom "depotmap/internal/services/reconcile/domain"
)

// Ports defines the assign module ports
type Ports struct {
	Assigner *assignsvc.Service
}

// Module implements the assign module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)

	svc *assignsvc.Service
}

var registerTagOnce sync.Once

// New constructs the assign module over a reconciled result
func New(deps modkit.Deps, pack *depot.Pack, res *recdom.Result, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("assign"), modkit.WithPrefix("/")}, opts...)...)

	svc := assignsvc.New(pack, res)

	// payload validation knows the canonical codes, so bad input never
	// reaches the service
	registerTagOnce.Do(func() {
		_ = bind.RegisterValidation("depot_code", func(fl bind.FieldLevel) bool {
			_, ok := pack.ByCode(fl.Field().String())
			return ok
		})
		bind.RegisterMessage("depot_code", "must be a canonical depot code")
	})

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
	}
	m.ports = Ports{Assigner: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		assignhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module port set
func (m *Module) Ports() any { return m.ports }
