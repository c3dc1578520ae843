// Package module wires the reconcile pipeline from deps and input specs
package module

import (
	"fmt"

	"depotmap/internal/adapters/ingest/baseline"
	"depotmap/internal/adapters/ingest/boundary"
	"depotmap/internal/core/depot"
	"depotmap/internal/modkit"
	"depotmap/internal/services/reconcile/domain"
	"depotmap/internal/services/reconcile/service"
)

// SourceSpec names one fine-grained boundary input
type SourceSpec struct {
	// Name labels the source in records, logs, and the report
	Name string
	// Schema selects the registered attribute schema
	Schema string
	// Path is the geojson file or zip archive
	Path string
}

// Inputs are the resolved file inputs for one regeneration run
type Inputs struct {
	ReferencePath string
	Sources       []SourceSpec
	BaselinePath  string
}

// Ports defines the reconcile module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the reconcile module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New wires the depot pack, baseline, and boundary sources into the service.
// Missing required inputs and unknown schemas fail here, before any work runs
func New(deps modkit.Deps, in Inputs) (*Module, error) {
	opts := FromConfig(deps.Cfg)

	if in.ReferencePath == "" {
		return nil, fmt.Errorf("reconcile: reference boundary path is required")
	}
	if in.BaselinePath == "" {
		return nil, fmt.Errorf("reconcile: baseline csv path is required")
	}

	pack, err := depot.Load()
	if err != nil {
		return nil, err
	}

	rows, err := baseline.Read(in.BaselinePath)
	if err != nil {
		return nil, err
	}

	fine := make([]boundary.Source, 0, len(in.Sources))
	for _, spec := range in.Sources {
		schema, ok := boundary.SchemaByID(spec.Schema)
		if !ok {
			return nil, fmt.Errorf("reconcile: unknown source schema %q (have %v)", spec.Schema, boundary.SchemaIDs())
		}
		fine = append(fine, boundary.NewTownSource(spec.Name, spec.Path, schema))
	}

	svc := service.New(
		boundary.NewReferenceSource(in.ReferencePath),
		fine,
		rows,
		pack,
		service.Config{Workers: opts.Workers},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m, nil
}

// Ports returns the module port set
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "reconcile" }

// Runner returns the typed runner port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }
