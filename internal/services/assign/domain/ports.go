package domain

import (
	"context"
	"io"

	"github.com/paulmach/orb/geojson"

	recdom "depotmap/internal/services/reconcile/domain"
)

// AssignerPort is the public port exposed by the assign module
type AssignerPort interface {
	// Collection returns the annotated FeatureCollection for the map
	Collection() *geojson.FeatureCollection
	// Summary returns per-depot counts
	Summary() Summary
	// Reassign sets the depot on one in-scope area, last write wins
	Reassign(ctx context.Context, areaID, depotCode string) (AreaRow, error)
	// Depots returns the canonical depot set with pins
	Depots() []DepotInfo
	// Report returns the warning report from the last regeneration
	Report() recdom.Report
	// ExportCSV writes assignment rows in input collection order
	ExportCSV(w io.Writer) error
}
