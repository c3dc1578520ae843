package service

import (
	"depotmap/internal/adapters/ingest/boundary"
	"depotmap/internal/core/areakey"
	"depotmap/internal/core/depot"
	"depotmap/internal/services/reconcile/domain"
)

// markScope flags areas outside the depots' operational territory.
// An area is out of scope when it ended the match unassigned and its
// municipality is not in the historically operated set, or when the
// reference marks the territory as belonging to no municipality.
// Out-of-scope areas stay in the output so the map can gray them out,
// but their depot value is frozen for the assignment workflow
func markScope(pack *depot.Pack, keys *areakey.Normalizer, areas []*domain.AdminArea) {
	unassignedCanon := keys.CanonName(boundary.UnassignedMarker)
	for _, a := range areas {
		switch {
		case keys.CanonName(a.Municipality) == unassignedCanon:
			a.InScope = false
		case a.DepotCode == "" && !pack.Operational(a.Municipality):
			a.InScope = false
		default:
			a.InScope = true
		}
	}
}
