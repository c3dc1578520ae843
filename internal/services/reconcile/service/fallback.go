package service

import (
	"strings"

	"github.com/paulmach/orb"

	"depotmap/internal/adapters/ingest/boundary"
	"depotmap/internal/core/areakey"
	perr "depotmap/internal/platform/errors"
	"depotmap/internal/services/reconcile/domain"
)

// refUnit is one target administrative unit from the reference boundary file.
// Units enumerate the full territory and carry the city-level geometry used
// as the per-unit fallback
type refUnit struct {
	key          areakey.Key
	municipality string
	muniCanon    string
	geometry     orb.Geometry
}

// buildUnits normalizes reference records into target units.
// A reference record with no identifier cannot anchor coverage, warn and skip
func buildUnits(keys *areakey.Normalizer, recs []boundary.Record) ([]*refUnit, []error) {
	var units []*refUnit
	var warns []error
	for _, r := range recs {
		k, err := keys.FromAttrs(r.Attrs)
		if err != nil {
			warns = append(warns, perr.WithRef(err, r.Source+"/"+r.Municipality))
			continue
		}
		units = append(units, &refUnit{
			key:          k,
			municipality: r.Municipality,
			muniCanon:    keys.CanonName(r.Municipality),
			geometry:     r.Geometry,
		})
	}
	return units, warns
}

// resolveFallback finds the reference units with no fine coverage and
// substitutes their city-level geometry. Fallback is per-unit: a municipality
// with partial fine coverage keeps its fine areas and only the specific
// missing units are filled.
//
// Returns the fallback areas and a parent map (area id -> reference unit)
// used for coverage checking and coarse-granularity baseline matching
func resolveFallback(
	keys *areakey.Normalizer,
	units []*refUnit,
	fine []*domain.AdminArea,
) ([]*domain.AdminArea, map[string]*refUnit, error) {
	byMuni := make(map[string]*refUnit, len(units))
	for _, u := range units {
		if u.muniCanon != "" {
			byMuni[u.muniCanon] = u
		}
	}

	parents := make(map[string]*refUnit, len(fine)+len(units))
	covered := make(map[string]bool, len(units))

	for _, a := range fine {
		u := parentOf(a, units, byMuni, keys)
		if u == nil {
			continue // fine territory outside the reference set, matcher still sees it
		}
		parents[a.AreaID] = u
		covered[u.key.ID] = true
	}

	var fallbacks []*domain.AdminArea
	for _, u := range units {
		if covered[u.key.ID] {
			continue
		}
		if u.geometry == nil {
			return nil, nil, perr.WithRef(
				perr.CoverageGapf("reference unit %q (%s) has no fallback geometry", u.key.ID, u.municipality),
				u.key.ID,
			)
		}
		a := &domain.AdminArea{
			AreaID:       u.key.ID,
			AreaName:     u.municipality,
			Municipality: u.municipality,
			Geometry:     u.geometry,
			Granularity:  domain.GranularityFallbackCity,
			Key:          u.key,
			Keys:         []areakey.Key{u.key},
		}
		parents[a.AreaID] = u
		fallbacks = append(fallbacks, a)
	}

	return fallbacks, parents, nil
}

// parentOf resolves the enclosing reference unit for a fine area.
// National key codes nest lexically (a town key extends its municipality
// code), so a code-prefix match is tried first, then the municipality name
func parentOf(
	a *domain.AdminArea,
	units []*refUnit,
	byMuni map[string]*refUnit,
	keys *areakey.Normalizer,
) *refUnit {
	var best *refUnit
	for _, u := range units {
		if u.key.Kind == areakey.KindName {
			continue
		}
		if !strings.HasPrefix(a.AreaID, u.key.ID) {
			continue
		}
		// the longest matching code prefix is the nearest enclosing unit
		if best == nil || len(u.key.ID) > len(best.key.ID) {
			best = u
		}
	}
	if best != nil {
		return best
	}
	if a.Municipality == "" {
		return nil
	}
	return byMuni[keys.CanonName(a.Municipality)]
}
