// Package domain holds the reconciled area model shared by the pipeline and the API
package domain

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"depotmap/internal/core/areakey"
)

// Granularity flags where a feature's geometry came from
type Granularity string

const (
	// GranularityFine is town/block-level geometry from a fine source
	GranularityFine Granularity = "fine"
	// GranularityFallbackCity is city-level reference geometry substituted
	// where fine data was missing
	GranularityFallbackCity Granularity = "fallback_city"
)

// AdminArea is one administrative polygon unit in the reconciled output.
// The set is rebuilt whole on every regeneration run; only DepotCode and
// DepotName mutate afterwards, through the assignment workflow
type AdminArea struct {
	AreaID       string
	AreaName     string
	Municipality string
	Geometry     orb.Geometry
	Granularity  Granularity
	// DepotCode is a canonical code or empty for unassigned, never a raw label
	DepotCode string
	DepotName string
	// InScope false freezes the depot assignment downstream
	InScope bool

	// Key records which identifier family AreaID derived from
	Key areakey.Key
	// Keys holds every candidate identifier from the source attributes,
	// priority order, head equals Key. The baseline matcher uses the full list
	Keys []areakey.Key
}

// Warning is one collected non-fatal condition, report form
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

// Report is the structured warning report emitted beside the collection.
// Silent partial failure is the main risk this pipeline guards against, so
// the report is part of the output contract
type Report struct {
	RunID           string         `json:"run_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Sources         []string       `json:"sources"`
	AreaCount       int            `json:"area_count"`
	FallbackCount   int            `json:"fallback_count"`
	OutOfScopeCount int            `json:"out_of_scope_count"`
	UnassignedCount int            `json:"unassigned_count"`
	WarningCounts   map[string]int `json:"warning_counts"`
	Warnings        []Warning      `json:"warnings"`
}

// Result is one regeneration run's output
type Result struct {
	RunID  string
	Areas  []*AdminArea
	Report Report
}

// Feature converts an area to its GeoJSON output form.
// Properties carry exactly the published contract fields
func (a *AdminArea) Feature() *geojson.Feature {
	ft := geojson.NewFeature(a.Geometry)
	ft.Properties = geojson.Properties{
		"area_id":              a.AreaID,
		"area_name":            a.AreaName,
		"municipality":         a.Municipality,
		"depot_code":           nullable(a.DepotCode),
		"depot_name":           nullable(a.DepotName),
		"in_scope":             a.InScope,
		"geometry_granularity": string(a.Granularity),
	}
	return ft
}

// Collection converts the full area set to a FeatureCollection in order
func (r *Result) Collection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range r.Areas {
		fc.Append(a.Feature())
	}
	return fc
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
