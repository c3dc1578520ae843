// Package boundary loads administrative boundary geometry from heterogeneous
// source files into a uniform (raw attributes, geometry) record stream.
//
// Each source type knows which attribute fields carry code, name, and
// municipality information and passes the values through unmodified; nothing
// in this package canonicalizes identifiers. Malformed geometry fails that
// one record with a collected warning, never the whole source
package boundary

import (
	"context"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"depotmap/internal/core/areakey"
)

// Record is one boundary unit as read from a source, untouched by normalization
type Record struct {
	// Source is the loader name the record came from
	Source string
	// Attrs is the raw attribute bag, values stringified verbatim
	Attrs areakey.Attrs
	// Name is the raw display name attribute for this unit
	Name string
	// Municipality is the raw enclosing city/ward attribute
	Municipality string
	// Geometry is WGS84 lon/lat, Polygon or MultiPolygon
	Geometry orb.Geometry
}

// Source yields boundary records from one input file.
// warns carries per-record conditions (malformed geometry, missing rings);
// err is reserved for unreadable or structurally broken inputs and is fatal
type Source interface {
	Name() string
	Load(ctx context.Context) (recs []Record, warns []error, err error)
}

// stringifyProps flattens GeoJSON properties into the raw string bag the
// identifier normalizer consumes. Scalars only; nested values are dropped
func stringifyProps(props geojson.Properties) areakey.Attrs {
	out := make(areakey.Attrs, len(props))
	for k, v := range props {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		case nil:
			// leave absent so key derivation skips it
		}
	}
	return out
}

// polygonal reports whether g is a Polygon or MultiPolygon with content
func polygonal(g orb.Geometry) bool {
	switch t := g.(type) {
	case orb.Polygon:
		return len(t) > 0
	case orb.MultiPolygon:
		return len(t) > 0
	default:
		return false
	}
}
