package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"depotmap/internal/core/areakey"
	perr "depotmap/internal/platform/errors"
	"depotmap/internal/platform/logger"
)

// UnassignedMarker is the N03 municipality value for territory not attributed
// to any municipality. Reference records carrying it are loaded, downstream
// scope marking decides what to do with them
const UnassignedMarker = "所属未定地"

// N03 attribute fields within the reference boundary file
const (
	n03Pref = "N03_001"
	n03City = "N03_004"
	n03Ward = "N03_005"
	n03Code = "N03_007"
)

// ReferenceSource reads an N03 prefecture GeoJSON and merges its features
// into one record per municipality code. N03 files carry one feature per
// ring, so islands and exclaves of one municipality arrive as separate
// features and are folded into a MultiPolygon here
type ReferenceSource struct {
	Path string
}

// NewReferenceSource constructs a ReferenceSource for path
func NewReferenceSource(path string) *ReferenceSource { return &ReferenceSource{Path: path} }

// Name returns the loader name stamped on records
func (s *ReferenceSource) Name() string { return "n03-reference" }

// Load reads, groups, and merges the reference file.
// A missing or unparseable file is fatal, the reference defines the target territory
func (s *ReferenceSource) Load(ctx context.Context) ([]Record, []error, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("boundary: read reference %s: %w", s.Path, err)
	}

	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, nil, fmt.Errorf("boundary: parse reference %s: %w", s.Path, err)
	}

	type group struct {
		attrs        areakey.Attrs
		municipality string
		polys        orb.MultiPolygon
	}
	groups := map[string]*group{}
	var warns []error

	for i, rawFt := range fc.Features {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		ft, err := geojson.UnmarshalFeature(rawFt)
		if err != nil {
			warns = append(warns, perr.WithRef(
				perr.GeometryParsef("reference feature %d: %v", i, err),
				fmt.Sprintf("%s#%d", s.Path, i),
			))
			continue
		}

		attrs := stringifyProps(ft.Properties)
		code := attrs[n03Code]
		muni := municipalityOf(attrs)
		if code == "" || muni == "" {
			// N03 carries sliver features with no code, same as the upstream data docs describe
			continue
		}

		polys, ok := asPolygons(ft.Geometry)
		if !ok {
			warns = append(warns, perr.WithRef(
				perr.GeometryParsef("reference feature %d: geometry is %T, want polygonal", i, ft.Geometry),
				fmt.Sprintf("%s#%d", s.Path, i),
			))
			continue
		}

		g, exists := groups[code]
		if !exists {
			g = &group{attrs: attrs, municipality: muni}
			groups[code] = g
		}
		g.polys = append(g.polys, polys...)
	}

	codes := make([]string, 0, len(groups))
	for c := range groups {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	recs := make([]Record, 0, len(codes))
	for _, c := range codes {
		g := groups[c]
		var geom orb.Geometry = g.polys
		if len(g.polys) == 1 {
			geom = g.polys[0]
		}
		recs = append(recs, Record{
			Source:       s.Name(),
			Attrs:        g.attrs,
			Name:         g.municipality,
			Municipality: g.municipality,
			Geometry:     geom,
		})
	}

	logger.Named("boundary").Debug().
		Str("path", s.Path).
		Int("features", len(fc.Features)).
		Int("municipalities", len(recs)).
		Int("warnings", len(warns)).
		Msg("reference loaded")

	return recs, warns, nil
}

// municipalityOf composes the municipality display name from city and ward fields
func municipalityOf(attrs areakey.Attrs) string {
	city := attrs[n03City]
	ward := attrs[n03Ward]
	if city != "" && ward != "" {
		return city + ward
	}
	return city
}

// asPolygons lifts a polygonal geometry into a MultiPolygon slice
func asPolygons(g orb.Geometry) (orb.MultiPolygon, bool) {
	switch t := g.(type) {
	case orb.Polygon:
		if len(t) == 0 {
			return nil, false
		}
		return orb.MultiPolygon{t}, true
	case orb.MultiPolygon:
		if len(t) == 0 {
			return nil, false
		}
		return t, true
	default:
		return nil, false
	}
}
