package boundary

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"

	perr "depotmap/internal/platform/errors"
	"depotmap/internal/platform/logger"
)

// Schema names which attribute fields a fine-grained source uses.
// Region archives disagree on field naming, so each source carries its own
type Schema struct {
	// ID is the schema name used in flags and logs
	ID string
	// NameField carries the town/block display name
	NameField string
	// MunicipalityField carries the enclosing city/ward name
	MunicipalityField string
}

// schemas known to the loader, keyed by the name used in -source flags
var schemas = map[string]Schema{
	// e-Stat statistical boundary archives (town/block level)
	"estat-town": {ID: "estat-town", NameField: "S_NAME", MunicipalityField: "CITY_NAME"},
	// older in-house town exports still circulating for one region
	"legacy-town": {ID: "legacy-town", NameField: "NAME", MunicipalityField: "CITY"},
}

// SchemaByID returns a registered fine-source schema
func SchemaByID(id string) (Schema, bool) {
	s, ok := schemas[id]
	return s, ok
}

// SchemaIDs returns the registered schema names for flag help text
func SchemaIDs() []string {
	out := make([]string, 0, len(schemas))
	for id := range schemas {
		out = append(out, id)
	}
	return out
}

// TownSource reads one fine-grained boundary input: either a bare GeoJSON
// file or a zip archive containing GeoJSON entries (the e-Stat distribution
// form). Records pass through with raw attributes, one per feature
type TownSource struct {
	SourceName string
	Path       string
	Schema     Schema
}

// NewTownSource constructs a TownSource for path using the named schema
func NewTownSource(name, path string, schema Schema) *TownSource {
	return &TownSource{SourceName: name, Path: path, Schema: schema}
}

// Name returns the loader name stamped on records
func (s *TownSource) Name() string { return s.SourceName }

// Load reads the input, collecting per-feature geometry conditions as warnings.
// An unreadable file or archive is fatal
func (s *TownSource) Load(ctx context.Context) ([]Record, []error, error) {
	var recs []Record
	var warns []error

	if strings.HasSuffix(strings.ToLower(s.Path), ".zip") {
		zr, err := zip.OpenReader(s.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("boundary: open archive %s: %w", s.Path, err)
		}
		defer zr.Close()

		entries := 0
		for _, f := range zr.File {
			lower := strings.ToLower(f.Name)
			if !strings.HasSuffix(lower, ".geojson") && !strings.HasSuffix(lower, ".json") {
				continue
			}
			entries++
			rc, err := f.Open()
			if err != nil {
				return nil, nil, fmt.Errorf("boundary: open archive entry %s in %s: %w", f.Name, s.Path, err)
			}
			raw, err := io.ReadAll(rc)
			cerr := rc.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("boundary: read archive entry %s in %s: %w", f.Name, s.Path, err)
			}
			if cerr != nil {
				return nil, nil, fmt.Errorf("boundary: close archive entry %s in %s: %w", f.Name, s.Path, cerr)
			}
			r, w, err := s.parseCollection(ctx, raw, s.Path+"!"+f.Name)
			if err != nil {
				return nil, nil, err
			}
			recs = append(recs, r...)
			warns = append(warns, w...)
		}
		if entries == 0 {
			return nil, nil, fmt.Errorf("boundary: archive %s has no geojson entries", s.Path)
		}
	} else {
		raw, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("boundary: read source %s: %w", s.Path, err)
		}
		recs, warns, err = s.parseCollection(ctx, raw, s.Path)
		if err != nil {
			return nil, nil, err
		}
	}

	logger.Named("boundary").Debug().
		Str("source", s.SourceName).
		Str("schema", s.Schema.ID).
		Str("path", s.Path).
		Int("records", len(recs)).
		Int("warnings", len(warns)).
		Msg("fine source loaded")

	return recs, warns, nil
}

func (s *TownSource) parseCollection(ctx context.Context, raw []byte, ref string) ([]Record, []error, error) {
	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, nil, fmt.Errorf("boundary: parse source %s: %w", ref, err)
	}

	var recs []Record
	var warns []error
	for i, rawFt := range fc.Features {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		ft, err := geojson.UnmarshalFeature(rawFt)
		if err != nil {
			warns = append(warns, perr.WithRef(
				perr.GeometryParsef("source %s feature %d: %v", s.SourceName, i, err),
				fmt.Sprintf("%s#%d", ref, i),
			))
			continue
		}
		if !polygonal(ft.Geometry) {
			warns = append(warns, perr.WithRef(
				perr.GeometryParsef("source %s feature %d: geometry is %T, want polygonal", s.SourceName, i, ft.Geometry),
				fmt.Sprintf("%s#%d", ref, i),
			))
			continue
		}

		attrs := stringifyProps(ft.Properties)
		recs = append(recs, Record{
			Source:       s.SourceName,
			Attrs:        attrs,
			Name:         attrs[s.Schema.NameField],
			Municipality: attrs[s.Schema.MunicipalityField],
			Geometry:     ft.Geometry,
		})
	}
	return recs, warns, nil
}
