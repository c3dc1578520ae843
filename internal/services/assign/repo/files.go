// Package repo loads the reconciled flat files the assignment service serves.
// The reconcile binary writes them; this side only reads
package repo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"depotmap/internal/platform/logger"
	recdom "depotmap/internal/services/reconcile/domain"
)

// Load reads the annotated FeatureCollection and, when present, the warning
// report beside it. The collection is required; a missing report only logs
func Load(collectionPath, reportPath string) (*recdom.Result, error) {
	raw, err := os.ReadFile(collectionPath)
	if err != nil {
		return nil, fmt.Errorf("assign: read collection %s: %w", collectionPath, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("assign: parse collection %s: %w", collectionPath, err)
	}

	res := &recdom.Result{}
	for i, ft := range fc.Features {
		props := ft.Properties
		a := &recdom.AdminArea{
			AreaID:       propString(props, "area_id"),
			AreaName:     propString(props, "area_name"),
			Municipality: propString(props, "municipality"),
			Geometry:     ft.Geometry,
			Granularity:  recdom.Granularity(propString(props, "geometry_granularity")),
			DepotCode:    propString(props, "depot_code"),
			DepotName:    propString(props, "depot_name"),
			InScope:      propBool(props, "in_scope"),
		}
		if a.AreaID == "" {
			return nil, fmt.Errorf("assign: collection %s feature %d has no area_id", collectionPath, i)
		}
		res.Areas = append(res.Areas, a)
	}

	if reportPath != "" {
		rep, err := os.ReadFile(reportPath)
		if err != nil {
			logger.Named("assign").Warn().
				Str("path", reportPath).
				Err(err).
				Msg("report not loaded, serving an empty one")
		} else if err := json.Unmarshal(rep, &res.Report); err != nil {
			return nil, fmt.Errorf("assign: parse report %s: %w", reportPath, err)
		}
	}
	res.RunID = res.Report.RunID

	return res, nil
}

func propString(p geojson.Properties, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func propBool(p geojson.Properties, key string) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return false
}
