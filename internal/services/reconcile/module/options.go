package module

import (
	"depotmap/internal/platform/config"
)

// Options holds reconcile configuration read from env
type Options struct {
	ReferencePath string
	BaselinePath  string
	OutPath       string
	ReportPath    string
	Workers       int
}

// FromConfig reads reconcile options with the DEPOT_RECONCILE_ prefix
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("DEPOT_RECONCILE_")
	return Options{
		ReferencePath: rc.MayString("REFERENCE", ""),
		BaselinePath:  rc.MayString("BASELINE", ""),
		OutPath:       rc.MayString("OUT", "out/admin_areas.geojson"),
		ReportPath:    rc.MayString("REPORT", "out/report.json"),
		Workers:       rc.MayInt("WORKERS", 4),
	}
}
